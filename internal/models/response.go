package models

import "time"

type ProjectResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	OverallStatus   string `json:"overall_status"`
	House           string `json:"house"`
	PlantShape      string `json:"plant_shape"`
	WaterStatus     string `json:"water_status"`
	PestPresence    string `json:"pest_presence"`
	DiseasePresence string `json:"disease_presence"`
	Quantity        string `json:"quantity"`
	RootStructure   string `json:"root_structure"`
	NutrientStatus  string `json:"nutrient_status"`
	PestType        string `json:"pest_type"`
	DiseaseType     string `json:"disease_type"`
	ActionRequired  string `json:"action_required"`
	Priority        string `json:"priority"`
	RetailReady     string `json:"retail_ready"`
	RetailTimeline  string `json:"retail_timeline"`
	HeaderImageKey  string `json:"header_image_key,omitempty"`
	HeaderImageURL  string `json:"header_image_url,omitempty"`
	LastUpdated     string `json:"last_updated"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// ProjectDetailResponse backs the detail view: the record plus its photo and
// comment threads, newest first.
type ProjectDetailResponse struct {
	Project  ProjectResponse   `json:"project"`
	Photos   []PhotoResponse   `json:"photos"`
	Comments []CommentResponse `json:"comments"`
}

type PhotoResponse struct {
	ID        int64  `json:"id"`
	ProjectID string `json:"project_id"`
	BlobKey   string `json:"blob_key"`
	URL       string `json:"url"`
	Caption   string `json:"caption"`
	Author    string `json:"author"`
	DateAdded string `json:"date_added"`
}

type PhotoListResponse struct {
	Photos []PhotoResponse `json:"photos"`
}

type CommentResponse struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	DateAdded time.Time `json:"date_added"`
}

type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
