package models

type CreateProjectRequest struct {
	// ID is the user-chosen project slug, unique and immutable.
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UpdateStatusRequest struct {
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
}

type AddCommentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
