package models

import (
	"database/sql"
	"time"
)

// Enumerated status values accepted by the store. The strings are persisted
// as-is, so changing them is a schema change.
var (
	OverallStatuses = []string{"Healthy", "Needs Attention", "Critical"}
	PresenceLevels  = []string{"None", "Little", "Moderate", "High"}
	Priorities      = []string{"Low", "Medium", "High", "Urgent"}
)

// Project is one tracked nursery batch. ID is a user-chosen slug, unique and
// immutable once created; projects are never deleted.
type Project struct {
	ID              string
	Name            string
	OverallStatus   string
	House           string
	PlantShape      string
	WaterStatus     string
	PestPresence    string
	DiseasePresence string
	Quantity        string
	RootStructure   string
	NutrientStatus  string
	PestType        string
	DiseaseType     string
	ActionRequired  string
	Priority        string
	RetailReady     string
	RetailTimeline  string
	HeaderImageKey  sql.NullString
	LastUpdated     string // YYYY-MM-DD
}

// StatusFields is the mutable slice of a Project: everything except id, name
// and the header image. UpdateProjectStatus replaces all of them at once.
type StatusFields struct {
	OverallStatus   string
	House           string
	PlantShape      string
	WaterStatus     string
	PestPresence    string
	DiseasePresence string
	Quantity        string
	RootStructure   string
	NutrientStatus  string
	PestType        string
	DiseaseType     string
	ActionRequired  string
	Priority        string
	RetailReady     string
	RetailTimeline  string
}

// DefaultCaption is stored when a photo is uploaded without one.
const DefaultCaption = "No caption provided"

type Photo struct {
	ID        int64
	ProjectID string
	BlobKey   string
	Caption   string
	Author    string
	DateAdded string // YYYY-MM-DD
}

type Comment struct {
	ID        int64
	ProjectID string
	Author    string
	Text      string
	DateAdded time.Time
}
