package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"nursery-tracker/internal/database"
	"nursery-tracker/internal/models"
	"nursery-tracker/internal/storage"
)

// ProjectService coordinates the relational store and the external blob
// store so photo lifecycle operations never leave a record pointing at a
// missing blob. It holds no state of its own; UI session state stays in the
// client.
type ProjectService struct {
	store *database.Store
	blobs storage.BlobStore
}

func NewProjectService(store *database.Store, blobs storage.BlobStore) *ProjectService {
	return &ProjectService{
		store: store,
		blobs: blobs,
	}
}

// CreateProject inserts a new project under the caller-chosen id with every
// status field at its documented default.
func (s *ProjectService) CreateProject(ctx context.Context, id, name string) (*models.Project, error) {
	if id == "" {
		return nil, fmt.Errorf("project id is required: %w", models.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("project name is required: %w", models.ErrValidation)
	}

	p := &models.Project{
		ID:              id,
		Name:            name,
		OverallStatus:   "Healthy",
		House:           "TBD",
		PlantShape:      "TBD",
		WaterStatus:     "TBD",
		PestPresence:    "None",
		DiseasePresence: "None",
		Quantity:        "TBD",
		RootStructure:   "TBD",
		NutrientStatus:  "TBD",
		PestType:        "",
		DiseaseType:     "",
		ActionRequired:  "TBD",
		Priority:        "Medium",
		RetailReady:     "Not yet available",
		RetailTimeline:  "TBD",
		LastUpdated:     time.Now().Format("2006-01-02"),
	}
	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return s.store.GetProject(ctx, id)
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.store.ListProjects(ctx)
}

func (s *ProjectService) ListPhotos(ctx context.Context, projectID string) ([]models.Photo, error) {
	return s.store.ListPhotosForProject(ctx, projectID)
}

func (s *ProjectService) ListComments(ctx context.Context, projectID string) ([]models.Comment, error) {
	return s.store.ListCommentsForProject(ctx, projectID)
}

// UpdateStatus replaces the project's mutable status fields in full.
// Enumerated fields must carry a legal value.
func (s *ProjectService) UpdateStatus(ctx context.Context, id string, f models.StatusFields) error {
	if err := validateStatusFields(f); err != nil {
		return err
	}
	return s.store.UpdateProjectStatus(ctx, id, f)
}

// UploadPhoto stores the blob first and records the photo only once the
// blob is safely in the store. If the record write then fails the blob is
// orphaned; that is accepted, the reverse (a record with no blob) is not.
func (s *ProjectService) UploadPhoto(ctx context.Context, projectID string, data []byte, filename, mimeType, caption, author string) (*models.Photo, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("photo data is required: %w", models.ErrValidation)
	}
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("projects/%s/%s_%s", projectID, uuid.New().String(), filename)
	if err := s.blobs.Upload(ctx, data, key, mimeType); err != nil {
		return nil, err
	}

	photo, err := s.store.AddPhoto(ctx, projectID, key, caption, author)
	if err != nil {
		// The blob stays behind; cleaning it up here could race a slow
		// store write and is not worth it for this tool.
		log.Printf("Photo record write failed after upload, blob %s orphaned: %v", key, err)
		return nil, err
	}
	return photo, nil
}

// DeletePhoto removes the blob and then the record. When the blob delete
// fails the record is kept and the error surfaced, so a listed photo always
// has backing content.
func (s *ProjectService) DeletePhoto(ctx context.Context, photoID int64) error {
	photo, err := s.store.GetPhoto(ctx, photoID)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, photo.BlobKey); err != nil {
		return err
	}
	return s.store.DeletePhoto(ctx, photoID)
}

// SetHeaderImage uploads the new header blob, repoints the project at it and
// only then deletes the previous blob. The project never points at a deleted
// blob; at worst a replaced blob is orphaned.
func (s *ProjectService) SetHeaderImage(ctx context.Context, projectID string, data []byte, filename, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image data is required: %w", models.ErrValidation)
	}
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("projects/%s/header_%s_%s", projectID, uuid.New().String(), filename)
	if err := s.blobs.Upload(ctx, data, key, mimeType); err != nil {
		return "", err
	}

	if err := s.store.SetProjectHeaderImage(ctx, projectID, sql.NullString{String: key, Valid: true}); err != nil {
		return "", err
	}

	if project.HeaderImageKey.Valid {
		if err := s.blobs.Delete(ctx, project.HeaderImageKey.String); err != nil {
			log.Printf("Failed to delete replaced header blob %s: %v", project.HeaderImageKey.String, err)
		}
	}
	return key, nil
}

// PhotoContent fetches the full-size blob backing a photo record.
func (s *ProjectService) PhotoContent(ctx context.Context, photoID int64) (*models.Photo, []byte, error) {
	photo, err := s.store.GetPhoto(ctx, photoID)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.blobs.Download(ctx, photo.BlobKey)
	if err != nil {
		return nil, nil, err
	}
	return photo, data, nil
}

func (s *ProjectService) AddComment(ctx context.Context, projectID, author, text string) (*models.Comment, error) {
	if author == "" {
		return nil, fmt.Errorf("comment author is required: %w", models.ErrValidation)
	}
	if text == "" {
		return nil, fmt.Errorf("comment text is required: %w", models.ErrValidation)
	}
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.AddComment(ctx, projectID, author, text)
}

func validateStatusFields(f models.StatusFields) error {
	if !contains(models.OverallStatuses, f.OverallStatus) {
		return fmt.Errorf("invalid overall_status %q: %w", f.OverallStatus, models.ErrValidation)
	}
	if !contains(models.PresenceLevels, f.PestPresence) {
		return fmt.Errorf("invalid pest_presence %q: %w", f.PestPresence, models.ErrValidation)
	}
	if !contains(models.PresenceLevels, f.DiseasePresence) {
		return fmt.Errorf("invalid disease_presence %q: %w", f.DiseasePresence, models.ErrValidation)
	}
	if !contains(models.Priorities, f.Priority) {
		return fmt.Errorf("invalid priority %q: %w", f.Priority, models.ErrValidation)
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
