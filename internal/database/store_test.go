package database_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nursery-tracker/internal/database"
	"nursery-tracker/internal/models"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(filepath.Join(t.TempDir(), "nursery.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, database.NewMigrator(store).Run(context.Background()))
	return store
}

func testProject(id string, lastUpdated string) *models.Project {
	return &models.Project{
		ID:              id,
		Name:            "Hydrangea Little Lime · 3G",
		OverallStatus:   "Healthy",
		House:           "TBD",
		PlantShape:      "TBD",
		WaterStatus:     "TBD",
		PestPresence:    "None",
		DiseasePresence: "None",
		Quantity:        "TBD",
		RootStructure:   "TBD",
		NutrientStatus:  "TBD",
		ActionRequired:  "TBD",
		Priority:        "Medium",
		RetailReady:     "Not yet available",
		RetailTimeline:  "TBD",
		LastUpdated:     lastUpdated,
	}
}

func TestCreateAndGetProject(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := testProject("hydrangea-3g", "2025-03-01")
	require.NoError(t, store.CreateProject(ctx, p))

	got, err := store.GetProject(ctx, "hydrangea-3g")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestCreateProjectDuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateProject(ctx, testProject("maple-1g", "2025-03-01")))

	dup := testProject("maple-1g", "2025-04-01")
	dup.Name = "Something else"
	err := store.CreateProject(ctx, dup)
	assert.ErrorIs(t, err, models.ErrDuplicateID)

	// The original record is untouched.
	got, err := store.GetProject(ctx, "maple-1g")
	require.NoError(t, err)
	assert.Equal(t, "Hydrangea Little Lime · 3G", got.Name)
	assert.Equal(t, "2025-03-01", got.LastUpdated)
}

func TestGetProjectNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetProject(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListProjectsOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Two distinct dates plus a same-date pair to exercise the tie-break.
	require.NoError(t, store.CreateProject(ctx, testProject("a", "2025-01-01")))
	require.NoError(t, store.CreateProject(ctx, testProject("b", "2025-02-01")))
	require.NoError(t, store.CreateProject(ctx, testProject("c", "2025-02-01")))

	projects, err := store.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)

	// last_updated descending, insertion order within equal dates.
	assert.Equal(t, "b", projects[0].ID)
	assert.Equal(t, "c", projects[1].ID)
	assert.Equal(t, "a", projects[2].ID)
}

func TestUpdateProjectStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateProject(ctx, testProject("azalea-1g", "2020-01-01")))

	fields := models.StatusFields{
		OverallStatus:   "Needs Attention",
		House:           "GH-2",
		PlantShape:      "Rounded",
		WaterStatus:     "Dry",
		PestPresence:    "Little",
		DiseasePresence: "None",
		Quantity:        "250",
		RootStructure:   "Good",
		NutrientStatus:  "Low nitrogen",
		PestType:        "Aphids",
		DiseaseType:     "",
		ActionRequired:  "Water and treat for aphids",
		Priority:        "High",
		RetailReady:     "Not yet available",
		RetailTimeline:  "Spring 2026",
	}
	require.NoError(t, store.UpdateProjectStatus(ctx, "azalea-1g", fields))

	got, err := store.GetProject(ctx, "azalea-1g")
	require.NoError(t, err)
	assert.Equal(t, "Needs Attention", got.OverallStatus)
	assert.Equal(t, "GH-2", got.House)
	assert.Equal(t, "Aphids", got.PestType)
	assert.Equal(t, "High", got.Priority)
	assert.Equal(t, time.Now().Format("2006-01-02"), got.LastUpdated)
}

func TestUpdateProjectStatusNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateProjectStatus(context.Background(), "missing", models.StatusFields{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSetProjectHeaderImage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateProject(ctx, testProject("p", "2025-01-01")))

	key := sql.NullString{String: "projects/p/header_abc.jpg", Valid: true}
	require.NoError(t, store.SetProjectHeaderImage(ctx, "p", key))

	got, err := store.GetProject(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, key, got.HeaderImageKey)

	// Clearing works too, and only this field changed.
	require.NoError(t, store.SetProjectHeaderImage(ctx, "p", sql.NullString{}))
	got, err = store.GetProject(ctx, "p")
	require.NoError(t, err)
	assert.False(t, got.HeaderImageKey.Valid)
	assert.Equal(t, "2025-01-01", got.LastUpdated)
}

func TestAddAndListPhotos(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateProject(ctx, testProject("p", "2025-01-01")))

	first, err := store.AddPhoto(ctx, "p", "projects/p/one.jpg", "Week one", "Alice Smith")
	require.NoError(t, err)
	second, err := store.AddPhoto(ctx, "p", "projects/p/two.jpg", "", "Alice Smith")
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, models.DefaultCaption, second.Caption)

	photos, err := store.ListPhotosForProject(ctx, "p")
	require.NoError(t, err)
	require.Len(t, photos, 2)

	// Newest first: same-day uploads fall back to descending id.
	assert.Equal(t, second.ID, photos[0].ID)
	assert.Equal(t, first.ID, photos[1].ID)
}

func TestDeletePhoto(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateProject(ctx, testProject("p", "2025-01-01")))
	photo, err := store.AddPhoto(ctx, "p", "projects/p/one.jpg", "", "Bob")
	require.NoError(t, err)

	require.NoError(t, store.DeletePhoto(ctx, photo.ID))

	photos, err := store.ListPhotosForProject(ctx, "p")
	require.NoError(t, err)
	assert.Empty(t, photos)

	assert.ErrorIs(t, store.DeletePhoto(ctx, photo.ID), models.ErrNotFound)
}

func TestAddAndListComments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateProject(ctx, testProject("p", "2025-01-01")))

	first, err := store.AddComment(ctx, "p", "Alice Smith", "Looks good!")
	require.NoError(t, err)
	second, err := store.AddComment(ctx, "p", "Bob", "Needs more water")
	require.NoError(t, err)

	comments, err := store.ListCommentsForProject(ctx, "p")
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// Most recent first.
	assert.Equal(t, second.ID, comments[0].ID)
	assert.Equal(t, "Needs more water", comments[0].Text)
	assert.Equal(t, first.ID, comments[1].ID)
	assert.False(t, comments[0].DateAdded.Before(comments[1].DateAdded))
}
