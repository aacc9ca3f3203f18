package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"nursery-tracker/internal/models"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// Store is the single file-backed relational store holding projects, photos
// and comments. One process, one writer: the connection pool is capped at a
// single connection.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and applies
// the connection pragmas. Callers must run Migrate before any other access.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// projectColumns is the exact persisted column order. External tools read
// the database file directly, so this order must not change.
const projectColumns = `id, name, overall_status, house, plant_shape, water_status,
	pest_presence, disease_presence, quantity, root_structure, nutrient_status,
	pest_type, disease_type, action_required, priority, retail_ready,
	retail_timeline, header_image_key, last_updated`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.Name, &p.OverallStatus, &p.House, &p.PlantShape,
		&p.WaterStatus, &p.PestPresence, &p.DiseasePresence, &p.Quantity,
		&p.RootStructure, &p.NutrientStatus, &p.PestType, &p.DiseaseType,
		&p.ActionRequired, &p.Priority, &p.RetailReady, &p.RetailTimeline,
		&p.HeaderImageKey, &p.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts the record as-is. Identity collisions surface as
// ErrDuplicateID straight from the primary key constraint; there is no
// check-then-insert window.
func (s *Store) CreateProject(ctx context.Context, p *models.Project) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.OverallStatus, p.House, p.PlantShape, p.WaterStatus,
		p.PestPresence, p.DiseasePresence, p.Quantity, p.RootStructure,
		p.NutrientStatus, p.PestType, p.DiseaseType, p.ActionRequired,
		p.Priority, p.RetailReady, p.RetailTimeline, p.HeaderImageKey,
		p.LastUpdated)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("project %q: %w", p.ID, models.ErrDuplicateID)
		}
		return fmt.Errorf("failed to create project: %v: %w", err, models.ErrStorage)
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = ?
	`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %q: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %v: %w", err, models.ErrStorage)
	}
	return p, nil
}

// ListProjects returns every project, most recently updated first. Equal
// dates keep insertion order (rowid).
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		ORDER BY last_updated DESC, rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %v: %w", err, models.ErrStorage)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %v: %w", err, models.ErrStorage)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %v: %w", err, models.ErrStorage)
	}
	return projects, nil
}

// UpdateProjectStatus replaces every mutable status field and stamps
// last_updated with the current date.
func (s *Store) UpdateProjectStatus(ctx context.Context, id string, f models.StatusFields) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET overall_status = ?, house = ?, plant_shape = ?, water_status = ?,
			pest_presence = ?, disease_presence = ?, quantity = ?,
			root_structure = ?, nutrient_status = ?, pest_type = ?,
			disease_type = ?, action_required = ?, priority = ?,
			retail_ready = ?, retail_timeline = ?, last_updated = ?
		WHERE id = ?
	`, f.OverallStatus, f.House, f.PlantShape, f.WaterStatus, f.PestPresence,
		f.DiseasePresence, f.Quantity, f.RootStructure, f.NutrientStatus,
		f.PestType, f.DiseaseType, f.ActionRequired, f.Priority,
		f.RetailReady, f.RetailTimeline, time.Now().Format(dateLayout), id)
	if err != nil {
		return fmt.Errorf("failed to update project status: %v: %w", err, models.ErrStorage)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update project status: %v: %w", err, models.ErrStorage)
	}
	if n == 0 {
		return fmt.Errorf("project %q: %w", id, models.ErrNotFound)
	}
	return nil
}

// SetProjectHeaderImage updates only the header_image_key column. An invalid
// NullString clears it.
func (s *Store) SetProjectHeaderImage(ctx context.Context, id string, blobKey sql.NullString) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET header_image_key = ? WHERE id = ?
	`, blobKey, id)
	if err != nil {
		return fmt.Errorf("failed to set header image: %v: %w", err, models.ErrStorage)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set header image: %v: %w", err, models.ErrStorage)
	}
	if n == 0 {
		return fmt.Errorf("project %q: %w", id, models.ErrNotFound)
	}
	return nil
}

func (s *Store) AddPhoto(ctx context.Context, projectID, blobKey, caption, author string) (*models.Photo, error) {
	if caption == "" {
		caption = models.DefaultCaption
	}
	dateAdded := time.Now().Format(dateLayout)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO photos (project_id, blob_key, caption, author, date_added)
		VALUES (?, ?, ?, ?, ?)
	`, projectID, blobKey, caption, author, dateAdded)
	if err != nil {
		return nil, fmt.Errorf("failed to add photo: %v: %w", err, models.ErrStorage)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to add photo: %v: %w", err, models.ErrStorage)
	}
	return &models.Photo{
		ID:        id,
		ProjectID: projectID,
		BlobKey:   blobKey,
		Caption:   caption,
		Author:    author,
		DateAdded: dateAdded,
	}, nil
}

func (s *Store) GetPhoto(ctx context.Context, photoID int64) (*models.Photo, error) {
	var p models.Photo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, blob_key, caption, author, date_added
		FROM photos WHERE id = ?
	`, photoID).Scan(&p.ID, &p.ProjectID, &p.BlobKey, &p.Caption, &p.Author, &p.DateAdded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("photo %d: %w", photoID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %v: %w", err, models.ErrStorage)
	}
	return &p, nil
}

// ListPhotosForProject returns the project's photos newest first. date_added
// has day granularity, so same-day uploads fall back to descending id.
func (s *Store) ListPhotosForProject(ctx context.Context, projectID string) ([]models.Photo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, blob_key, caption, author, date_added
		FROM photos
		WHERE project_id = ?
		ORDER BY date_added DESC, id DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %v: %w", err, models.ErrStorage)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var p models.Photo
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.BlobKey, &p.Caption, &p.Author, &p.DateAdded); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %v: %w", err, models.ErrStorage)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list photos: %v: %w", err, models.ErrStorage)
	}
	return photos, nil
}

func (s *Store) DeletePhoto(ctx context.Context, photoID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, photoID)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %v: %w", err, models.ErrStorage)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete photo: %v: %w", err, models.ErrStorage)
	}
	if n == 0 {
		return fmt.Errorf("photo %d: %w", photoID, models.ErrNotFound)
	}
	return nil
}

func (s *Store) AddComment(ctx context.Context, projectID, author, text string) (*models.Comment, error) {
	// Second granularity, UTC: the stored strings are fixed-width, so the
	// ORDER BY on date_added stays a correct time ordering. Same-second
	// comments are tie-broken by id.
	dateAdded := time.Now().UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (project_id, author, text, date_added)
		VALUES (?, ?, ?, ?)
	`, projectID, author, text, dateAdded.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %v: %w", err, models.ErrStorage)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %v: %w", err, models.ErrStorage)
	}
	return &models.Comment{
		ID:        id,
		ProjectID: projectID,
		Author:    author,
		Text:      text,
		DateAdded: dateAdded,
	}, nil
}

func (s *Store) ListCommentsForProject(ctx context.Context, projectID string) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, author, text, date_added
		FROM comments
		WHERE project_id = ?
		ORDER BY date_added DESC, id DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %v: %w", err, models.ErrStorage)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		var ts string
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Author, &c.Text, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %v: %w", err, models.ErrStorage)
		}
		c.DateAdded, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse comment date: %v: %w", err, models.ErrStorage)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list comments: %v: %w", err, models.ErrStorage)
	}
	return comments, nil
}

// isUniqueViolation reports whether err is a SQLite uniqueness constraint
// failure. The modernc driver exposes these only through the error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
