package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"nursery-tracker/internal/models"
)

// markerColumn exists only in the current projects layout. Its presence
// means the schema is already current and the migrator must not touch
// anything.
const markerColumn = "plant_shape"

const legacyTable = "projects_legacy"

const createProjectsTable = `
	CREATE TABLE projects (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		overall_status   TEXT NOT NULL,
		house            TEXT NOT NULL,
		plant_shape      TEXT NOT NULL,
		water_status     TEXT NOT NULL,
		pest_presence    TEXT NOT NULL,
		disease_presence TEXT NOT NULL,
		quantity         TEXT NOT NULL,
		root_structure   TEXT NOT NULL,
		nutrient_status  TEXT NOT NULL,
		pest_type        TEXT NOT NULL,
		disease_type     TEXT NOT NULL,
		action_required  TEXT NOT NULL,
		priority         TEXT NOT NULL,
		retail_ready     TEXT NOT NULL,
		retail_timeline  TEXT NOT NULL,
		header_image_key TEXT,
		last_updated     TEXT NOT NULL
	)`

// fieldMapping drives the legacy upgrade: one entry per current status
// column, naming the legacy source column (empty when the field is new) and
// the value used when the source column is absent or NULL. Present values
// carry over verbatim, empty strings included; only the presence enums are
// range-checked afterwards. Deployed data depends on this mapping staying
// exactly as it is.
var fieldMapping = []struct {
	column string
	source string
	def    string
}{
	{"overall_status", "overall_status", "Healthy"},
	{"house", "greenhouse_location", "TBD"},
	{"plant_shape", "", "TBD"},
	{"water_status", "water_level", "TBD"},
	{"pest_presence", "pest_presence", "None"},
	{"disease_presence", "disease_presence", "None"},
	{"quantity", "", "TBD"},
	{"root_structure", "root_growth", "TBD"},
	{"nutrient_status", "soil_quality", "TBD"},
	{"pest_type", "", ""},
	{"disease_type", "", ""},
	{"action_required", "next_steps", "TBD"},
	{"priority", "", "Medium"},
	{"retail_ready", "retail_availability", "Not yet available"},
	{"retail_timeline", "", "TBD"},
}

// Migrator performs the one-shot upgrade of the projects table from the
// legacy column layout, then ensures the rest of the schema exists. It runs
// at startup before any other store access; a failed run is fatal.
type Migrator struct {
	db *sql.DB
}

func NewMigrator(s *Store) *Migrator {
	return &Migrator{db: s.db}
}

// Run upgrades the projects table if it still has the legacy layout and
// creates any missing tables. Safe to run on every startup: a current or
// fresh database is left untouched apart from CREATE TABLE IF NOT EXISTS.
func (m *Migrator) Run(ctx context.Context) error {
	columns, err := m.tableColumns(ctx, "projects")
	if err != nil {
		return fmt.Errorf("failed to inspect projects table: %v: %w", err, models.ErrMigrationFailed)
	}

	switch {
	case len(columns) == 0:
		// Fresh database, nothing to transform.
	case columns[markerColumn]:
		log.Println("Project schema already current, skipping migration")
	default:
		if err := m.upgradeLegacyProjects(ctx); err != nil {
			return fmt.Errorf("%v: %w", err, models.ErrMigrationFailed)
		}
	}

	if err := m.ensureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %v: %w", err, models.ErrMigrationFailed)
	}
	return nil
}

// upgradeLegacyProjects quarantines the old table, rebuilds the current one
// and copies every row through the field mapping. The whole run is one
// transaction: the quarantined table is dropped only after every row has
// been re-inserted, and any failure rolls everything back.
func (m *Migrator) upgradeLegacyProjects(ctx context.Context) error {
	log.Println("Legacy project schema detected, migrating")

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `ALTER TABLE projects RENAME TO `+legacyTable); err != nil {
		return fmt.Errorf("failed to quarantine legacy table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createProjectsTable); err != nil {
		return fmt.Errorf("failed to create projects table: %w", err)
	}

	// Drain the legacy rows fully before issuing the inserts: the
	// transaction owns the store's only connection, and a statement cannot
	// run while a cursor on that connection is still open.
	legacyRows, err := readLegacyRows(ctx, tx)
	if err != nil {
		return err
	}

	for _, old := range legacyRows {
		p := mapLegacyRow(old)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO projects (`+projectColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)
		`, p.ID, p.Name, p.OverallStatus, p.House, p.PlantShape,
			p.WaterStatus, p.PestPresence, p.DiseasePresence, p.Quantity,
			p.RootStructure, p.NutrientStatus, p.PestType, p.DiseaseType,
			p.ActionRequired, p.Priority, p.RetailReady, p.RetailTimeline,
			p.LastUpdated); err != nil {
			return fmt.Errorf("failed to insert migrated project %q: %w", p.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE `+legacyTable); err != nil {
		return fmt.Errorf("failed to drop legacy table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	log.Printf("Migrated %d project(s) to current schema", len(legacyRows))
	return nil
}

// readLegacyRows loads every quarantined row as a column-name → value map.
// All values are read as text; legacy columns with no mapping are simply
// never looked up.
func readLegacyRows(ctx context.Context, tx *sql.Tx) ([]map[string]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT * FROM `+legacyTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy rows: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy columns: %w", err)
	}

	var out []map[string]string
	for rows.Next() {
		values := make([]sql.NullString, len(names))
		dest := make([]any, len(names))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan legacy row: %w", err)
		}
		old := make(map[string]string, len(names))
		for i, name := range names {
			if values[i].Valid {
				old[name] = values[i].String
			}
		}
		out = append(out, old)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read legacy rows: %w", err)
	}
	return out, nil
}

// mapLegacyRow builds a current-layout project from whatever legacy columns
// the row carries, falling back to the documented defaults.
func mapLegacyRow(old map[string]string) *models.Project {
	pick := func(source, def string) string {
		if source != "" {
			if v, ok := old[source]; ok {
				return v
			}
		}
		return def
	}

	p := &models.Project{
		ID:          old["id"],
		Name:        old["name"],
		LastUpdated: pick("last_updated", ""),
	}
	// An empty date is no date.
	if p.LastUpdated == "" {
		p.LastUpdated = time.Now().Format(dateLayout)
	}

	fields := map[string]*string{
		"overall_status":   &p.OverallStatus,
		"house":            &p.House,
		"plant_shape":      &p.PlantShape,
		"water_status":     &p.WaterStatus,
		"pest_presence":    &p.PestPresence,
		"disease_presence": &p.DiseasePresence,
		"quantity":         &p.Quantity,
		"root_structure":   &p.RootStructure,
		"nutrient_status":  &p.NutrientStatus,
		"pest_type":        &p.PestType,
		"disease_type":     &p.DiseaseType,
		"action_required":  &p.ActionRequired,
		"priority":         &p.Priority,
		"retail_ready":     &p.RetailReady,
		"retail_timeline":  &p.RetailTimeline,
	}
	for _, fm := range fieldMapping {
		*fields[fm.column] = pick(fm.source, fm.def)
	}

	// Presence levels outside the legal set fall back to their default.
	if !contains(models.PresenceLevels, p.PestPresence) {
		p.PestPresence = "None"
	}
	if !contains(models.PresenceLevels, p.DiseasePresence) {
		p.DiseasePresence = "None"
	}

	return p
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// tableColumns returns the column set of the named table, or an empty map
// when the table does not exist.
func (m *Migrator) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}

func (m *Migrator) ensureSchema(ctx context.Context) error {
	ddl := []string{
		strings.Replace(createProjectsTable, "CREATE TABLE", "CREATE TABLE IF NOT EXISTS", 1),
		`CREATE TABLE IF NOT EXISTS photos (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id TEXT NOT NULL REFERENCES projects(id),
			blob_key   TEXT NOT NULL UNIQUE,
			caption    TEXT NOT NULL,
			author     TEXT NOT NULL,
			date_added TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_photos_project ON photos(project_id);`,
		`CREATE TABLE IF NOT EXISTS comments (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id TEXT NOT NULL REFERENCES projects(id),
			author     TEXT NOT NULL,
			text       TEXT NOT NULL,
			date_added TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_project ON comments(project_id);`,
	}
	for _, q := range ddl {
		if _, err := m.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
