// Package sqlitestore persists dashboard widgets and layout preferences in
// SQLite through the pure Go modernc driver.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-nexus/components/dashboard"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// Store implements dashboard.WidgetStore and dashboard.PreferenceStore.
type Store struct {
	db *sql.DB
}

var (
	_ dashboard.WidgetStore     = (*Store)(nil)
	_ dashboard.PreferenceStore = (*Store)(nil)
)

// Open connects to dsn ("file:nexus?mode=memory&cache=shared" or a file path).
// Call EnsureSchema before use.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS widget_areas (
			code TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS widget_definitions (
			code TEXT PRIMARY KEY,
			payload TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS widget_instances (
			id TEXT PRIMARY KEY,
			definition_id TEXT NOT NULL,
			configuration TEXT NOT NULL DEFAULT '{}',
			metadata TEXT NOT NULL DEFAULT '{}',
			roles TEXT NOT NULL DEFAULT '[]',
			start_at TEXT NOT NULL DEFAULT '',
			end_at TEXT NOT NULL DEFAULT '',
			created_ts TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
		`CREATE TABLE IF NOT EXISTS area_assignments (
			area_code TEXT NOT NULL,
			instance_id TEXT NOT NULL UNIQUE,
			position INTEGER NOT NULL,
			FOREIGN KEY(instance_id) REFERENCES widget_instances(id)
		);`,
		`CREATE TABLE IF NOT EXISTS layout_overrides (
			user_id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_ts TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *Store) EnsureArea(ctx context.Context, def dashboard.WidgetAreaDefinition) (bool, error) {
	exists, err := s.exists(ctx, `SELECT COUNT(1) FROM widget_areas WHERE code = ?`, def.Code)
	if err != nil {
		return false, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO widget_areas(code, name, description) VALUES(?,?,?)
		 ON CONFLICT(code) DO UPDATE SET name = excluded.name, description = excluded.description`,
		def.Code, def.Name, def.Description,
	); err != nil {
		return false, fmt.Errorf("ensure area %s: %w", def.Code, err)
	}
	return !exists, nil
}

func (s *Store) EnsureDefinition(ctx context.Context, def dashboard.WidgetDefinition) (bool, error) {
	payload, err := json.Marshal(def)
	if err != nil {
		return false, err
	}
	exists, err := s.exists(ctx, `SELECT COUNT(1) FROM widget_definitions WHERE code = ?`, def.Code)
	if err != nil {
		return false, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO widget_definitions(code, payload) VALUES(?,?)
		 ON CONFLICT(code) DO UPDATE SET payload = excluded.payload`,
		def.Code, string(payload),
	); err != nil {
		return false, fmt.Errorf("ensure definition %s: %w", def.Code, err)
	}
	return !exists, nil
}

func (s *Store) CreateInstance(ctx context.Context, input dashboard.CreateWidgetInstanceInput) (dashboard.WidgetInstance, error) {
	instance := dashboard.WidgetInstance{
		ID:            uuid.NewString(),
		DefinitionID:  input.DefinitionID,
		Configuration: input.Configuration,
		Metadata:      input.Metadata,
	}
	config, err := marshalObject(input.Configuration)
	if err != nil {
		return dashboard.WidgetInstance{}, err
	}
	meta, err := marshalObject(input.Metadata)
	if err != nil {
		return dashboard.WidgetInstance{}, err
	}
	roles, err := json.Marshal(nonNil(input.Visibility.Roles))
	if err != nil {
		return dashboard.WidgetInstance{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO widget_instances(id, definition_id, configuration, metadata, roles, start_at, end_at) VALUES(?,?,?,?,?,?,?)`,
		instance.ID, instance.DefinitionID, config, meta, string(roles),
		formatTime(input.Visibility.StartAt), formatTime(input.Visibility.EndAt),
	)
	if err != nil {
		return dashboard.WidgetInstance{}, fmt.Errorf("create instance: %w", err)
	}
	return instance, nil
}

func (s *Store) DeleteInstance(ctx context.Context, instanceID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	res, err := tx.ExecContext(ctx, `DELETE FROM widget_instances WHERE id = ?`, instanceID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dashboard.ErrWidgetNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM area_assignments WHERE instance_id = ?`, instanceID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) AssignInstance(ctx context.Context, input dashboard.AssignWidgetInput) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var found int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM widget_instances WHERE id = ?`, input.InstanceID).Scan(&found); err != nil {
		return err
	}
	if found == 0 {
		return dashboard.ErrWidgetNotFound
	}
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM widget_areas WHERE code = ?`, input.AreaCode).Scan(&found); err != nil {
		return err
	}
	if found == 0 {
		return dashboard.ErrAreaNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM area_assignments WHERE instance_id = ?`, input.InstanceID); err != nil {
		return err
	}
	order, err := areaOrder(ctx, tx, input.AreaCode)
	if err != nil {
		return err
	}
	idx := len(order)
	if input.Position != nil && *input.Position >= 0 && *input.Position <= len(order) {
		idx = *input.Position
	}
	next := make([]string, 0, len(order)+1)
	next = append(next, order[:idx]...)
	next = append(next, input.InstanceID)
	next = append(next, order[idx:]...)
	if err := writeOrder(ctx, tx, input.AreaCode, next); err != nil {
		return err
	}
	return tx.Commit()
}

// ReorderArea applies the requested order; unknown ids are ignored and
// unlisted assignments keep their relative order at the end.
func (s *Store) ReorderArea(ctx context.Context, input dashboard.ReorderAreaInput) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	current, err := areaOrder(ctx, tx, input.AreaCode)
	if err != nil {
		return err
	}
	assigned := make(map[string]bool, len(current))
	for _, id := range current {
		assigned[id] = true
	}
	next := make([]string, 0, len(current))
	seen := map[string]bool{}
	for _, id := range input.WidgetIDs {
		if assigned[id] && !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	for _, id := range current {
		if !seen[id] {
			next = append(next, id)
		}
	}
	if err := writeOrder(ctx, tx, input.AreaCode, next); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ResolveArea(ctx context.Context, input dashboard.ResolveAreaInput) (dashboard.ResolvedArea, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.definition_id, i.configuration, i.metadata, i.roles, i.start_at, i.end_at
		   FROM area_assignments a
		   JOIN widget_instances i ON i.id = a.instance_id
		  WHERE a.area_code = ?
		  ORDER BY a.position ASC`,
		input.AreaCode,
	)
	if err != nil {
		return dashboard.ResolvedArea{}, err
	}
	defer rows.Close()

	out := dashboard.ResolvedArea{AreaCode: input.AreaCode, Widgets: []dashboard.WidgetInstance{}}
	for rows.Next() {
		var (
			inst                            dashboard.WidgetInstance
			config, meta, roles, start, end string
		)
		if err := rows.Scan(&inst.ID, &inst.DefinitionID, &config, &meta, &roles, &start, &end); err != nil {
			return dashboard.ResolvedArea{}, err
		}
		visibility := dashboard.WidgetVisibility{StartAt: parseTime(start), EndAt: parseTime(end)}
		if err := json.Unmarshal([]byte(roles), &visibility.Roles); err != nil {
			return dashboard.ResolvedArea{}, fmt.Errorf("decode roles for %s: %w", inst.ID, err)
		}
		if !input.At.IsZero() && !visibility.Active(input.At) {
			continue
		}
		if !audienceMatches(visibility.Roles, input.Audience) {
			continue
		}
		if err := json.Unmarshal([]byte(config), &inst.Configuration); err != nil {
			return dashboard.ResolvedArea{}, fmt.Errorf("decode configuration for %s: %w", inst.ID, err)
		}
		if err := json.Unmarshal([]byte(meta), &inst.Metadata); err != nil {
			return dashboard.ResolvedArea{}, fmt.Errorf("decode metadata for %s: %w", inst.ID, err)
		}
		inst.AreaCode = input.AreaCode
		out.Widgets = append(out.Widgets, inst)
	}
	return out, rows.Err()
}

func (s *Store) Instance(ctx context.Context, instanceID string) (dashboard.WidgetInstance, error) {
	var (
		inst         dashboard.WidgetInstance
		config, meta string
		area         sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT i.id, i.definition_id, i.configuration, i.metadata, a.area_code
		   FROM widget_instances i
		   LEFT JOIN area_assignments a ON a.instance_id = i.id
		  WHERE i.id = ?`,
		instanceID,
	).Scan(&inst.ID, &inst.DefinitionID, &config, &meta, &area)
	if errors.Is(err, sql.ErrNoRows) {
		return dashboard.WidgetInstance{}, dashboard.ErrWidgetNotFound
	}
	if err != nil {
		return dashboard.WidgetInstance{}, err
	}
	if err := json.Unmarshal([]byte(config), &inst.Configuration); err != nil {
		return dashboard.WidgetInstance{}, fmt.Errorf("decode configuration for %s: %w", inst.ID, err)
	}
	if err := json.Unmarshal([]byte(meta), &inst.Metadata); err != nil {
		return dashboard.WidgetInstance{}, fmt.Errorf("decode metadata for %s: %w", inst.ID, err)
	}
	inst.AreaCode = area.String
	return inst, nil
}

func (s *Store) UpdateInstance(ctx context.Context, input dashboard.UpdateWidgetInstanceInput) (dashboard.WidgetInstance, error) {
	current, err := s.Instance(ctx, input.InstanceID)
	if err != nil {
		return dashboard.WidgetInstance{}, err
	}
	if input.Configuration != nil {
		current.Configuration = input.Configuration
	}
	if len(input.Metadata) > 0 {
		if current.Metadata == nil {
			current.Metadata = map[string]any{}
		}
		for k, v := range input.Metadata {
			current.Metadata[k] = v
		}
	}
	config, err := marshalObject(current.Configuration)
	if err != nil {
		return dashboard.WidgetInstance{}, err
	}
	meta, err := marshalObject(current.Metadata)
	if err != nil {
		return dashboard.WidgetInstance{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE widget_instances SET configuration = ?, metadata = ? WHERE id = ?`,
		config, meta, input.InstanceID,
	); err != nil {
		return dashboard.WidgetInstance{}, fmt.Errorf("update instance %s: %w", input.InstanceID, err)
	}
	return current, nil
}

// LayoutOverrides returns the saved overrides or an empty value.
func (s *Store) LayoutOverrides(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.LayoutOverrides, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM layout_overrides WHERE user_id = ?`, viewer.UserID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return dashboard.LayoutOverrides{}, nil
	}
	if err != nil {
		return dashboard.LayoutOverrides{}, err
	}
	var overrides dashboard.LayoutOverrides
	if err := json.Unmarshal([]byte(payload), &overrides); err != nil {
		return dashboard.LayoutOverrides{}, fmt.Errorf("decode overrides for %s: %w", viewer.UserID, err)
	}
	return overrides, nil
}

func (s *Store) SaveLayoutOverrides(ctx context.Context, viewer dashboard.ViewerContext, overrides dashboard.LayoutOverrides) error {
	if viewer.UserID == "" {
		return errors.New("sqlitestore: viewer user id required")
	}
	payload, err := json.Marshal(overrides)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO layout_overrides(user_id, payload, updated_ts) VALUES(?,?,?)
		 ON CONFLICT(user_id) DO UPDATE SET payload = excluded.payload, updated_ts = excluded.updated_ts`,
		viewer.UserID, string(payload), time.Now().UTC().Format(timeLayout),
	)
	return err
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func areaOrder(ctx context.Context, q queryer, area string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT instance_id FROM area_assignments WHERE area_code = ? ORDER BY position ASC`, area)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func writeOrder(ctx context.Context, q queryer, area string, ids []string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM area_assignments WHERE area_code = ?`, area); err != nil {
		return err
	}
	for pos, id := range ids {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO area_assignments(area_code, instance_id, position) VALUES(?,?,?)`,
			area, id, pos,
		); err != nil {
			return fmt.Errorf("assign %s to %s: %w", id, area, err)
		}
	}
	return nil
}

func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func audienceMatches(roles, audience []string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, want := range roles {
		for _, have := range audience {
			if want == have {
				return true
			}
		}
	}
	return false
}

func marshalObject(value map[string]any) (string, error) {
	if value == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return nil
	}
	return &t
}
