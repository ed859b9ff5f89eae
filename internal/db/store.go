package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new store
func NewStore(db *DB) *Store {
	return &Store{pool: db.Pool()}
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Source represents a registered test source: an API collection, a web
// page, or a repository holding either
type Source struct {
	ID        uuid.UUID `json:"id"`
	Location  string    `json:"location"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Run represents one pipeline pass over a source
type Run struct {
	ID          uuid.UUID        `json:"id"`
	SourceID    uuid.UUID        `json:"source_id"`
	Status      string           `json:"status"`
	Focus       *string          `json:"focus,omitempty"`
	Config      json.RawMessage  `json:"config"`
	Entities    *json.RawMessage `json:"entities,omitempty"`
	Summary     *json.RawMessage `json:"summary,omitempty"`
	Error       *string          `json:"error,omitempty"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Suite represents a generated test suite stored for a run
type Suite struct {
	ID           uuid.UUID        `json:"id"`
	RunID        uuid.UUID        `json:"run_id"`
	SourceID     uuid.UUID        `json:"source_id"`
	Name         string           `json:"name"`
	Focus        *string          `json:"focus,omitempty"`
	CaseCount    int              `json:"case_count"`
	SuiteData    json.RawMessage  `json:"suite_data"`
	CoverageData *json.RawMessage `json:"coverage_data,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// CreateSource creates a new source
func (s *Store) CreateSource(ctx context.Context, src *Source) error {
	src.ID = uuid.New()
	src.Status = "pending"
	src.CreatedAt = time.Now()
	src.UpdatedAt = time.Now()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO sources (id, location, kind, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, src.ID, src.Location, src.Kind, src.Name, src.Status, src.CreatedAt, src.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}

	return nil
}

// GetSource gets a source by ID
func (s *Store) GetSource(ctx context.Context, id uuid.UUID) (*Source, error) {
	src := &Source{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, location, kind, name, status, created_at, updated_at
		FROM sources WHERE id = $1
	`, id).Scan(&src.ID, &src.Location, &src.Kind, &src.Name, &src.Status, &src.CreatedAt, &src.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return src, nil
}

// GetSourceByLocation gets a source by its location
func (s *Store) GetSourceByLocation(ctx context.Context, location string) (*Source, error) {
	src := &Source{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, location, kind, name, status, created_at, updated_at
		FROM sources WHERE location = $1
	`, location).Scan(&src.ID, &src.Location, &src.Kind, &src.Name, &src.Status, &src.CreatedAt, &src.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return src, nil
}

// ListSources lists all sources
func (s *Store) ListSources(ctx context.Context, limit, offset int) ([]Source, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, location, kind, name, status, created_at, updated_at
		FROM sources
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	sources := make([]Source, 0)
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.ID, &src.Location, &src.Kind, &src.Name, &src.Status,
			&src.CreatedAt, &src.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, src)
	}

	return sources, nil
}

// UpdateSourceStatus updates source status, keeping the display name if
// the analyzer discovered one
func (s *Store) UpdateSourceStatus(ctx context.Context, id uuid.UUID, status string, name *string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE sources SET status = $2, name = COALESCE($3, name), updated_at = $4
		WHERE id = $1
	`, id, status, name, time.Now())
	return err
}

// DeleteSource deletes a source and all related data (cascading)
func (s *Store) DeleteSource(ctx context.Context, id uuid.UUID) error {
	// The database schema has ON DELETE CASCADE, so this will delete related runs and suites
	result, err := s.pool.Exec(ctx, `DELETE FROM sources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("source not found")
	}

	return nil
}

// CreateRun creates a new run
func (s *Store) CreateRun(ctx context.Context, run *Run) error {
	// Only generate a new UUID if one isn't already set
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Status == "" {
		run.Status = "pending"
	}
	run.CreatedAt = time.Now()

	if run.Config == nil {
		run.Config = json.RawMessage(`{}`)
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO runs (id, source_id, status, focus, config, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, run.ID, run.SourceID, run.Status, run.Focus, run.Config, run.CreatedAt)

	return err
}

// GetRun gets a run by ID
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	run := &Run{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, source_id, status, focus, config, entities, summary, error, started_at, completed_at, created_at
		FROM runs WHERE id = $1
	`, id).Scan(&run.ID, &run.SourceID, &run.Status, &run.Focus, &run.Config,
		&run.Entities, &run.Summary, &run.Error, &run.StartedAt, &run.CompletedAt, &run.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// ListRunsBySource lists runs for a source, newest first
func (s *Store) ListRunsBySource(ctx context.Context, sourceID uuid.UUID) ([]Run, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, source_id, status, focus, config, entities, summary, error, started_at, completed_at, created_at
		FROM runs
		WHERE source_id = $1
		ORDER BY created_at DESC
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.SourceID, &run.Status, &run.Focus, &run.Config,
			&run.Entities, &run.Summary, &run.Error, &run.StartedAt, &run.CompletedAt, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// UpdateRunStatus updates a run's status
func (s *Store) UpdateRunStatus(ctx context.Context, id uuid.UUID, status string) error {
	now := time.Now()
	var startedAt, completedAt *time.Time

	if status == "running" {
		startedAt = &now
	}
	if status == "completed" || status == "failed" {
		completedAt = &now
	}

	_, err := s.pool.Exec(ctx, `
		UPDATE runs
		SET status = $2,
		    started_at = COALESCE($3, started_at),
		    completed_at = COALESCE($4, completed_at)
		WHERE id = $1
	`, id, status, startedAt, completedAt)

	return err
}

// SetRunEntities stores the analyzer output on the run
func (s *Store) SetRunEntities(ctx context.Context, id uuid.UUID, entities json.RawMessage) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE runs SET entities = $2 WHERE id = $1
	`, id, entities)
	if err != nil {
		return fmt.Errorf("failed to set run entities: %w", err)
	}
	return nil
}

// SetRunSummary stores the final summary on the run
func (s *Store) SetRunSummary(ctx context.Context, id uuid.UUID, summary json.RawMessage) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE runs SET summary = $2 WHERE id = $1
	`, id, summary)
	if err != nil {
		return fmt.Errorf("failed to set run summary: %w", err)
	}
	return nil
}

// FailRun marks a run failed and records the error message
func (s *Store) FailRun(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE runs SET status = 'failed', error = $2, completed_at = $3 WHERE id = $1
	`, id, errMsg, time.Now())
	if err != nil {
		return fmt.Errorf("failed to fail run: %w", err)
	}
	return nil
}

// CreateSuite creates a new suite
func (s *Store) CreateSuite(ctx context.Context, suite *Suite) error {
	if suite.ID == uuid.Nil {
		suite.ID = uuid.New()
	}
	suite.CreatedAt = time.Now()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO suites (id, run_id, source_id, name, focus, case_count, suite_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, suite.ID, suite.RunID, suite.SourceID, suite.Name, suite.Focus, suite.CaseCount,
		suite.SuiteData, suite.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create suite: %w", err)
	}

	return nil
}

// GetSuite gets a suite by ID
func (s *Store) GetSuite(ctx context.Context, id uuid.UUID) (*Suite, error) {
	suite := &Suite{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, run_id, source_id, name, focus, case_count, suite_data, coverage_data, created_at
		FROM suites WHERE id = $1
	`, id).Scan(&suite.ID, &suite.RunID, &suite.SourceID, &suite.Name, &suite.Focus,
		&suite.CaseCount, &suite.SuiteData, &suite.CoverageData, &suite.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suite: %w", err)
	}

	return suite, nil
}

// GetSuiteByRun gets the suite produced by a run
func (s *Store) GetSuiteByRun(ctx context.Context, runID uuid.UUID) (*Suite, error) {
	suite := &Suite{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, run_id, source_id, name, focus, case_count, suite_data, coverage_data, created_at
		FROM suites WHERE run_id = $1
	`, runID).Scan(&suite.ID, &suite.RunID, &suite.SourceID, &suite.Name, &suite.Focus,
		&suite.CaseCount, &suite.SuiteData, &suite.CoverageData, &suite.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suite: %w", err)
	}

	return suite, nil
}

// ListSuitesBySource lists suites for a source, newest first
func (s *Store) ListSuitesBySource(ctx context.Context, sourceID uuid.UUID) ([]Suite, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, run_id, source_id, name, focus, case_count, suite_data, coverage_data, created_at
		FROM suites
		WHERE source_id = $1
		ORDER BY created_at DESC
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list suites: %w", err)
	}
	defer rows.Close()

	suites := make([]Suite, 0)
	for rows.Next() {
		var suite Suite
		if err := rows.Scan(&suite.ID, &suite.RunID, &suite.SourceID, &suite.Name, &suite.Focus,
			&suite.CaseCount, &suite.SuiteData, &suite.CoverageData, &suite.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan suite: %w", err)
		}
		suites = append(suites, suite)
	}

	return suites, nil
}

// UpdateSuiteData replaces a suite's stored cases, used after the
// enhancement pass rewrites the suite
func (s *Store) UpdateSuiteData(ctx context.Context, id uuid.UUID, suiteData json.RawMessage, caseCount int, focus *string) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE suites SET suite_data = $2, case_count = $3, focus = COALESCE($4, focus)
		WHERE id = $1
	`, id, suiteData, caseCount, focus)
	if err != nil {
		return fmt.Errorf("failed to update suite: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("suite not found")
	}

	return nil
}

// SetSuiteCoverage stores a coverage report on the suite
func (s *Store) SetSuiteCoverage(ctx context.Context, id uuid.UUID, coverage json.RawMessage) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE suites SET coverage_data = $2 WHERE id = $1
	`, id, coverage)
	if err != nil {
		return fmt.Errorf("failed to set suite coverage: %w", err)
	}
	return nil
}
