package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopower/domain/core"
	"gopower/ports"

	"github.com/jmoiron/sqlx"
)

// AnalysisRepositoryImpl implements AnalysisRepository for PostgreSQL
type AnalysisRepositoryImpl struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new PostgreSQL analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &AnalysisRepositoryImpl{db: db}
}

type analysisRow struct {
	ID        string         `db:"id"`
	Spec      []byte         `db:"spec"`
	Result    []byte         `db:"result"`
	Error     sql.NullString `db:"error"`
	CreatedAt time.Time      `db:"created_at"`
}

// Save inserts a record, assigning an ID and timestamp when missing
func (r *AnalysisRepositoryImpl) Save(ctx context.Context, record *ports.AnalysisRecord) error {
	if record.ID == "" {
		record.ID = core.AnalysisID(core.NewID())
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	specJSON, err := json.Marshal(record.Spec)
	if err != nil {
		return fmt.Errorf("failed to encode spec: %w", err)
	}
	var resultJSON []byte
	if record.Result != nil {
		if resultJSON, err = json.Marshal(record.Result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO power_analyses (id, spec, result, error, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		record.ID.String(), specJSON, resultJSON,
		sql.NullString{String: record.Error, Valid: record.Error != ""},
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// Get loads a record by ID
func (r *AnalysisRepositoryImpl) Get(ctx context.Context, id core.AnalysisID) (*ports.AnalysisRecord, error) {
	var row analysisRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, spec, result, error, created_at
		FROM power_analyses WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("analysis", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return row.toRecord()
}

// List returns the most recent records first
func (r *AnalysisRepositoryImpl) List(ctx context.Context, limit int) ([]*ports.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []analysisRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, spec, result, error, created_at
		FROM power_analyses
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	records := make([]*ports.AnalysisRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (row analysisRow) toRecord() (*ports.AnalysisRecord, error) {
	rec := &ports.AnalysisRecord{
		ID:        core.AnalysisID(row.ID),
		Error:     row.Error.String,
		CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal(row.Spec, &rec.Spec); err != nil {
		return nil, fmt.Errorf("failed to decode spec of analysis %s: %w", row.ID, err)
	}
	if len(row.Result) > 0 {
		if err := json.Unmarshal(row.Result, &rec.Result); err != nil {
			return nil, fmt.Errorf("failed to decode result of analysis %s: %w", row.ID, err)
		}
	}
	return rec, nil
}
