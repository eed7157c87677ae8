package ports

import (
	"context"
	"time"

	"gopower/domain/core"
	"gopower/domain/power"
)

// AnalysisRecord is a stored power analysis request and its outcome
type AnalysisRecord struct {
	ID        core.AnalysisID `json:"id" db:"id"`
	Spec      power.Spec      `json:"spec"`
	Result    *power.Result   `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// AnalysisRepository keeps a history of power analyses served by the API
type AnalysisRepository interface {
	Save(ctx context.Context, record *AnalysisRecord) error
	Get(ctx context.Context, id core.AnalysisID) (*AnalysisRecord, error)
	List(ctx context.Context, limit int) ([]*AnalysisRecord, error)
}
