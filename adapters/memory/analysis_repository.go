package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"gopower/domain/core"
	"gopower/ports"
)

// AnalysisRepository keeps analysis records in process memory
type AnalysisRepository struct {
	mu      sync.RWMutex
	records map[core.AnalysisID]*ports.AnalysisRecord
}

// NewAnalysisRepository creates an empty in-memory repository
func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{records: make(map[core.AnalysisID]*ports.AnalysisRecord)}
}

func (r *AnalysisRepository) Save(ctx context.Context, record *ports.AnalysisRecord) error {
	if record.ID == "" {
		record.ID = core.AnalysisID(core.NewID())
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	cp := *record
	r.mu.Lock()
	r.records[cp.ID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *AnalysisRepository) Get(ctx context.Context, id core.AnalysisID) (*ports.AnalysisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, core.NewNotFoundError("analysis", id.String())
	}
	cp := *rec
	return &cp, nil
}

func (r *AnalysisRepository) List(ctx context.Context, limit int) ([]*ports.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	r.mu.RLock()
	out := make([]*ports.AnalysisRecord, 0, len(r.records))
	for _, rec := range r.records {
		cp := *rec
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	// UUID v7 IDs sort by creation time, which breaks timestamp ties.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
