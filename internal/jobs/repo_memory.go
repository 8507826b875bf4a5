package jobs

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	analyses map[string][]Analysis // keyed by user, insertion order
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{analyses: make(map[string][]Analysis)}
}

func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses[analysis.UserID] = append(r.analyses[analysis.UserID], analysis)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.analyses[userID] {
		if a.ID == analysisID {
			return a, nil
		}
	}
	return Analysis{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := r.analyses[userID]
	out := make([]Analysis, 0, len(rows))
	// stored in insertion order; emit newest first
	for i := len(rows) - 1 - offset; i >= 0; i-- {
		out = append(out, rows[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, analysisID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.analyses[userID]
	for i, a := range rows {
		if a.ID == analysisID {
			r.analyses[userID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.analyses, userID)
	return nil
}
