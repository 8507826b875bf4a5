package profiles

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string][]Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string][]Profile)}
}

func (r *MemoryRepo) GetActive(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles[userID] {
		if p.IsActive {
			return p, nil
		}
	}
	return Profile{}, ErrNoActiveProfile
}

func (r *MemoryRepo) GetVersion(ctx context.Context, userID string, version int) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles[userID] {
		if p.Version == version {
			return p, nil
		}
	}
	return Profile{}, ErrVersionNotFound
}

func (r *MemoryRepo) History(ctx context.Context, userID string, limit int) ([]Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := r.profiles[userID]
	out := make([]Profile, 0, len(rows))
	// stored ascending by version; emit descending
	for i := len(rows) - 1; i >= 0; i-- {
		out = append(out, rows[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepo) CreateVersion(ctx context.Context, userID string, data json.RawMessage) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.profiles[userID]
	next := 1
	for i := range rows {
		if rows[i].Version >= next {
			next = rows[i].Version + 1
		}
		if rows[i].IsActive {
			rows[i].IsActive = false
		}
	}

	inserted := Profile{
		ID:          uuid.NewString(),
		UserID:      userID,
		ProfileData: append(json.RawMessage(nil), data...),
		Version:     next,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	r.profiles[userID] = append(rows, inserted)
	return inserted, nil
}

func (r *MemoryRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, userID)
	return nil
}
