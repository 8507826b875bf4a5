package generate

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps generated content in insertion order, for tests and for
// running without a database.
type MemoryRepo struct {
	mu   sync.Mutex
	rows []Content
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(ctx context.Context, content Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if content.CreatedAt.IsZero() {
		content.CreatedAt = time.Now().UTC()
	}
	r.rows = append(r.rows, content)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, contentID string) (Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == userID && row.ID == contentID {
			return row, nil
		}
	}
	return Content{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, userID string, filter ListFilter) ([]Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []Content
	for i := len(r.rows) - 1; i >= 0; i-- {
		row := r.rows[i]
		if row.UserID != userID {
			continue
		}
		if filter.ContentType != "" && row.ContentType != filter.ContentType {
			continue
		}
		matched = append(matched, row)
	}

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, contentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.UserID == userID && row.ID == contentID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}
