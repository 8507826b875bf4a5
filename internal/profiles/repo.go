package profiles

import (
	"context"
	"encoding/json"
)

type Repo interface {
	// GetActive returns the active profile, or ErrNoActiveProfile.
	GetActive(ctx context.Context, userID string) (Profile, error)
	// GetVersion returns a specific version, or ErrVersionNotFound.
	GetVersion(ctx context.Context, userID string, version int) (Profile, error)
	// History lists versions, newest first.
	History(ctx context.Context, userID string, limit int) ([]Profile, error)
	// CreateVersion deactivates the current active row (if any) and inserts
	// the data as the next version, atomically. Returns the inserted row.
	CreateVersion(ctx context.Context, userID string, data json.RawMessage) (Profile, error)
	DeleteAllForUser(ctx context.Context, userID string) error
}
