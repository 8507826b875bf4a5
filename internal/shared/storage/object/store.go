package object

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"cvtailor-backend/internal/shared/util"
)

// ObjectStore persists binary objects under caller-chosen storage keys.
// Generated documents are archived through this interface.
type ObjectStore interface {
	Save(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// ArchiveKey builds the storage key for a user's archived document. The user
// ID is hashed so keys never expose raw identifiers.
func ArchiveKey(userID string, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("archive key: %w", err)
	}
	stamp := time.Now().UTC().Format("20060102T150405")
	return path.Join(util.HashUserKey(userID), fmt.Sprintf("%s_%s", stamp, name)), nil
}
