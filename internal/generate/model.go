package generate

import (
	"encoding/json"
	"time"
)

const (
	TypeCV  = "cv"
	TypeBio = "bio"
)

// Content is an immutable generated document row.
type Content struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	JobAnalysisID string          `json:"jobAnalysisId,omitempty"`
	ContentType   string          `json:"contentType"`
	Content       string          `json:"content"`
	Format        string          `json:"format"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	StorageKey    string          `json:"storageKey,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}
