package jobs

import "context"

type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, userID, analysisID string) (Analysis, error)
	List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error)
	Delete(ctx context.Context, userID, analysisID string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
