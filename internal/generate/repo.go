package generate

import "context"

// ListFilter narrows a history listing. Zero values mean no filter and the
// service-level defaults for paging.
type ListFilter struct {
	ContentType string
	Limit       int
	Offset      int
}

type Repo interface {
	Create(ctx context.Context, content Content) error
	GetByID(ctx context.Context, userID, contentID string) (Content, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]Content, error)
	Delete(ctx context.Context, userID, contentID string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
