package board

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// Service is the persistence collaborator behind the gateway.
// GetDetails, UpdatePost and DeletePost return an error wrapping ErrNotFound
// when the post does not exist. Implementations own any locking needed to
// keep concurrent edits of the same post consistent.
type Service interface {
	// ListPosts returns one page of all posts.
	ListPosts(ctx context.Context, page PageRequest) (Page[Summary], error)
	// Search returns one page of posts matching criteria.
	Search(ctx context.Context, criteria SearchCriteria, page PageRequest) (Page[Summary], error)
	// CreatePost stores a new post owned by writer.
	CreatePost(ctx context.Context, req WriteRequest, writer Principal) (WriteResult, error)
	// GetDetails returns a single post.
	GetDetails(ctx context.Context, id int64) (Details, error)
	// UpdatePost replaces the title and content of a post.
	UpdatePost(ctx context.Context, id int64, req UpdateRequest) (Details, error)
	// DeletePost removes a post.
	DeletePost(ctx context.Context, id int64) error
}
