package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

// Gateway applies the board's access rules in front of a Service.
//
// Reads are passed straight through. Write, Update and Delete require a
// principal and reject callers that do not own the post. A rejected call
// never reaches a mutating Service method.
type Gateway struct {
	service  Service
	logger   *slog.Logger
	metrics  *Metrics
	validate *validator.Validate
}

// NewGateway returns a Gateway backed by service. metrics may be nil.
func NewGateway(service Service, logger *slog.Logger, metrics *Metrics) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		service:  service,
		logger:   logger,
		metrics:  metrics,
		validate: validator.New(),
	}
}

// List returns one page of all posts.
func (g *Gateway) List(ctx context.Context, page PageRequest) (Page[Summary], error) {
	return g.service.ListPosts(ctx, page)
}

// Search returns one page of posts matching params. All three filters must be
// present; an empty string is accepted and matches everything.
func (g *Gateway) Search(ctx context.Context, params SearchParams, page PageRequest) (Page[Summary], error) {
	if params.Title == nil || params.Content == nil || params.WriterName == nil {
		return Page[Summary]{}, fmt.Errorf("%w: title, content and writerName are required", ErrInvalidInput)
	}
	criteria := NewSearchCriteria(*params.Title, *params.Content, *params.WriterName)
	return g.service.Search(ctx, criteria, page)
}

// Write creates a post on behalf of principal. The writer identity carried in
// req must be the principal's own identifier.
func (g *Gateway) Write(ctx context.Context, req WriteRequest, principal *Principal) (WriteResult, error) {
	const op = "write"
	if err := g.requirePrincipal(op, principal); err != nil {
		return WriteResult{}, err
	}
	if principal.Identifier != req.WriterEmail {
		g.logger.WarnContext(ctx, "post writer does not match the requesting principal",
			slog.String("principal", principal.Identifier),
			slog.String("writer", req.WriterEmail),
		)
		g.metrics.incDenied(op, reasonNotOwner)
		return WriteResult{}, ErrForbidden
	}
	if err := g.validate.Struct(req); err != nil {
		return WriteResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	result, err := g.service.CreatePost(ctx, req, *principal)
	if err != nil {
		return WriteResult{}, err
	}
	g.metrics.incPostsCreated()
	return result, nil
}

// Detail returns a single post.
func (g *Gateway) Detail(ctx context.Context, id int64) (Details, error) {
	return g.service.GetDetails(ctx, id)
}

// Update edits a post owned by principal.
//
// The owner is read from the stored post, not from the request. The read and
// the update are two separate Service calls, so an ownership change between
// them is not detected here.
func (g *Gateway) Update(ctx context.Context, id int64, req UpdateRequest, principal *Principal) (Details, error) {
	const op = "update"
	if err := g.authorizeOwner(ctx, op, id, principal); err != nil {
		return Details{}, err
	}
	if err := g.validate.Struct(req); err != nil {
		return Details{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return g.service.UpdatePost(ctx, id, req)
}

// Delete removes a post owned by principal and returns its id.
func (g *Gateway) Delete(ctx context.Context, id int64, principal *Principal) (int64, error) {
	const op = "delete"
	if err := g.authorizeOwner(ctx, op, id, principal); err != nil {
		return 0, err
	}
	if err := g.service.DeletePost(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}

// authorizeOwner checks that principal is the stored writer of post id.
func (g *Gateway) authorizeOwner(ctx context.Context, op string, id int64, principal *Principal) error {
	if err := g.requirePrincipal(op, principal); err != nil {
		return err
	}
	current, err := g.service.GetDetails(ctx, id)
	if err != nil {
		return err
	}
	if current.WriterEmail != principal.Identifier {
		g.logger.WarnContext(ctx, "principal is not the writer of the post",
			slog.String("operation", op),
			slog.Int64("post_id", id),
			slog.String("principal", principal.Identifier),
			slog.String("writer", current.WriterEmail),
		)
		g.metrics.incDenied(op, reasonNotOwner)
		return ErrForbidden
	}
	return nil
}

func (g *Gateway) requirePrincipal(op string, principal *Principal) error {
	if principal == nil || principal.Identifier == "" {
		g.metrics.incDenied(op, reasonUnauthenticated)
		return ErrUnauthenticated
	}
	return nil
}
