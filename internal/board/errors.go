package board

import "errors"

var (
	// ErrUnauthenticated means no principal could be resolved for the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the principal is not the owner of the post.
	ErrForbidden = errors.New("principal is not the writer of the post")
	// ErrNotFound means the post does not exist.
	ErrNotFound = errors.New("post not found")
	// ErrInvalidInput means the request payload or query is malformed.
	ErrInvalidInput = errors.New("invalid input")
)
