package board

import "time"

// Principal is the authenticated identity attached to a request.
type Principal struct {
	// Identifier is the principal's unique identifier (the account email).
	Identifier string
	// DisplayName is the name shown as the post's writer.
	DisplayName string
}

// Summary is a single row of a post listing.
type Summary struct {
	// ID is the post identifier.
	ID int64 `json:"id"`
	// Title is the post title.
	Title string `json:"title"`
	// WriterName is the display name of the writer.
	WriterName string `json:"writer_name"`
	// CreatedAt is the creation time.
	CreatedAt time.Time `json:"created_at"`
}

// Details is the full representation of a post.
type Details struct {
	// ID is the post identifier.
	ID int64 `json:"id"`
	// Title is the post title.
	Title string `json:"title"`
	// Content is the post body.
	Content string `json:"content"`
	// WriterEmail identifies the owner of the post.
	WriterEmail string `json:"writer_email"`
	// WriterName is the display name of the writer.
	WriterName string `json:"writer_name"`
	// CreatedAt is the creation time.
	CreatedAt time.Time `json:"created_at"`
	// ModifiedAt is the time of the last update.
	ModifiedAt time.Time `json:"modified_at"`
}

// WriteRequest is the payload for creating a post.
type WriteRequest struct {
	// Title is the post title.
	Title string `json:"title" validate:"required,max=255"`
	// Content is the post body.
	Content string `json:"content" validate:"required"`
	// WriterEmail is the identity the client claims to be writing as.
	// It must match the authenticated principal.
	WriterEmail string `json:"writer_email"`
}

// WriteResult is returned after a post is created.
type WriteResult struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	WriterName string    `json:"writer_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// UpdateRequest is the payload for editing a post.
type UpdateRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

// SearchParams carries the raw search filters taken from a request.
// A nil field means the filter was not supplied at all.
type SearchParams struct {
	Title      *string
	Content    *string
	WriterName *string
}

// SearchCriteria is an immutable set of search filters.
// Build it with NewSearchCriteria.
type SearchCriteria struct {
	title      string
	content    string
	writerName string
}

// NewSearchCriteria returns criteria matching posts whose title, content and
// writer name contain the given substrings. Empty strings match everything.
func NewSearchCriteria(title, content, writerName string) SearchCriteria {
	return SearchCriteria{title: title, content: content, writerName: writerName}
}

// Title returns the title filter.
func (c SearchCriteria) Title() string { return c.title }

// Content returns the content filter.
func (c SearchCriteria) Content() string { return c.content }

// WriterName returns the writer name filter.
func (c SearchCriteria) WriterName() string { return c.writerName }
