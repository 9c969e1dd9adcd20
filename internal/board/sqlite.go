package board

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// sortColumns maps public sort properties to posts columns.
var sortColumns = map[string]string{
	"id":         "id",
	"title":      "title",
	"createdAt":  "created_at",
	"modifiedAt": "modified_at",
	"writerName": "writer_name",
}

const detailsColumns = "id, title, content, writer_email, writer_name, created_at, modified_at"

// SQLiteService is a Service that stores posts in SQLite.
type SQLiteService struct {
	// db is the SQLite connection pool.
	db *sql.DB
	// now returns the current time. Replaced in tests.
	now func() time.Time
}

// NewSQLiteService applies the board schema to db and returns a Service on it.
func NewSQLiteService(db *sql.DB) (*SQLiteService, error) {
	if err := initSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteService{db: db, now: time.Now}, nil
}

// ListPosts returns one page of all posts.
func (s *SQLiteService) ListPosts(ctx context.Context, page PageRequest) (Page[Summary], error) {
	return s.querySummaries(ctx, "", nil, page)
}

// Search returns one page of posts whose title, content and writer name each
// contain the corresponding filter.
func (s *SQLiteService) Search(ctx context.Context, criteria SearchCriteria, page PageRequest) (Page[Summary], error) {
	where := ` WHERE title LIKE ? ESCAPE '\' AND content LIKE ? ESCAPE '\' AND writer_name LIKE ? ESCAPE '\'`
	args := []any{
		containsPattern(criteria.Title()),
		containsPattern(criteria.Content()),
		containsPattern(criteria.WriterName()),
	}
	return s.querySummaries(ctx, where, args, page)
}

// CreatePost stores a new post owned by writer.
func (s *SQLiteService) CreatePost(ctx context.Context, req WriteRequest, writer Principal) (WriteResult, error) {
	now := s.now().UTC()
	stamp := now.Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (title, content, writer_email, writer_name, created_at, modified_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.Title, req.Content, writer.Identifier, writer.DisplayName, stamp, stamp,
	)
	if err != nil {
		return WriteResult{}, fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return WriteResult{}, fmt.Errorf("read inserted post id: %w", err)
	}
	return WriteResult{
		ID:         id,
		Title:      req.Title,
		Content:    req.Content,
		WriterName: writer.DisplayName,
		CreatedAt:  now,
	}, nil
}

// GetDetails returns a single post.
func (s *SQLiteService) GetDetails(ctx context.Context, id int64) (Details, error) {
	return getDetails(ctx, s.db, id)
}

// UpdatePost replaces the title and content of a post.
func (s *SQLiteService) UpdatePost(ctx context.Context, id int64, req UpdateRequest) (Details, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Details{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, modified_at = ? WHERE id = ?`,
		req.Title, req.Content, s.now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return Details{}, fmt.Errorf("update post %d: %w", id, err)
	}
	if err := requireAffected(res, id); err != nil {
		return Details{}, err
	}

	updated, err := getDetails(ctx, tx, id)
	if err != nil {
		return Details{}, err
	}
	if err := tx.Commit(); err != nil {
		return Details{}, fmt.Errorf("commit update of post %d: %w", id, err)
	}
	return updated, nil
}

// DeletePost removes a post.
func (s *SQLiteService) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return requireAffected(res, id)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getDetails(ctx context.Context, q querier, id int64) (Details, error) {
	row := q.QueryRowContext(ctx, `SELECT `+detailsColumns+` FROM posts WHERE id = ?`, id)

	var (
		d                     Details
		createdAt, modifiedAt string
	)
	err := row.Scan(&d.ID, &d.Title, &d.Content, &d.WriterEmail, &d.WriterName, &createdAt, &modifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Details{}, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Details{}, fmt.Errorf("select post %d: %w", id, err)
	}
	if d.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return Details{}, err
	}
	if d.ModifiedAt, err = parseTimestamp(modifiedAt); err != nil {
		return Details{}, err
	}
	return d, nil
}

func (s *SQLiteService) querySummaries(ctx context.Context, where string, args []any, page PageRequest) (Page[Summary], error) {
	orderBy, err := orderClause(page.Sort)
	if err != nil {
		return Page[Summary]{}, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`+where, args...).Scan(&total); err != nil {
		return Page[Summary]{}, fmt.Errorf("count posts: %w", err)
	}

	query := `SELECT id, title, writer_name, created_at FROM posts` + where + orderBy + ` LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return Page[Summary]{}, fmt.Errorf("list posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := make([]Summary, 0, page.Size)
	for rows.Next() {
		var (
			sum       Summary
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.WriterName, &createdAt); err != nil {
			return Page[Summary]{}, fmt.Errorf("scan post: %w", err)
		}
		if sum.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return Page[Summary]{}, err
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return Page[Summary]{}, fmt.Errorf("iterate posts: %w", err)
	}
	return NewPage(summaries, page, total), nil
}

// orderClause builds an ORDER BY clause from whitelisted properties.
// id is appended as a tiebreaker so paging is stable.
func orderClause(orders []Order) (string, error) {
	if len(orders) == 0 {
		return " ORDER BY id DESC", nil
	}
	parts := make([]string, 0, len(orders)+1)
	hasID := false
	for _, o := range orders {
		column, ok := sortColumns[o.Property]
		if !ok {
			return "", fmt.Errorf("%w: cannot sort by %q", ErrInvalidInput, o.Property)
		}
		if column == "id" {
			hasID = true
		}
		dir := "ASC"
		if o.Direction == Desc {
			dir = "DESC"
		}
		parts = append(parts, column+" "+dir)
	}
	if !hasID {
		parts = append(parts, "id DESC")
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for post %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern matching any value containing s.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
