package board

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jhcode/board/pkg/middleware"
)

// Default page sizes for the listing endpoints.
const (
	defaultListSize   = 10
	defaultSearchSize = 5
)

// defaultSort is applied when the request has no sort parameter.
var defaultSort = []Order{{Property: "id", Direction: Desc}}

// handleList returns a handler for the paged post list.
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := parsePageRequest(c, defaultListSize)
		if err != nil {
			s.writeError(c, err)
			return
		}

		posts, err := s.gateway.List(c.Request.Context(), page)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, posts)
	}
}

// handleSearch returns a handler for the paged post search.
// title, content and writerName must all be present in the query.
func (s *Server) handleSearch() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := parsePageRequest(c, defaultSearchSize)
		if err != nil {
			s.writeError(c, err)
			return
		}

		params := SearchParams{
			Title:      optionalQuery(c, "title"),
			Content:    optionalQuery(c, "content"),
			WriterName: optionalQuery(c, "writerName"),
		}
		posts, err := s.gateway.Search(c.Request.Context(), params, page)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, posts)
	}
}

// handleWrite returns a handler that creates a post.
func (s *Server) handleWrite() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.writeError(c, fmt.Errorf("%w: %v", ErrInvalidInput, err))
			return
		}

		created, err := s.gateway.Write(c.Request.Context(), req, principalFrom(c))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// handleDetail returns a handler for a single post.
func (s *Server) handleDetail() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := postID(c)
		if err != nil {
			s.writeError(c, err)
			return
		}

		post, err := s.gateway.Detail(c.Request.Context(), id)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// handleUpdate returns a handler that edits a post owned by the caller.
func (s *Server) handleUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := postID(c)
		if err != nil {
			s.writeError(c, err)
			return
		}

		var req UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.writeError(c, fmt.Errorf("%w: %v", ErrInvalidInput, err))
			return
		}

		updated, err := s.gateway.Update(c.Request.Context(), id, req, principalFrom(c))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// handleDelete returns a handler that removes a post owned by the caller.
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := postID(c)
		if err != nil {
			s.writeError(c, err)
			return
		}

		deleted, err := s.gateway.Delete(c.Request.Context(), id, principalFrom(c))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, deleted)
	}
}

// writeError maps err onto an HTTP status.
// Authorization failures are answered with an empty body.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		c.AbortWithStatus(http.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		c.AbortWithStatus(http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, ErrInvalidInput):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.ErrorContext(c.Request.Context(), "board request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.Any("error", err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// principalFrom returns the authenticated caller, or nil for anonymous requests.
func principalFrom(c *gin.Context) *Principal {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return nil
	}
	return &Principal{Identifier: id.Email, DisplayName: id.Name}
}

func postID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: post id must be a positive integer", ErrInvalidInput)
	}
	return id, nil
}

// optionalQuery distinguishes an absent query parameter (nil) from an empty one.
func optionalQuery(c *gin.Context, key string) *string {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	return &v
}

// parsePageRequest reads page, size and sort from the query string.
func parsePageRequest(c *gin.Context, defaultSize int) (PageRequest, error) {
	req := PageRequest{Page: 0, Size: defaultSize, Sort: defaultSort}

	if raw, ok := c.GetQuery("page"); ok {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return PageRequest{}, fmt.Errorf("%w: page must be a non-negative integer", ErrInvalidInput)
		}
		req.Page = page
	}
	if raw, ok := c.GetQuery("size"); ok {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > maxPageSize {
			return PageRequest{}, fmt.Errorf("%w: size must be between 1 and %d", ErrInvalidInput, maxPageSize)
		}
		req.Size = size
	}
	if raws := c.QueryArray("sort"); len(raws) > 0 {
		orders := make([]Order, 0, len(raws))
		for _, raw := range raws {
			o, err := ParseOrder(raw)
			if err != nil {
				return PageRequest{}, err
			}
			orders = append(orders, o)
		}
		req.Sort = orders
	}
	if req.Page > math.MaxInt/req.Size {
		return PageRequest{}, fmt.Errorf("%w: page is out of range", ErrInvalidInput)
	}
	return req, nil
}
