package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("panic becomes a 500 and is logged", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		router := gin.New()
		router.Use(Recovery(slog.New(slog.NewJSONHandler(&logs, nil))))
		router.GET("/panic", func(_ *gin.Context) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["error"] != "internal server error" {
			t.Errorf("error = %q, want %q", body["error"], "internal server error")
		}
		if !strings.Contains(logs.String(), `"panic":"boom"`) {
			t.Errorf("log output missing panic value: %s", logs.String())
		}
	})

	t.Run("normal requests are untouched", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(slog.New(slog.DiscardHandler)))
		router.GET("/ok", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})
}
