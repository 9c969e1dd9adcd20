package board

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jhcode/board/internal/config"
	"github.com/jhcode/board/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"
)

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 10 * time.Second

// Server is the board service's HTTP server.
type Server struct {
	// router is the gin engine serving the board API.
	router *gin.Engine
	// port is the listen port.
	port string
	// gateway applies access rules in front of the post service.
	gateway *Gateway
	// logger is the structured service logger.
	logger *slog.Logger
	// db is the SQLite connection, nil when the service was injected.
	db *sql.DB
}

// NewServer opens the SQLite database named by cfg and builds a Server on it.
func NewServer(cfg config.Config, logger *slog.Logger) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY under load.
	sqlDB.SetMaxOpenConns(1)

	service, err := NewSQLiteService(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := newServer(service, cfg, logger, reg)
	s.db = sqlDB
	return s, nil
}

// newServer wires the router around service. Metrics are registered on reg
// and served from /metrics when reg is a Gatherer.
func newServer(service Service, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) *Server {
	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics(reg))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	s := &Server{
		router:  router,
		port:    cfg.Port,
		gateway: NewGateway(service, logger, NewMetrics(reg)),
		logger:  logger,
	}
	s.setupRoutes(cfg.JWTSecret)

	if g, ok := reg.(prometheus.Gatherer); ok {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	}
	return s
}

// Handler returns the HTTP handler serving the board API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// setupRoutes registers the board API.
func (s *Server) setupRoutes(jwtSecret string) {
	board := s.router.Group("/board")
	board.Use(middleware.Authenticate(jwtSecret))
	{
		// paged listing
		board.GET("/list", s.handleList())
		// paged search
		board.GET("/search", s.handleSearch())
		board.POST("/write", s.handleWrite())
		board.GET("/:id", s.handleDetail())
		board.PATCH("/:id/update", s.handleUpdate())
		board.DELETE("/:id/delete", s.handleDelete())
	}

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "board"})
	})
}
