// Package httpapi exposes a thin, read-only HTTP surface over an
// already-open retriever: a search endpoint and a health check, nothing
// else. There is deliberately no document ingestion or index-lifecycle
// surface here — those belong to a mutable, multi-index server, which is
// out of scope for a batch-built, query-only index.
//
// The JSON envelope shape (an {"error": message} object on failure, a
// {"hits": [...]} object on search success) follows the teacher's internal/server/handlers.go
// writeJSON/writeError convention, rebuilt on gin instead of net/http's
// ServeMux since gin is the HTTP stack the wider example pack reaches for.
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bm25fts/internal/retriever"
)

// Server wraps a retriever with read-only HTTP handlers.
type Server struct {
	retriever *retriever.Retriever
	logger    *slog.Logger
	engine    *gin.Engine
}

// NewServer builds a gin engine with the search and health routes
// registered against r.
func NewServer(r *retriever.Retriever, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{retriever: r, logger: logger, engine: gin.New()}
	s.engine.Use(gin.Recovery())
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/search", s.handleSearch)
	return s
}

// Handler returns the underlying http.Handler, for use with http.Server or
// httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSearch(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter q"})
		return
	}

	topK := 10
	if raw := c.Query("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "k must be a positive integer"})
			return
		}
		topK = n
	}

	hits, err := s.retriever.Query(q, topK)
	if err != nil {
		s.logger.Error("search failed", "query", q, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hits": hits})
}
