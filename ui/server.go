package ui

import (
	"net/http"
	"time"

	"owlbench/app"
	"owlbench/domain/bench"
	"owlbench/domain/core"
	"owlbench/internal"
	"owlbench/internal/errors"
	"owlbench/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/google/uuid"
)

// Server exposes the analysis service over HTTP
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	log     *internal.Logger
}

// NewServer creates the HTTP server and registers routes
func NewServer(service *app.AnalysisService, log *internal.Logger) *Server {
	if log == nil {
		log = internal.DefaultLogger
	}
	s := &Server{
		router:  gin.Default(),
		service: service,
		log:     log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/suites/analyze", s.handleAnalyze)
		api.POST("/suites/:name/invalidate", s.handleInvalidate)
		api.GET("/runs", s.handleListRuns)
		api.GET("/runs/:id", s.handleGetRun)
		api.GET("/runs/:id/report", s.handleRunReport)
	}
}

// Run starts the server on the given address
func (s *Server) Run(addr string) error {
	s.log.Info("listening on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze accepts a suite snapshot and returns the full result bundle
func (s *Server) handleAnalyze(c *gin.Context) {
	var suite bench.Suite
	if err := c.ShouldBindJSON(&suite); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed suite payload: " + err.Error()})
		return
	}

	bundle, err := s.service.AnalyzeSuite(c.Request.Context(), suite)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

func (s *Server) handleInvalidate(c *gin.Context) {
	s.service.InvalidateSuite(c.Param("name"))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListRuns(c *gin.Context) {
	runs, err := s.service.ListRuns(c.Request.Context(), 50)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	id, err := parseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed run id"})
		return
	}

	run, err := s.service.GetRun(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// handleRunReport re-renders an archived run as an HTML report
func (s *Server) handleRunReport(c *gin.Context) {
	id, err := parseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed run id"})
		return
	}

	run, err := s.service.GetRun(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	bundle, err := run.DecodeBundle()
	if err != nil {
		s.respondError(c, errors.Wrap(err, "failed to decode archived bundle"))
		return
	}

	md := report.RenderMarkdown(bundle, run.CreatedAt)
	c.Data(http.StatusOK, "text/html; charset=utf-8", renderHTML(md))
}

// parseRunID validates the path parameter as a UUID before handing it to
// the archive.
func parseRunID(raw string) (core.RunID, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return "", err
	}
	return core.ParseRunID(raw)
}

// renderHTML converts the markdown report to standalone HTML
func renderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Benchmark Analysis Report",
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// respondError maps application error codes onto HTTP statuses
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	}
	s.log.Error("request failed: %v", err)
	c.JSON(status, gin.H{"error": err.Error(), "time": time.Now().UTC().Format(time.RFC3339)})
}
