package server

import (
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"instalytics/internal/jobs"
	"instalytics/pkg/instagram"
	"instalytics/pkg/logger"
	"instalytics/pkg/scraper"
	"instalytics/pkg/storage"
)

// ScrapeRequest is the payload accepted by POST /api/scrape.
type ScrapeRequest struct {
	Username     string `json:"username"`
	MaxPosts     int    `json:"max_posts"`
	DelaySeconds int    `json:"delay_seconds"`
	Insights     bool   `json:"insights"`
}

// Handlers serves the analytics API.
type Handlers struct {
	jobs    *jobs.Manager
	storage *storage.Manager
	logger  logger.Logger
}

// NewHandlers wires the API handlers to the job manager and run storage.
func NewHandlers(manager *jobs.Manager, store *storage.Manager, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Handlers{jobs: manager, storage: store, logger: log}
}

// Scrape handles POST /api/scrape and enqueues a background analytics run.
func (h *Handlers) Scrape(c echo.Context) error {
	var req ScrapeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	username := instagram.SanitizeUsername(req.Username)
	if username == "" {
		return Error(c, http.StatusBadRequest, "username is required")
	}
	if !instagram.IsValidUsername(username) {
		return Error(c, http.StatusBadRequest, "invalid username")
	}

	opts := scraper.Options{
		Username:     username,
		MaxPosts:     req.MaxPosts,
		Delay:        time.Duration(req.DelaySeconds) * time.Second,
		WithInsights: req.Insights,
	}

	job, err := h.jobs.Submit(opts)
	if err != nil {
		return Error(c, http.StatusServiceUnavailable, err.Error())
	}

	return Success(c, http.StatusAccepted, "scrape job queued", job)
}

// GetJob handles GET /api/jobs/:id.
func (h *Handlers) GetJob(c echo.Context) error {
	job, ok := h.jobs.Get(c.Param("id"))
	if !ok {
		return Error(c, http.StatusNotFound, "job not found")
	}
	return Success(c, http.StatusOK, "", job)
}

// ListJobs handles GET /api/jobs.
func (h *Handlers) ListJobs(c echo.Context) error {
	return Success(c, http.StatusOK, "", h.jobs.List())
}

// ListRuns handles GET /api/runs.
func (h *Handlers) ListRuns(c echo.Context) error {
	runs, err := h.storage.ListRuns()
	if err != nil {
		h.logger.ErrorWithFields("listing runs failed", map[string]interface{}{"error": err.Error()})
		return Error(c, http.StatusInternalServerError, "could not list runs")
	}
	return Success(c, http.StatusOK, "", runs)
}

// GetRun handles GET /api/runs/:id and returns the full report.
func (h *Handlers) GetRun(c echo.Context) error {
	report, err := h.storage.LoadReport(c.Param("id"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Error(c, http.StatusNotFound, "run not found")
		}
		return Error(c, http.StatusBadRequest, err.Error())
	}
	return Success(c, http.StatusOK, "", report)
}

// GetRunTimeline handles GET /api/runs/:id/timeline.csv.
func (h *Handlers) GetRunTimeline(c echo.Context) error {
	path, err := h.storage.TimelinePath(c.Param("id"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Error(c, http.StatusNotFound, "timeline not found")
		}
		return Error(c, http.StatusBadRequest, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	return c.File(path)
}
