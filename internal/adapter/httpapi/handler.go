// Package httpapi exposes the dataset pipeline over HTTP for map and
// table frontends.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/conflictwatch/casemap/internal/adapter/tiles"
	"github.com/conflictwatch/casemap/internal/domain"
	"github.com/conflictwatch/casemap/internal/observability"
	"github.com/conflictwatch/casemap/internal/pipeline"
	"github.com/conflictwatch/casemap/internal/repository"
)

// Handler serves the case-map API.
type Handler struct {
	svc      *pipeline.Service
	style    tiles.Style
	logger   *slog.Logger
	metrics  *observability.Metrics
	validate *validator.Validate
}

// NewHandler creates a Handler over the pipeline service.
func NewHandler(svc *pipeline.Service, style tiles.Style, logger *slog.Logger, metrics *observability.Metrics) *Handler {
	return &Handler{
		svc:      svc,
		style:    style,
		logger:   logger,
		metrics:  metrics,
		validate: validator.New(),
	}
}

// RegisterRoutes attaches all routes to the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/cases", h.getCases)
		api.GET("/map", h.getMap)
		api.GET("/sources", h.getSources)
		api.GET("/meta", h.getMeta)
		api.GET("/export", h.exportCSV)
		api.POST("/sample", h.createSample)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) ready(c *gin.Context) {
	if err := h.svc.CheckReadiness(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// bindFilter binds and validates the filter parameters, writing the
// error response itself on failure.
func (h *Handler) bindFilter(c *gin.Context) (filterQuery, bool) {
	var q filterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
		return q, false
	}
	if err := h.validate.Struct(q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
		return q, false
	}
	if q.YearMin > 0 && q.YearMax > 0 && q.YearMax < q.YearMin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year_min must not exceed year_max"})
		return q, false
	}
	return q, true
}

func (h *Handler) run(c *gin.Context, q filterQuery) (pipeline.Result, bool) {
	res, err := h.svc.Run(c.Request.Context(), q.toFilter())
	if err != nil {
		h.renderError(c, err)
		return res, false
	}
	return res, true
}

func (h *Handler) getCases(c *gin.Context) {
	q, ok := h.bindFilter(c)
	if !ok {
		return
	}
	res, ok := h.run(c, q)
	if !ok {
		return
	}
	rows := domain.TableRows(res.Cases)
	c.JSON(http.StatusOK, casesResponse{
		Cases:  rows,
		Total:  len(rows),
		Issues: toIssueResponses(res.Issues),
	})
}

func (h *Handler) getMap(c *gin.Context) {
	q, ok := h.bindFilter(c)
	if !ok {
		return
	}
	res, ok := h.run(c, q)
	if !ok {
		return
	}
	markers := domain.MapRows(res.Cases)
	c.JSON(http.StatusOK, mapResponse{
		Style:      h.style,
		View:       domain.AverageView(markers),
		ShowLabels: q.Labels,
		Markers:    markers,
	})
}

func (h *Handler) getSources(c *gin.Context) {
	q, ok := h.bindFilter(c)
	if !ok {
		return
	}
	res, ok := h.run(c, q)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": toSourcesEntries(res.Cases)})
}

func (h *Handler) getMeta(c *gin.Context) {
	res, ok := h.run(c, filterQuery{})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toMetaResponse(res))
}

func (h *Handler) exportCSV(c *gin.Context) {
	q, ok := h.bindFilter(c)
	if !ok {
		return
	}
	res, ok := h.run(c, q)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="cases_filtered.csv"`)
	c.Status(http.StatusOK)
	if err := repository.ExportCSV(c.Writer, res.Cases); err != nil {
		h.logger.Error("csv export failed", "error", err)
		return
	}
	h.metrics.ExportsTotal.Inc()
}

func (h *Handler) createSample(c *gin.Context) {
	if err := h.svc.CreateSample(false); err != nil {
		if errors.Is(err, pipeline.ErrSourceExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("sample write failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not write sample dataset"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": h.svc.SamplePath()})
}

// renderError maps pipeline failures onto the API error surface:
// a missing data source invites sample creation, a schema failure
// reports the exact missing column list, and anything else surfaces
// the path-naming load error.
func (h *Handler) renderError(c *gin.Context, err error) {
	var schemaErr *domain.SchemaError
	switch {
	case errors.Is(err, repository.ErrNoDataSource):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no data source",
			"hint":  "POST /api/v1/sample to create a starter dataset, or place a CSV at the configured path",
		})
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "missing required columns",
			"missing": schemaErr.Missing,
		})
	default:
		h.logger.Error("pipeline run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
