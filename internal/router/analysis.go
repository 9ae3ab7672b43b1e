// Package router binds the read-side HTTP surface: incidents, their
// cached analysis, and per-article scoring.
package router

import (
	"errors"
	"net/http"

	"github.com/AhmadRaza24h/Veritas/internal/analysis"
	"github.com/AhmadRaza24h/Veritas/internal/apperr"
	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/internal/storage"
	"github.com/AhmadRaza24h/Veritas/pkg/pagination"
	"github.com/AhmadRaza24h/Veritas/pkg/server"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AnalysisRouter struct {
	e       *echo.Echo
	store   storage.Store
	service *analysis.Service
	health  server.HealthChecker
}

func NewAnalysisRouter(e *echo.Echo, store storage.Store, service *analysis.Service, health server.HealthChecker) *AnalysisRouter {
	return &AnalysisRouter{
		e:       e,
		store:   store,
		service: service,
		health:  health,
	}
}

func (r *AnalysisRouter) Bind() {
	r.e.GET("/health", r.healthHandler)

	api := r.e.Group("/api")
	api.GET("/incidents", r.listIncidentsHandler)
	api.GET("/incidents/:id", r.incidentHandler)
	api.GET("/incidents/:id/analysis", r.incidentAnalysisHandler)
	api.GET("/articles/:id/credibility", r.articleCredibilityHandler)
	api.GET("/articles/:id/perspective", r.articlePerspectiveHandler)
}

func (r *AnalysisRouter) healthHandler(c echo.Context) error {
	if !r.health.Healthy(c.Request().Context()) {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (r *AnalysisRouter) listIncidentsHandler(c echo.Context) error {
	var req pagination.OffsetRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}
	_ = req.Validate()

	result, err := r.store.ListIncidents(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type incidentResponse struct {
	domain.Incident
	Articles []domain.Article `json:"articles"`
}

func (r *AnalysisRouter) incidentHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	incident, err := r.store.IncidentByID(c.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NewNotFound("incident not found")
	}
	if err != nil {
		return err
	}

	articles, err := r.store.IncidentArticles(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, incidentResponse{Incident: incident, Articles: articles})
}

func (r *AnalysisRouter) incidentAnalysisHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	refresh := c.QueryParam("refresh") == "true"

	result, err := r.service.IncidentAnalysis(c.Request().Context(), id, refresh)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NewNotFound("incident not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (r *AnalysisRouter) articleCredibilityHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	result, err := r.service.ArticleCredibility(c.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NewNotFound("article not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (r *AnalysisRouter) articlePerspectiveHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	result, err := r.service.ArticlePerspective(c.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NewNotFound("article not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid id", err)
	}
	return id, nil
}
