package jobs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cvtailor-backend/internal/shared/server/middleware"
	"cvtailor-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.GET("/history", h.history)
	rg.GET("/:id", h.get)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/keywords", h.keywords)
}

type analyzeRequest struct {
	JobURL      string `json:"jobUrl"`
	JobText     string `json:"jobText"`
	JobTitle    string `json:"jobTitle"`
	CompanyName string `json:"companyName"`
}

func (h *Handler) analyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	analysis, err := h.Svc.Analyze(c.Request.Context(), userID, AnalyzeRequest{
		JobURL:      req.JobURL,
		JobText:     req.JobText,
		JobTitle:    req.JobTitle,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze job posting", nil)
		return
	}
	respond.OK(c, analysis)
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}

	analyses, err := h.Svc.History(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load analysis history", nil)
		return
	}
	if analyses == nil {
		analyses = []Analysis{}
	}
	respond.OK(c, analyses)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	analysis, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load job analysis", nil)
		return
	}
	respond.OK(c, analysis)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete job analysis", nil)
		return
	}
	respond.OK(c, gin.H{"message": "Job analysis deleted successfully"})
}

func (h *Handler) keywords(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	analysis, keywords, err := h.Svc.Keywords(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to extract keywords", nil)
		return
	}
	respond.OK(c, gin.H{
		"jobTitle":    analysis.JobTitle,
		"companyName": analysis.CompanyName,
		"keywords":    keywords,
	})
}

func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", name+" must be a non-negative integer", nil)
		return 0, false
	}
	return parsed, true
}
