package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cvtailor-backend/internal/jobs"
	"cvtailor-backend/internal/profiles"
	"cvtailor-backend/internal/shared/server/middleware"
	"cvtailor-backend/internal/shared/server/respond"
	"cvtailor-backend/internal/shared/util"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cv", h.generateCV)
	rg.POST("/bio", h.generateBio)
	rg.GET("/history", h.history)
	rg.GET("/:id", h.get)
	rg.GET("/:id/export", h.export)
	rg.DELETE("/:id", h.delete)
}

type cvRequest struct {
	JobAnalysisID          string `json:"jobAnalysisId"`
	Format                 string `json:"format"`
	Style                  string `json:"style"`
	Template               string `json:"template"`
	AdditionalInstructions string `json:"additionalInstructions"`
}

func (h *Handler) generateCV(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req cvRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	content, err := h.Svc.GenerateCV(c.Request.Context(), userID, CVParams{
		JobAnalysisID:          req.JobAnalysisID,
		Format:                 req.Format,
		Style:                  req.Style,
		Template:               req.Template,
		AdditionalInstructions: req.AdditionalInstructions,
	})
	if err != nil {
		h.respondGenerationError(c, err, "failed to generate CV")
		return
	}
	respond.OK(c, content)
}

type bioRequest struct {
	JobAnalysisID string `json:"jobAnalysisId"`
	Context       string `json:"context"`
	Length        string `json:"length"`
	BioStyle      string `json:"bioStyle"`
}

func (h *Handler) generateBio(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req bioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	content, err := h.Svc.GenerateBio(c.Request.Context(), userID, BioParams{
		JobAnalysisID: req.JobAnalysisID,
		Context:       req.Context,
		Length:        req.Length,
		Style:         req.BioStyle,
	})
	if err != nil {
		h.respondGenerationError(c, err, "failed to generate bio")
		return
	}
	respond.OK(c, content)
}

func (h *Handler) respondGenerationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, jobs.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job analysis not found", nil)
	case errors.Is(err, profiles.ErrNoActiveProfile):
		respond.Error(c, http.StatusNotFound, "not_found", "User profile not found. Please create a profile first.", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}

	contents, err := h.Svc.History(c.Request.Context(), userID, ListFilter{
		ContentType: c.Query("contentType"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load content history", nil)
		return
	}
	if contents == nil {
		contents = []Content{}
	}
	respond.OK(c, contents)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	content, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "generated content not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load generated content", nil)
		return
	}
	respond.OK(c, content)
}

func (h *Handler) export(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	content, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "generated content not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load generated content", nil)
		return
	}

	format := c.DefaultQuery("export_format", "markdown")
	var body []byte
	var ext, mime string
	switch format {
	case "markdown":
		body, ext, mime = []byte(content.Content), "md", "text/markdown"
	case "txt":
		body, ext, mime = []byte(util.StripMarkdown(content.Content)), "txt", "text/plain"
	case "json":
		payload := map[string]any{
			"id":           content.ID,
			"content_type": content.ContentType,
			"content":      content.Content,
			"format":       content.Format,
			"metadata":     content.Metadata,
			"created_at":   content.CreatedAt,
		}
		encoded, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to encode export", nil)
			return
		}
		body, ext, mime = encoded, "json", "application/json"
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported export format: "+format, nil)
		return
	}

	fileName := fmt.Sprintf("%s_%s.%s", content.ContentType, content.ID, ext)
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, mime, body)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "generated content not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete generated content", nil)
		return
	}
	respond.OK(c, gin.H{"message": "Generated content deleted successfully"})
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", name+" must be a non-negative integer", nil)
		return 0, false
	}
	return parsed, true
}
