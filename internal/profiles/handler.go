package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
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
	rg.GET("/", h.get)
	rg.POST("/", h.create)
	rg.PUT("/", h.update)
	rg.GET("/history", h.history)
	rg.POST("/revert/:version", h.revert)
	rg.POST("/import", h.importData)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	profile, err := h.Svc.Active(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveProfile) {
			// An empty structure, not a 404: clients render the blank form.
			respond.OK(c, gin.H{
				"id":          "",
				"userId":      userID,
				"profileData": EmptyProfileData(),
				"version":     0,
				"isActive":    false,
				"createdAt":   nil,
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
		return
	}
	respond.OK(c, profile)
}

type profileRequest struct {
	ProfileData json.RawMessage `json:"profileData"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	profile, err := h.Svc.Create(c.Request.Context(), userID, req.ProfileData)
	if err != nil {
		switch {
		case errors.Is(err, ErrActiveExists):
			respond.Error(c, http.StatusBadRequest, "validation_error", "user already has an active profile, use PUT to update", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create profile", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, profile)
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	profile, err := h.Svc.Update(c.Request.Context(), userID, req.ProfileData)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update profile", nil)
		return
	}
	respond.OK(c, profile)
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a non-negative integer", nil)
			return
		}
		limit = parsed
	}

	history, err := h.Svc.History(c.Request.Context(), userID, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile history", nil)
		return
	}
	if history == nil {
		history = []Profile{}
	}
	respond.OK(c, history)
}

func (h *Handler) revert(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version < 1 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "version must be a positive integer", nil)
		return
	}

	profile, err := h.Svc.Revert(c.Request.Context(), userID, version)
	if err != nil {
		if errors.Is(err, ErrVersionNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", fmt.Sprintf("profile version %d not found", version), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to revert profile", nil)
		return
	}
	respond.OK(c, gin.H{
		"message":    fmt.Sprintf("Successfully reverted to version %d", version),
		"newVersion": profile.Version,
	})
}

func (h *Handler) importData(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var data json.RawMessage
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	profile, err := h.Svc.Import(c.Request.Context(), userID, data)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to import profile data", nil)
		return
	}
	respond.OK(c, gin.H{
		"message": "Profile data imported successfully",
		"version": profile.Version,
	})
}
