package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvtailor-backend/internal/shared/auth"
	"cvtailor-backend/internal/shared/server/middleware"
	"cvtailor-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc    *Service
	Tokens *auth.Tokens
}

func NewHandler(svc *Service, tokens *auth.Tokens) *Handler {
	return &Handler{Svc: svc, Tokens: tokens}
}

// RegisterPublicRoutes attaches the unauthenticated auth routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.POST("/logout", h.logout)
}

// RegisterRoutes attaches routes that require a bearer token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusBadRequest, "validation_error", ErrEmailTaken.Error(), nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register user", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", ErrInvalidCredentials.Error(), nil)
		case errors.Is(err, ErrInactiveAccount):
			respond.Error(c, http.StatusBadRequest, "validation_error", ErrInactiveAccount.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to authenticate", nil)
		}
		return
	}

	token, err := h.Tokens.Sign(auth.Claims{UserID: user.ID, Email: user.Email})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	respond.OK(c, gin.H{
		"accessToken": token,
		"tokenType":   "bearer",
	})
}

func (h *Handler) logout(c *gin.Context) {
	// Tokens are stateless; the client drops its copy.
	respond.OK(c, gin.H{"message": "Successfully logged out"})
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.OK(c, toResponse(user))
}

func toResponse(user User) gin.H {
	return gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"isActive":  user.IsActive,
		"createdAt": user.CreatedAt,
	}
}
