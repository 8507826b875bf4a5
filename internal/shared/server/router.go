package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvtailor-backend/internal/generate"
	"cvtailor-backend/internal/jobs"
	"cvtailor-backend/internal/profiles"
	"cvtailor-backend/internal/shared/auth"
	"cvtailor-backend/internal/shared/config"
	"cvtailor-backend/internal/shared/metrics"
	"cvtailor-backend/internal/shared/server/middleware"
	"cvtailor-backend/internal/shared/server/respond"
	"cvtailor-backend/internal/users"
)

// RouterDeps carries the handlers and shared pieces the router wires together.
type RouterDeps struct {
	Config          config.Config
	Tokens          *auth.Tokens
	UsersHandler    *users.Handler
	ProfilesHandler *profiles.Handler
	JobsHandler     *jobs.Handler
	GenerateHandler *generate.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	deps.UsersHandler.RegisterPublicRoutes(api.Group("/auth"))

	protected := []gin.HandlerFunc{middleware.Auth(deps.Tokens)}
	if limit := rateLimit(deps.Config.RateLimitPerMinute); limit != nil {
		protected = append(protected, limit)
	}

	deps.UsersHandler.RegisterRoutes(api.Group("/auth", protected...))
	deps.ProfilesHandler.RegisterRoutes(api.Group("/profile", protected...))
	deps.JobsHandler.RegisterRoutes(api.Group("/jobs", protected...))
	deps.GenerateHandler.RegisterRoutes(api.Group("/generate", protected...))

	return r
}

// rateLimit builds the per-user token bucket, or nil when disabled.
func rateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return nil
	}
	return middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: float64(perMinute) / 60.0, Burst: perMinute},
		},
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
