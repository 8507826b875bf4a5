package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cvtailor-backend/internal/agents"
	"cvtailor-backend/internal/generate"
	"cvtailor-backend/internal/jobs"
	"cvtailor-backend/internal/llm"
	openai "cvtailor-backend/internal/llm/openai"
	"cvtailor-backend/internal/profiles"
	"cvtailor-backend/internal/shared/auth"
	"cvtailor-backend/internal/shared/config"
	"cvtailor-backend/internal/shared/server"
	"cvtailor-backend/internal/shared/storage/db"
	"cvtailor-backend/internal/shared/storage/object"
	localstore "cvtailor-backend/internal/shared/storage/object/local"
	s3store "cvtailor-backend/internal/shared/storage/object/s3"
	"cvtailor-backend/internal/users"
)

const devJWTSecret = "dev-only-secret"

// App holds shared dependencies, fully wired. Tests reach into the exported
// fields to swap pieces before exercising the router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Tokens *auth.Tokens
	LLM    llm.Client

	UsersRepo    users.Repo
	ProfilesRepo profiles.Repo
	JobsRepo     jobs.Repo
	GenerateRepo generate.Repo

	UsersService    *users.Service
	ProfilesService *profiles.Service
	JobsService     *jobs.Service
	GenerateService *generate.Service

	UsersHandler    *users.Handler
	ProfilesHandler *profiles.Handler
	JobsHandler     *jobs.Handler
	GenerateHandler *generate.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := buildTokens(cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Tokens: tokens,
		LLM:    llmClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Tokens:          app.Tokens,
		UsersHandler:    app.UsersHandler,
		ProfilesHandler: app.ProfilesHandler,
		JobsHandler:     app.JobsHandler,
		GenerateHandler: app.GenerateHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildTokens(cfg config.Config) (*auth.Tokens, error) {
	secret := strings.TrimSpace(cfg.JWTSecret)
	if secret == "" {
		if !isDevLike(cfg.Env) {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		log.Printf("bootstrap: JWT_SECRET empty; using dev-only secret")
		secret = devJWTSecret
	}
	ttl := time.Duration(cfg.TokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return auth.NewTokens(secret, ttl), nil
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider == "openai" && strings.TrimSpace(cfg.LLMAPIKey) != "" {
		return openai.NewClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL)
	}
	log.Printf("bootstrap: llm provider %q not configured; agent calls will fail until it is", cfg.LLMProvider)
	return llm.PlaceholderClient{}, nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.ProfilesRepo = &profiles.PGRepo{DB: app.DB}
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.GenerateRepo = &generate.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.ProfilesRepo = profiles.NewMemoryRepo()
		app.JobsRepo = jobs.NewMemoryRepo()
		app.GenerateRepo = generate.NewMemoryRepo()
	}

	app.ProfilesService = profiles.NewService(app.ProfilesRepo)
	app.JobsService = jobs.NewService(app.JobsRepo, agents.NewJobAnalyzer(app.LLM, nil, nil))
	app.GenerateService = &generate.Service{
		Repo:     app.GenerateRepo,
		Profiles: app.ProfilesService,
		Jobs:     app.JobsService,
		Tailor:   agents.NewCVTailor(app.LLM),
		Bios:     agents.NewBioGenerator(app.LLM),
		Store:    app.Store,
	}
	app.UsersService = users.NewService(app.UsersRepo, app.ProfilesRepo, app.JobsRepo, app.GenerateRepo)

	app.UsersHandler = users.NewHandler(app.UsersService, app.Tokens)
	app.ProfilesHandler = profiles.NewHandler(app.ProfilesService)
	app.JobsHandler = jobs.NewHandler(app.JobsService)
	app.GenerateHandler = generate.NewHandler(app.GenerateService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
