// Package bootstrap assembles the application from configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/admin"
	"portfolio-backend/internal/authn"
	"portfolio-backend/internal/authn/hosted"
	"portfolio-backend/internal/cvs"
	sharedauth "portfolio-backend/internal/shared/auth"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/server"
	"portfolio-backend/internal/shared/storage/db"
	"portfolio-backend/internal/shared/storage/object"
	localstore "portfolio-backend/internal/shared/storage/object/local"
	s3store "portfolio-backend/internal/shared/storage/object/s3"
)

// App holds the application's shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	Blobs      object.BlobStore
	LocalStore *localstore.Store

	Sessions     *sharedauth.Sessions
	Backend      authn.Backend
	LocalBackend *authn.LocalBackend
	Guard        authn.Guard

	CVRepo      cvs.Repo
	AuthService *authn.Service
	CVService   *cvs.Service
	Lister      *admin.Lister

	AuthHandler  *authn.Handler
	CVHandler    *cvs.Handler
	AdminHandler *admin.Handler
	GoogleAuth   *authn.GoogleService
}

// Build prepares dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	blobs, localStore, err := buildBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessions := sharedauth.NewSessions([]byte(cfg.SessionSecret), cfg.SessionTTL)
	backend, localBackend, err := buildAuthBackend(cfg)
	if err != nil {
		return nil, err
	}

	guard := authn.Guard{AdminEmail: cfg.AdminEmail, HomePage: cfg.HomePage}

	var cvRepo cvs.Repo
	if sqlDB != nil {
		cvRepo = &cvs.PGRepo{DB: sqlDB}
	} else {
		cvRepo = cvs.NewMemoryRepo()
	}

	authSvc := &authn.Service{Backend: backend}
	cvSvc := &cvs.Service{Blobs: blobs, Repo: cvRepo, Container: cfg.CVContainer}
	lister := &admin.Lister{Repo: cvRepo, Blobs: blobs, Container: cfg.CVContainer}

	var googleAuth *authn.GoogleService
	if localBackend != nil {
		googleAuth = authn.NewGoogleService(
			cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL,
			cfg.LandingPage, sessions, localBackend,
		)
		if googleAuth.Configured() {
			localBackend.OAuthStartPath = "/api/v1/auth/google/start"
		}
	}

	app := &App{
		Config:       cfg,
		DB:           sqlDB,
		Blobs:        blobs,
		LocalStore:   localStore,
		Sessions:     sessions,
		Backend:      backend,
		LocalBackend: localBackend,
		Guard:        guard,
		CVRepo:       cvRepo,
		AuthService:  authSvc,
		CVService:    cvSvc,
		Lister:       lister,
		AuthHandler:  authn.NewHandler(authSvc, sessions, cfg.LandingPage),
		CVHandler:    cvs.NewHandler(cvSvc),
		AdminHandler: admin.NewHandler(lister),
		GoogleAuth:   googleAuth,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:       cfg,
		Sessions:     sessions,
		Guard:        guard,
		AuthHandler:  app.AuthHandler,
		CVHandler:    app.CVHandler,
		AdminHandler: app.AdminHandler,
		GoogleAuth:   googleAuth,
		LocalStore:   localStore,
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

func buildBlobStore(ctx context.Context, cfg config.Config) (object.BlobStore, *localstore.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, nil, fmt.Errorf("build s3 store: %w", err)
		}
		return store, nil, nil
	default:
		store := localstore.New(cfg.LocalStoreDir, cfg.PublicOrigin, []byte(cfg.SessionSecret))
		if err := store.EnsureContainer(cfg.CVContainer); err != nil {
			return nil, nil, fmt.Errorf("ensure container %s: %w", cfg.CVContainer, err)
		}
		return store, store, nil
	}
}

func buildAuthBackend(cfg config.Config) (authn.Backend, *authn.LocalBackend, error) {
	if cfg.AuthBackend == "hosted" {
		if strings.TrimSpace(cfg.AuthURL) == "" {
			return nil, nil, fmt.Errorf("AUTH_BACKEND=hosted requires AUTH_URL")
		}
		return hosted.New(cfg.AuthURL, cfg.AuthAPIKey), nil, nil
	}

	creds := map[string]string{}
	if cfg.AdminEmail != "" && cfg.AdminPasswordHash != "" {
		creds[cfg.AdminEmail] = cfg.AdminPasswordHash
	} else {
		log.Printf("bootstrap: no admin credentials configured; password login disabled")
	}
	backend := authn.NewLocalBackend(creds)
	return backend, backend, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
