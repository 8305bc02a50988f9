package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// Config holds application configuration. Everything is constructed here and
// passed down explicitly; packages never read the environment themselves.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	// Site behavior.
	AdminEmail    string
	PublicOrigin  string
	LoginPage     string
	HomePage      string
	LandingPage   string
	SessionSecret string
	SessionTTL    time.Duration

	// Auth backend selection.
	AuthBackend       string // "local" or "hosted"
	AuthURL           string
	AuthAPIKey        string
	AdminPasswordHash string // bcrypt hash for the local backend

	// Google OAuth (local backend).
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Storage.
	ObjectStoreType string // "local" or "s3"
	LocalStoreDir   string
	CVContainer     string
	AWSRegion       string

	DatabaseURL string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		PublicOrigin:  getEnv("PUBLIC_ORIGIN", "http://localhost:8080"),
		LoginPage:     getEnv("LOGIN_PAGE", "login.html"),
		HomePage:      getEnv("HOME_PAGE", "index.html"),
		LandingPage:   getEnv("LANDING_PAGE", "portfolio.html"),
		SessionSecret: getEnv("SESSION_SECRET", "dev-secret"),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),

		AuthBackend:       normalizeAuthBackend(getEnv("AUTH_BACKEND", "local")),
		AuthURL:           getEnv("AUTH_URL", ""),
		AuthAPIKey:        getEnv("AUTH_API_KEY", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		CVContainer:     getEnv("CV_CONTAINER", "cvs"),
		AWSRegion:       getEnv("AWS_REGION", ""),

		DatabaseURL: dbURL,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeAuthBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hosted":
		return "hosted"
	default:
		return "local"
	}
}
