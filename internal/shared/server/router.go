package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/admin"
	"portfolio-backend/internal/authn"
	"portfolio-backend/internal/cvs"
	sharedauth "portfolio-backend/internal/shared/auth"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
	localstore "portfolio-backend/internal/shared/storage/object/local"
)

// RouterDeps carries the handlers and services the router wires up. Nil
// optional entries skip their routes.
type RouterDeps struct {
	Config       config.Config
	Sessions     *sharedauth.Sessions
	Guard        authn.Guard
	AuthHandler  *authn.Handler
	CVHandler    *cvs.Handler
	AdminHandler *admin.Handler
	GoogleAuth   *authn.GoogleService
	// LocalStore serves /files for locally stored objects; nil with S3, where
	// signed URLs point at the provider directly.
	LocalStore *localstore.Store
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
		middleware.Session(deps.Sessions),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterRoutes(api)
	}
	if deps.GoogleAuth != nil && deps.GoogleAuth.Configured() {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.CVHandler != nil {
		deps.CVHandler.RegisterRoutes(api)
	}
	if deps.AdminHandler != nil {
		adminGroup := api.Group("/admin")
		adminGroup.Use(requireAdmin(deps.Guard))
		deps.AdminHandler.RegisterRoutes(adminGroup)
	}

	if deps.LocalStore != nil {
		r.GET("/files/:container/*key", serveSignedFile(deps.LocalStore))
	}

	return r
}

// requireAdmin rejects requests whose session does not belong to the
// administrator.
func requireAdmin(guard authn.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := middleware.UserEmailFromContext(c)
		if email == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
			return
		}
		if !guard.IsAdmin(&authn.User{Email: email}) {
			respond.Error(c, http.StatusForbidden, "forbidden", "admin access required", nil)
			return
		}
		c.Next()
	}
}

// serveSignedFile streams a locally stored object after verifying the URL's
// expiry and HMAC stamp.
func serveSignedFile(store *localstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		container := c.Param("container")
		key := strings.TrimPrefix(c.Param("key"), "/")

		if !store.VerifySignedRequest(container, key, c.Query("exp"), c.Query("sig")) {
			respond.Error(c, http.StatusForbidden, "forbidden", "invalid or expired link", nil)
			return
		}

		f, err := store.Open(c.Request.Context(), container, key)
		if err != nil {
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
			return
		}
		defer f.Close()

		contentType := "application/octet-stream"
		if strings.HasSuffix(strings.ToLower(key), ".pdf") {
			contentType = "application/pdf"
		}
		c.Header("Content-Type", contentType)
		c.Status(http.StatusOK)
		io.Copy(c.Writer, f)
	}
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
