package authn

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	sharedauth "portfolio-backend/internal/shared/auth"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
)

// Handler exposes the login flow over HTTP.
type Handler struct {
	Svc         *Service
	Sessions    *sharedauth.Sessions
	LandingPage string
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, sessions *sharedauth.Sessions, landingPage string) *Handler {
	return &Handler{Svc: svc, Sessions: sessions, LandingPage: landingPage}
}

// RegisterRoutes attaches auth routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/logout", h.logout)
	rg.GET("/auth/session", h.session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User       *User  `json:"user"`
	RedirectTo string `json:"redirectTo"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Email et mot de passe requis.", nil)
		return
	}

	user, err := h.Svc.LoginWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch KindOf(err) {
		case KindInvalidCredentials:
			respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Email ou mot de passe incorrect.", nil)
		case KindNetwork:
			respond.Error(c, http.StatusBadGateway, "network_error", "Erreur de connexion.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Erreur de connexion.", nil)
		}
		return
	}

	session, err := h.Sessions.Sign(user.ID, user.Email, user.Name)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue session", nil)
		return
	}
	c.SetCookie(middleware.SessionCookie, session, 24*60*60, "/", "", false, true)

	respond.OK(c, loginResponse{
		User:       user,
		RedirectTo: h.redirectTarget(c.Query("next")),
	})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context()); err != nil {
		respond.Error(c, http.StatusBadGateway, "logout_failed", "Erreur lors de la déconnexion.", nil)
		return
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	respond.OK(c, gin.H{"ok": true})
}

func (h *Handler) session(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.OK(c, gin.H{"user": nil})
		return
	}
	respond.OK(c, gin.H{"user": User{
		ID:    userID,
		Email: middleware.UserEmailFromContext(c),
		Name:  middleware.UserNameFromContext(c),
	}})
}

// redirectTarget resolves the post-login destination from the next query
// parameter, rejecting absolute URLs to foreign origins.
func (h *Handler) redirectTarget(next string) string {
	if next != "" {
		if decoded, err := url.QueryUnescape(next); err == nil {
			next = decoded
		}
		if u, err := url.Parse(next); err == nil && u.Host == "" && !strings.HasPrefix(next, "//") {
			return next
		}
	}
	if h.LandingPage != "" {
		return h.LandingPage
	}
	return "/"
}
