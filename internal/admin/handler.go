package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/respond"
)

// Handler exposes the admin CV listing. Routes must be registered behind the
// admin middleware.
type Handler struct {
	Lister *Lister
}

// NewHandler constructs a Handler.
func NewHandler(lister *Lister) *Handler {
	return &Handler{Lister: lister}
}

// RegisterRoutes attaches listing routes to the (already guarded) group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cvs", h.list)
	rg.GET("/cvs/table", h.table)
}

func (h *Handler) list(c *gin.Context) {
	rows, err := h.Lister.Rows(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "list_failed", "Impossible de récupérer les CVs.", nil)
		return
	}
	respond.OK(c, gin.H{"cvs": rows})
}

func (h *Handler) table(c *gin.Context) {
	rows, err := h.Lister.Rows(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "list_failed", "Impossible de récupérer les CVs.", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(RenderTable(rows)))
}
