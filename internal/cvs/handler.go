package cvs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/respond"
)

// Handler exposes CV submission over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the public submission route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cvs", h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	sub := Submission{
		FirstName:   c.PostForm("firstName"),
		LastName:    c.PostForm("lastName"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		Domain:      c.PostForm("domain"),
		Description: c.PostForm("description"),
	}

	header, err := c.FormFile("cvFile")
	if err == nil && header != nil {
		file, openErr := header.Open()
		if openErr != nil {
			respond.Error(c, http.StatusBadRequest, "invalid_file", msgMissingFile, nil)
			return
		}
		defer file.Close()
		sub.File = file
		sub.FileName = header.Filename
		sub.Size = header.Size
		sub.ContentType = header.Header.Get("Content-Type")
	}

	rec, err := h.Svc.Submit(c.Request.Context(), sub)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			respond.Error(c, http.StatusBadRequest, "validation_error", verr.Message, nil)
			return
		}
		var serr *SubmitError
		if errors.As(err, &serr) {
			respond.Error(c, http.StatusBadGateway, "submit_failed", serr.Message, nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", msgSubmitFailed, nil)
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"message": MsgSuccess,
		"cv":      rec,
	})
}
