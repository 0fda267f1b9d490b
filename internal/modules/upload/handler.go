package upload

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"localstay/internal/middleware"
	"localstay/internal/pkg/response"
)

// Handler handles image uploads. Any authenticated identity can upload.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/utils/upload", h.Upload)
}

type UploadResponse struct {
	URL string `json:"url"`
}

func (h *Handler) Upload(c *gin.Context) {
	if !h.service.Enabled() {
		response.Error(c, http.StatusServiceUnavailable, "UPLOAD_DISABLED", "Image upload is not configured")
		return
	}
	caller, _ := middleware.CurrentIdentity(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No file provided")
		return
	}

	url, err := h.service.Upload(c.Request.Context(), caller.Key(), fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidMimeType):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
		default:
			_ = c.Error(err)
			slog.ErrorContext(c.Request.Context(), "image upload failed", "error", err)
			response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Image upload failed")
		}
		return
	}
	response.Success(c, http.StatusCreated, UploadResponse{URL: url})
}
