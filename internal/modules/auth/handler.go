package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"localstay/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/user/signup", h.signup(h.service.SignupUser))
		authGroup.POST("/user/login", h.login(h.service.LoginUser))
		authGroup.POST("/owner/signup", h.signup(h.service.SignupOwner))
		authGroup.POST("/owner/login", h.login(h.service.LoginOwner))
		authGroup.POST("/admin/login", h.login(h.service.LoginAdmin))
	}
}

type signupFunc func(context.Context, SignupRequest) (*TokenResponse, error)

type loginFunc func(context.Context, LoginRequest) (*TokenResponse, error)

func (h *Handler) signup(fn signupFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}

		token, err := fn(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, http.StatusCreated, token)
	}
}

func (h *Handler) login(fn loginFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}

		token, err := fn(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, token)
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Error(c, http.StatusBadRequest, "EMAIL_EXISTS", "Email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect email or password")
	default:
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), "auth request failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
