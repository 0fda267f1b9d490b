package admin

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"localstay/internal/middleware"
	"localstay/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /admin on protected, which must be behind JWTAuth.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	admin := protected.Group("/admin", middleware.AdminOnly())
	{
		admin.GET("/unverified-owners", h.GetUnverifiedOwners)
		admin.POST("/verify-owner/:id", h.VerifyOwner)
		admin.GET("/all-owners", h.GetAllOwners)
		admin.POST("/toggle-status/:id", h.ToggleStatus)
		admin.GET("/all-users", h.GetAllUsers)
	}
}

func (h *Handler) GetUnverifiedOwners(c *gin.Context) {
	h.listOwners(c, true)
}

func (h *Handler) GetAllOwners(c *gin.Context) {
	h.listOwners(c, false)
}

func (h *Handler) listOwners(c *gin.Context, unverifiedOnly bool) {
	caller, _ := middleware.CurrentIdentity(c)

	owners, err := h.service.ListOwners(c.Request.Context(), caller, unverifiedOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, owners)
}

func (h *Handler) VerifyOwner(c *gin.Context) {
	caller, _ := middleware.CurrentIdentity(c)
	id, ok := ownerID(c)
	if !ok {
		return
	}

	owner, err := h.service.VerifyOwner(c.Request.Context(), caller, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, StatusResponse{
		Message: fmt.Sprintf("Owner %s is now verified", owner.Name),
		Owner:   *owner,
	})
}

func (h *Handler) ToggleStatus(c *gin.Context) {
	caller, _ := middleware.CurrentIdentity(c)
	id, ok := ownerID(c)
	if !ok {
		return
	}

	owner, err := h.service.ToggleOwnerStatus(c.Request.Context(), caller, id)
	if err != nil {
		writeError(c, err)
		return
	}
	status := "Banned/Inactive"
	if owner.IsVerified {
		status = "Verified/Active"
	}
	response.Success(c, http.StatusOK, StatusResponse{
		Message: "Owner is now " + status,
		Owner:   *owner,
	})
}

func (h *Handler) GetAllUsers(c *gin.Context) {
	caller, _ := middleware.CurrentIdentity(c)

	users, err := h.service.ListUsers(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

func ownerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid owner ID")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Owner not found")
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not authorized as admin")
	default:
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), "admin request failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
