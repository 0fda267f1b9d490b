package stay

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"localstay/internal/domain"
	"localstay/internal/middleware"
	"localstay/internal/pkg/response"
	"localstay/internal/pkg/validator"
	"localstay/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public feed on public and the owner endpoints on
// protected, which must be behind JWTAuth.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/stays", h.ListStays)
	public.GET("/stays/:id", h.GetStay)

	owner := protected.Group("/stays", middleware.RequireCapability(domain.CapManageStays))
	{
		owner.POST("", h.CreateStay)
		owner.GET("/owner/my-stays", h.GetMyStays)
		owner.PUT("/:id", h.UpdateStay)
		owner.DELETE("/:id", h.DeleteStay)
	}
}

func (h *Handler) ListStays(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil || skip < 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "skip must be a non-negative integer")
		return
	}
	limit, err := queryInt(c, "limit", 100)
	if err != nil || limit < 1 || limit > 500 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 500")
		return
	}

	list, err := h.service.List(c.Request.Context(), repository.StayFilters{
		Location: c.Query("location"),
		Limit:    limit,
		Offset:   skip,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) GetStay(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	st, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) CreateStay(c *gin.Context) {
	caller, _ := middleware.CurrentIdentity(c)

	var req CreateStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid stay", errs)
		return
	}

	st, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, st)
}

func (h *Handler) GetMyStays(c *gin.Context) {
	caller, _ := middleware.CurrentIdentity(c)

	list, err := h.service.ListMine(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) UpdateStay(c *gin.Context) {
	caller, _ := middleware.CurrentIdentity(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid stay", errs)
		return
	}

	st, err := h.service.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) DeleteStay(c *gin.Context) {
	caller, _ := middleware.CurrentIdentity(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Stay deleted successfully"})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid stay ID")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Stay not found")
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this stay")
	case errors.Is(err, ErrOwnerNotVerified):
		response.Error(c, http.StatusForbidden, "OWNER_NOT_VERIFIED", "Owner not verified by admin yet")
	default:
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), "stay request failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
