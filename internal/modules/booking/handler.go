package booking

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"localstay/internal/domain"
	"localstay/internal/middleware"
	"localstay/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects rg to be behind JWTAuth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", middleware.RequireCapability(domain.CapRequestBooking), h.CreateBooking)
		bookings.GET("/my-bookings", middleware.RequireCapability(domain.CapRequestBooking), h.GetMyBookings)
		bookings.GET("/owner-requests", middleware.RequireCapability(domain.CapDecideBooking), h.GetOwnerRequests)
		bookings.POST("/:id/action", middleware.RequireCapability(domain.CapDecideBooking), h.DecideBooking)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	caller, _ := middleware.CurrentIdentity(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	checkIn, err := domain.ParseDate(req.CheckIn)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, err := domain.ParseDate(req.CheckOut)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "check_out must be YYYY-MM-DD")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), caller, CreateInput{
		StayID:   req.StayID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   req.Guests,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, ToResponse(b))
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	caller, _ := middleware.CurrentIdentity(c)

	list, err := h.service.ListForRequester(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponses(list))
}

func (h *Handler) GetOwnerRequests(c *gin.Context) {
	caller, _ := middleware.CurrentIdentity(c)

	list, err := h.service.ListForOwner(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponses(list))
}

func (h *Handler) DecideBooking(c *gin.Context) {
	caller, _ := middleware.CurrentIdentity(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.DecideBooking(c.Request.Context(), caller, id, req.Action)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ToResponse(b))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or stay not found")
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not authorized for this booking")
	case errors.Is(err, ErrInvalidDateRange):
		response.Error(c, http.StatusBadRequest, "INVALID_DATE_RANGE", "Check-out must be after check-in")
	case errors.Is(err, ErrInvalidGuests):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrDatesUnavailable):
		response.Error(c, http.StatusConflict, "DATES_UNAVAILABLE", "Dates are already booked")
	case errors.Is(err, ErrInvalidAction):
		response.Error(c, http.StatusBadRequest, "INVALID_ACTION", err.Error())
	default:
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), "booking request failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
