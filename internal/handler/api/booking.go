package api

import (
	"errors"
	"net/http"

	"roombook/internal/domain/booking"
	reqdto "roombook/internal/handler/dto/request"
	resdto "roombook/internal/handler/dto/response"
	"roombook/internal/handler/httperr"
	"roombook/internal/handler/middleware"
	"roombook/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingUseCase usecase.BookingUseCase
}

func NewBookingHandler(bookingUseCase usecase.BookingUseCase) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: bookingUseCase,
	}
}

// @Summary Create booking
// @Description Admit a new booking for a resource time slot
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := usecase.AdmitParams{
		ResourceID: req.ResourceID,
		Start:      req.StartTime,
		End:        req.EndTime,
		Purpose:    req.GetPurpose(),
		Attendees:  req.GetAttendees(),
	}

	created, err := h.bookingUseCase.Admit(c.Request.Context(), actor, params)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrResourceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Resource not found",
			})
		case errors.Is(err, booking.ErrInvalidTimeSlot):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid time slot: start must be before end",
			})
		case errors.Is(err, booking.ErrLeadTimeViolation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Booking does not meet the minimum lead time",
			})
		case errors.Is(err, booking.ErrDurationViolation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Booking duration is outside the allowed bounds",
			})
		case errors.Is(err, booking.ErrOutsideOperatingHours):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Booking falls outside operating hours",
			})
		case errors.Is(err, usecase.ErrSlotConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Time slot conflicts with an existing booking",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBooking(created))
}

// @Summary Cancel booking
// @Description Cancel a confirmed booking owned by the caller
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id} [delete]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	cancelled, err := h.bookingUseCase.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the owner or an administrator may cancel",
			})
		case errors.Is(err, booking.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking is no longer confirmed",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBooking(cancelled))
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	found, err := h.bookingUseCase.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBooking(found))
}

// @Summary List active bookings
// @Description List non-cancelled bookings, optionally filtered by resource or owner
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param resource_id query string false "Filter by resource ID"
// @Param owner_id query string false "Filter by owner ID"
// @Success 200 {array} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListActiveBookings(c *gin.Context) {
	var resourceID, ownerID *uuid.UUID
	if raw := c.Query("resource_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid resource_id format",
			})
			return
		}
		resourceID = &id
	}
	if raw := c.Query("owner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid owner_id format",
			})
			return
		}
		ownerID = &id
	}

	bookings, err := h.bookingUseCase.ListActive(c.Request.Context(), resourceID, ownerID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookings(bookings))
}

// @Summary List all bookings
// @Description List every booking regardless of status (admin only)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /bookings/all [get]
func (h *BookingHandler) ListAllBookings(c *gin.Context) {
	bookings, err := h.bookingUseCase.ListAll(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookings(bookings))
}
