package handlers

import (
	"net/http"

	"ceygo/services/booking"
	"ceygo/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	BookingService booking.BookingService
}

func NewBookingHandler(bookingService booking.BookingService) *BookingHandler {
	return &BookingHandler{BookingService: bookingService}
}

func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	bookings, err := h.BookingService.ListBookings(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.RespondError(c, "Failed to fetch bookings", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.BookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, "Failed to fetch booking", err)
		return
	}
	c.JSON(http.StatusOK, b)
}
