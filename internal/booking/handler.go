package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateBooking godoc
// @Summary      Book a slot
// @Description  Creates a pending reservation against one resolved slot occurrence. Requires a verification token from the OTP flow for the customer email.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request  body      CreateReservationRequest  true  "Booking details"
// @Success      201      {object}  Reservation
// @Failure      400      {object}  gin.H
// @Failure      401      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// GetBooking godoc
// @Summary      Look up a reservation by reference
// @Tags         bookings
// @Produce      json
// @Param        reference  path      string  true  "Booking reference"
// @Success      200        {object}  Reservation
// @Failure      404        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /bookings/{reference} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	reference := c.Param("reference")

	reservation, err := h.service.GetByReference(c.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking"})
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// ListBookings godoc
// @Summary      List reservations for a date
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        date        query     string  true   "Date (YYYY-MM-DD)"
// @Param        service_id  query     int     false  "Filter by service"
// @Success      200         {array}   ReservationWithService
// @Failure      400         {object}  gin.H
// @Failure      500         {object}  gin.H
// @Router       /admin/bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query param is required"})
		return
	}

	var serviceID *int
	if raw := c.Query("service_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service_id"})
			return
		}
		serviceID = &id
	}

	reservations, err := h.service.ListByDate(c.Request.Context(), date, serviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// UpdateBookingStatus godoc
// @Summary      Change reservation status
// @Description  pending may move to confirmed or cancelled; confirmed may only be cancelled.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                  true  "Reservation ID"
// @Param        request    body      UpdateStatusRequest  true  "New status"
// @Success      200        {object}  Reservation
// @Failure      400        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /admin/bookings/{bookingID}/status [patch]
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.service.UpdateStatus(c.Request.Context(), bookingID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		}
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// GetBookingStats godoc
// @Summary      Booking analytics
// @Description  Counts of non-cancelled reservations grouped by day and by service over a created_at range.
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  true  "Start of range (YYYY-MM-DD, inclusive)"
// @Param        to    query     string  true  "End of range (YYYY-MM-DD, exclusive)"
// @Success      200   {object}  gin.H
// @Failure      400   {object}  gin.H
// @Failure      500   {object}  gin.H
// @Router       /admin/analytics/bookings [get]
func (h *Handler) GetBookingStats(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}

	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}

	byDay, err := h.service.GetStatsByDay(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	byService, err := h.service.GetStatsByService(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"by_day":     byDay,
		"by_service": byService,
	})
}

func (h *Handler) writeCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailNotVerified):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, ErrOccurrenceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrSlotFull), errors.Is(err, ErrSlotBlocked), errors.Is(err, ErrDayClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrMissingIdentity), errors.Is(err, ErrInvalidCoupon):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
	}
}
