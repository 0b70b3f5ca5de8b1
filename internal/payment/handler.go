package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"plunge/internal/booking"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CheckoutRequest struct {
	Reference string `json:"reference" binding:"required"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

type ConfirmRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// StartCheckout godoc
// @Summary      Open payment for a reservation
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      CheckoutRequest  true  "Booking reference"
// @Success      200      {object}  CheckoutResponse
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /payments/checkout [post]
func (h *Handler) StartCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.service.StartCheckout(c.Request.Context(), req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, ErrNotPayable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start checkout"})
		}
		return
	}

	c.JSON(http.StatusOK, CheckoutResponse{CheckoutURL: url})
}

// ConfirmPayment godoc
// @Summary      Confirm a paid checkout session
// @Description  Verifies the session with the payment provider and confirms the reservation it references.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      ConfirmRequest  true  "Checkout session ID"
// @Success      200      {object}  booking.Reservation
// @Failure      400      {object}  gin.H
// @Failure      402      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /payments/confirm [post]
func (h *Handler) ConfirmPayment(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.service.Confirm(c.Request.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotPaid):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNoBooking), errors.Is(err, booking.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found for this session"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
		}
		return
	}

	c.JSON(http.StatusOK, reservation)
}
