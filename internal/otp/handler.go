package otp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type SendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type VerifyResponse struct {
	VerificationToken string `json:"verification_token"`
}

// SendCode godoc
// @Summary      Send a verification code
// @Description  Emails a 6-digit code to the address. Codes expire and replace any earlier pending code for the same address.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      SendRequest  true  "Email address"
// @Success      200      {object}  gin.H
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /auth/otp/send [post]
func (h *Handler) SendCode(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Send(c.Request.Context(), req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// VerifyCode godoc
// @Summary      Verify a code
// @Description  Exchanges a valid code for a short-lived verification token required when booking. Each code can be attempted once.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyRequest  true  "Email and code"
// @Success      200      {object}  VerifyResponse
// @Failure      400      {object}  gin.H
// @Failure      401      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /auth/otp/verify [post]
func (h *Handler) VerifyCode(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.service.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) || errors.Is(err, ErrCodeMismatch) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired verification code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify code"})
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{VerificationToken: token})
}
