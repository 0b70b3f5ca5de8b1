package coupon

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ValidateCoupon godoc
// @Summary      Validate coupon code
// @Description  Checks whether a code can currently be redeemed; with price_cents set, returns the discounted price.
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        request  body      ValidateCouponRequest  true  "Code to check"
// @Success      200      {object}  ValidateCouponResponse
// @Failure      400      {object}  gin.H
// @Router       /coupons/validate [post]
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, err := h.service.Validate(c.Request.Context(), req.Code)
	if err != nil {
		// Invalid codes are a normal outcome for this endpoint, not an error
		// status: the booking form shows the reason inline.
		c.JSON(http.StatusOK, ValidateCouponResponse{
			Valid:  false,
			Code:   req.Code,
			Reason: validationReason(err),
		})
		return
	}

	resp := ValidateCouponResponse{Valid: true, Code: coupon.Code}
	if req.PriceCents > 0 {
		discounted := coupon.Discount(req.PriceCents)
		resp.DiscountedCents = &discounted
	}

	c.JSON(http.StatusOK, resp)
}

// CreateCoupon godoc
// @Summary      Create coupon
// @Tags         coupons
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateCouponRequest  true  "Coupon definition"
// @Success      201      {object}  Coupon
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/coupons [post]
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if (req.PercentOff == nil) == (req.AmountOffCents == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Set exactly one of percent_off or amount_off_cents"})
		return
	}

	coupon, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create coupon"})
		return
	}

	c.JSON(http.StatusCreated, coupon)
}

// ListCoupons godoc
// @Summary      List coupons
// @Tags         coupons
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Coupon
// @Failure      500  {object}  gin.H
// @Router       /admin/coupons [get]
func (h *Handler) ListCoupons(c *gin.Context) {
	coupons, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
		return
	}

	c.JSON(http.StatusOK, coupons)
}

// SetCouponActive godoc
// @Summary      Activate or deactivate coupon
// @Tags         coupons
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        couponID  path      int   true  "Coupon ID"
// @Param        request   body      gin.H true  "{'active': bool}"
// @Success      200       {object}  gin.H
// @Failure      400       {object}  gin.H
// @Failure      404       {object}  gin.H
// @Failure      500       {object}  gin.H
// @Router       /admin/coupons/{couponID}/active [put]
func (h *Handler) SetCouponActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("couponID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID"})
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon updated"})
}

// DeleteCoupon godoc
// @Summary      Delete coupon
// @Tags         coupons
// @Security     BearerAuth
// @Produce      json
// @Param        couponID  path      int  true  "Coupon ID"
// @Success      200       {object}  gin.H
// @Failure      400       {object}  gin.H
// @Failure      404       {object}  gin.H
// @Failure      500       {object}  gin.H
// @Router       /admin/coupons/{couponID} [delete]
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("couponID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
}

func validationReason(err error) string {
	switch {
	case errors.Is(err, ErrCouponNotFound):
		return "unknown code"
	case errors.Is(err, ErrCouponInactive):
		return "code is not active"
	case errors.Is(err, ErrCouponExpired):
		return "code has expired"
	case errors.Is(err, ErrCouponExhausted):
		return "code has been fully redeemed"
	default:
		return "code cannot be redeemed"
	}
}
