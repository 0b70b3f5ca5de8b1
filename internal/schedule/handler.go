package schedule

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

// GetAvailability godoc
// @Summary      Slot availability for a date
// @Description  Returns the effective bookable windows for a service on a date, with remaining capacity per slot. Closed dates return an empty slot list with a reason.
// @Tags         availability
// @Produce      json
// @Param        serviceID  path      int     true  "Service ID"
// @Param        date       query     string  true  "Date (YYYY-MM-DD)"
// @Success      200        {object}  Availability
// @Failure      400        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /services/{serviceID}/availability [get]
func (h *Handler) GetAvailability(c *gin.Context) {
	serviceID, err := strconv.Atoi(c.Param("serviceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query param is required"})
		return
	}

	availability, err := h.service.Resolve(c.Request.Context(), serviceID, date)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve availability"})
		return
	}

	c.JSON(http.StatusOK, availability)
}

// CreateDefaultSlot godoc
// @Summary      Add recurring slot
// @Description  Adds a time window to the service's recurring template. Admin only.
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        serviceID  path      int                       true  "Service ID"
// @Param        request    body      CreateDefaultSlotRequest  true  "Slot definition"
// @Success      201        {object}  DefaultSlot
// @Failure      400        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /admin/services/{serviceID}/slots [post]
func (h *Handler) CreateDefaultSlot(c *gin.Context) {
	serviceID, err := strconv.Atoi(c.Param("serviceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var req CreateDefaultSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.service.CreateDefaultSlot(c.Request.Context(), serviceID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidTimeRange) || errors.Is(err, ErrInvalidCapacity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create slot"})
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// ListDefaultSlots godoc
// @Summary      List recurring slots
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        serviceID  path      int  true  "Service ID"
// @Success      200        {array}   DefaultSlot
// @Failure      400        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /admin/services/{serviceID}/slots [get]
func (h *Handler) ListDefaultSlots(c *gin.Context) {
	serviceID, err := strconv.Atoi(c.Param("serviceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	slots, err := h.service.ListDefaultSlots(c.Request.Context(), serviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch slots"})
		return
	}

	c.JSON(http.StatusOK, slots)
}

// DeleteDefaultSlot godoc
// @Summary      Delete recurring slot
// @Description  Deletes a recurring slot and every per-date exception referencing it, for all future dates. Requires confirm=true.
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        slotID   path      int     true  "Default slot ID"
// @Param        confirm  query     string  true  "Must be 'true'"
// @Success      200      {object}  gin.H
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/slots/{slotID} [delete]
func (h *Handler) DeleteDefaultSlot(c *gin.Context) {
	slotID, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	// Deleting a recurring slot affects every future date, so the UI must
	// ask for confirmation and say so here explicitly.
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deleting a recurring slot affects all dates; pass confirm=true"})
		return
	}

	if err := h.service.DeleteDefaultSlot(c.Request.Context(), slotID); err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete slot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slot and its exceptions deleted"})
}

// SetSlotCapacity godoc
// @Summary      Override slot capacity for a date
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        serviceID  path      int                      true  "Service ID"
// @Param        date       path      string                   true  "Date (YYYY-MM-DD)"
// @Param        slotID     path      int                      true  "Default slot ID"
// @Param        request    body      CapacityOverrideRequest  true  "New capacity"
// @Success      200        {object}  Exception
// @Failure      400        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /admin/services/{serviceID}/schedule/{date}/slots/{slotID}/capacity [put]
func (h *Handler) SetSlotCapacity(c *gin.Context) {
	serviceID, date, slotID, ok := h.scheduleParams(c)
	if !ok {
		return
	}

	var req CapacityOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ex, err := h.service.SetSlotCapacityOverride(c.Request.Context(), serviceID, date, slotID, req.Capacity)
	if err != nil {
		h.writeWriterError(c, err)
		return
	}

	c.JSON(http.StatusOK, ex)
}

// BlockSlot godoc
// @Summary      Block a slot on a date
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        serviceID  path      int     true  "Service ID"
// @Param        date       path      string  true  "Date (YYYY-MM-DD)"
// @Param        slotID     path      int     true  "Default slot ID"
// @Success      200        {object}  Exception
// @Failure      400        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /admin/services/{serviceID}/schedule/{date}/slots/{slotID}/block [post]
func (h *Handler) BlockSlot(c *gin.Context) {
	serviceID, date, slotID, ok := h.scheduleParams(c)
	if !ok {
		return
	}

	ex, err := h.service.BlockSlotForDate(c.Request.Context(), serviceID, date, slotID)
	if err != nil {
		h.writeWriterError(c, err)
		return
	}

	c.JSON(http.StatusOK, ex)
}

// UnblockSlot godoc
// @Summary      Unblock a slot on a date
// @Description  Deletes the override, reverting the slot to its recurring template values.
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        serviceID  path      int     true  "Service ID"
// @Param        date       path      string  true  "Date (YYYY-MM-DD)"
// @Param        slotID     path      int     true  "Default slot ID"
// @Success      200        {object}  gin.H
// @Failure      400        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /admin/services/{serviceID}/schedule/{date}/slots/{slotID}/block [delete]
func (h *Handler) UnblockSlot(c *gin.Context) {
	serviceID, date, slotID, ok := h.scheduleParams(c)
	if !ok {
		return
	}

	if err := h.service.UnblockSlotForDate(c.Request.Context(), serviceID, date, slotID); err != nil {
		h.writeWriterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slot unblocked"})
}

// AddAdHocSlot godoc
// @Summary      Add one-off slot for a date
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        serviceID  path      int                  true  "Service ID"
// @Param        date       path      string               true  "Date (YYYY-MM-DD)"
// @Param        request    body      AddAdHocSlotRequest  true  "Slot definition"
// @Success      201        {object}  Exception
// @Failure      400        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /admin/services/{serviceID}/schedule/{date}/adhoc [post]
func (h *Handler) AddAdHocSlot(c *gin.Context) {
	serviceID, err := strconv.Atoi(c.Param("serviceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}
	date := c.Param("date")

	var req AddAdHocSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ex, err := h.service.AddAdHocSlot(c.Request.Context(), serviceID, date, req.StartTime, req.EndTime, req.Capacity)
	if err != nil {
		h.writeWriterError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ex)
}

// RemoveAdHocSlot godoc
// @Summary      Remove one-off slot
// @Description  Only valid for ad-hoc additions; overrides of recurring slots are rejected.
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        exceptionID  path      int  true  "Exception ID"
// @Success      200          {object}  gin.H
// @Failure      400          {object}  gin.H
// @Failure      404          {object}  gin.H
// @Failure      500          {object}  gin.H
// @Router       /admin/exceptions/{exceptionID} [delete]
func (h *Handler) RemoveAdHocSlot(c *gin.Context) {
	exceptionID, err := strconv.Atoi(c.Param("exceptionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exception ID"})
		return
	}

	if err := h.service.RemoveAdHocSlot(c.Request.Context(), exceptionID); err != nil {
		h.writeWriterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slot removed"})
}

// BlockDate godoc
// @Summary      Close the studio for a date
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      BlockDateRequest  true  "Date and reason"
// @Success      201      {object}  BlockedDate
// @Failure      400      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/blocked-dates [post]
func (h *Handler) BlockDate(c *gin.Context) {
	var req BlockDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	blocked, err := h.service.BlockEntireDate(c.Request.Context(), req.Date, req.Reason)
	if err != nil {
		if errors.Is(err, ErrDateAlreadyBlocked) {
			c.JSON(http.StatusConflict, gin.H{"error": "Date is already blocked"})
			return
		}
		h.writeWriterError(c, err)
		return
	}

	c.JSON(http.StatusCreated, blocked)
}

// UnblockDate godoc
// @Summary      Reopen a blocked date
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        date  path      string  true  "Date (YYYY-MM-DD)"
// @Success      200   {object}  gin.H
// @Failure      400   {object}  gin.H
// @Failure      404   {object}  gin.H
// @Failure      500   {object}  gin.H
// @Router       /admin/blocked-dates/{date} [delete]
func (h *Handler) UnblockDate(c *gin.Context) {
	date := c.Param("date")

	if err := h.service.UnblockEntireDate(c.Request.Context(), date); err != nil {
		if errors.Is(err, ErrBlockedDateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Date is not blocked"})
			return
		}
		h.writeWriterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Date unblocked"})
}

// ListBlockedDates godoc
// @Summary      List blocked dates
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  true  "List dates on or after (YYYY-MM-DD)"
// @Success      200   {array}   BlockedDate
// @Failure      400   {object}  gin.H
// @Failure      500   {object}  gin.H
// @Router       /admin/blocked-dates [get]
func (h *Handler) ListBlockedDates(c *gin.Context) {
	from := c.Query("from")
	if from == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from query param is required"})
		return
	}

	blocked, err := h.service.ListBlockedDates(c.Request.Context(), from)
	if err != nil {
		h.writeWriterError(c, err)
		return
	}

	c.JSON(http.StatusOK, blocked)
}

func (h *Handler) scheduleParams(c *gin.Context) (serviceID int, date string, slotID int, ok bool) {
	serviceID, err := strconv.Atoi(c.Param("serviceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return 0, "", 0, false
	}

	slotID, err = strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return 0, "", 0, false
	}

	return serviceID, c.Param("date"), slotID, true
}

func (h *Handler) writeWriterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSlotNotFound), errors.Is(err, ErrExceptionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidTimeRange),
		errors.Is(err, ErrInvalidCapacity), errors.Is(err, ErrNotAdHoc):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Schedule operation failed"})
	}
}
