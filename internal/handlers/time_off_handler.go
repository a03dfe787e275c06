package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

type TimeOffHandler struct {
	uc *ucAppointment.TimeOffAdmin
}

func NewTimeOffHandler(uc *ucAppointment.TimeOffAdmin) *TimeOffHandler {
	return &TimeOffHandler{uc: uc}
}

type CreateTimeOffRequest struct {
	StartsAt string `json:"starts_at" binding:"required"`
	EndsAt   string `json:"ends_at" binding:"required"`
	Reason   string `json:"reason"`
}

// List answers GET /admin/barbers/:id/time-off?from=&to= with optional
// ISO-8601 bounds.
func (h *TimeOffHandler) List(c *gin.Context) {
	barberID, err := paramID(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var from, to time.Time
	if s := c.Query("from"); s != "" {
		if from, err = validators.ParseInstant("from", s); err != nil {
			httperr.FromError(c, err)
			return
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = validators.ParseInstant("to", s); err != nil {
			httperr.FromError(c, err)
			return
		}
	}

	out, err := h.uc.List(c.Request.Context(), barberID, from, to)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, out)
}

func (h *TimeOffHandler) Create(c *gin.Context) {
	barberID, err := paramID(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var req CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	start, err := validators.ParseInstant("starts_at", req.StartsAt)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	end, err := validators.ParseInstant("ends_at", req.EndsAt)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	off, err := h.uc.Create(c.Request.Context(), actorFrom(c), ucAppointment.TimeOffInput{
		BarberID: barberID,
		StartsAt: start,
		EndsAt:   end,
		Reason:   req.Reason,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, off)
}

func (h *TimeOffHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	if err := h.uc.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}
