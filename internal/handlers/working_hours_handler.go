package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

type WorkingHoursHandler struct {
	getUC     *ucAppointment.GetWorkingHours
	replaceUC *ucAppointment.ReplaceWorkingHours
}

func NewWorkingHoursHandler(
	getUC *ucAppointment.GetWorkingHours,
	replaceUC *ucAppointment.ReplaceWorkingHours,
) *WorkingHoursHandler {
	return &WorkingHoursHandler{getUC: getUC, replaceUC: replaceUC}
}

type WorkingDayConfig struct {
	Weekday   *int   `json:"weekday" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// WorkingHoursUpdateRequest is the full weekly set; weekdays left out have no
// hours.
type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	barberID, err := paramID(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	rules, err := h.getUC.Execute(c.Request.Context(), barberID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, rules)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	barberID, err := paramID(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	in := make([]ucAppointment.WorkingHoursInput, 0, len(req.Days))
	for _, d := range req.Days {
		in = append(in, ucAppointment.WorkingHoursInput{
			Weekday: *d.Weekday,
			Start:   d.StartTime,
			End:     d.EndTime,
		})
	}

	res, err := h.replaceUC.Execute(c.Request.Context(), actorFrom(c), barberID, in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, res)
}
