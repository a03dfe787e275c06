package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC     *ucAppointment.CreateAppointment
	cancelUC     *ucAppointment.CancelAppointment
	rescheduleUC *ucAppointment.RescheduleAppointment
	completeUC   *ucAppointment.CompleteAppointment
	noShowUC     *ucAppointment.MarkNoShow
	listMineUC   *ucAppointment.ListMyAppointments
	listByDateUC *ucAppointment.ListAppointmentsByDate
	listMonthUC  *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	rescheduleUC *ucAppointment.RescheduleAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	noShowUC *ucAppointment.MarkNoShow,
	listMineUC *ucAppointment.ListMyAppointments,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
	listMonthUC *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:     createUC,
		cancelUC:     cancelUC,
		rescheduleUC: rescheduleUC,
		completeUC:   completeUC,
		noShowUC:     noShowUC,
		listMineUC:   listMineUC,
		listByDateUC: listByDateUC,
		listMonthUC:  listMonthUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	BarberID        uint   `json:"barber_id" binding:"required"`
	ServiceName     string `json:"service_name" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
	StartsAt        string `json:"starts_at" binding:"required"`
	Notes           string `json:"notes"`
}

type RescheduleAppointmentRequest struct {
	StartsAt        *string `json:"starts_at"`
	DurationMinutes *int    `json:"duration_minutes"`
}

// ======================================================
// CUSTOMER
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	start, err := validators.ParseInstant("starts_at", req.StartsAt)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		UserID:          actorFrom(c).UserID,
		BarberID:        req.BarberID,
		ServiceName:     req.ServiceName,
		DurationMinutes: req.DurationMinutes,
		StartsAt:        start,
		Notes:           req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, dto.FromAppointment(*ap))
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	out, err := h.listMineUC.Execute(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, out)
}

// ======================================================
// CUSTOMER + ADMIN
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromAppointment(*ap))
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	in := ucAppointment.RescheduleInput{
		AppointmentID:   id,
		DurationMinutes: req.DurationMinutes,
	}
	if req.StartsAt != nil {
		start, err := validators.ParseInstant("starts_at", *req.StartsAt)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		in.StartsAt = &start
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromAppointment(*ap))
}

// ======================================================
// ADMIN
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromAppointment(*ap))
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	ap, err := h.noShowUC.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromAppointment(*ap))
}

// ListByDate answers GET /admin/appointments?barber_id=&date=.
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	barberID, err := validators.ParseID("barber_id", c.Query("barber_id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required (YYYY-MM-DD).")
		return
	}

	out, err := h.listByDateUC.Execute(c.Request.Context(), barberID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, out)
}

// ListByMonth answers GET /admin/appointments/month?barber_id=&year=&month=.
func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	barberID, err := validators.ParseID("barber_id", c.Query("barber_id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "year and month are required.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Year is not a number.")
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Month is not a number.")
		return
	}

	out, err := h.listMonthUC.Execute(c.Request.Context(), barberID, year, month)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"year":         year,
		"month":        month,
		"appointments": out,
	})
}
