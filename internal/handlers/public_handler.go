package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the unauthenticated catalogue: barbers and their
// free slots.
type PublicHandler struct {
	listBarbers  *ucAppointment.ListBarbers
	availability *ucAppointment.GetAvailability
}

func NewPublicHandler(
	listBarbers *ucAppointment.ListBarbers,
	availability *ucAppointment.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		listBarbers:  listBarbers,
		availability: availability,
	}
}

////////////////////////////////////////////////////////
// BARBERS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	barbers, err := h.listBarbers.Execute(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, barbers)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// Availability answers GET /barbers/:id/availability?date=&duration=&step=.
func (h *PublicHandler) Availability(c *gin.Context) {
	barberID, err := paramID(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required (YYYY-MM-DD).")
		return
	}

	duration, err := validators.ParsePositiveInt("duration", c.Query("duration"), 0)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if duration == 0 {
		httperr.BadRequest(c, "missing_duration", "duration is required.")
		return
	}

	step, err := validators.ParsePositiveInt("step", c.Query("step"), domain.DefaultStepMinutes)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarberID:        barberID,
		Date:            date,
		DurationMinutes: duration,
		StepMinutes:     step,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out := make([]dto.SlotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, dto.SlotDTO{Start: s.Start.UTC(), End: s.End.UTC()})
	}

	httpresp.OK(c, gin.H{
		"barber_id": barberID,
		"date":      date,
		"slots":     out,
	})
}
