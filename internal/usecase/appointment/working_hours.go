package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type WorkingHoursInput struct {
	Weekday int
	Start   string // HH:MM
	End     string // HH:MM
}

type ReplaceWorkingHoursResult struct {
	Rules []dto.WorkingHoursDTO `json:"rules"`
	// Future active bookings that no longer fit any rule. They are kept as
	// they are; an admin decides what to do with them.
	Flagged []dto.AppointmentDTO `json:"flagged"`
}

type ReplaceWorkingHours struct {
	repo  domain.Repository
	clock *timezone.Clock
	audit Auditor
}

func NewReplaceWorkingHours(
	repo domain.Repository,
	clock *timezone.Clock,
	audit Auditor,
) *ReplaceWorkingHours {
	return &ReplaceWorkingHours{
		repo:  repo,
		clock: clock,
		audit: audit,
	}
}

// Execute swaps the barber's whole rule set.
func (uc *ReplaceWorkingHours) Execute(
	ctx context.Context,
	actor Actor,
	barberID uint,
	in []WorkingHoursInput,
) (*ReplaceWorkingHoursResult, error) {

	if !actor.IsAdmin() {
		return nil, errAdminOnly
	}

	rules, err := parseRules(in)
	if err != nil {
		return nil, err
	}

	if err := ensureBarber(ctx, uc.repo, barberID); err != nil {
		return nil, err
	}

	var future []models.Appointment
	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		if err := tx.ReplaceWorkingHours(ctx, barberID, rules); err != nil {
			return err
		}
		future, err = tx.ListActiveFromBarber(ctx, barberID, uc.clock.Now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}

	flagged := outsideRules(future, rules)

	uc.audit.Dispatch(auditEventFor(ctx, actor.UserID, "working_hours_replaced", "barber", barberID, map[string]any{
		"rules":   len(rules),
		"flagged": len(flagged),
	}))

	return &ReplaceWorkingHoursResult{
		Rules:   workingHoursDTOs(rules),
		Flagged: dto.FromAppointments(flagged),
	}, nil
}

// ======================================================
// Get
// ======================================================

type GetWorkingHours struct {
	repo domain.Repository
}

func NewGetWorkingHours(repo domain.Repository) *GetWorkingHours {
	return &GetWorkingHours{repo: repo}
}

func (uc *GetWorkingHours) Execute(ctx context.Context, barberID uint) ([]dto.WorkingHoursDTO, error) {
	if err := ensureBarber(ctx, uc.repo, barberID); err != nil {
		return nil, err
	}

	rules, err := uc.repo.ListWorkingHours(ctx, barberID)
	if err != nil {
		return nil, err
	}
	return workingHoursDTOs(rules), nil
}

// ======================================================
// Helpers
// ======================================================

func parseRules(in []WorkingHoursInput) ([]models.WorkingHours, error) {
	seen := map[int]bool{}
	rules := make([]models.WorkingHours, 0, len(in))

	for _, r := range in {
		if r.Weekday < 0 || r.Weekday > 6 {
			return nil, httperr.ErrValidation("invalid_weekday", "Weekday must be 0-6.")
		}
		if seen[r.Weekday] {
			return nil, httperr.ErrValidation("duplicate_weekday", "One rule per weekday.")
		}
		seen[r.Weekday] = true

		start, err := timezone.ParseMinuteOfDay(r.Start)
		if err != nil {
			return nil, err
		}
		end, err := timezone.ParseMinuteOfDay(r.End)
		if err != nil {
			return nil, err
		}
		if end <= start {
			return nil, httperr.ErrValidation("invalid_time_range", "End must be after start.")
		}

		rules = append(rules, models.WorkingHours{
			Weekday:     r.Weekday,
			StartMinute: start,
			EndMinute:   end,
		})
	}

	return rules, nil
}

// outsideRules returns the appointments that do not sit fully inside the rule
// of their UTC weekday.
func outsideRules(apps []models.Appointment, rules []models.WorkingHours) []models.Appointment {
	byDay := make(map[int]models.WorkingHours, len(rules))
	for _, r := range rules {
		byDay[r.Weekday] = r
	}

	out := []models.Appointment{}
	for _, ap := range apps {
		rule, ok := byDay[int(ap.StartsAt.UTC().Weekday())]
		if !ok {
			out = append(out, ap)
			continue
		}
		start, end := domain.DayRange(ap.StartsAt.UTC(), rule)
		if ap.StartsAt.Before(start) || ap.EndsAt.After(end) {
			out = append(out, ap)
		}
	}
	return out
}

func workingHoursDTOs(rules []models.WorkingHours) []dto.WorkingHoursDTO {
	out := make([]dto.WorkingHoursDTO, 0, len(rules))
	for _, r := range rules {
		out = append(out, dto.WorkingHoursDTO{
			Weekday: r.Weekday,
			Start:   timezone.FormatMinuteOfDay(r.StartMinute),
			End:     timezone.FormatMinuteOfDay(r.EndMinute),
		})
	}
	return out
}
