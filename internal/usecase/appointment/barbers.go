package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BarberDTO struct {
	ID           uint                  `json:"id"`
	Name         string                `json:"name"`
	Bio          string                `json:"bio,omitempty"`
	WorkingHours []dto.WorkingHoursDTO `json:"working_hours"`
}

type ListBarbers struct {
	repo domain.Repository
}

func NewListBarbers(repo domain.Repository) *ListBarbers {
	return &ListBarbers{repo: repo}
}

func (uc *ListBarbers) Execute(ctx context.Context) ([]BarberDTO, error) {
	barbers, err := uc.repo.ListBarbers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]BarberDTO, 0, len(barbers))
	for _, b := range barbers {
		out = append(out, BarberDTO{
			ID:           b.ID,
			Name:         b.Name,
			Bio:          b.Bio,
			WorkingHours: workingHoursDTOs(b.WorkingHours),
		})
	}
	return out, nil
}

// ======================================================
// Seed
// ======================================================

// SeedBarber creates an active barber with the given weekly rules. It backs
// the demo data of memory mode and tests; there is no HTTP route for it.
func SeedBarber(
	ctx context.Context,
	repo domain.Repository,
	name string,
	hours []WorkingHoursInput,
) (*models.Barber, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, httperr.ErrValidation("invalid_name", "Name is required.")
	}

	rules, err := parseRules(hours)
	if err != nil {
		return nil, err
	}

	b := &models.Barber{
		Name:         name,
		Active:       true,
		WorkingHours: rules,
	}
	if err := repo.CreateBarber(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
