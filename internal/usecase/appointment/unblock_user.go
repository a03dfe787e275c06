package appointment

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// UnblockUser is the admin way back from a no-show block.
type UnblockUser struct {
	repo  domain.Repository
	audit Auditor
}

func NewUnblockUser(
	repo domain.Repository,
	audit Auditor,
) *UnblockUser {
	return &UnblockUser{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UnblockUser) Execute(
	ctx context.Context,
	actor Actor,
	userID uint,
	clearWarnings bool,
) (*models.User, error) {

	if !actor.IsAdmin() {
		return nil, errAdminOnly
	}

	var user *models.User
	err := uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		var err error
		user, err = tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return httperr.ErrNotFound("user_not_found", "User not found.")
			}
			return err
		}

		domain.ClearEligibility(user, clearWarnings)
		return tx.UpdateUserEligibility(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(auditEventFor(ctx, actor.UserID, "user_unblocked", "user", user.ID, map[string]any{
		"clear_warnings": clearWarnings,
	}))

	return user, nil
}
