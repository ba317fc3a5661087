package reservation

import (
	"context"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
)

// DeleteReservation is the administrative hard delete. It sits outside the
// state machine and notifies nobody.
type DeleteReservation struct {
	repo domain.Repository
}

func NewDeleteReservation(repo domain.Repository) *DeleteReservation {
	return &DeleteReservation{repo: repo}
}

func (uc *DeleteReservation) Execute(
	ctx context.Context,
	id uint,
	actor domain.Actor,
) error {

	if !actor.Admin {
		return httperr.ErrForbidden("admin_only")
	}

	return uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if _, err := getReservation(ctx, tx, id, true); err != nil {
			return err
		}
		return tx.DeleteReservation(ctx, id)
	})
}
