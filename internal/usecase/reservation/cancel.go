package reservation

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/notify"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/pkg/metrics"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/timezone"
)

type CancelReservation struct {
	repo    domain.Repository
	members domain.Membership
	hook    notify.Hook
	metrics *metrics.Metrics
}

func NewCancelReservation(
	repo domain.Repository,
	members domain.Membership,
	hook notify.Hook,
	m *metrics.Metrics,
) *CancelReservation {
	return &CancelReservation{
		repo:    repo,
		members: members,
		hook:    hook,
		metrics: m,
	}
}

func (uc *CancelReservation) Execute(
	ctx context.Context,
	id uint,
	actor domain.Actor,
) (*models.Reservation, error) {

	var (
		r      *models.Reservation
		voters []uint
	)

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error

		r, err = getReservation(ctx, tx, id, true)
		if err != nil {
			return err
		}

		if !actor.CanManage(r) {
			return httperr.ErrForbidden("not_owner")
		}

		if err := domain.Cancel(r, timezone.Now()); err != nil {
			return err
		}

		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}

		votes, err := tx.ListVotesByReservation(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("list votes: %w", err)
		}
		voters = domain.Voters(votes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.TransitionsTotal.WithLabelValues("cancelled").Inc()

	// --------------------------------------------------
	// Post-commit: everyone affected except the canceller
	// --------------------------------------------------
	if len(voters) == 0 {
		voters = uc.stakeholders(ctx, r)
	}

	by := actor.UserID
	uc.hook.Dispatch(notify.NewEvent(
		notify.EventCancelled,
		r,
		domain.Recipients([]uint{by}, voters, []uint{r.OwnerID}),
		&by,
		timezone.Now(),
	))

	return r, nil
}

// stakeholders is a best-effort lookup for reservations without a ledger.
// A failed lookup narrows the recipients to the owner.
func (uc *CancelReservation) stakeholders(
	ctx context.Context,
	r *models.Reservation,
) []uint {

	switch domain.Kind(r.Kind) {
	case domain.KindRehearsal:
		if r.RoomID == nil {
			return nil
		}
		ids, err := roomStakeholders(ctx, uc.members, *r.RoomID, r.OwnerID)
		if err != nil {
			return nil
		}
		return ids
	case domain.KindBandShow:
		if r.BandID == nil {
			return nil
		}
		band, err := uc.repo.GetBand(ctx, *r.BandID)
		if err != nil {
			return nil
		}
		ids := make([]uint, 0, len(band.Members))
		for _, m := range band.Members {
			ids = append(ids, m.ID)
		}
		return ids
	}
	return nil
}
