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

type OverridePendingInput struct {
	ID       uint
	Approved *bool
	Actor    domain.Actor
}

// OverridePendingReservation lets an admin settle a reservation that is
// still waiting on approvals, including one nobody can vote on.
type OverridePendingReservation struct {
	repo    domain.Repository
	hook    notify.Hook
	metrics *metrics.Metrics
}

func NewOverridePendingReservation(
	repo domain.Repository,
	hook notify.Hook,
	m *metrics.Metrics,
) *OverridePendingReservation {
	return &OverridePendingReservation{
		repo:    repo,
		hook:    hook,
		metrics: m,
	}
}

func (uc *OverridePendingReservation) Execute(
	ctx context.Context,
	in OverridePendingInput,
) (*models.Reservation, error) {

	if !in.Actor.Admin {
		return nil, httperr.ErrForbidden("admin_only")
	}
	if in.Approved == nil {
		return nil, httperr.ErrValidation("missing_approved")
	}

	outcome := domain.OutcomeRejected
	if *in.Approved {
		outcome = domain.OutcomeApproved
	}

	var (
		r      *models.Reservation
		voters []uint
	)

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error

		r, err = getReservation(ctx, tx, in.ID, true)
		if err != nil {
			return err
		}

		if err := domain.CanResolve(domain.Status(r.Status)); err != nil {
			return err
		}

		domain.Resolve(r, outcome)
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

	kind := notify.EventApproved
	if outcome == domain.OutcomeRejected {
		kind = notify.EventRejected
	}
	uc.metrics.TransitionsTotal.WithLabelValues(kind.Label()).Inc()

	admin := in.Actor.UserID
	uc.hook.Dispatch(notify.NewEvent(
		kind,
		r,
		domain.Recipients(nil, voters, []uint{r.OwnerID}),
		&admin,
		timezone.Now(),
	))

	return r, nil
}
