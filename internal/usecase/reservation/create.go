package reservation

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/notify"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/pkg/metrics"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateReservationInput struct {
	OwnerID uint

	Kind   string
	RoomID *uint
	BandID *uint

	Start   time.Time
	End     time.Time
	FullDay bool

	Color string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateReservation struct {
	repo    domain.Repository
	members domain.Membership
	hook    notify.Hook
	metrics *metrics.Metrics
}

func NewCreateReservation(
	repo domain.Repository,
	members domain.Membership,
	hook notify.Hook,
	m *metrics.Metrics,
) *CreateReservation {
	return &CreateReservation{
		repo:    repo,
		members: members,
		hook:    hook,
		metrics: m,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateReservation) Execute(
	ctx context.Context,
	in CreateReservationInput,
) (*models.Reservation, error) {

	kind, err := domain.ParseKind(in.Kind)
	if err != nil {
		return nil, err
	}

	r, pending, err := uc.create(ctx, kind, in)

	outcome := outcomeLabel(err)
	if err == nil && domain.Status(r.Status) == domain.StatusPendingApprovals {
		outcome = "pending"
	}
	uc.metrics.ReservationsTotal.WithLabelValues(kindLabel(kind), outcome).Inc()

	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Post-commit: stakeholders hear about the pending request
	// --------------------------------------------------
	if len(pending) > 0 {
		owner := r.OwnerID
		uc.hook.Dispatch(notify.NewEvent(
			notify.EventPending,
			r,
			domain.Voters(pending),
			&owner,
			timezone.Now(),
		))
	}

	return r, nil
}

// create returns the votes it opened when the reservation is pending.
func (uc *CreateReservation) create(
	ctx context.Context,
	kind domain.Kind,
	in CreateReservationInput,
) (*models.Reservation, []models.ApprovalVote, error) {

	// --------------------------------------------------
	// 1. Interval
	// --------------------------------------------------
	if err := domain.ValidateInterval(in.Start, in.End); err != nil {
		return nil, nil, err
	}

	// --------------------------------------------------
	// 2. Target and references
	// --------------------------------------------------
	target, err := domain.NewTarget(kind, in.RoomID, in.BandID)
	if err != nil {
		return nil, nil, err
	}

	room, band, err := references(ctx, uc.repo, target)
	if err != nil {
		return nil, nil, err
	}

	// --------------------------------------------------
	// 3. Color and initial status
	// --------------------------------------------------
	bandColor, roomColor := colorOf(room, band)

	r := &models.Reservation{
		OwnerID:   in.OwnerID,
		StartTime: in.Start,
		EndTime:   in.End,
		FullDay:   in.FullDay,
		Status:    string(domain.InitialStatus(kind, in.FullDay)),
		Color:     domain.ResolveColor(kind, in.Color, bandColor, roomColor),
		Notes:     in.Notes,
	}
	domain.Apply(target, r)

	var stakeholders []uint
	if domain.Status(r.Status) == domain.StatusPendingApprovals {
		stakeholders, err = roomStakeholders(ctx, uc.members, *r.RoomID, in.OwnerID)
		if err != nil {
			return nil, nil, err
		}
	}

	// --------------------------------------------------
	// 4. Conflict check + insert + ledger, one transaction
	// --------------------------------------------------
	scope := domain.ScopeFor(target, in.OwnerID)
	var votes []models.ApprovalVote

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockScope(ctx, scope); err != nil {
			return fmt.Errorf("lock scope: %w", err)
		}

		if err := assertNoConflict(ctx, tx, domain.OverlapQuery{
			Scope: scope,
			Start: r.StartTime,
			End:   r.EndTime,
		}); err != nil {
			return err
		}

		if err := tx.CreateReservation(ctx, r); err != nil {
			return err
		}

		if domain.Status(r.Status) != domain.StatusPendingApprovals {
			return nil
		}

		votes = domain.NewVotes(r.ID, stakeholders)
		if len(votes) == 0 {
			return nil
		}
		return tx.CreateVotes(ctx, votes)
	})
	if err != nil {
		return nil, nil, err
	}

	return r, votes, nil
}
