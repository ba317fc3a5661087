package reservation

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/notify"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/timezone"
)

// UpdateReservationInput replaces the editable fields. Nil references keep
// the stored ones and a zero BandID drops a rehearsal's band. Kind and
// FullDay, when sent, must match.
type UpdateReservationInput struct {
	ID    uint
	Actor domain.Actor

	Kind    string
	FullDay *bool
	RoomID  *uint
	BandID  *uint

	Start time.Time
	End   time.Time

	Color *string
	Notes *string
}

type UpdateReservation struct {
	repo    domain.Repository
	members domain.Membership
	hook    notify.Hook
}

func NewUpdateReservation(
	repo domain.Repository,
	members domain.Membership,
	hook notify.Hook,
) *UpdateReservation {
	return &UpdateReservation{
		repo:    repo,
		members: members,
		hook:    hook,
	}
}

func (uc *UpdateReservation) Execute(
	ctx context.Context,
	in UpdateReservationInput,
) (*models.Reservation, error) {

	if err := domain.ValidateInterval(in.Start, in.End); err != nil {
		return nil, err
	}

	var (
		r       *models.Reservation
		revoted []models.ApprovalVote
	)

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error

		// --------------------------------------------------
		// 1. Current row, locked
		// --------------------------------------------------
		r, err = getReservation(ctx, tx, in.ID, true)
		if err != nil {
			return err
		}

		if !in.Actor.CanManage(r) {
			return httperr.ErrForbidden("not_owner")
		}
		if err := domain.CanEdit(domain.Status(r.Status)); err != nil {
			return err
		}

		// --------------------------------------------------
		// 2. Immutable fields
		// --------------------------------------------------
		kind := domain.Kind(r.Kind)
		if in.Kind != "" {
			requested, err := domain.ParseKind(in.Kind)
			if err != nil {
				return err
			}
			if requested != kind {
				return httperr.ErrValidation("kind_immutable")
			}
		}
		if in.FullDay != nil && *in.FullDay != r.FullDay {
			return httperr.ErrValidation("full_day_immutable")
		}

		// --------------------------------------------------
		// 3. Target (same kind, references may move)
		// --------------------------------------------------
		roomID, bandID := r.RoomID, r.BandID
		if in.RoomID != nil {
			roomID = in.RoomID
		}
		if in.BandID != nil {
			bandID = in.BandID
		}

		target, err := domain.NewTarget(kind, roomID, bandID)
		if err != nil {
			return err
		}
		room, band, err := references(ctx, tx, target)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 4. Conflicts, excluding itself
		// --------------------------------------------------
		scope := domain.ScopeFor(target, r.OwnerID)
		if err := tx.LockScope(ctx, scope); err != nil {
			return fmt.Errorf("lock scope: %w", err)
		}

		self := r.ID
		if err := assertNoConflict(ctx, tx, domain.OverlapQuery{
			Scope:     scope,
			Start:     in.Start,
			End:       in.End,
			ExcludeID: &self,
		}); err != nil {
			return err
		}

		// --------------------------------------------------
		// 5. Apply
		// --------------------------------------------------
		moved := !r.StartTime.Equal(in.Start) || !r.EndTime.Equal(in.End)
		next := *r
		domain.Apply(target, &next)
		roomChanged := !sameID(r.RoomID, next.RoomID)
		retargeted := roomChanged || !sameID(r.BandID, next.BandID)

		// A color derived from the old references follows them.
		derived := retargeted && uc.derivedColor(ctx, tx, r)

		domain.Apply(target, r)
		r.StartTime = in.Start
		r.EndTime = in.End
		switch {
		case in.Color != nil:
			r.Color = *in.Color
		case derived:
			bandColor, roomColor := colorOf(room, band)
			r.Color = domain.ResolveColor(kind, "", bandColor, roomColor)
		}
		if in.Notes != nil {
			r.Notes = *in.Notes
		}

		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}

		if domain.Status(r.Status) != domain.StatusPendingApprovals {
			return nil
		}

		switch {
		case roomChanged:
			// The ledger belongs to the new room's stakeholders.
			revoted, err = uc.rebuildVotes(ctx, tx, r)
			if err != nil {
				return err
			}
		case moved:
			// Votes were cast for the old interval.
			if err := tx.ResetVotes(ctx, r.ID); err != nil {
				return fmt.Errorf("reset votes: %w", err)
			}
			revoted, err = tx.ListVotesByReservation(ctx, r.ID)
			if err != nil {
				return fmt.Errorf("list votes: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(revoted) > 0 {
		actor := in.Actor.UserID
		uc.hook.Dispatch(notify.NewEvent(
			notify.EventPending,
			r,
			domain.Voters(revoted),
			&actor,
			timezone.Now(),
		))
	}

	return r, nil
}

func (uc *UpdateReservation) rebuildVotes(
	ctx context.Context,
	tx domain.Repository,
	r *models.Reservation,
) ([]models.ApprovalVote, error) {

	if err := tx.DeleteVotes(ctx, r.ID); err != nil {
		return nil, fmt.Errorf("delete votes: %w", err)
	}

	stakeholders, err := roomStakeholders(ctx, uc.members, *r.RoomID, r.OwnerID)
	if err != nil {
		return nil, err
	}

	votes := domain.NewVotes(r.ID, stakeholders)
	if len(votes) == 0 {
		return nil, nil
	}
	if err := tx.CreateVotes(ctx, votes); err != nil {
		return nil, fmt.Errorf("create votes: %w", err)
	}
	return votes, nil
}

// derivedColor reports whether r still carries the color its stored
// references would give it.
func (uc *UpdateReservation) derivedColor(
	ctx context.Context,
	tx domain.Repository,
	r *models.Reservation,
) bool {

	current, err := domain.TargetOf(r)
	if err != nil {
		return false
	}
	room, band, err := references(ctx, tx, current)
	if err != nil {
		return false
	}

	bandColor, roomColor := colorOf(room, band)
	return r.Color == domain.ResolveColor(domain.Kind(r.Kind), "", bandColor, roomColor)
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
