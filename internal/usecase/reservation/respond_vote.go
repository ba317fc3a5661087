package reservation

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/notify"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/pkg/metrics"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/timezone"
)

type RespondToVoteInput struct {
	VoteID   uint
	Approved *bool
	Actor    domain.Actor
}

type VoteResult struct {
	Vote        *models.ApprovalVote
	Reservation *models.Reservation
	Outcome     domain.Outcome
	Changed     bool
}

type RespondToVote struct {
	repo    domain.Repository
	hook    notify.Hook
	metrics *metrics.Metrics
}

func NewRespondToVote(
	repo domain.Repository,
	hook notify.Hook,
	m *metrics.Metrics,
) *RespondToVote {
	return &RespondToVote{
		repo:    repo,
		hook:    hook,
		metrics: m,
	}
}

func (uc *RespondToVote) Execute(
	ctx context.Context,
	in RespondToVoteInput,
) (*VoteResult, error) {

	if in.Approved == nil {
		return nil, httperr.ErrValidation("missing_approved")
	}

	res := &VoteResult{}
	var voters []uint

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 1. Vote and its owner
		// --------------------------------------------------
		v, err := tx.GetVote(ctx, in.VoteID)
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrNotFound("vote_not_found")
		}
		if err != nil {
			return fmt.Errorf("get vote: %w", err)
		}
		if v.UserID != in.Actor.UserID {
			return httperr.ErrForbidden("not_voter")
		}

		// --------------------------------------------------
		// 2. Lock the reservation; recompute runs under it
		// --------------------------------------------------
		r, err := getReservation(ctx, tx, v.ReservationID, true)
		if err != nil {
			return err
		}

		domain.RecordVote(v, *in.Approved, timezone.Now())
		if err := tx.UpdateVote(ctx, v); err != nil {
			return fmt.Errorf("update vote: %w", err)
		}

		// --------------------------------------------------
		// 3. Aggregate
		// --------------------------------------------------
		votes, err := tx.ListVotesByReservation(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("list votes: %w", err)
		}

		res.Outcome = domain.Aggregate(votes)
		res.Changed = domain.Resolve(r, res.Outcome)

		if res.Changed {
			if err := tx.UpdateReservation(ctx, r); err != nil {
				return err
			}
		}

		res.Vote = v
		res.Reservation = r
		voters = domain.Voters(votes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := "rejected"
	if *in.Approved {
		response = "approved"
	}
	uc.metrics.VotesTotal.WithLabelValues(response).Inc()

	if !res.Changed {
		return res, nil
	}

	// --------------------------------------------------
	// Post-commit: terminal transition
	// --------------------------------------------------
	kind := notify.EventApproved
	if res.Outcome == domain.OutcomeRejected {
		kind = notify.EventRejected
	}
	uc.metrics.TransitionsTotal.WithLabelValues(kind.Label()).Inc()

	actor := in.Actor.UserID
	uc.hook.Dispatch(notify.NewEvent(
		kind,
		res.Reservation,
		domain.Recipients(nil, voters, []uint{res.Reservation.OwnerID}),
		&actor,
		timezone.Now(),
	))

	return res, nil
}
