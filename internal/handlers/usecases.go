package handlers

import (
	"context"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/dto"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
	ucReservation "github.com/BruksfildServices01/rehearsal-scheduler/internal/usecase/reservation"
)

// Handlers only see the Execute method of each use case.

type reservationCreator interface {
	Execute(ctx context.Context, in ucReservation.CreateReservationInput) (*models.Reservation, error)
}

type reservationUpdater interface {
	Execute(ctx context.Context, in ucReservation.UpdateReservationInput) (*models.Reservation, error)
}

type reservationCanceller interface {
	Execute(ctx context.Context, id uint, actor domain.Actor) (*models.Reservation, error)
}

type reservationOverrider interface {
	Execute(ctx context.Context, in ucReservation.OverridePendingInput) (*models.Reservation, error)
}

type reservationDeleter interface {
	Execute(ctx context.Context, id uint, actor domain.Actor) error
}

type reservationGetter interface {
	Execute(ctx context.Context, id uint) (*models.Reservation, error)
}

type reservationStatusLister interface {
	Execute(ctx context.Context, status string) ([]models.Reservation, error)
}

type reservationAllLister interface {
	Execute(ctx context.Context, actor domain.Actor) ([]models.Reservation, error)
}

type userReservationLister interface {
	Execute(ctx context.Context, userID uint) ([]models.Reservation, error)
}

type approvalLister interface {
	Execute(ctx context.Context, id uint) ([]models.ApprovalVote, error)
}

type voteResponder interface {
	Execute(ctx context.Context, in ucReservation.RespondToVoteInput) (*ucReservation.VoteResult, error)
}

type calendarBuilder interface {
	Execute(ctx context.Context, userID uint, year, month int) (*dto.CalendarDTO, error)
}

type roomReservationLister interface {
	Execute(ctx context.Context, roomID uint, year, month int) ([]models.Reservation, error)
}

var (
	_ reservationCreator      = (*ucReservation.CreateReservation)(nil)
	_ reservationUpdater      = (*ucReservation.UpdateReservation)(nil)
	_ reservationCanceller    = (*ucReservation.CancelReservation)(nil)
	_ reservationOverrider    = (*ucReservation.OverridePendingReservation)(nil)
	_ reservationDeleter      = (*ucReservation.DeleteReservation)(nil)
	_ reservationGetter       = (*ucReservation.GetReservation)(nil)
	_ reservationStatusLister = (*ucReservation.ListByStatus)(nil)
	_ reservationAllLister    = (*ucReservation.ListAll)(nil)
	_ userReservationLister   = (*ucReservation.ListByOwner)(nil)
	_ userReservationLister   = (*ucReservation.ListShared)(nil)
	_ approvalLister          = (*ucReservation.ListApprovals)(nil)
	_ approvalLister          = (*ucReservation.ListPendingVotes)(nil)
	_ voteResponder           = (*ucReservation.RespondToVote)(nil)
	_ calendarBuilder         = (*ucReservation.Calendar)(nil)
	_ roomReservationLister   = (*ucReservation.ListByRoom)(nil)
)
