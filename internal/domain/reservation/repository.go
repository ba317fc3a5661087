package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

// ErrNotFound is returned by repositories for a missing row.
var ErrNotFound = errors.New("record not found")

type OverlapQuery struct {
	Scope     Scope
	Start     time.Time
	End       time.Time
	ExcludeID *uint
}

type Period struct {
	From time.Time
	To   time.Time
}

// CalendarQuery selects reservations overlapping the period that the owner
// holds, that belong to one of the bands, or that sit in one of the rooms.
type CalendarQuery struct {
	OwnerID uint
	BandIDs []uint
	RoomIDs []uint
	Period  Period
}

type Repository interface {
	// -------- Transactions / locking --------
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	LockScope(
		ctx context.Context,
		scope Scope,
	) error

	// -------- Conflict query --------
	FindOverlapping(
		ctx context.Context,
		q OverlapQuery,
	) ([]models.Reservation, error)

	// -------- Reservation --------
	CreateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	GetReservation(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	GetReservationForUpdate(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	UpdateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	DeleteReservation(
		ctx context.Context,
		id uint,
	) error

	// -------- Approval ledger --------
	CreateVotes(
		ctx context.Context,
		votes []models.ApprovalVote,
	) error

	GetVote(
		ctx context.Context,
		id uint,
	) (*models.ApprovalVote, error)

	UpdateVote(
		ctx context.Context,
		v *models.ApprovalVote,
	) error

	ResetVotes(
		ctx context.Context,
		reservationID uint,
	) error

	DeleteVotes(
		ctx context.Context,
		reservationID uint,
	) error

	ListVotesByReservation(
		ctx context.Context,
		reservationID uint,
	) ([]models.ApprovalVote, error)

	ListPendingVotesByUser(
		ctx context.Context,
		userID uint,
	) ([]models.ApprovalVote, error)

	// -------- Listings --------
	ListByOwner(
		ctx context.Context,
		ownerID uint,
	) ([]models.Reservation, error)

	ListByRooms(
		ctx context.Context,
		roomIDs []uint,
		period *Period,
	) ([]models.Reservation, error)

	ListByStatus(
		ctx context.Context,
		status Status,
	) ([]models.Reservation, error)

	ListAll(
		ctx context.Context,
	) ([]models.Reservation, error)

	ListCalendar(
		ctx context.Context,
		q CalendarQuery,
	) ([]models.Reservation, error)

	// -------- References --------
	GetRoom(
		ctx context.Context,
		id uint,
	) (*models.Room, error)

	GetBand(
		ctx context.Context,
		id uint,
	) (*models.Band, error)
}

type BandRef struct {
	ID         uint
	HomeRoomID *uint
	Members    []uint
}

// Membership answers who belongs where.
type Membership interface {
	UsersOfRoom(ctx context.Context, roomID uint) ([]uint, error)
	RoomsOfUser(ctx context.Context, userID uint) ([]uint, error)
	BandsWithHomeRoom(ctx context.Context, roomID uint) ([]BandRef, error)
	BandsOfUser(ctx context.Context, userID uint) ([]BandRef, error)
}
