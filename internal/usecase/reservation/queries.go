package reservation

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

type GetReservation struct {
	repo domain.Repository
}

func NewGetReservation(repo domain.Repository) *GetReservation {
	return &GetReservation{repo: repo}
}

func (uc *GetReservation) Execute(ctx context.Context, id uint) (*models.Reservation, error) {
	return getReservation(ctx, uc.repo, id, false)
}

// ------------------------------------------------------

type ListByOwner struct {
	repo domain.Repository
}

func NewListByOwner(repo domain.Repository) *ListByOwner {
	return &ListByOwner{repo: repo}
}

func (uc *ListByOwner) Execute(ctx context.Context, ownerID uint) ([]models.Reservation, error) {
	return uc.repo.ListByOwner(ctx, ownerID)
}

// ------------------------------------------------------

// ListShared returns every reservation in the rooms a user belongs to,
// directly or through one of their bands.
type ListShared struct {
	repo    domain.Repository
	members domain.Membership
}

func NewListShared(repo domain.Repository, members domain.Membership) *ListShared {
	return &ListShared{repo: repo, members: members}
}

func (uc *ListShared) Execute(ctx context.Context, userID uint) ([]models.Reservation, error) {
	rooms, _, err := sharedRooms(ctx, uc.members, userID)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return []models.Reservation{}, nil
	}
	return uc.repo.ListByRooms(ctx, rooms, nil)
}

// ------------------------------------------------------

type ListByStatus struct {
	repo domain.Repository
}

func NewListByStatus(repo domain.Repository) *ListByStatus {
	return &ListByStatus{repo: repo}
}

func (uc *ListByStatus) Execute(ctx context.Context, raw string) ([]models.Reservation, error) {
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListByStatus(ctx, status)
}

// ------------------------------------------------------

// ListAll is the unfiltered listing, restricted to admins.
type ListAll struct {
	repo domain.Repository
}

func NewListAll(repo domain.Repository) *ListAll {
	return &ListAll{repo: repo}
}

func (uc *ListAll) Execute(ctx context.Context, actor domain.Actor) ([]models.Reservation, error) {
	if !actor.Admin {
		return nil, httperr.ErrForbidden("admin_only")
	}
	return uc.repo.ListAll(ctx)
}

// ------------------------------------------------------

type ListApprovals struct {
	repo domain.Repository
}

func NewListApprovals(repo domain.Repository) *ListApprovals {
	return &ListApprovals{repo: repo}
}

func (uc *ListApprovals) Execute(ctx context.Context, reservationID uint) ([]models.ApprovalVote, error) {
	if _, err := getReservation(ctx, uc.repo, reservationID, false); err != nil {
		return nil, err
	}

	votes, err := uc.repo.ListVotesByReservation(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return votes, nil
}

// ------------------------------------------------------

type ListPendingVotes struct {
	repo domain.Repository
}

func NewListPendingVotes(repo domain.Repository) *ListPendingVotes {
	return &ListPendingVotes{repo: repo}
}

func (uc *ListPendingVotes) Execute(ctx context.Context, userID uint) ([]models.ApprovalVote, error) {
	return uc.repo.ListPendingVotesByUser(ctx, userID)
}
