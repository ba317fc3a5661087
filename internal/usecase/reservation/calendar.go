package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/dto"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

func validateMonth(year, month int) error {
	if year < 2000 || year > 2100 {
		return httperr.ErrValidation("invalid_year")
	}
	if month < 1 || month > 12 {
		return httperr.ErrValidation("invalid_month")
	}
	return nil
}

// ======================================================
// USER CALENDAR
// ======================================================

type Calendar struct {
	repo    domain.Repository
	members domain.Membership
	loc     *time.Location
}

func NewCalendar(
	repo domain.Repository,
	members domain.Membership,
	loc *time.Location,
) *Calendar {
	return &Calendar{
		repo:    repo,
		members: members,
		loc:     loc,
	}
}

// Execute lists the month's reservations the user owns or can see
// through band and room membership.
func (uc *Calendar) Execute(
	ctx context.Context,
	userID uint,
	year int,
	month int,
) (*dto.CalendarDTO, error) {

	if err := validateMonth(year, month); err != nil {
		return nil, err
	}

	rooms, bands, err := sharedRooms(ctx, uc.members, userID)
	if err != nil {
		return nil, err
	}

	bandIDs := make([]uint, 0, len(bands))
	for _, b := range bands {
		bandIDs = append(bandIDs, b.ID)
	}

	from, to := domain.MonthRange(year, month, uc.loc)

	list, err := uc.repo.ListCalendar(ctx, domain.CalendarQuery{
		OwnerID: userID,
		BandIDs: bandIDs,
		RoomIDs: rooms,
		Period:  domain.Period{From: from, To: to},
	})
	if err != nil {
		return nil, fmt.Errorf("list calendar: %w", err)
	}

	out := &dto.CalendarDTO{
		Year:   year,
		Month:  month,
		Events: make([]dto.CalendarEventDTO, 0, len(list)),
	}
	for i := range list {
		out.Events = append(out.Events, CalendarEvent(&list[i]))
	}
	return out, nil
}

// CalendarEvent shapes a reservation for calendar widgets.
func CalendarEvent(r *models.Reservation) dto.CalendarEventDTO {
	title := domain.Kind(r.Kind).Label()
	switch {
	case r.Band != nil && r.Band.Name != "":
		title += " - " + r.Band.Name
	case r.Room != nil && r.Room.Name != "":
		title += " - " + r.Room.Name
	}

	return dto.CalendarEventDTO{
		ID:     r.ID,
		Title:  title,
		Start:  r.StartTime,
		End:    r.EndTime,
		Color:  r.Color,
		Kind:   r.Kind,
		Status: r.Status,
		AllDay: r.FullDay,
		RoomID: r.RoomID,
		BandID: r.BandID,
	}
}

// ======================================================
// ROOM CALENDAR
// ======================================================

type ListByRoom struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListByRoom(repo domain.Repository, loc *time.Location) *ListByRoom {
	return &ListByRoom{repo: repo, loc: loc}
}

// Execute lists the room's reservations; year and month of zero mean
// the whole history.
func (uc *ListByRoom) Execute(
	ctx context.Context,
	roomID uint,
	year int,
	month int,
) ([]models.Reservation, error) {

	if _, err := uc.repo.GetRoom(ctx, roomID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrNotFound("room_not_found")
		}
		return nil, fmt.Errorf("get room: %w", err)
	}

	var period *domain.Period
	if year != 0 || month != 0 {
		if err := validateMonth(year, month); err != nil {
			return nil, err
		}
		from, to := domain.MonthRange(year, month, uc.loc)
		period = &domain.Period{From: from, To: to}
	}

	return uc.repo.ListByRooms(ctx, []uint{roomID}, period)
}
