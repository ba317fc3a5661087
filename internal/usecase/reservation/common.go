package reservation

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

func getReservation(
	ctx context.Context,
	repo domain.Repository,
	id uint,
	forUpdate bool,
) (*models.Reservation, error) {

	get := repo.GetReservation
	if forUpdate {
		get = repo.GetReservationForUpdate
	}

	r, err := get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrNotFound("reservation_not_found")
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation %d: %w", id, err)
	}
	return r, nil
}

// references resolves the room and band a target points at. A missing
// reference is a validation failure of the request.
func references(
	ctx context.Context,
	repo domain.Repository,
	t domain.Target,
) (*models.Room, *models.Band, error) {

	var roomID, bandID *uint
	switch v := t.(type) {
	case domain.RehearsalTarget:
		roomID = &v.RoomID
		bandID = v.BandID
	case domain.BandShowTarget:
		bandID = &v.BandID
	}

	var room *models.Room
	if roomID != nil {
		r, err := repo.GetRoom(ctx, *roomID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, httperr.ErrValidation("room_not_found")
		}
		if err != nil {
			return nil, nil, fmt.Errorf("get room: %w", err)
		}
		room = r
	}

	var band *models.Band
	if bandID != nil {
		b, err := repo.GetBand(ctx, *bandID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, httperr.ErrValidation("band_not_found")
		}
		if err != nil {
			return nil, nil, fmt.Errorf("get band: %w", err)
		}
		band = b
	}

	return room, band, nil
}

func colorOf(room *models.Room, band *models.Band) (string, string) {
	var bandColor, roomColor string
	if band != nil {
		bandColor = band.Color
	}
	if room != nil {
		roomColor = room.Color
	}
	return bandColor, roomColor
}

// assertNoConflict runs the conflict query for the scope. Callers hold the
// scope lock.
func assertNoConflict(
	ctx context.Context,
	repo domain.Repository,
	q domain.OverlapQuery,
) error {

	overlapping, err := repo.FindOverlapping(ctx, q)
	if err != nil {
		return fmt.Errorf("find overlapping: %w", err)
	}

	for _, o := range overlapping {
		if q.ExcludeID != nil && o.ID == *q.ExcludeID {
			continue
		}
		return httperr.ErrConflict("time_conflict")
	}
	return nil
}

// roomStakeholders is everyone who votes on a full-day rehearsal in roomID.
func roomStakeholders(
	ctx context.Context,
	members domain.Membership,
	roomID uint,
	ownerID uint,
) ([]uint, error) {

	users, err := members.UsersOfRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("users of room: %w", err)
	}

	bands, err := members.BandsWithHomeRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("bands with home room: %w", err)
	}

	return domain.Stakeholders(ownerID, users, bands), nil
}

// sharedRooms lists the rooms a user reaches directly or through a band.
func sharedRooms(
	ctx context.Context,
	members domain.Membership,
	userID uint,
) ([]uint, []domain.BandRef, error) {

	rooms, err := members.RoomsOfUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("rooms of user: %w", err)
	}

	bands, err := members.BandsOfUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("bands of user: %w", err)
	}

	homes := make([]uint, 0, len(bands))
	for _, b := range bands {
		if b.HomeRoomID != nil {
			homes = append(homes, *b.HomeRoomID)
		}
	}

	return domain.Recipients(nil, rooms, homes), bands, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "confirmed"
	case httperr.IsKind(err, httperr.KindConflict):
		return "conflict"
	case httperr.IsKind(err, httperr.KindValidation):
		return "invalid"
	default:
		return "error"
	}
}

func kindLabel(k domain.Kind) string {
	switch k {
	case domain.KindRehearsal:
		return "rehearsal"
	case domain.KindBandShow:
		return "band_show"
	case domain.KindPersonalShow:
		return "personal_show"
	}
	return "unknown"
}
