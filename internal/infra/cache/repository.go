package cache

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/pkg/logger"
)

type Store interface {
	Version(ctx context.Context, roomID uint) (int64, error)
	Get(ctx context.Context, roomID uint, version int64, period *domain.Period) ([]models.Reservation, error)
	Set(ctx context.Context, roomID uint, version int64, period *domain.Period, list []models.Reservation) error
	Bump(ctx context.Context, roomID uint) error
}

// CachedRepository serves single-room listings from the store. Writes
// invalidate the rooms they touch once their transaction has committed.
// Store failures only cost a database round trip.
type CachedRepository struct {
	domain.Repository

	store   Store
	touched *roomSet
}

func NewCachedRepository(inner domain.Repository, store Store) *CachedRepository {
	return &CachedRepository{Repository: inner, store: store}
}

type roomSet struct {
	mu  sync.Mutex
	ids map[uint]struct{}
}

func (s *roomSet) add(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids == nil {
		s.ids = map[uint]struct{}{}
	}
	s.ids[id] = struct{}{}
}

func (s *roomSet) list() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

func (c *CachedRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {

	if c.touched != nil {
		return fn(c)
	}

	touched := &roomSet{}
	err := c.Repository.Transaction(ctx, func(tx domain.Repository) error {
		return fn(&CachedRepository{Repository: tx, store: c.store, touched: touched})
	})
	if err != nil {
		return err
	}

	for _, id := range touched.list() {
		c.bump(ctx, id)
	}
	return nil
}

func (c *CachedRepository) touch(ctx context.Context, roomID *uint) {
	if roomID == nil {
		return
	}
	if c.touched != nil {
		c.touched.add(*roomID)
		return
	}
	c.bump(ctx, *roomID)
}

func (c *CachedRepository) bump(ctx context.Context, roomID uint) {
	if err := c.store.Bump(ctx, roomID); err != nil {
		logger.Warn("calendar cache bump failed", zap.Uint("room_id", roomID), zap.Error(err))
	}
}

func (c *CachedRepository) GetReservationForUpdate(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	r, err := c.Repository.GetReservationForUpdate(ctx, id)
	if err == nil {
		c.touch(ctx, r.RoomID)
	}
	return r, err
}

func (c *CachedRepository) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if err := c.Repository.CreateReservation(ctx, r); err != nil {
		return err
	}
	c.touch(ctx, r.RoomID)
	return nil
}

func (c *CachedRepository) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	if err := c.Repository.UpdateReservation(ctx, r); err != nil {
		return err
	}
	c.touch(ctx, r.RoomID)
	return nil
}

func (c *CachedRepository) DeleteReservation(ctx context.Context, id uint) error {
	var roomID *uint
	if r, err := c.Repository.GetReservation(ctx, id); err == nil {
		roomID = r.RoomID
	}

	if err := c.Repository.DeleteReservation(ctx, id); err != nil {
		return err
	}
	c.touch(ctx, roomID)
	return nil
}

func (c *CachedRepository) ListByRooms(
	ctx context.Context,
	roomIDs []uint,
	period *domain.Period,
) ([]models.Reservation, error) {

	if len(roomIDs) != 1 || c.touched != nil {
		return c.Repository.ListByRooms(ctx, roomIDs, period)
	}
	roomID := roomIDs[0]

	// the version is read once so a listing never outlives a bump
	version, err := c.store.Version(ctx, roomID)
	if err != nil {
		logger.Warn("calendar cache read failed", zap.Uint("room_id", roomID), zap.Error(err))
		return c.Repository.ListByRooms(ctx, roomIDs, period)
	}

	list, err := c.store.Get(ctx, roomID, version, period)
	if err == nil {
		return list, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logger.Warn("calendar cache read failed", zap.Uint("room_id", roomID), zap.Error(err))
	}

	list, err = c.Repository.ListByRooms(ctx, roomIDs, period)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, roomID, version, period, list); err != nil {
		logger.Warn("calendar cache write failed", zap.Uint("room_id", roomID), zap.Error(err))
	}
	return list, nil
}

var _ domain.Repository = (*CachedRepository)(nil)
