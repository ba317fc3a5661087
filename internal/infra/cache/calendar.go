package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

var ErrCacheMiss = errors.New("cache miss")

// RoomCalendarCache keeps room listings under a per-room version. Bumping
// the version orphans every listing of that room; the TTL collects them.
type RoomCalendarCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoomCalendarCache(client *redis.Client, ttl time.Duration) *RoomCalendarCache {
	return &RoomCalendarCache{client: client, ttl: ttl}
}

// Version is the room's current listing generation.
func (c *RoomCalendarCache) Version(ctx context.Context, roomID uint) (int64, error) {
	version, err := c.client.Get(ctx, versionKey(roomID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("cache version: %w", err)
	}
	return version, nil
}

func (c *RoomCalendarCache) Get(
	ctx context.Context,
	roomID uint,
	version int64,
	period *domain.Period,
) ([]models.Reservation, error) {

	raw, err := c.client.Get(ctx, listKey(roomID, version, period)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var out []models.Reservation
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return out, nil
}

func (c *RoomCalendarCache) Set(
	ctx context.Context,
	roomID uint,
	version int64,
	period *domain.Period,
	list []models.Reservation,
) error {

	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}

	if err := c.client.Set(ctx, listKey(roomID, version, period), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *RoomCalendarCache) Bump(ctx context.Context, roomID uint) error {
	if err := c.client.Incr(ctx, versionKey(roomID)).Err(); err != nil {
		return fmt.Errorf("cache bump: %w", err)
	}
	return nil
}

func listKey(roomID uint, version int64, period *domain.Period) string {
	span := "all"
	if period != nil {
		span = fmt.Sprintf("%d-%d", period.From.Unix(), period.To.Unix())
	}
	return fmt.Sprintf("calendar:room:%d:v%d:%s", roomID, version, span)
}

func versionKey(roomID uint) string {
	return fmt.Sprintf("calendar:room:%d:version", roomID)
}

var _ Store = (*RoomCalendarCache)(nil)
