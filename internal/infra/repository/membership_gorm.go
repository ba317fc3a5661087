package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

// MembershipGormRepository answers room and band membership with indexed
// lookups on room_memberships, bands.home_room_id and band_members.
type MembershipGormRepository struct {
	db *gorm.DB
}

func NewMembershipGormRepository(db *gorm.DB) *MembershipGormRepository {
	return &MembershipGormRepository{db: db}
}

func (r *MembershipGormRepository) UsersOfRoom(
	ctx context.Context,
	roomID uint,
) ([]uint, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.RoomMembership{}).
		Where("room_id = ?", roomID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *MembershipGormRepository) RoomsOfUser(
	ctx context.Context,
	userID uint,
) ([]uint, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.RoomMembership{}).
		Where("user_id = ?", userID).
		Order("room_id ASC").
		Pluck("room_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *MembershipGormRepository) BandsWithHomeRoom(
	ctx context.Context,
	roomID uint,
) ([]domain.BandRef, error) {
	return r.bands(ctx, r.db.Where("home_room_id = ?", roomID))
}

func (r *MembershipGormRepository) BandsOfUser(
	ctx context.Context,
	userID uint,
) ([]domain.BandRef, error) {
	member := r.db.Table("band_members").Select("band_id").Where("user_id = ?", userID)
	return r.bands(ctx, r.db.Where("id IN (?)", member))
}

func (r *MembershipGormRepository) bands(
	ctx context.Context,
	cond *gorm.DB,
) ([]domain.BandRef, error) {

	var bands []models.Band
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where(cond).
		Order("id ASC").
		Find(&bands).Error; err != nil {
		return nil, err
	}

	out := make([]domain.BandRef, 0, len(bands))
	for _, b := range bands {
		ref := domain.BandRef{ID: b.ID, HomeRoomID: b.HomeRoomID}
		for _, m := range b.Members {
			ref.Members = append(ref.Members, m.ID)
		}
		out = append(out, ref)
	}
	return out, nil
}

var _ domain.Membership = (*MembershipGormRepository)(nil)
