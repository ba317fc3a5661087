package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case httperr.IsExclusionConflict(err):
		return httperr.ErrConflict("time_conflict")
	}
	return err
}

func liveStatuses() []string {
	out := make([]string, 0, len(domain.LiveStatuses))
	for _, s := range domain.LiveStatuses {
		out = append(out, string(s))
	}
	return out
}

// --------------------------------------------------
// Transactions / locking
// --------------------------------------------------

func (r *ReservationGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ReservationGormRepository{db: tx})
	})
}

// LockScope takes FOR UPDATE on the row owning the scope's calendar, so
// check-then-insert for a scope runs one at a time.
func (r *ReservationGormRepository) LockScope(
	ctx context.Context,
	scope domain.Scope,
) error {

	var model any
	switch scope.Kind {
	case domain.ScopeRoom:
		model = &models.Room{}
	case domain.ScopeBand:
		model = &models.Band{}
	default:
		model = &models.User{}
	}

	err := r.db.WithContext(ctx).
		Model(model).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", scope.ID).
		Take(model).Error

	// the exclusion constraint still guards scopes without a row
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// --------------------------------------------------
// Conflict query
// --------------------------------------------------

func (r *ReservationGormRepository) FindOverlapping(
	ctx context.Context,
	q domain.OverlapQuery,
) ([]models.Reservation, error) {

	tx := r.db.WithContext(ctx).
		Where(q.Scope.Column()+" = ?", q.Scope.ID).
		Where("kind = ?", string(q.Scope.ReservationKind())).
		Where("status IN ?", liveStatuses()).
		Where("start_time < ? AND end_time > ?", q.End, q.Start)

	if q.ExcludeID != nil {
		tx = tx.Where("id <> ?", *q.ExcludeID)
	}

	var out []models.Reservation
	if err := tx.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Reservation
// --------------------------------------------------

func (r *ReservationGormRepository) CreateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(res).Error)
}

func (r *ReservationGormRepository) GetReservation(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Band").
		First(&res, id).Error; err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

func (r *ReservationGormRepository) GetReservationForUpdate(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&res, id).Error; err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

func (r *ReservationGormRepository) UpdateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(res).Error)
}

func (r *ReservationGormRepository) DeleteReservation(
	ctx context.Context,
	id uint,
) error {

	db := r.db.WithContext(ctx)
	if err := db.Where("reservation_id = ?", id).Delete(&models.ApprovalVote{}).Error; err != nil {
		return err
	}

	res := db.Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Approval ledger
// --------------------------------------------------

// CreateVotes skips stakeholders that already hold a vote.
func (r *ReservationGormRepository) CreateVotes(
	ctx context.Context,
	votes []models.ApprovalVote,
) error {
	if len(votes) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reservation_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&votes).Error
}

func (r *ReservationGormRepository) GetVote(
	ctx context.Context,
	id uint,
) (*models.ApprovalVote, error) {

	var v models.ApprovalVote
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *ReservationGormRepository) UpdateVote(
	ctx context.Context,
	v *models.ApprovalVote,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error
}

func (r *ReservationGormRepository) ResetVotes(
	ctx context.Context,
	reservationID uint,
) error {
	return r.db.WithContext(ctx).
		Model(&models.ApprovalVote{}).
		Where("reservation_id = ?", reservationID).
		Updates(map[string]any{
			"approved":     nil,
			"responded_at": nil,
		}).Error
}

func (r *ReservationGormRepository) DeleteVotes(
	ctx context.Context,
	reservationID uint,
) error {
	return r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Delete(&models.ApprovalVote{}).Error
}

func (r *ReservationGormRepository) ListVotesByReservation(
	ctx context.Context,
	reservationID uint,
) ([]models.ApprovalVote, error) {

	var votes []models.ApprovalVote
	if err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("id ASC").
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *ReservationGormRepository) ListPendingVotesByUser(
	ctx context.Context,
	userID uint,
) ([]models.ApprovalVote, error) {

	var votes []models.ApprovalVote
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND approved IS NULL", userID).
		Order("id ASC").
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *ReservationGormRepository) list(
	ctx context.Context,
	scope func(*gorm.DB) *gorm.DB,
) ([]models.Reservation, error) {

	var out []models.Reservation
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Room").
		Preload("Band").
		Order("start_time ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func overlapping(p domain.Period) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("start_time < ? AND end_time > ?", p.To, p.From)
	}
}

func (r *ReservationGormRepository) ListByOwner(
	ctx context.Context,
	ownerID uint,
) ([]models.Reservation, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	})
}

func (r *ReservationGormRepository) ListByRooms(
	ctx context.Context,
	roomIDs []uint,
	period *domain.Period,
) ([]models.Reservation, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		db = db.Where("room_id IN ?", roomIDs)
		if period != nil {
			db = overlapping(*period)(db)
		}
		return db
	})
}

func (r *ReservationGormRepository) ListByStatus(
	ctx context.Context,
	status domain.Status,
) ([]models.Reservation, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", string(status))
	})
}

func (r *ReservationGormRepository) ListAll(
	ctx context.Context,
) ([]models.Reservation, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *ReservationGormRepository) ListCalendar(
	ctx context.Context,
	q domain.CalendarQuery,
) ([]models.Reservation, error) {

	who := r.db.Where("owner_id = ?", q.OwnerID)
	if len(q.BandIDs) > 0 {
		who = who.Or("band_id IN ?", q.BandIDs)
	}
	if len(q.RoomIDs) > 0 {
		who = who.Or("room_id IN ?", q.RoomIDs)
	}

	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return overlapping(q.Period)(db).Where(who)
	})
}

// --------------------------------------------------
// References
// --------------------------------------------------

func (r *ReservationGormRepository) GetRoom(
	ctx context.Context,
	id uint,
) (*models.Room, error) {

	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (r *ReservationGormRepository) GetBand(
	ctx context.Context,
	id uint,
) (*models.Band, error) {

	var band models.Band
	if err := r.db.WithContext(ctx).
		Preload("Members").
		First(&band, id).Error; err != nil {
		return nil, translate(err)
	}
	return &band, nil
}

// Compile-time check
var _ domain.Repository = (*ReservationGormRepository)(nil)
