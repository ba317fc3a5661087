package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/config"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/pkg/logger"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg.DBUrl)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	if err := Migrate(db); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	return db
}

func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("btree_gist: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.RoomMembership{},
		&models.Band{},
		&models.Reservation{},
		&models.ApprovalVote{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("constraints: %w", err)
		}
	}

	return nil
}

// Live reservations of the same scope never overlap. Each constraint only
// covers its own kind, and half-open ranges let touching intervals coexist.
var constraints = []string{
	addConstraint("chk_reservations_interval",
		`CHECK (start_time < end_time)`),
	addConstraint("excl_reservations_room",
		`EXCLUDE USING gist (room_id WITH =, tstzrange(start_time, end_time, '[)') WITH &&)
		 WHERE (kind = 'REHEARSAL' AND status IN ('CONFIRMED', 'APPROVED', 'PENDING_APPROVALS'))`),
	addConstraint("excl_reservations_band",
		`EXCLUDE USING gist (band_id WITH =, tstzrange(start_time, end_time, '[)') WITH &&)
		 WHERE (kind = 'BAND_SHOW' AND status IN ('CONFIRMED', 'APPROVED', 'PENDING_APPROVALS'))`),
	addConstraint("excl_reservations_owner",
		`EXCLUDE USING gist (owner_id WITH =, tstzrange(start_time, end_time, '[)') WITH &&)
		 WHERE (kind = 'PERSONAL_SHOW' AND status IN ('CONFIRMED', 'APPROVED', 'PENDING_APPROVALS'))`),
}

func addConstraint(name, def string) string {
	return fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
		ALTER TABLE reservations ADD CONSTRAINT %s %s;
	END IF;
END $$`, name, name, def)
}
