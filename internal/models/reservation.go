package models

import "time"

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Kind string `gorm:"size:20;not null;index" json:"kind"`

	OwnerID uint `gorm:"not null;index" json:"owner_id"`
	Owner   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	RoomID *uint `gorm:"index" json:"room_id"`
	Room   *Room `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"room,omitempty"`

	BandID *uint `gorm:"index" json:"band_id"`
	Band   *Band `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"band,omitempty"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	FullDay   bool      `gorm:"not null;default:false" json:"full_day"`

	Status string `gorm:"size:20;not null;index" json:"status"`
	Color  string `gorm:"size:7" json:"color"`
	Notes  string `gorm:"size:500" json:"notes"`

	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
