package models

import "time"

type Room struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Address string `gorm:"size:255" json:"address"`
	Color   string `gorm:"size:7" json:"color"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomMembership assigns a user directly to a room.
type RoomMembership struct {
	RoomID uint `gorm:"primaryKey;autoIncrement:false" json:"room_id"`
	UserID uint `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`

	Room Room `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
