package models

import "time"

type Band struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;not null" json:"name"`
	Color string `gorm:"size:7" json:"color"`

	HomeRoomID *uint `gorm:"index" json:"home_room_id"`
	HomeRoom   *Room `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"home_room,omitempty"`

	Members []User `gorm:"many2many:band_members;" json:"members,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
