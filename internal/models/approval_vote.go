package models

import "time"

// ApprovalVote is one stakeholder's answer on a pending full-day rehearsal.
// Approved is nil while the vote is pending.
type ApprovalVote struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReservationID uint        `gorm:"not null;uniqueIndex:ux_vote_reservation_user" json:"reservation_id"`
	Reservation   Reservation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	UserID uint `gorm:"not null;uniqueIndex:ux_vote_reservation_user;index" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Approved    *bool      `json:"approved"`
	RespondedAt *time.Time `json:"responded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v ApprovalVote) IsPending() bool {
	return v.Approved == nil
}
