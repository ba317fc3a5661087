package dto

import "time"

type CalendarEventDTO struct {
	ID     uint      `json:"id"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Color  string    `json:"color"`
	Kind   string    `json:"kind"`
	Status string    `json:"status"`
	AllDay bool      `json:"all_day"`
	RoomID *uint     `json:"room_id,omitempty"`
	BandID *uint     `json:"band_id,omitempty"`
}

type CalendarDTO struct {
	Year   int                `json:"year"`
	Month  int                `json:"month"`
	Events []CalendarEventDTO `json:"events"`
}
