package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

type EventKind string

const (
	EventPending   EventKind = "PENDING"
	EventApproved  EventKind = "APPROVED"
	EventRejected  EventKind = "REJECTED"
	EventCancelled EventKind = "CANCELLED"
)

// Snapshot is the reservation as it was when the event fired.
type Snapshot struct {
	ID        uint      `json:"id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	OwnerID   uint      `json:"owner_id"`
	RoomID    *uint     `json:"room_id,omitempty"`
	BandID    *uint     `json:"band_id,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	FullDay   bool      `json:"full_day"`
}

type Event struct {
	ID          uuid.UUID `json:"id"`
	Kind        EventKind `json:"kind"`
	Reservation Snapshot  `json:"reservation"`
	Recipients  []uint    `json:"recipients"`
	ActorID     *uint     `json:"actor_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewEvent(
	kind EventKind,
	r *models.Reservation,
	recipients []uint,
	actorID *uint,
	now time.Time,
) Event {
	return Event{
		ID:   uuid.New(),
		Kind: kind,
		Reservation: Snapshot{
			ID:        r.ID,
			Kind:      r.Kind,
			Status:    r.Status,
			OwnerID:   r.OwnerID,
			RoomID:    r.RoomID,
			BandID:    r.BandID,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			FullDay:   r.FullDay,
		},
		Recipients: recipients,
		ActorID:    actorID,
		OccurredAt: now,
	}
}

// Action is the audit action name for the event.
func (e Event) Action() string {
	switch e.Kind {
	case EventPending:
		return "reservation_pending"
	case EventApproved:
		return "reservation_approved"
	case EventRejected:
		return "reservation_rejected"
	case EventCancelled:
		return "reservation_cancelled"
	}
	return "reservation_event"
}

func (e EventKind) Label() string {
	switch e {
	case EventPending:
		return "pending"
	case EventApproved:
		return "approved"
	case EventRejected:
		return "rejected"
	case EventCancelled:
		return "cancelled"
	}
	return "unknown"
}
