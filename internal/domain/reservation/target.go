package reservation

import (
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

// Target is what a reservation claims. Each kind carries exactly the
// references it needs.
type Target interface {
	Kind() Kind
	apply(r *models.Reservation)
}

// RehearsalTarget books a room, optionally on behalf of a band.
type RehearsalTarget struct {
	RoomID uint
	BandID *uint
}

// BandShowTarget books a band.
type BandShowTarget struct {
	BandID uint
}

// PersonalShowTarget books the owner alone.
type PersonalShowTarget struct{}

func (RehearsalTarget) Kind() Kind    { return KindRehearsal }
func (BandShowTarget) Kind() Kind     { return KindBandShow }
func (PersonalShowTarget) Kind() Kind { return KindPersonalShow }

func (t RehearsalTarget) apply(r *models.Reservation) {
	roomID := t.RoomID
	r.RoomID = &roomID
	r.BandID = copyID(t.BandID)
}

func (t BandShowTarget) apply(r *models.Reservation) {
	bandID := t.BandID
	r.RoomID = nil
	r.BandID = &bandID
}

func (PersonalShowTarget) apply(r *models.Reservation) {
	r.RoomID = nil
	r.BandID = nil
}

// NewTarget builds the target for kind from the optional references of a
// request. References the kind does not use are dropped.
func NewTarget(kind Kind, roomID, bandID *uint) (Target, error) {
	switch kind {
	case KindRehearsal:
		if roomID == nil || *roomID == 0 {
			return nil, httperr.ErrValidation("room_required")
		}
		var band *uint
		if bandID != nil && *bandID != 0 {
			band = copyID(bandID)
		}
		return RehearsalTarget{RoomID: *roomID, BandID: band}, nil
	case KindBandShow:
		if bandID == nil || *bandID == 0 {
			return nil, httperr.ErrValidation("band_required")
		}
		return BandShowTarget{BandID: *bandID}, nil
	case KindPersonalShow:
		return PersonalShowTarget{}, nil
	}
	return nil, httperr.ErrValidation("invalid_kind")
}

// TargetOf reads the target back from a persisted row.
func TargetOf(r *models.Reservation) (Target, error) {
	return NewTarget(Kind(r.Kind), r.RoomID, r.BandID)
}

// Apply writes the target's kind and references onto r.
func Apply(t Target, r *models.Reservation) {
	r.Kind = string(t.Kind())
	t.apply(r)
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
