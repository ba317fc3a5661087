package reservation

type ScopeKind string

const (
	ScopeRoom ScopeKind = "ROOM"
	ScopeBand ScopeKind = "BAND"
	ScopeUser ScopeKind = "USER"
)

// Scope is the calendar a reservation competes in.
type Scope struct {
	Kind ScopeKind
	ID   uint
}

func ScopeFor(t Target, ownerID uint) Scope {
	switch v := t.(type) {
	case RehearsalTarget:
		return Scope{Kind: ScopeRoom, ID: v.RoomID}
	case BandShowTarget:
		return Scope{Kind: ScopeBand, ID: v.BandID}
	default:
		return Scope{Kind: ScopeUser, ID: ownerID}
	}
}

// ReservationKind is the only kind that competes within the scope.
func (s Scope) ReservationKind() Kind {
	switch s.Kind {
	case ScopeRoom:
		return KindRehearsal
	case ScopeBand:
		return KindBandShow
	default:
		return KindPersonalShow
	}
}

// Column is the reservations column the scope filters on.
func (s Scope) Column() string {
	switch s.Kind {
	case ScopeRoom:
		return "room_id"
	case ScopeBand:
		return "band_id"
	default:
		return "owner_id"
	}
}
