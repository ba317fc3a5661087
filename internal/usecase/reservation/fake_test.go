package reservation

import (
	"context"
	"sort"
	"sync"

	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/notify"
)

// memStore backs the in-memory repository. A transaction holds mu for its
// whole duration and restores a snapshot when fn fails.
type memStore struct {
	mu sync.Mutex

	nextReservation uint
	nextVote        uint

	reservations map[uint]models.Reservation
	votes        map[uint]models.ApprovalVote
	rooms        map[uint]models.Room
	bands        map[uint]models.Band

	failCreateVotes error
}

type memRepo struct {
	s    *memStore
	inTx bool
}

func newMemRepo() *memRepo {
	return &memRepo{s: &memStore{
		reservations: map[uint]models.Reservation{},
		votes:        map[uint]models.ApprovalVote{},
		rooms:        map[uint]models.Room{},
		bands:        map[uint]models.Band{},
	}}
}

func (r *memRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memRepo) addRoom(room models.Room) { r.s.rooms[room.ID] = room }
func (r *memRepo) addBand(band models.Band) { r.s.bands[band.ID] = band }

func (r *memRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	if r.inTx {
		return fn(r)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	resSnap := make(map[uint]models.Reservation, len(r.s.reservations))
	for k, v := range r.s.reservations {
		resSnap[k] = v
	}
	voteSnap := make(map[uint]models.ApprovalVote, len(r.s.votes))
	for k, v := range r.s.votes {
		voteSnap[k] = v
	}
	nextRes, nextVote := r.s.nextReservation, r.s.nextVote

	if err := fn(&memRepo{s: r.s, inTx: true}); err != nil {
		r.s.reservations = resSnap
		r.s.votes = voteSnap
		r.s.nextReservation, r.s.nextVote = nextRes, nextVote
		return err
	}
	return nil
}

func (r *memRepo) LockScope(ctx context.Context, scope domain.Scope) error { return nil }

func scopeMatches(res models.Reservation, scope domain.Scope) bool {
	if res.Kind != string(scope.ReservationKind()) {
		return false
	}
	switch scope.Kind {
	case domain.ScopeRoom:
		return res.RoomID != nil && *res.RoomID == scope.ID
	case domain.ScopeBand:
		return res.BandID != nil && *res.BandID == scope.ID
	default:
		return res.OwnerID == scope.ID
	}
}

func (r *memRepo) FindOverlapping(ctx context.Context, q domain.OverlapQuery) ([]models.Reservation, error) {
	defer r.lock()()

	var out []models.Reservation
	for _, res := range r.s.reservations {
		if !domain.Status(res.Status).IsLive() || !scopeMatches(res, q.Scope) {
			continue
		}
		if q.ExcludeID != nil && res.ID == *q.ExcludeID {
			continue
		}
		if domain.Overlaps(res.StartTime, res.EndTime, q.Start, q.End) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memRepo) CreateReservation(ctx context.Context, res *models.Reservation) error {
	defer r.lock()()

	r.s.nextReservation++
	res.ID = r.s.nextReservation
	r.s.reservations[res.ID] = *res
	return nil
}

func (r *memRepo) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	defer r.lock()()

	res, ok := r.s.reservations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &res, nil
}

func (r *memRepo) GetReservationForUpdate(ctx context.Context, id uint) (*models.Reservation, error) {
	return r.GetReservation(ctx, id)
}

func (r *memRepo) UpdateReservation(ctx context.Context, res *models.Reservation) error {
	defer r.lock()()

	if _, ok := r.s.reservations[res.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.reservations[res.ID] = *res
	return nil
}

func (r *memRepo) DeleteReservation(ctx context.Context, id uint) error {
	defer r.lock()()

	delete(r.s.reservations, id)
	for vid, v := range r.s.votes {
		if v.ReservationID == id {
			delete(r.s.votes, vid)
		}
	}
	return nil
}

func (r *memRepo) CreateVotes(ctx context.Context, votes []models.ApprovalVote) error {
	defer r.lock()()

	if r.s.failCreateVotes != nil {
		return r.s.failCreateVotes
	}

	for i := range votes {
		dup := false
		for _, v := range r.s.votes {
			if v.ReservationID == votes[i].ReservationID && v.UserID == votes[i].UserID {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		r.s.nextVote++
		votes[i].ID = r.s.nextVote
		r.s.votes[votes[i].ID] = votes[i]
	}
	return nil
}

func (r *memRepo) GetVote(ctx context.Context, id uint) (*models.ApprovalVote, error) {
	defer r.lock()()

	v, ok := r.s.votes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (r *memRepo) UpdateVote(ctx context.Context, v *models.ApprovalVote) error {
	defer r.lock()()

	r.s.votes[v.ID] = *v
	return nil
}

func (r *memRepo) ResetVotes(ctx context.Context, reservationID uint) error {
	defer r.lock()()

	for id, v := range r.s.votes {
		if v.ReservationID == reservationID {
			domain.ResetVote(&v)
			r.s.votes[id] = v
		}
	}
	return nil
}

func (r *memRepo) DeleteVotes(ctx context.Context, reservationID uint) error {
	defer r.lock()()

	for id, v := range r.s.votes {
		if v.ReservationID == reservationID {
			delete(r.s.votes, id)
		}
	}
	return nil
}

func (r *memRepo) ListVotesByReservation(ctx context.Context, reservationID uint) ([]models.ApprovalVote, error) {
	defer r.lock()()

	out := []models.ApprovalVote{}
	for _, v := range r.s.votes {
		if v.ReservationID == reservationID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) ListPendingVotesByUser(ctx context.Context, userID uint) ([]models.ApprovalVote, error) {
	defer r.lock()()

	out := []models.ApprovalVote{}
	for _, v := range r.s.votes {
		if v.UserID == userID && v.IsPending() {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) filter(keep func(models.Reservation) bool) []models.Reservation {
	out := []models.Reservation{}
	for _, res := range r.s.reservations {
		if keep(res) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func containsID(ids []uint, id *uint) bool {
	if id == nil {
		return false
	}
	for _, v := range ids {
		if v == *id {
			return true
		}
	}
	return false
}

func (r *memRepo) ListByOwner(ctx context.Context, ownerID uint) ([]models.Reservation, error) {
	defer r.lock()()
	return r.filter(func(res models.Reservation) bool { return res.OwnerID == ownerID }), nil
}

func (r *memRepo) ListByRooms(ctx context.Context, roomIDs []uint, period *domain.Period) ([]models.Reservation, error) {
	defer r.lock()()
	return r.filter(func(res models.Reservation) bool {
		if !containsID(roomIDs, res.RoomID) {
			return false
		}
		return period == nil || domain.Overlaps(res.StartTime, res.EndTime, period.From, period.To)
	}), nil
}

func (r *memRepo) ListByStatus(ctx context.Context, status domain.Status) ([]models.Reservation, error) {
	defer r.lock()()
	return r.filter(func(res models.Reservation) bool { return res.Status == string(status) }), nil
}

func (r *memRepo) ListAll(ctx context.Context) ([]models.Reservation, error) {
	defer r.lock()()
	return r.filter(func(models.Reservation) bool { return true }), nil
}

func (r *memRepo) ListCalendar(ctx context.Context, q domain.CalendarQuery) ([]models.Reservation, error) {
	defer r.lock()()
	return r.filter(func(res models.Reservation) bool {
		if !domain.Overlaps(res.StartTime, res.EndTime, q.Period.From, q.Period.To) {
			return false
		}
		return res.OwnerID == q.OwnerID ||
			containsID(q.BandIDs, res.BandID) ||
			containsID(q.RoomIDs, res.RoomID)
	}), nil
}

func (r *memRepo) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &room, nil
}

func (r *memRepo) GetBand(ctx context.Context, id uint) (*models.Band, error) {
	band, ok := r.s.bands[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &band, nil
}

var _ domain.Repository = (*memRepo)(nil)

// ------------------------------------------------------

type memMembership struct {
	roomUsers map[uint][]uint
	bands     []domain.BandRef
}

func (m *memMembership) UsersOfRoom(ctx context.Context, roomID uint) ([]uint, error) {
	return m.roomUsers[roomID], nil
}

func (m *memMembership) RoomsOfUser(ctx context.Context, userID uint) ([]uint, error) {
	var out []uint
	for room, users := range m.roomUsers {
		for _, u := range users {
			if u == userID {
				out = append(out, room)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *memMembership) BandsWithHomeRoom(ctx context.Context, roomID uint) ([]domain.BandRef, error) {
	var out []domain.BandRef
	for _, b := range m.bands {
		if b.HomeRoomID != nil && *b.HomeRoomID == roomID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memMembership) BandsOfUser(ctx context.Context, userID uint) ([]domain.BandRef, error) {
	var out []domain.BandRef
	for _, b := range m.bands {
		for _, u := range b.Members {
			if u == userID {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

var _ domain.Membership = (*memMembership)(nil)

// ------------------------------------------------------

type recordingHook struct {
	mu     sync.Mutex
	events []notify.Event
}

func (h *recordingHook) Dispatch(ev notify.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
}

func (h *recordingHook) all() []notify.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]notify.Event(nil), h.events...)
}

func (h *recordingHook) last() notify.Event {
	evs := h.all()
	if len(evs) == 0 {
		return notify.Event{}
	}
	return evs[len(evs)-1]
}
