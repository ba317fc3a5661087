package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/dto"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/middleware"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
	ucReservation "github.com/BruksfildServices01/rehearsal-scheduler/internal/usecase/reservation"
)

// ======================================================
// MOCKS
// ======================================================

type mockCreate struct{ mock.Mock }

func (m *mockCreate) Execute(ctx context.Context, in ucReservation.CreateReservationInput) (*models.Reservation, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*models.Reservation)
	return r, args.Error(1)
}

type mockDelete struct{ mock.Mock }

func (m *mockDelete) Execute(ctx context.Context, id uint, actor domain.Actor) error {
	return m.Called(ctx, id, actor).Error(0)
}

type mockStatus struct{ mock.Mock }

func (m *mockStatus) Execute(ctx context.Context, status string) ([]models.Reservation, error) {
	args := m.Called(ctx, status)
	list, _ := args.Get(0).([]models.Reservation)
	return list, args.Error(1)
}

type mockAll struct{ mock.Mock }

func (m *mockAll) Execute(ctx context.Context, actor domain.Actor) ([]models.Reservation, error) {
	args := m.Called(ctx, actor)
	list, _ := args.Get(0).([]models.Reservation)
	return list, args.Error(1)
}

type mockVote struct{ mock.Mock }

func (m *mockVote) Execute(ctx context.Context, in ucReservation.RespondToVoteInput) (*ucReservation.VoteResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*ucReservation.VoteResult)
	return res, args.Error(1)
}

type mockCalendar struct{ mock.Mock }

func (m *mockCalendar) Execute(ctx context.Context, userID uint, year, month int) (*dto.CalendarDTO, error) {
	args := m.Called(ctx, userID, year, month)
	cal, _ := args.Get(0).(*dto.CalendarDTO)
	return cal, args.Error(1)
}

type mockRoom struct{ mock.Mock }

func (m *mockRoom) Execute(ctx context.Context, roomID uint, year, month int) ([]models.Reservation, error) {
	args := m.Called(ctx, roomID, year, month)
	list, _ := args.Get(0).([]models.Reservation)
	return list, args.Error(1)
}

type mockAudit struct{ mock.Mock }

func (m *mockAudit) List(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error) {
	args := m.Called(ctx, f)
	logs, _ := args.Get(0).([]models.AuditLog)
	return logs, args.Get(1).(int64), args.Error(2)
}

// ======================================================
// HELPERS
// ======================================================

func withActor(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withActor(7, models.RoleMember))
	return r
}

func call(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body httperr.HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func boolPtr(v bool) *bool { return &v }

// ======================================================
// RESERVATIONS
// ======================================================

func TestReservationHandler_Create(t *testing.T) {
	start := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	roomID := uint(2)

	body := `{"kind":"rehearsal","room_id":2,"start_time":"2026-05-04T18:00:00Z","end_time":"2026-05-04T20:00:00Z"}`

	t.Run("created", func(t *testing.T) {
		create := &mockCreate{}
		create.On("Execute", mock.Anything, ucReservation.CreateReservationInput{
			OwnerID: 7,
			Kind:    "rehearsal",
			RoomID:  &roomID,
			Start:   start,
			End:     end,
		}).Return(&models.Reservation{ID: 11, Status: "CONFIRMED"}, nil)

		r := newEngine()
		r.POST("/reservations", NewReservationHandler(ReservationUseCases{Create: create}).Create)

		w := call(r, http.MethodPost, "/reservations", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"CONFIRMED"`)
		create.AssertExpectations(t)
	})

	t.Run("conflict", func(t *testing.T) {
		create := &mockCreate{}
		create.On("Execute", mock.Anything, mock.Anything).Return(nil, httperr.ErrConflict("time_conflict"))

		r := newEngine()
		r.POST("/reservations", NewReservationHandler(ReservationUseCases{Create: create}).Create)

		w := call(r, http.MethodPost, "/reservations", body)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "time_conflict", errorCode(t, w))
	})

	t.Run("invalid body", func(t *testing.T) {
		create := &mockCreate{}

		r := newEngine()
		r.POST("/reservations", NewReservationHandler(ReservationUseCases{Create: create}).Create)

		w := call(r, http.MethodPost, "/reservations", `{"kind":"REHEARSAL"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_request", errorCode(t, w))
		create.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("infrastructure failure", func(t *testing.T) {
		create := &mockCreate{}
		create.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		r := newEngine()
		r.POST("/reservations", NewReservationHandler(ReservationUseCases{Create: create}).Create)

		w := call(r, http.MethodPost, "/reservations", body)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "failed_to_create_reservation", errorCode(t, w))
	})
}

func TestReservationHandler_Delete(t *testing.T) {
	del := &mockDelete{}
	del.On("Execute", mock.Anything, uint(5), domain.Actor{UserID: 7}).Return(httperr.ErrForbidden("admin_only"))
	del.On("Execute", mock.Anything, uint(6), domain.Actor{UserID: 7}).Return(nil)

	r := newEngine()
	r.DELETE("/reservations/:id", NewReservationHandler(ReservationUseCases{Delete: del}).Delete)

	assert.Equal(t, http.StatusForbidden, call(r, http.MethodDelete, "/reservations/5", "").Code)
	assert.Equal(t, http.StatusNoContent, call(r, http.MethodDelete, "/reservations/6", "").Code)

	bad := call(r, http.MethodDelete, "/reservations/abc", "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, "invalid_id", errorCode(t, bad))
}

func TestReservationHandler_ListByStatus(t *testing.T) {
	status := &mockStatus{}
	status.On("Execute", mock.Anything, "pending_approvals").Return([]models.Reservation{{ID: 1}, {ID: 2}}, nil)
	status.On("Execute", mock.Anything, "bogus").Return(nil, httperr.ErrValidation("invalid_status"))

	r := newEngine()
	r.GET("/reservations", NewReservationHandler(ReservationUseCases{ByStatus: status}).List)

	ok := call(r, http.MethodGet, "/reservations?status=pending_approvals", "")
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, ok.Body.String(), `"total":2`)

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodGet, "/reservations?status=bogus", "").Code)
	status.AssertExpectations(t)
}

func TestReservationHandler_ListAll(t *testing.T) {
	all := &mockAll{}
	all.On("Execute", mock.Anything, domain.Actor{UserID: 7}).Return(nil, httperr.ErrForbidden("admin_only"))
	all.On("Execute", mock.Anything, domain.Actor{UserID: 1, Admin: true}).
		Return([]models.Reservation{{ID: 1}, {ID: 2}, {ID: 3}}, nil)
	uc := ReservationUseCases{ByStatus: &mockStatus{}, All: all}

	member := newEngine()
	member.GET("/reservations", NewReservationHandler(uc).List)
	denied := call(member, http.MethodGet, "/reservations", "")
	assert.Equal(t, http.StatusForbidden, denied.Code)
	assert.Equal(t, "admin_only", errorCode(t, denied))

	gin.SetMode(gin.TestMode)
	admin := gin.New()
	admin.Use(withActor(1, models.RoleAdmin))
	admin.GET("/reservations", NewReservationHandler(uc).List)
	ok := call(admin, http.MethodGet, "/reservations", "")
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, ok.Body.String(), `"total":3`)

	all.AssertExpectations(t)
}

// ======================================================
// APPROVALS
// ======================================================

func TestApprovalHandler_Respond(t *testing.T) {
	vote := &mockVote{}
	vote.On("Execute", mock.Anything, ucReservation.RespondToVoteInput{
		VoteID:   3,
		Approved: boolPtr(true),
		Actor:    domain.Actor{UserID: 7},
	}).Return(&ucReservation.VoteResult{
		Vote:        &models.ApprovalVote{ID: 3, Approved: boolPtr(true)},
		Reservation: &models.Reservation{ID: 9, Status: "APPROVED"},
		Outcome:     domain.OutcomeApproved,
		Changed:     true,
	}, nil)
	vote.On("Execute", mock.Anything, ucReservation.RespondToVoteInput{
		VoteID: 3,
		Actor:  domain.Actor{UserID: 7},
	}).Return(nil, httperr.ErrValidation("missing_approved"))

	r := newEngine()
	r.PUT("/approvals/:id", NewApprovalHandler(vote).Respond)

	ok := call(r, http.MethodPut, "/approvals/3", `{"approved":true}`)
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, ok.Body.String(), `"changed":true`)
	assert.Contains(t, ok.Body.String(), `"outcome":"APPROVED"`)

	missing := call(r, http.MethodPut, "/approvals/3", `{}`)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Equal(t, "missing_approved", errorCode(t, missing))
}

// ======================================================
// ME / ROOMS
// ======================================================

func TestMeHandler_Calendar(t *testing.T) {
	cal := &mockCalendar{}
	cal.On("Execute", mock.Anything, uint(7), 2026, 3).Return(&dto.CalendarDTO{Year: 2026, Month: 3}, nil)
	cal.On("Execute", mock.Anything, uint(7), 2026, 13).Return(nil, httperr.ErrValidation("invalid_month"))

	r := newEngine()
	r.GET("/me/calendar", NewMeHandler(MeUseCases{Calendar: cal}).Calendar)

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/me/calendar?year=2026&month=3", "").Code)

	bad := call(r, http.MethodGet, "/me/calendar?year=2026&month=13", "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, "invalid_month", errorCode(t, bad))

	junk := call(r, http.MethodGet, "/me/calendar?year=abc&month=3", "")
	assert.Equal(t, "invalid_year", errorCode(t, junk))
}

func TestRoomHandler_Reservations(t *testing.T) {
	room := &mockRoom{}
	room.On("Execute", mock.Anything, uint(4), 0, 0).Return([]models.Reservation{{ID: 1}}, nil)
	room.On("Execute", mock.Anything, uint(4), 2026, 6).Return([]models.Reservation{}, nil)
	room.On("Execute", mock.Anything, uint(99), 0, 0).Return(nil, httperr.ErrNotFound("room_not_found"))

	r := newEngine()
	r.GET("/rooms/:id/reservations", NewRoomHandler(room).Reservations)

	all := call(r, http.MethodGet, "/rooms/4/reservations", "")
	assert.Equal(t, http.StatusOK, all.Code)
	assert.Contains(t, all.Body.String(), `"total":1`)

	month := call(r, http.MethodGet, "/rooms/4/reservations?year=2026&month=6", "")
	assert.Contains(t, month.Body.String(), `"total":0`)

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/rooms/99/reservations", "").Code)
}

// ======================================================
// AUDIT
// ======================================================

func TestAuditLogsHandler_List(t *testing.T) {
	logs := &mockAudit{}
	logs.On("List", mock.Anything, audit.Filter{
		Action:   "reservation_cancelled",
		Entity:   "reservation",
		EntityID: 12,
		Page:     1,
		Limit:    50,
	}).Return([]models.AuditLog{{ID: 1}}, int64(1), nil)

	r := newEngine()
	r.GET("/audit-logs", NewAuditLogsHandler(logs).List)

	w := call(r, http.MethodGet, "/audit-logs?action=reservation_cancelled&reservation_id=12&page=0&limit=500", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"limit":50`)
	logs.AssertExpectations(t)
}
