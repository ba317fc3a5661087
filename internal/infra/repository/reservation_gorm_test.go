package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbpkg "github.com/BruksfildServices01/rehearsal-scheduler/internal/db"
	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := dbpkg.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	require.NoError(t, db.Exec(`TRUNCATE approval_votes, reservations, band_members, bands,
		room_memberships, rooms, audit_logs, users RESTART IDENTITY CASCADE`).Error)

	return db
}

type fixture struct {
	users []models.User
	roomA models.Room
	roomB models.Room
	band  models.Band
}

func seed(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	var f fixture
	for _, name := range []string{"ana", "beto", "caro", "dani"} {
		u := models.User{Name: name, Email: name + "@example.com"}
		require.NoError(t, db.Create(&u).Error)
		f.users = append(f.users, u)
	}

	f.roomA = models.Room{Name: "A", Color: "#111111"}
	f.roomB = models.Room{Name: "B"}
	require.NoError(t, db.Create(&f.roomA).Error)
	require.NoError(t, db.Create(&f.roomB).Error)

	require.NoError(t, db.Create(&[]models.RoomMembership{
		{RoomID: f.roomA.ID, UserID: f.users[1].ID},
		{RoomID: f.roomA.ID, UserID: f.users[2].ID},
	}).Error)

	f.band = models.Band{
		Name:       "Band",
		HomeRoomID: &f.roomA.ID,
		Members:    []models.User{f.users[2], f.users[3]},
	}
	require.NoError(t, db.Create(&f.band).Error)

	return f
}

func at(h int) time.Time {
	return time.Date(2026, 5, 2, h, 0, 0, 0, time.UTC)
}

func rehearsal(owner, room uint, start, end time.Time, status domain.Status) *models.Reservation {
	return &models.Reservation{
		Kind:      string(domain.KindRehearsal),
		OwnerID:   owner,
		RoomID:    &room,
		StartTime: start,
		EndTime:   end,
		Status:    string(status),
	}
}

func TestReservationGorm_ExclusionConstraint(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	repo := NewReservationGormRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateReservation(ctx, rehearsal(f.users[0].ID, f.roomA.ID, at(10), at(12), domain.StatusConfirmed)))

	err := repo.CreateReservation(ctx, rehearsal(f.users[1].ID, f.roomA.ID, at(11), at(13), domain.StatusPendingApprovals))
	assert.True(t, httperr.IsBusiness(err, "time_conflict"), "got %v", err)

	// touching, other room, dead status
	assert.NoError(t, repo.CreateReservation(ctx, rehearsal(f.users[1].ID, f.roomA.ID, at(12), at(13), domain.StatusConfirmed)))
	assert.NoError(t, repo.CreateReservation(ctx, rehearsal(f.users[1].ID, f.roomB.ID, at(11), at(13), domain.StatusConfirmed)))
	assert.NoError(t, repo.CreateReservation(ctx, rehearsal(f.users[1].ID, f.roomA.ID, at(10), at(12), domain.StatusCancelled)))
}

func TestReservationGorm_FindOverlapping(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	repo := NewReservationGormRepository(db)
	ctx := context.Background()

	r := rehearsal(f.users[0].ID, f.roomA.ID, at(10), at(12), domain.StatusConfirmed)
	require.NoError(t, repo.CreateReservation(ctx, r))

	scope := domain.Scope{Kind: domain.ScopeRoom, ID: f.roomA.ID}

	got, err := repo.FindOverlapping(ctx, domain.OverlapQuery{Scope: scope, Start: at(11), End: at(14)})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = repo.FindOverlapping(ctx, domain.OverlapQuery{Scope: scope, Start: at(11), End: at(14), ExcludeID: &r.ID})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.FindOverlapping(ctx, domain.OverlapQuery{Scope: scope, Start: at(12), End: at(14)})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReservationGorm_TransactionRollsBack(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	repo := NewReservationGormRepository(db)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx domain.Repository) error {
		require.NoError(t, tx.LockScope(ctx, domain.Scope{Kind: domain.ScopeRoom, ID: f.roomA.ID}))
		require.NoError(t, tx.CreateReservation(ctx, rehearsal(f.users[0].ID, f.roomA.ID, at(10), at(12), domain.StatusConfirmed)))
		return httperr.ErrConflict("time_conflict")
	})
	require.Error(t, err)

	list, err := repo.ListByOwner(ctx, f.users[0].ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReservationGorm_Votes(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	repo := NewReservationGormRepository(db)
	ctx := context.Background()

	r := rehearsal(f.users[0].ID, f.roomA.ID, at(0), at(23), domain.StatusPendingApprovals)
	require.NoError(t, repo.CreateReservation(ctx, r))

	require.NoError(t, repo.CreateVotes(ctx, domain.NewVotes(r.ID, []uint{f.users[1].ID, f.users[2].ID})))
	// duplicates are skipped
	require.NoError(t, repo.CreateVotes(ctx, domain.NewVotes(r.ID, []uint{f.users[1].ID})))

	votes, err := repo.ListVotesByReservation(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, votes, 2)

	v := votes[0]
	domain.RecordVote(&v, true, time.Now())
	require.NoError(t, repo.UpdateVote(ctx, &v))

	got, err := repo.GetVote(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Approved)
	assert.True(t, *got.Approved)
	assert.NotNil(t, got.RespondedAt)

	pending, err := repo.ListPendingVotesByUser(ctx, f.users[2].ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.NoError(t, repo.ResetVotes(ctx, r.ID))
	got, err = repo.GetVote(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Approved)

	require.NoError(t, repo.DeleteReservation(ctx, r.ID))
	_, err = repo.GetVote(ctx, v.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteReservation(ctx, r.ID), domain.ErrNotFound)
}

func TestReservationGorm_Calendar(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	repo := NewReservationGormRepository(db)
	ctx := context.Background()

	mine := &models.Reservation{
		Kind: string(domain.KindPersonalShow), OwnerID: f.users[3].ID,
		StartTime: at(20), EndTime: at(22), Status: string(domain.StatusConfirmed),
	}
	require.NoError(t, repo.CreateReservation(ctx, mine))

	inRoom := rehearsal(f.users[0].ID, f.roomA.ID, at(10), at(12), domain.StatusConfirmed)
	require.NoError(t, repo.CreateReservation(ctx, inRoom))

	elsewhere := rehearsal(f.users[0].ID, f.roomB.ID, at(10), at(12), domain.StatusConfirmed)
	require.NoError(t, repo.CreateReservation(ctx, elsewhere))

	from, to := domain.MonthRange(2026, 5, time.UTC)
	list, err := repo.ListCalendar(ctx, domain.CalendarQuery{
		OwnerID: f.users[3].ID,
		RoomIDs: []uint{f.roomA.ID},
		Period:  domain.Period{From: from, To: to},
	})
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, inRoom.ID, list[0].ID)
	assert.Equal(t, "A", list[0].Room.Name)
	assert.Equal(t, mine.ID, list[1].ID)
}

func TestMembershipGorm(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	m := NewMembershipGormRepository(db)
	ctx := context.Background()

	users, err := m.UsersOfRoom(ctx, f.roomA.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.users[1].ID, f.users[2].ID}, users)

	rooms, err := m.RoomsOfUser(ctx, f.users[2].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.roomA.ID}, rooms)

	bands, err := m.BandsWithHomeRoom(ctx, f.roomA.ID)
	require.NoError(t, err)
	require.Len(t, bands, 1)
	assert.ElementsMatch(t, []uint{f.users[2].ID, f.users[3].ID}, bands[0].Members)

	mine, err := m.BandsOfUser(ctx, f.users[3].ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.band.ID, mine[0].ID)

	none, err := m.BandsOfUser(ctx, f.users[0].ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
