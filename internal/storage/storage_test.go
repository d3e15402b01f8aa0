package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"dinebook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	session := &models.Session{
		Token: "aaa.bbb.ccc",
		User: models.User{
			ID:    "u1",
			Name:  "Alice",
			Email: "alice@example.com",
			Phone: "+27115551234",
		},
		CreatedAt: time.Now(),
	}

	require.NoError(t, db.SaveSession(ctx, session))

	got, err := db.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "aaa.bbb.ccc", got.Token)
	assert.Equal(t, "Alice", got.User.Name)
	assert.Equal(t, "alice@example.com", got.User.Email)
}

func TestSessionSingleRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveSession(ctx, &models.Session{Token: "a.b.c", User: models.User{ID: "u1"}}))
	require.NoError(t, db.SaveSession(ctx, &models.Session{Token: "x.y.z", User: models.User{ID: "u2"}}))

	got, err := db.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "x.y.z", got.Token, "saving again replaces the single session row")
	assert.Equal(t, "u2", got.User.ID)
}

func TestLoadSessionWhenEmpty(t *testing.T) {
	db := newTestDB(t)

	got, err := db.LoadSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClearSession(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveSession(ctx, &models.Session{Token: "a.b.c", User: models.User{ID: "u1"}}))
	require.NoError(t, db.ClearSession(ctx))

	got, err := db.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func sampleReservation(id string) *models.Reservation {
	return &models.Reservation{
		ID:             id,
		RestaurantID:   "rest-1",
		RestaurantName: "La Petite",
		CustomerName:   "Alice",
		CustomerEmail:  "alice@example.com",
		CustomerPhone:  "+27115551234",
		GuestCount:     4,
		Date:           "2026-09-15",
		Time:           "19:00",
		Status:         models.StatusPending,
	}
}

func TestReservationRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveReservation(ctx, 42, sampleReservation("res-1")))

	got, err := db.GetReservation(ctx, "res-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "La Petite", got.RestaurantName)
	assert.Equal(t, 4, got.GuestCount)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestUpdateReservationStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveReservation(ctx, 42, sampleReservation("res-1")))
	require.NoError(t, db.UpdateReservationStatus(ctx, "res-1", models.StatusConfirmed))

	got, err := db.GetReservation(ctx, "res-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
}

func TestUpdateMissingReservation(t *testing.T) {
	db := newTestDB(t)

	err := db.UpdateReservationStatus(context.Background(), "missing", models.StatusConfirmed)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestListReservationsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := sampleReservation("res-1")
	second := sampleReservation("res-2")

	require.NoError(t, db.SaveReservation(ctx, 42, first))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, db.SaveReservation(ctx, 42, second))
	require.NoError(t, db.SaveReservation(ctx, 99, sampleReservation("res-other")))

	list, err := db.ListReservations(ctx, 42)
	require.NoError(t, err)
	require.Len(t, list, 2, "only the user's own reservations")
	assert.Equal(t, "res-2", list[0].ID)
	assert.Equal(t, "res-1", list[1].ID)
}

func TestSaveReservationUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	reservation := sampleReservation("res-1")
	require.NoError(t, db.SaveReservation(ctx, 42, reservation))

	reservation.GuestCount = 6
	reservation.Status = models.StatusConfirmed
	require.NoError(t, db.SaveReservation(ctx, 42, reservation))

	got, err := db.GetReservation(ctx, "res-1")
	require.NoError(t, err)
	assert.Equal(t, 6, got.GuestCount)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	list, err := db.ListReservations(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRestaurantCacheReplace(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := []models.Restaurant{
		{ID: "r1", Name: "La Petite", Cuisine: "French"},
		{ID: "r2", Name: "Thai Garden", Cuisine: "Thai"},
	}
	require.NoError(t, db.ReplaceRestaurants(ctx, first))

	second := []models.Restaurant{
		{ID: "r3", Name: "Sushi Spot", Cuisine: "Japanese"},
	}
	require.NoError(t, db.ReplaceRestaurants(ctx, second))

	cached, err := db.ListCachedRestaurants(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1, "replace drops the previous cache")
	assert.Equal(t, "Sushi Spot", cached[0].Name)
}
