package repository

import (
	"context"
	"testing"
	"time"

	"dinebook/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStateRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisStateRepository(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetState", func(t *testing.T) {
		state := &models.FlowState{
			UserID:      123,
			CurrentStep: models.StateEnterName,
			Draft:       models.ReservationDraft{Name: "Alice", RestaurantID: "rest-1"},
			TempData:    map[string]string{"key": "value"},
		}

		err := repo.SetState(ctx, state)
		require.NoError(t, err)

		got, err := repo.GetState(ctx, 123)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, state.UserID, got.UserID)
		assert.Equal(t, state.CurrentStep, got.CurrentStep)
		assert.Equal(t, "Alice", got.Draft.Name)
		assert.Equal(t, "value", got.Get("key"))
	})

	t.Run("PaymentSessionSurvivesRoundTrip", func(t *testing.T) {
		state := &models.FlowState{
			UserID:      321,
			CurrentStep: models.StateAwaitingPayment,
			Payment: &models.PaymentSession{
				ReservationID: "res-1",
				Amount:        200,
				Currency:      "ZAR",
				Reference:     "ref_1",
				Verified:      true,
				State:         models.PaymentFailed,
				LastError:     "Provider timeout",
			},
		}

		require.NoError(t, repo.SetState(ctx, state))

		got, err := repo.GetState(ctx, 321)
		require.NoError(t, err)
		require.NotNil(t, got.Payment)
		assert.Equal(t, models.PaymentFailed, got.Payment.State)
		assert.Equal(t, "ref_1", got.Payment.Reference)
		assert.True(t, got.Payment.Verified)
	})

	t.Run("GetNonExistentState", func(t *testing.T) {
		got, err := repo.GetState(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearState", func(t *testing.T) {
		state := &models.FlowState{UserID: 456, CurrentStep: models.StateMainMenu}
		require.NoError(t, repo.SetState(ctx, state))

		err := repo.ClearState(ctx, 456)
		require.NoError(t, err)

		got, _ := repo.GetState(ctx, 456)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		userID := int64(789)
		limit := 2
		window := time.Second

		allowed, err := repo.CheckRateLimit(ctx, userID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, userID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, userID, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		// Window expiry resets the counter.
		s.FastForward(2 * time.Second)
		allowed, err = repo.CheckRateLimit(ctx, userID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("StateTTL", func(t *testing.T) {
		shortRepo := NewRedisStateRepository(client, time.Minute)
		state := &models.FlowState{UserID: 555, CurrentStep: models.StateMainMenu}
		require.NoError(t, shortRepo.SetState(ctx, state))

		s.FastForward(2 * time.Minute)

		got, err := shortRepo.GetState(ctx, 555)
		require.NoError(t, err)
		assert.Nil(t, got, "state expires with its TTL")
	})
}
