package repository

import (
	"context"
	"testing"
	"time"

	"dinebook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateRepository(t *testing.T) {
	repo := NewMemoryStateRepository(time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetState", func(t *testing.T) {
		state := &models.FlowState{
			UserID:      1,
			CurrentStep: models.StateSelectDate,
			Draft:       models.ReservationDraft{RestaurantID: "rest-1", GuestCount: 2},
		}

		require.NoError(t, repo.SetState(ctx, state))

		got, err := repo.GetState(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.StateSelectDate, got.CurrentStep)
		assert.Equal(t, 2, got.Draft.GuestCount)
	})

	t.Run("GetMissingReturnsNil", func(t *testing.T) {
		got, err := repo.GetState(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearState", func(t *testing.T) {
		require.NoError(t, repo.SetState(ctx, &models.FlowState{UserID: 2}))
		require.NoError(t, repo.ClearState(ctx, 2))

		got, err := repo.GetState(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		userID := int64(3)

		for i := 0; i < 3; i++ {
			allowed, err := repo.CheckRateLimit(ctx, userID, 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := repo.CheckRateLimit(ctx, userID, 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("RateLimitWindowExpiry", func(t *testing.T) {
		userID := int64(4)

		allowed, err := repo.CheckRateLimit(ctx, userID, 1, 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, userID, 1, 10*time.Millisecond)
		require.NoError(t, err)
		assert.False(t, allowed)

		time.Sleep(20 * time.Millisecond)

		allowed, err = repo.CheckRateLimit(ctx, userID, 1, 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}
