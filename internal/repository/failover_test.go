package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinebook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyRepository struct {
	*MemoryStateRepository
	fail bool
}

func (f *flakyRepository) GetState(ctx context.Context, userID int64) (*models.FlowState, error) {
	if f.fail {
		return nil, errors.New("connection refused")
	}
	return f.MemoryStateRepository.GetState(ctx, userID)
}

func (f *flakyRepository) SetState(ctx context.Context, state *models.FlowState) error {
	if f.fail {
		return errors.New("connection refused")
	}
	return f.MemoryStateRepository.SetState(ctx, state)
}

func (f *flakyRepository) ClearState(ctx context.Context, userID int64) error {
	if f.fail {
		return errors.New("connection refused")
	}
	return f.MemoryStateRepository.ClearState(ctx, userID)
}

func (f *flakyRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if f.fail {
		return false, errors.New("connection refused")
	}
	return f.MemoryStateRepository.CheckRateLimit(ctx, userID, limit, window)
}

func newFailoverFixture() (*flakyRepository, *MemoryStateRepository, *FailoverStateRepository) {
	primary := &flakyRepository{MemoryStateRepository: NewMemoryStateRepository(time.Hour)}
	fallback := NewMemoryStateRepository(time.Hour)
	logger := zerolog.Nop()
	return primary, fallback, NewFailoverStateRepository(primary, fallback, &logger)
}

func TestFailoverUsesPrimaryWhenHealthy(t *testing.T) {
	primary, fallback, repo := newFailoverFixture()
	ctx := context.Background()

	state := &models.FlowState{UserID: 1, CurrentStep: models.StateMainMenu}
	require.NoError(t, repo.SetState(ctx, state))

	got, err := primary.MemoryStateRepository.GetState(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, got, "state written to primary")

	got, err = fallback.GetState(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got, "fallback untouched while primary is up")
}

func TestFailoverSwitchesToFallbackOnError(t *testing.T) {
	primary, fallback, repo := newFailoverFixture()
	ctx := context.Background()
	primary.fail = true

	state := &models.FlowState{UserID: 2, CurrentStep: models.StateEnterGuests}
	require.NoError(t, repo.SetState(ctx, state))

	got, err := fallback.GetState(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StateEnterGuests, got.CurrentStep)

	// Subsequent reads come from the fallback without touching the
	// broken primary.
	got, err = repo.GetState(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StateEnterGuests, got.CurrentStep)
}

func TestFailoverRateLimitFallsBack(t *testing.T) {
	primary, _, repo := newFailoverFixture()
	ctx := context.Background()
	primary.fail = true

	allowed, err := repo.CheckRateLimit(ctx, 3, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = repo.CheckRateLimit(ctx, 3, 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestFailoverClearState(t *testing.T) {
	primary, fallback, repo := newFailoverFixture()
	ctx := context.Background()
	primary.fail = true

	require.NoError(t, repo.SetState(ctx, &models.FlowState{UserID: 4}))
	require.NoError(t, repo.ClearState(ctx, 4))

	got, err := fallback.GetState(ctx, 4)
	require.NoError(t, err)
	assert.Nil(t, got)
}
