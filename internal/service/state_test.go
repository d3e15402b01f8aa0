package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinebook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) GetState(ctx context.Context, userID int64) (*models.FlowState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FlowState), args.Error(1)
}

func (m *MockStateRepository) SetState(ctx context.Context, state *models.FlowState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockStateRepository) ClearState(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, userID, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestStateService_GetFlowState(t *testing.T) {
	mockRepo := new(MockStateRepository)
	logger := zerolog.Nop()
	s := NewStateService(mockRepo, &logger)
	ctx := context.Background()
	userID := int64(123)

	t.Run("Success", func(t *testing.T) {
		expected := &models.FlowState{UserID: userID, CurrentStep: models.StateMainMenu}
		mockRepo.On("GetState", ctx, userID).Return(expected, nil).Once()

		state, err := s.GetFlowState(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, expected, state)
	})

	t.Run("Error", func(t *testing.T) {
		mockRepo.On("GetState", ctx, userID).Return(nil, errors.New("db error")).Once()

		state, err := s.GetFlowState(ctx, userID)
		assert.Error(t, err)
		assert.Nil(t, state)
	})
}

func TestStateService_SetStep(t *testing.T) {
	mockRepo := new(MockStateRepository)
	logger := zerolog.Nop()
	s := NewStateService(mockRepo, &logger)
	ctx := context.Background()
	userID := int64(123)

	t.Run("PreservesDraftAndPayment", func(t *testing.T) {
		existing := &models.FlowState{
			UserID:  userID,
			Draft:   models.ReservationDraft{Name: "Alex"},
			Payment: &models.PaymentSession{State: models.PaymentAwaitingRedirect},
		}
		mockRepo.On("GetState", ctx, userID).Return(existing, nil).Once()
		mockRepo.On("SetState", ctx, mock.MatchedBy(func(state *models.FlowState) bool {
			return state.CurrentStep == models.StateEnterEmail &&
				state.Draft.Name == "Alex" &&
				state.Payment != nil
		})).Return(nil).Once()

		err := s.SetStep(ctx, userID, models.StateEnterEmail)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("CreatesStateWhenMissing", func(t *testing.T) {
		mockRepo.On("GetState", ctx, userID).Return(nil, nil).Once()
		mockRepo.On("SetState", ctx, mock.MatchedBy(func(state *models.FlowState) bool {
			return state.UserID == userID && state.CurrentStep == models.StateMainMenu
		})).Return(nil).Once()

		err := s.SetStep(ctx, userID, models.StateMainMenu)
		assert.NoError(t, err)
	})
}

func TestStateService_ClearFlowState(t *testing.T) {
	mockRepo := new(MockStateRepository)
	logger := zerolog.Nop()
	s := NewStateService(mockRepo, &logger)
	ctx := context.Background()

	mockRepo.On("ClearState", ctx, int64(123)).Return(nil).Once()
	assert.NoError(t, s.ClearFlowState(ctx, 123))
	mockRepo.AssertExpectations(t)
}

func TestStateService_CheckRateLimit(t *testing.T) {
	mockRepo := new(MockStateRepository)
	logger := zerolog.Nop()
	s := NewStateService(mockRepo, &logger)
	ctx := context.Background()

	mockRepo.On("CheckRateLimit", ctx, int64(123), 10, time.Minute).Return(false, nil).Once()

	allowed, err := s.CheckRateLimit(ctx, 123, 10, time.Minute)
	assert.NoError(t, err)
	assert.False(t, allowed)
}
