package service

import (
	"context"
	"time"

	"dinebook/internal/domain"
	"dinebook/internal/models"

	"github.com/rs/zerolog"
)

// StateService wraps the state repository with logging and the small
// conveniences the bot handlers need.
type StateService struct {
	stateRepo domain.StateRepository
	logger    *zerolog.Logger
}

func NewStateService(stateRepo domain.StateRepository, logger *zerolog.Logger) *StateService {
	return &StateService{
		stateRepo: stateRepo,
		logger:    logger,
	}
}

func (s *StateService) GetFlowState(ctx context.Context, userID int64) (*models.FlowState, error) {
	state, err := s.stateRepo.GetState(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get flow state")
		return nil, err
	}

	return state, nil
}

func (s *StateService) SetFlowState(ctx context.Context, state *models.FlowState) error {
	return s.stateRepo.SetState(ctx, state)
}

// SetStep moves the user to a new conversation step, preserving the
// draft and payment session already accumulated.
func (s *StateService) SetStep(ctx context.Context, userID int64, step string) error {
	state, err := s.stateRepo.GetState(ctx, userID)
	if err != nil {
		return err
	}
	if state == nil {
		state = &models.FlowState{UserID: userID}
	}
	state.CurrentStep = step
	return s.stateRepo.SetState(ctx, state)
}

func (s *StateService) ClearFlowState(ctx context.Context, userID int64) error {
	return s.stateRepo.ClearState(ctx, userID)
}

func (s *StateService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.stateRepo.CheckRateLimit(ctx, userID, limit, window)
}
