package domain

import (
	"context"
	"time"

	"dinebook/internal/cms"
	"dinebook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type StateRepository interface {
	GetState(ctx context.Context, userID int64) (*models.FlowState, error)
	SetState(ctx context.Context, state *models.FlowState) error
	ClearState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type StateManager interface {
	GetFlowState(ctx context.Context, userID int64) (*models.FlowState, error)
	SetFlowState(ctx context.Context, state *models.FlowState) error
	SetStep(ctx context.Context, userID int64, step string) error
	ClearFlowState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type AuthClient interface {
	Login(ctx context.Context, creds cms.Credentials) (*models.Session, error)
	Signup(ctx context.Context, data cms.SignupData) (*models.Session, error)
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, user models.User) (*models.User, error)
}

type DirectoryClient interface {
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
}

type ReservationClient interface {
	CreateReservation(ctx context.Context, draft models.ReservationDraft) (*models.Reservation, error)
	CheckAvailability(ctx context.Context, restaurantID, date string) ([]cms.AvailabilitySlot, error)
	CancelReservation(ctx context.Context, id string) error
}

type PaymentClient interface {
	CreatePaymentIntent(ctx context.Context, reservationID string, amount int64, currency, email string, meta cms.PaymentIntentMetadata) (*cms.PaymentIntent, error)
	VerifyPayment(ctx context.Context, reference string) (*cms.VerifyResult, error)
	ConfirmPayment(ctx context.Context, reservationID, reference string) error
}

type SessionStore interface {
	SaveSession(ctx context.Context, session *models.Session) error
	LoadSession(ctx context.Context) (*models.Session, error)
	ClearSession(ctx context.Context) error
}

type ReservationStore interface {
	SaveReservation(ctx context.Context, userID int64, reservation *models.Reservation) error
	UpdateReservationStatus(ctx context.Context, id string, status string) error
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	ListReservations(ctx context.Context, userID int64) ([]*models.Reservation, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type ReminderScheduler interface {
	EnqueueReminder(ctx context.Context, userID int64, reservation *models.Reservation) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
