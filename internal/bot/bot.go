package bot

import (
	"context"
	"os"
	"time"

	"dinebook/internal/auth"
	"dinebook/internal/cms"
	"dinebook/internal/config"
	"dinebook/internal/directory"
	"dinebook/internal/domain"
	"dinebook/internal/events"
	"dinebook/internal/payment"
	"dinebook/internal/service"
	"dinebook/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Bot is the chat front end: it walks users through restaurant
// selection, the reservation form and the payment flow, keeping
// per-user progress in the state service.
type Bot struct {
	tg           *service.TelegramService
	config       *config.Config
	states       *service.StateService
	authStore    *auth.Store
	directory    *directory.Store
	orchestrator *payment.Orchestrator
	reservations domain.ReservationClient
	profile      domain.AuthClient
	feedback     FeedbackClient
	store        *storage.DB
	reminders    domain.ReminderScheduler
	eventBus     *events.EventBus
	logger       *zerolog.Logger
}

// FeedbackClient is the small slice of the CMS client the feedback
// flow needs.
type FeedbackClient interface {
	SubmitFeedback(ctx context.Context, fb cms.Feedback) error
}

type Deps struct {
	Telegram     *service.TelegramService
	Config       *config.Config
	States       *service.StateService
	Auth         *auth.Store
	Directory    *directory.Store
	Orchestrator *payment.Orchestrator
	Reservations domain.ReservationClient
	Profile      domain.AuthClient
	Feedback     FeedbackClient
	Storage      *storage.DB
	Reminders    domain.ReminderScheduler
	EventBus     *events.EventBus
	Logger       *zerolog.Logger
}

func NewBot(deps Deps) *Bot {
	if deps.EventBus == nil {
		deps.EventBus = events.NewEventBus()
	}
	if deps.Logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		deps.Logger = &l
	}

	return &Bot{
		tg:           deps.Telegram,
		config:       deps.Config,
		states:       deps.States,
		authStore:    deps.Auth,
		directory:    deps.Directory,
		orchestrator: deps.Orchestrator,
		reservations: deps.Reservations,
		profile:      deps.Profile,
		feedback:     deps.Feedback,
		store:        deps.Storage,
		reminders:    deps.Reminders,
		eventBus:     deps.EventBus,
		logger:       deps.Logger,
	}
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tg.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tg.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			// Отдельный контекст на каждое обновление
			updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)

			requestID := uuid.New().String()
			l := b.logger.With().Str("request_id", requestID).Logger()
			updateCtx = l.WithContext(updateCtx)

			if update.CallbackQuery != nil {
				b.withRecovery(func() { b.handleCallbackQuery(updateCtx, update) })
				cancel()
				continue
			}

			if update.Message == nil {
				cancel()
				continue
			}

			b.withRecovery(func() { b.handleMessage(updateCtx, update) })
			cancel()
		}
	}
}

func (b *Bot) withRecovery(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Interface("panic", r).Msg("Recovered from panic in update handler")
		}
	}()
	handler()
}
