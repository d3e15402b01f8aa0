package bot

import (
	"context"
	"strings"
	"time"

	"dinebook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const (
	btnRestaurants  = "🍽 Restaurants"
	btnReservations = "📅 My Reservations"
	btnProfile      = "👤 Profile"
	btnFeedback     = "💬 Feedback"
	btnLogin        = "🔐 Log in"
	btnLogout       = "🚪 Log out"
)

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	l := zerolog.Ctx(ctx)

	l.Debug().
		Int64("user_id", userID).
		Str("username", update.Message.From.UserName).
		Msg("Handling message")

	allowed, err := b.states.CheckRateLimit(ctx, userID,
		b.config.Bot.RateLimitMessages,
		time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
	if err == nil && !allowed {
		b.sendText(chatID, "Too many messages, please slow down a little.")
		return
	}

	state := b.getFlowState(ctx, userID)

	switch {
	case text == "/start" || strings.EqualFold(text, "reset"):
		b.resetFlow(ctx, userID, state)
		b.sendMainMenu(chatID, "Welcome to DineBook! Find a restaurant and book a table.")
		return
	case text == "/help":
		b.sendText(chatID, "Use the menu below: browse restaurants, make a reservation, pay the deposit and manage your bookings.")
		return
	case text == btnRestaurants:
		b.showRestaurants(ctx, chatID, userID, 0, 0)
		return
	case text == btnReservations:
		b.showReservations(ctx, chatID, userID)
		return
	case text == btnProfile:
		b.showProfile(ctx, chatID, userID)
		return
	case text == btnFeedback:
		b.promptFeedback(ctx, chatID, userID)
		return
	case text == btnLogin:
		b.startAuth(ctx, chatID, userID)
		return
	case text == btnLogout:
		b.logout(ctx, chatID, userID)
		return
	}

	if state == nil {
		b.sendMainMenu(chatID, "Pick an option from the menu below.")
		return
	}

	switch state.CurrentStep {
	case models.StateAuthEnterName:
		b.authName(ctx, chatID, state, text)
	case models.StateAuthEnterEmail:
		b.authEmail(ctx, chatID, state, text)
	case models.StateAuthEnterPassword:
		b.authPassword(ctx, chatID, state, text)
	case models.StateSearchRestaurants:
		b.searchRestaurants(ctx, chatID, state, text)
	case models.StateEnterName:
		b.draftName(ctx, chatID, state, text)
	case models.StateEnterEmail:
		b.draftEmail(ctx, chatID, state, text)
	case models.StateEnterPhone:
		b.draftPhone(ctx, chatID, state, text)
	case models.StateEnterGuests:
		b.draftGuests(ctx, chatID, state, text)
	case models.StateSelectDate:
		b.draftDate(ctx, chatID, state, text)
	case models.StateSelectTime:
		b.draftTime(ctx, chatID, state, text)
	case models.StateConfirmation:
		b.draftSpecialRequests(ctx, chatID, state, text)
	case models.StateAwaitingPayment:
		b.paymentRedirectCompleted(ctx, chatID, state, text)
	case models.StateEditProfile:
		b.editProfile(ctx, chatID, state, text)
	case models.StateEnterFeedback:
		b.submitFeedback(ctx, chatID, state, text)
	default:
		b.sendMainMenu(chatID, "Pick an option from the menu below.")
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	cb := update.CallbackQuery
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	data := cb.Data

	_ = b.tg.AnswerCallback(cb.ID, "")

	state := b.getFlowState(ctx, userID)

	switch {
	case strings.HasPrefix(data, "rest_page:"):
		b.restaurantsPage(ctx, chatID, userID, cb.Message.MessageID, data)
	case strings.HasPrefix(data, "rest_sel:"):
		b.selectRestaurant(ctx, chatID, userID, strings.TrimPrefix(data, "rest_sel:"))
	case data == "rest_search":
		b.promptSearch(ctx, chatID, userID)
	case data == "reserve_start":
		b.startReservation(ctx, chatID, userID)
	case data == "reserve_confirm":
		b.submitReservation(ctx, chatID, state)
	case data == "reserve_abort":
		b.abortReservation(ctx, chatID, state)
	case data == "pay_done":
		b.promptRedirectURL(ctx, chatID, state)
	case data == "pay_retry":
		b.retryPayment(ctx, chatID, state)
	case data == "pay_support":
		b.contactSupport(ctx, chatID, state)
	case data == "pay_cancel":
		b.cancelPaymentPrompt(ctx, chatID, state)
	case data == "pay_cancel_yes":
		b.cancelPayment(ctx, chatID, state)
	case data == "pay_cancel_no":
		b.resumePayment(ctx, chatID, state)
	case strings.HasPrefix(data, "res_cancel:"):
		b.cancelReservationPrompt(ctx, chatID, userID, strings.TrimPrefix(data, "res_cancel:"))
	case strings.HasPrefix(data, "res_cancel_yes:"):
		b.cancelReservation(ctx, chatID, userID, strings.TrimPrefix(data, "res_cancel_yes:"))
	case data == "res_cancel_no":
		b.showReservations(ctx, chatID, userID)
	case strings.HasPrefix(data, "res_list_page:"):
		b.reservationsPage(ctx, chatID, userID, cb.Message.MessageID, data)
	case data == "res_export":
		b.exportReservations(ctx, chatID, userID)
	case data == "auth_login" || data == "auth_signup":
		b.chooseAuthMode(ctx, chatID, userID, data)
	case data == "profile_edit_name" || data == "profile_edit_phone":
		b.startProfileEdit(ctx, chatID, userID, data)
	default:
		b.logger.Debug().Str("data", data).Msg("unknown callback ignored")
	}
}

// getFlowState returns the user's flow state or nil.
func (b *Bot) getFlowState(ctx context.Context, userID int64) *models.FlowState {
	state, err := b.states.GetFlowState(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to get flow state")
		return nil
	}
	return state
}

// resetFlow tears down any unfinished payment and clears the state.
func (b *Bot) resetFlow(ctx context.Context, userID int64, state *models.FlowState) {
	if state != nil && state.Payment != nil {
		b.orchestrator.Teardown(state.Payment)
	}
	if err := b.states.ClearFlowState(ctx, userID); err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to clear flow state")
	}
}

func (b *Bot) sendMainMenu(chatID int64, text string) {
	authBtn := btnLogin
	if b.authStore.Authenticated() {
		authBtn = btnLogout
	}
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnRestaurants),
			tgbotapi.NewKeyboardButton(btnReservations),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnProfile),
			tgbotapi.NewKeyboardButton(btnFeedback),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(authBtn),
		),
	)
	if _, err := b.tg.SendWithKeyboard(chatID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send main menu")
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	if _, err := b.tg.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send message")
	}
}

func (b *Bot) saveState(ctx context.Context, state *models.FlowState) {
	if err := b.states.SetFlowState(ctx, state); err != nil {
		b.logger.Error().Err(err).Int64("user_id", state.UserID).Msg("Failed to save flow state")
	}
}
