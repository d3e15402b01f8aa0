package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dinebook/internal/draft"
	"dinebook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) startReservation(ctx context.Context, chatID, userID int64) {
	if !b.authStore.Authenticated() {
		b.sendText(chatID, "Please log in before making a reservation.")
		b.startAuth(ctx, chatID, userID)
		return
	}

	state := b.getFlowState(ctx, userID)
	if state == nil || state.Selected == nil {
		b.sendText(chatID, draft.MsgNoRestaurant+". Pick a restaurant first.")
		b.showRestaurants(ctx, chatID, userID, 0, 0)
		return
	}

	state.Draft = models.NewReservationDraft(time.Now())
	state.Draft.RestaurantID = state.Selected.ID

	// Пропускаем известные поля из профиля
	if user := b.authStore.User(); user != nil {
		state.Draft.Name = user.Name
		state.Draft.Email = user.Email
		state.Draft.PhoneNumber = user.Phone
	}

	if state.Draft.Name == "" {
		state.CurrentStep = models.StateEnterName
		b.saveState(ctx, state)
		b.sendText(chatID, "What name should the reservation be under?")
		return
	}
	if state.Draft.Email == "" {
		state.CurrentStep = models.StateEnterEmail
		b.saveState(ctx, state)
		b.sendText(chatID, "What email should we use for the confirmation?")
		return
	}
	if state.Draft.PhoneNumber == "" {
		state.CurrentStep = models.StateEnterPhone
		b.saveState(ctx, state)
		b.sendText(chatID, "What phone number can the restaurant reach you on?")
		return
	}

	state.CurrentStep = models.StateEnterGuests
	b.saveState(ctx, state)
	b.sendText(chatID, "How many guests? (1-20)")
}

func (b *Bot) draftName(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	if text == "" {
		b.sendText(chatID, "Name cannot be empty. What name should the reservation be under?")
		return
	}
	state.Draft.Name = text
	state.CurrentStep = models.StateEnterEmail
	b.saveState(ctx, state)
	b.sendText(chatID, "What email should we use for the confirmation?")
}

func (b *Bot) draftEmail(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	if !strings.Contains(text, "@") {
		b.sendText(chatID, "That does not look like an email. Please try again:")
		return
	}
	state.Draft.Email = text
	state.CurrentStep = models.StateEnterPhone
	b.saveState(ctx, state)
	b.sendText(chatID, "What phone number can the restaurant reach you on?")
}

func (b *Bot) draftPhone(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	if len(strings.TrimLeft(text, "+")) < 7 {
		b.sendText(chatID, "That does not look like a phone number. Please try again:")
		return
	}
	state.Draft.PhoneNumber = text
	state.CurrentStep = models.StateEnterGuests
	b.saveState(ctx, state)
	b.sendText(chatID, "How many guests? (1-20)")
}

func (b *Bot) draftGuests(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	guests, err := strconv.Atoi(text)
	if err != nil || guests < 1 || guests > 20 {
		b.sendText(chatID, "Please enter a number of guests between 1 and 20:")
		return
	}
	state.Draft.GuestCount = guests
	state.CurrentStep = models.StateSelectDate
	b.saveState(ctx, state)
	b.sendText(chatID, fmt.Sprintf("What date? (YYYY-MM-DD, e.g. %s)", time.Now().AddDate(0, 0, 1).Format("2006-01-02")))
}

func (b *Bot) draftDate(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	date, err := time.Parse("2006-01-02", text)
	if err != nil {
		b.sendText(chatID, "Please use the YYYY-MM-DD format, e.g. 2026-09-15:")
		return
	}
	today := time.Now().Truncate(24 * time.Hour)
	if date.Before(today) {
		b.sendText(chatID, "⚠️ The date cannot be in the past. Please pick another date:")
		return
	}

	state.Draft.Date = text
	state.CurrentStep = models.StateSelectTime
	b.saveState(ctx, state)
	b.sendTimeSlots(ctx, chatID, state)
}

// sendTimeSlots asks the backend for availability; if that fails the
// user can still type a time manually.
func (b *Bot) sendTimeSlots(ctx context.Context, chatID int64, state *models.FlowState) {
	slots, err := b.reservations.CheckAvailability(ctx, state.Draft.RestaurantID, state.Draft.Date)
	if err != nil || len(slots) == 0 {
		if err != nil {
			b.logger.Warn().Err(err).Msg("Availability check failed, falling back to manual time entry")
		}
		b.sendText(chatID, "What time? (HH:MM, e.g. 19:00)")
		return
	}

	var sb strings.Builder
	sb.WriteString("Available times:\n")
	for _, slot := range slots {
		if slot.Available {
			sb.WriteString(fmt.Sprintf("  • %s\n", slot.Time))
		}
	}
	sb.WriteString("\nWhat time? (HH:MM)")
	b.sendText(chatID, sb.String())
}

func (b *Bot) draftTime(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	if _, err := time.Parse("15:04", text); err != nil {
		b.sendText(chatID, "Please use the HH:MM format, e.g. 19:00:")
		return
	}

	state.Draft.Time = text
	state.CurrentStep = models.StateConfirmation
	b.saveState(ctx, state)
	b.sendConfirmation(chatID, state)
}

// draftSpecialRequests handles free text typed on the confirmation
// screen: it becomes the special requests field.
func (b *Bot) draftSpecialRequests(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	state.Draft.SpecialRequests = text
	b.saveState(ctx, state)
	b.sendConfirmation(chatID, state)
}

func (b *Bot) sendConfirmation(chatID int64, state *models.FlowState) {
	restaurantName := state.Draft.RestaurantID
	if state.Selected != nil {
		restaurantName = state.Selected.Name
	}

	var sb strings.Builder
	sb.WriteString("📋 *Please confirm your reservation:*\n\n")
	sb.WriteString(fmt.Sprintf("🍽 Restaurant: %s\n", restaurantName))
	sb.WriteString(fmt.Sprintf("👤 Name: %s\n", state.Draft.Name))
	sb.WriteString(fmt.Sprintf("📧 Email: %s\n", state.Draft.Email))
	sb.WriteString(fmt.Sprintf("📱 Phone: %s\n", state.Draft.PhoneNumber))
	sb.WriteString(fmt.Sprintf("👥 Guests: %d\n", state.Draft.GuestCount))
	sb.WriteString(fmt.Sprintf("📅 Date: %s at %s\n", state.Draft.Date, state.Draft.Time))
	if state.Draft.SpecialRequests != "" {
		sb.WriteString(fmt.Sprintf("📝 Special requests: %s\n", state.Draft.SpecialRequests))
	}
	sb.WriteString(fmt.Sprintf("\n💰 A deposit of %d %s is required to confirm.\n", b.config.Payment.DepositAmount, b.config.Payment.Currency))
	sb.WriteString("\nYou can also type any special requests now.")

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm and pay", "reserve_confirm"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "reserve_abort"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = keyboard
	msg.ParseMode = "Markdown"
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send confirmation")
	}
}

// submitReservation runs the draft through validation and submission,
// then hands the result to the payment flow.
func (b *Bot) submitReservation(ctx context.Context, chatID int64, state *models.FlowState) {
	if state == nil {
		b.sendText(chatID, "Your session has expired. Please start again with /start.")
		return
	}

	form := draft.Restore(b.reservations, b.eventBus, b.logger, state.Draft)
	reservation, err := form.Submit(ctx, state.UserID)
	if err != nil {
		var verr *draft.ValidationError
		if errors.As(err, &verr) {
			b.sendText(chatID, "⚠️ "+verr.Message)
			return
		}
		b.sendText(chatID, b.getErrorMessage(err))
		return
	}

	if err := b.store.SaveReservation(ctx, state.UserID, reservation); err != nil {
		b.logger.Error().Err(err).Str("reservation_id", reservation.ID).Msg("Failed to persist reservation")
	}

	// Форма сброшена, дальше платёж
	state.Draft = form.Draft()
	b.beginPayment(ctx, chatID, state, reservation)
}

func (b *Bot) abortReservation(ctx context.Context, chatID int64, state *models.FlowState) {
	if state != nil {
		b.resetFlow(ctx, state.UserID, state)
	}
	b.sendMainMenu(chatID, "Reservation cancelled. Nothing was booked.")
}
