package bot

import (
	"context"
	"errors"
	"fmt"

	"dinebook/internal/models"
	"dinebook/internal/payment"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// beginPayment opens a payment session for a freshly created
// reservation and walks the orchestrator through initialization.
func (b *Bot) beginPayment(ctx context.Context, chatID int64, state *models.FlowState, reservation *models.Reservation) {
	session := payment.NewSession(reservation.ID, b.config.Payment.DepositAmount, b.config.Payment.Currency)
	state.Payment = session

	if err := b.orchestrator.Begin(ctx, session, reservation); err != nil {
		b.logger.Error().Err(err).Msg("Payment begin rejected")
		b.sendText(chatID, payment.MsgBusy)
		return
	}

	if session.State == models.PaymentFailed {
		b.saveState(ctx, state)
		b.sendPaymentFailedMenu(chatID, session)
		return
	}

	state.CurrentStep = models.StateAwaitingPayment
	b.saveState(ctx, state)

	text := fmt.Sprintf(
		"✅ Reservation created!\n\n💰 To confirm it, please pay the %d %s deposit:\n%s\n\nWhen you are done, tap the button below.",
		session.Amount, session.Currency, session.AuthorizationURL,
	)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ I've paid", "pay_done"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel payment", "pay_cancel"),
		),
	)
	if _, err := b.tg.SendWithInlineKeyboard(chatID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send payment link")
	}
}

// promptRedirectURL asks the user to paste the address the payment
// page redirected them to; the reference is extracted from it.
func (b *Bot) promptRedirectURL(ctx context.Context, chatID int64, state *models.FlowState) {
	if state == nil || state.Payment == nil {
		b.sendText(chatID, "There is no payment in progress. Start a new reservation with /start.")
		return
	}
	b.sendText(chatID, "Please paste the address the payment page sent you to (it contains your payment reference):")
}

// paymentRedirectCompleted consumes the pasted redirect URL and runs
// verification and confirmation.
func (b *Bot) paymentRedirectCompleted(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	if state.Payment == nil {
		b.sendText(chatID, "There is no payment in progress. Start a new reservation with /start.")
		return
	}

	session := state.Payment
	err := b.orchestrator.CompleteRedirect(ctx, session, text)
	b.saveState(ctx, state)

	switch {
	case errors.Is(err, payment.ErrBusy):
		b.sendText(chatID, payment.MsgBusy)
		return
	case err != nil:
		b.logger.Warn().Err(err).Msg("Redirect completion rejected")
		b.sendText(chatID, "This payment can no longer be completed. Start again with /start.")
		return
	}

	if session.State == models.PaymentSucceeded {
		b.onPaymentSucceeded(ctx, chatID, state)
		return
	}
	b.sendPaymentFailedMenu(chatID, session)
}

func (b *Bot) onPaymentSucceeded(ctx context.Context, chatID int64, state *models.FlowState) {
	reservationID := state.Payment.ReservationID

	if err := b.store.UpdateReservationStatus(ctx, reservationID, models.StatusConfirmed); err != nil {
		b.logger.Error().Err(err).Str("reservation_id", reservationID).Msg("Failed to mark reservation confirmed")
	}

	if reservation, err := b.store.GetReservation(ctx, reservationID); err == nil && reservation != nil {
		if b.reminders != nil {
			if err := b.reminders.EnqueueReminder(ctx, state.UserID, reservation); err != nil {
				b.logger.Error().Err(err).Msg("Failed to enqueue reminder")
			}
		}
	}

	state.Payment = nil
	state.Selected = nil
	state.CurrentStep = models.StateMainMenu
	b.saveState(ctx, state)

	b.sendMainMenu(chatID, "🎉 Payment received — your table is booked! We'll remind you the day before.")
}

func (b *Bot) sendPaymentFailedMenu(chatID int64, session *models.PaymentSession) {
	text := fmt.Sprintf("❌ Payment failed: %s\n\nWhat would you like to do?", session.LastError)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", "pay_retry"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Contact support", "pay_support"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "pay_cancel"),
		),
	)
	if _, err := b.tg.SendWithInlineKeyboard(chatID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send payment failure menu")
	}
}

func (b *Bot) retryPayment(ctx context.Context, chatID int64, state *models.FlowState) {
	if state == nil || state.Payment == nil {
		b.sendText(chatID, "There is no payment to retry. Start a new reservation with /start.")
		return
	}

	session := state.Payment
	reservation, err := b.store.GetReservation(ctx, session.ReservationID)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to load reservation for retry")
	}

	if err := b.orchestrator.Retry(ctx, session, reservation); err != nil {
		b.logger.Warn().Err(err).Msg("Retry rejected")
		b.sendText(chatID, "This payment cannot be retried. Start again with /start.")
		return
	}

	switch session.State {
	case models.PaymentSucceeded:
		b.onPaymentSucceeded(ctx, chatID, state)
	case models.PaymentAwaitingRedirect:
		state.CurrentStep = models.StateAwaitingPayment
		b.saveState(ctx, state)
		text := fmt.Sprintf("💰 New payment link:\n%s\n\nWhen you are done, tap the button below.", session.AuthorizationURL)
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ I've paid", "pay_done"),
			),
		)
		if _, err := b.tg.SendWithInlineKeyboard(chatID, text, keyboard); err != nil {
			b.logger.Error().Err(err).Msg("Failed to send retry payment link")
		}
	default:
		b.saveState(ctx, state)
		b.sendPaymentFailedMenu(chatID, session)
	}
}

func (b *Bot) contactSupport(ctx context.Context, chatID int64, state *models.FlowState) {
	reference := ""
	if state != nil && state.Payment != nil {
		reference = state.Payment.Reference
	}
	text := fmt.Sprintf("Our support team is here to help: %s", b.config.Support.Contact)
	if reference != "" {
		text += fmt.Sprintf("\n\nQuote your payment reference: `%s`", reference)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send support contact")
	}
}

// cancelPaymentPrompt warns that cancelling leaves the reservation
// unpaid before doing anything.
func (b *Bot) cancelPaymentPrompt(ctx context.Context, chatID int64, state *models.FlowState) {
	if state == nil || state.Payment == nil {
		b.sendText(chatID, "There is no payment in progress.")
		return
	}

	text := "⚠️ Are you sure? Your reservation will stay unpaid and will not be confirmed until the deposit is paid."
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes, cancel payment", "pay_cancel_yes"),
			tgbotapi.NewInlineKeyboardButtonData("No, keep paying", "pay_cancel_no"),
		),
	)
	if _, err := b.tg.SendWithInlineKeyboard(chatID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send cancel confirmation")
	}
}

func (b *Bot) cancelPayment(ctx context.Context, chatID int64, state *models.FlowState) {
	if state == nil || state.Payment == nil {
		b.sendText(chatID, "There is no payment in progress.")
		return
	}

	if err := b.orchestrator.Cancel(state.Payment); err != nil {
		b.logger.Warn().Err(err).Msg("Payment cancel rejected")
		b.sendText(chatID, payment.MsgBusy)
		return
	}

	// Бронь остаётся pending на бэкенде
	state.Payment = nil
	state.CurrentStep = models.StateMainMenu
	b.saveState(ctx, state)
	b.sendMainMenu(chatID, "Payment cancelled. The reservation stays pending; you can find it under My Reservations.")
}

func (b *Bot) resumePayment(ctx context.Context, chatID int64, state *models.FlowState) {
	if state == nil || state.Payment == nil || state.Payment.AuthorizationURL == "" {
		b.sendText(chatID, "There is no payment in progress.")
		return
	}

	text := fmt.Sprintf("💰 Your payment link:\n%s\n\nWhen you are done, tap the button below.", state.Payment.AuthorizationURL)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ I've paid", "pay_done"),
		),
	)
	if _, err := b.tg.SendWithInlineKeyboard(chatID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Msg("Failed to resend payment link")
	}
}
