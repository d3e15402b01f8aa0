package bot

import (
	"context"
	"os"
	"strconv"
	"strings"

	"dinebook/internal/events"
	"dinebook/internal/export"
	"dinebook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) showReservations(ctx context.Context, chatID, userID int64) {
	reservations, err := b.store.ListReservations(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to list reservations")
		b.sendText(chatID, "Could not load your reservations. Please try again later.")
		return
	}
	if len(reservations) == 0 {
		b.sendText(chatID, "You have no reservations yet. Pick a restaurant to make one!")
		return
	}

	b.renderPaginatedReservations(PaginationParams{
		ChatID:     chatID,
		Page:       0,
		Title:      "📅 *My Reservations*",
		ItemPrefix: "res_cancel:",
		PagePrefix: "res_list_page:",
	}, reservations)
}

func (b *Bot) reservationsPage(ctx context.Context, chatID, userID int64, messageID int, data string) {
	page, err := strconv.Atoi(strings.TrimPrefix(data, "res_list_page:"))
	if err != nil {
		page = 0
	}

	reservations, err := b.store.ListReservations(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to list reservations")
		return
	}

	b.renderPaginatedReservations(PaginationParams{
		ChatID:     chatID,
		MessageID:  messageID,
		Page:       page,
		Title:      "📅 *My Reservations*",
		ItemPrefix: "res_cancel:",
		PagePrefix: "res_list_page:",
	}, reservations)
}

func (b *Bot) cancelReservationPrompt(ctx context.Context, chatID, userID int64, reservationID string) {
	reservation, err := b.store.GetReservation(ctx, reservationID)
	if err != nil || reservation == nil {
		b.sendText(chatID, "Could not find this reservation.")
		return
	}

	text := "⚠️ Cancel the reservation at " + reservation.RestaurantName + " on " + reservation.Date + " at " + reservation.Time + "?"
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes, cancel it", "res_cancel_yes:"+reservationID),
			tgbotapi.NewInlineKeyboardButtonData("No, keep it", "res_cancel_no"),
		),
	)
	if _, err := b.tg.SendWithInlineKeyboard(chatID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send cancel prompt")
	}
}

func (b *Bot) cancelReservation(ctx context.Context, chatID, userID int64, reservationID string) {
	if err := b.reservations.CancelReservation(ctx, reservationID); err != nil {
		b.logger.Warn().Err(err).Str("reservation_id", reservationID).Msg("Backend cancellation failed")
		b.sendText(chatID, b.getErrorMessage(err))
		return
	}

	if err := b.store.UpdateReservationStatus(ctx, reservationID, models.StatusCancelled); err != nil {
		b.logger.Error().Err(err).Str("reservation_id", reservationID).Msg("Failed to mark reservation cancelled")
	}

	if b.eventBus != nil {
		_ = b.eventBus.PublishJSON(events.EventReservationCancelled, events.ReservationEventPayload{
			ReservationID: reservationID,
			UserID:        userID,
			Status:        models.StatusCancelled,
		})
	}

	b.sendText(chatID, "✅ Your reservation has been cancelled.")
	b.showReservations(ctx, chatID, userID)
}

// exportReservations builds an Excel file with the user's booking
// history and sends it as a document.
func (b *Bot) exportReservations(ctx context.Context, chatID, userID int64) {
	reservations, err := b.store.ListReservations(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to list reservations for export")
		b.sendText(chatID, "Could not load your reservations. Please try again later.")
		return
	}
	if len(reservations) == 0 {
		b.sendText(chatID, "Nothing to export yet.")
		return
	}

	filePath, err := export.ReservationsToXLSX(b.config.Exports.Path, reservations)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to build export file")
		b.sendText(chatID, "Could not build the export file. Please try again later.")
		return
	}
	defer os.Remove(filePath)

	if _, err := b.tg.SendDocument(chatID, filePath); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send export file")
		b.sendText(chatID, "Could not send the export file. Please try again later.")
	}
}
