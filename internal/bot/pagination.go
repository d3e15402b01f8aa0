package bot

import (
	"fmt"
	"strings"

	"dinebook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type PaginationParams struct {
	ChatID     int64
	MessageID  int // 0 if new message
	Page       int
	Title      string
	ItemPrefix string
	PagePrefix string
}

// renderPaginatedList - универсальная функция для отрисовки пагинированного списка
func (b *Bot) renderPaginatedList(params PaginationParams, totalCount int, itemsPerPage int, renderer func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton)) {
	if itemsPerPage <= 0 {
		itemsPerPage = b.config.Bot.PaginationSize
	}
	if itemsPerPage <= 0 {
		itemsPerPage = models.DefaultPaginationSize
	}

	startIdx := params.Page * itemsPerPage
	endIdx := startIdx + itemsPerPage
	if endIdx > totalCount {
		endIdx = totalCount
	}

	totalPages := (totalCount + itemsPerPage - 1) / itemsPerPage
	if params.Page >= totalPages && totalPages > 0 {
		params.Page = totalPages - 1
		startIdx = params.Page * itemsPerPage
		endIdx = totalCount
	}

	content, keyboard := renderer(startIdx, endIdx)

	var message strings.Builder
	message.WriteString(fmt.Sprintf("%s\n\n", params.Title))
	if totalPages > 1 {
		message.WriteString(fmt.Sprintf("Page %d of %d\n\n", params.Page+1, totalPages))
	}
	message.WriteString(content)

	var navButtons []tgbotapi.InlineKeyboardButton
	if params.Page > 0 {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("⬅️ Prev", fmt.Sprintf("%s%d", params.PagePrefix, params.Page-1)))
	}
	if endIdx < totalCount {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", fmt.Sprintf("%s%d", params.PagePrefix, params.Page+1)))
	}
	if len(navButtons) > 0 {
		keyboard = append(keyboard, navButtons)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)

	if params.MessageID != 0 {
		editMsg := tgbotapi.NewEditMessageTextAndMarkup(
			params.ChatID,
			params.MessageID,
			message.String(),
			markup,
		)
		editMsg.ParseMode = "Markdown"
		b.tg.Send(editMsg)
	} else {
		msg := tgbotapi.NewMessage(params.ChatID, message.String())
		msg.ReplyMarkup = markup
		msg.ParseMode = "Markdown"
		b.tg.Send(msg)
	}
}

// renderPaginatedRestaurants - обертка для списка ресторанов
func (b *Bot) renderPaginatedRestaurants(params PaginationParams, restaurants []models.Restaurant) {
	b.renderPaginatedList(params, len(restaurants), b.config.Bot.PaginationSize, func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton) {
		var content strings.Builder
		var keyboard [][]tgbotapi.InlineKeyboardButton

		current := restaurants[startIdx:endIdx]
		for i, r := range current {
			content.WriteString(fmt.Sprintf("%d. *%s*\n", startIdx+i+1, r.Name))
			if r.Cuisine != "" {
				content.WriteString(fmt.Sprintf("   🍴 %s\n", r.Cuisine))
			}
			if r.Location != "" {
				content.WriteString(fmt.Sprintf("   📍 %s\n", r.Location))
			}
			content.WriteString("\n")

			btn := tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d. %s", startIdx+i+1, r.Name),
				fmt.Sprintf("%s%s", params.ItemPrefix, r.ID),
			)
			keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{btn})
		}

		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🔍 Search", "rest_search"),
		})

		return content.String(), keyboard
	})
}

// renderPaginatedReservations - обертка для списка броней
func (b *Bot) renderPaginatedReservations(params PaginationParams, reservations []*models.Reservation) {
	b.renderPaginatedList(params, len(reservations), models.DefaultReservationsPaginationSize, func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton) {
		var content strings.Builder
		var keyboard [][]tgbotapi.InlineKeyboardButton

		current := reservations[startIdx:endIdx]
		for _, res := range current {
			statusEmoji := "⏳"
			switch res.Status {
			case models.StatusConfirmed:
				statusEmoji = "✅"
			case models.StatusCancelled:
				statusEmoji = "❌"
			}

			content.WriteString(fmt.Sprintf("%s *%s*\n", statusEmoji, res.RestaurantName))
			content.WriteString(fmt.Sprintf("   📅 %s at %s\n", res.Date, res.Time))
			content.WriteString(fmt.Sprintf("   👥 %d guests\n", res.GuestCount))
			content.WriteString(fmt.Sprintf("   📋 %s\n\n", res.Status))

			if res.Status != models.StatusCancelled {
				btn := tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("❌ Cancel %s %s", res.RestaurantName, res.Date),
					fmt.Sprintf("%s%s", params.ItemPrefix, res.ID),
				)
				keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{btn})
			}
		}

		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("📊 Export to Excel", "res_export"),
		})

		return content.String(), keyboard
	})
}
