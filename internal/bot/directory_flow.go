package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"dinebook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) showRestaurants(ctx context.Context, chatID, userID int64, messageID, page int) {
	restaurants, err := b.directory.FetchAll(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to fetch restaurants")
		b.sendText(chatID, b.getErrorMessage(err))
		return
	}
	if len(restaurants) == 0 {
		b.sendText(chatID, "No restaurants available right now. Please check back later.")
		return
	}

	b.renderPaginatedRestaurants(PaginationParams{
		ChatID:     chatID,
		MessageID:  messageID,
		Page:       page,
		Title:      "🍽 *Restaurants*",
		ItemPrefix: "rest_sel:",
		PagePrefix: "rest_page:",
	}, restaurants)
}

func (b *Bot) restaurantsPage(ctx context.Context, chatID, userID int64, messageID int, data string) {
	page, err := strconv.Atoi(strings.TrimPrefix(data, "rest_page:"))
	if err != nil {
		page = 0
	}
	b.showRestaurants(ctx, chatID, userID, messageID, page)
}

func (b *Bot) selectRestaurant(ctx context.Context, chatID, userID int64, restaurantID string) {
	restaurant := b.directory.Find(restaurantID)
	if restaurant == nil {
		if _, err := b.directory.FetchAll(ctx); err == nil {
			restaurant = b.directory.Find(restaurantID)
		}
	}
	if restaurant == nil {
		b.sendText(chatID, "This restaurant is no longer available. Please pick another one.")
		b.showRestaurants(ctx, chatID, userID, 0, 0)
		return
	}

	b.directory.Select(*restaurant)

	state := b.getFlowState(ctx, userID)
	if state == nil {
		state = &models.FlowState{UserID: userID}
	}
	state.Selected = restaurant
	state.CurrentStep = models.StateSelectRestaurant
	b.saveState(ctx, state)

	var details strings.Builder
	details.WriteString(fmt.Sprintf("*%s*\n\n", restaurant.Name))
	if restaurant.Cuisine != "" {
		details.WriteString(fmt.Sprintf("🍴 Cuisine: %s\n", restaurant.Cuisine))
	}
	if restaurant.Location != "" {
		details.WriteString(fmt.Sprintf("📍 Location: %s\n", restaurant.Location))
	}
	details.WriteString(fmt.Sprintf("\n💰 Deposit: %d %s per reservation", b.config.Payment.DepositAmount, b.config.Payment.Currency))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Reserve a table", "reserve_start"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to list", "rest_page:0"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, details.String())
	msg.ReplyMarkup = keyboard
	msg.ParseMode = "Markdown"
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send restaurant details")
	}
}

func (b *Bot) promptSearch(ctx context.Context, chatID, userID int64) {
	state := b.getFlowState(ctx, userID)
	if state == nil {
		state = &models.FlowState{UserID: userID}
	}
	state.CurrentStep = models.StateSearchRestaurants
	b.saveState(ctx, state)
	b.sendText(chatID, "Enter a restaurant name or cuisine to search:")
}

func (b *Bot) searchRestaurants(ctx context.Context, chatID int64, state *models.FlowState, query string) {
	if _, err := b.directory.FetchAll(ctx); err != nil {
		b.sendText(chatID, b.getErrorMessage(err))
		return
	}

	matched := b.directory.Search(query)
	if len(matched) == 0 {
		b.sendText(chatID, fmt.Sprintf("Nothing found for \"%s\". Try another name or cuisine:", query))
		return
	}

	state.CurrentStep = models.StateMainMenu
	b.saveState(ctx, state)

	b.renderPaginatedRestaurants(PaginationParams{
		ChatID:     chatID,
		Page:       0,
		Title:      fmt.Sprintf("🔍 Results for \"%s\"", query),
		ItemPrefix: "rest_sel:",
		PagePrefix: "rest_page:",
	}, matched)
}
