package bot

import (
	"context"
	"fmt"
	"strings"

	"dinebook/internal/cms"
	"dinebook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) showProfile(ctx context.Context, chatID, userID int64) {
	if !b.authStore.Authenticated() {
		b.sendText(chatID, "Please log in to see your profile.")
		b.startAuth(ctx, chatID, userID)
		return
	}

	// Свежий профиль с бэкенда, кэш как запасной вариант
	user, err := b.profile.GetProfile(ctx)
	if err != nil {
		b.logger.Warn().Err(err).Msg("Profile fetch failed, using cached user")
		user = b.authStore.User()
	}
	if user == nil {
		b.sendText(chatID, "Could not load your profile. Please try again later.")
		return
	}

	var sb strings.Builder
	sb.WriteString("👤 *Your profile*\n\n")
	sb.WriteString(fmt.Sprintf("Name: %s\n", user.Name))
	sb.WriteString(fmt.Sprintf("Email: %s\n", user.Email))
	if user.Phone != "" {
		sb.WriteString(fmt.Sprintf("Phone: %s\n", user.Phone))
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit name", "profile_edit_name"),
			tgbotapi.NewInlineKeyboardButtonData("📱 Edit phone", "profile_edit_phone"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = keyboard
	msg.ParseMode = "Markdown"
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send profile")
	}
}

func (b *Bot) startProfileEdit(ctx context.Context, chatID, userID int64, data string) {
	if !b.authStore.Authenticated() {
		b.sendText(chatID, "Please log in first.")
		return
	}

	field := "name"
	prompt := "Enter your new name:"
	if data == "profile_edit_phone" {
		field = "phone"
		prompt = "Enter your new phone number:"
	}

	state := b.getFlowState(ctx, userID)
	if state == nil {
		state = &models.FlowState{UserID: userID}
	}
	state.Set("profile_field", field)
	state.CurrentStep = models.StateEditProfile
	b.saveState(ctx, state)
	b.sendText(chatID, prompt)
}

func (b *Bot) editProfile(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	if text == "" {
		b.sendText(chatID, "The value cannot be empty. Please try again:")
		return
	}

	current := b.authStore.User()
	if current == nil {
		b.sendText(chatID, "Your session has expired. Please log in again.")
		return
	}

	updated := *current
	if state.Get("profile_field") == "phone" {
		updated.Phone = text
	} else {
		updated.Name = text
	}

	saved, err := b.profile.UpdateProfile(ctx, updated)
	if err != nil {
		b.sendText(chatID, b.getErrorMessage(err))
		return
	}

	if err := b.authStore.SetUser(ctx, *saved); err != nil {
		b.logger.Error().Err(err).Msg("Failed to persist updated user")
	}

	state.CurrentStep = models.StateMainMenu
	b.saveState(ctx, state)
	b.sendMainMenu(chatID, "✅ Profile updated.")
}

func (b *Bot) promptFeedback(ctx context.Context, chatID, userID int64) {
	state := b.getFlowState(ctx, userID)
	if state == nil {
		state = &models.FlowState{UserID: userID}
	}
	state.CurrentStep = models.StateEnterFeedback
	b.saveState(ctx, state)
	b.sendText(chatID, "We'd love to hear from you! Type your feedback:")
}

func (b *Bot) submitFeedback(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	if strings.TrimSpace(text) == "" {
		b.sendText(chatID, "Feedback cannot be empty. Please type your feedback:")
		return
	}

	fb := cms.Feedback{Message: text}
	if state.Selected != nil {
		fb.RestaurantID = state.Selected.ID
	}
	if err := b.feedback.SubmitFeedback(ctx, fb); err != nil {
		b.sendText(chatID, b.getErrorMessage(err))
		return
	}

	state.CurrentStep = models.StateMainMenu
	b.saveState(ctx, state)
	b.sendMainMenu(chatID, "🙏 Thank you for your feedback!")
}
