package bot

import (
	"context"
	"fmt"
	"strings"

	"dinebook/internal/cms"
	"dinebook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	authModeLogin  = "login"
	authModeSignup = "signup"
)

func (b *Bot) startAuth(ctx context.Context, chatID, userID int64) {
	if b.authStore.Authenticated() {
		user := b.authStore.User()
		b.sendText(chatID, fmt.Sprintf("You are already logged in as %s.", user.Name))
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔐 Log in", "auth_login"),
			tgbotapi.NewInlineKeyboardButtonData("✨ Sign up", "auth_signup"),
		),
	)
	if _, err := b.tg.SendWithInlineKeyboard(chatID, "Do you have an account?", keyboard); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send auth menu")
	}
}

func (b *Bot) chooseAuthMode(ctx context.Context, chatID, userID int64, data string) {
	state := &models.FlowState{UserID: userID}

	if data == "auth_signup" {
		state.Set("auth_mode", authModeSignup)
		state.CurrentStep = models.StateAuthEnterName
		b.saveState(ctx, state)
		b.sendText(chatID, "Let's create your account. What is your name?")
		return
	}

	state.Set("auth_mode", authModeLogin)
	state.CurrentStep = models.StateAuthEnterEmail
	b.saveState(ctx, state)
	b.sendText(chatID, "Please enter your email:")
}

func (b *Bot) authName(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	if text == "" {
		b.sendText(chatID, "Name cannot be empty. Please enter your name:")
		return
	}

	state.Set("auth_name", text)
	state.CurrentStep = models.StateAuthEnterEmail
	b.saveState(ctx, state)
	b.sendText(chatID, "Please enter your email:")
}

func (b *Bot) authEmail(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	if !strings.Contains(text, "@") {
		b.sendText(chatID, "That does not look like an email. Please try again:")
		return
	}

	state.Set("auth_email", text)
	state.CurrentStep = models.StateAuthEnterPassword
	b.saveState(ctx, state)
	b.sendText(chatID, "Please enter your password:")
}

func (b *Bot) authPassword(ctx context.Context, chatID int64, state *models.FlowState, text string) {
	if text == "" {
		b.sendText(chatID, "Password cannot be empty. Please try again:")
		return
	}

	email := state.Get("auth_email")
	var session *models.Session
	var err error

	if state.Get("auth_mode") == authModeSignup {
		session, err = b.authStore.Signup(ctx, cms.SignupData{
			Name:     state.Get("auth_name"),
			Email:    email,
			Password: text,
		})
	} else {
		session, err = b.authStore.Login(ctx, cms.Credentials{
			Email:    email,
			Password: text,
		})
	}

	if err != nil {
		b.logger.Warn().Err(err).Int64("user_id", state.UserID).Msg("Authentication failed")
		b.sendText(chatID, b.getErrorMessage(err))
		// Назад к вводу email, пароль не сохраняем
		state.CurrentStep = models.StateAuthEnterEmail
		b.saveState(ctx, state)
		b.sendText(chatID, "Please enter your email:")
		return
	}

	if err := b.states.ClearFlowState(ctx, state.UserID); err != nil {
		b.logger.Error().Err(err).Msg("Failed to clear flow state after auth")
	}
	b.sendMainMenu(chatID, fmt.Sprintf("Welcome, %s! 🎉", session.User.Name))
}

func (b *Bot) logout(ctx context.Context, chatID, userID int64) {
	if err := b.authStore.Logout(ctx); err != nil {
		b.logger.Error().Err(err).Msg("Failed to clear session")
	}
	b.resetFlow(ctx, userID, b.getFlowState(ctx, userID))
	b.sendMainMenu(chatID, "You have been logged out.")
}
