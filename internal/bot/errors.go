package bot

import (
	"fmt"

	"dinebook/internal/cms"
)

// getErrorMessage turns a backend error into the text shown in chat.
// Server and validation messages pass through as-is; transport errors
// keep the fixed network wording.
func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	switch cms.KindOf(err) {
	case cms.KindValidation:
		return "⚠️ " + cms.UserMessage(err)
	case cms.KindTransport:
		return "📡 " + cms.UserMessage(err)
	case cms.KindPaymentProvider:
		return "💳 " + cms.UserMessage(err)
	case cms.KindServer:
		return "❌ " + cms.UserMessage(err)
	}
	return fmt.Sprintf("❌ Something went wrong. Please try again later or contact %s.", b.config.Support.Contact)
}
