package service

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Telegram throttles bots to roughly one message per second per chat.
const (
	sendRPS   = 1
	sendBurst = 3
)

type sendLimiter struct {
	limiters sync.Map
}

func newSendLimiter() *sendLimiter {
	return &sendLimiter{}
}

func (l *sendLimiter) getLimiter(chatID int64) *rate.Limiter {
	if v, ok := l.limiters.Load(chatID); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	lim := rate.NewLimiter(rate.Limit(sendRPS), sendBurst)
	actual, loaded := l.limiters.LoadOrStore(chatID, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}

func (l *sendLimiter) wait(chatID int64) {
	_ = l.getLimiter(chatID).Wait(context.Background())
}
