package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlowState_TempData(t *testing.T) {
	t.Run("NilMap", func(t *testing.T) {
		state := &FlowState{}
		assert.Equal(t, "", state.Get("any"))
	})

	t.Run("SetInitializesMap", func(t *testing.T) {
		state := &FlowState{}
		state.Set("auth_mode", "login")
		assert.Equal(t, "login", state.Get("auth_mode"))
		assert.Equal(t, "", state.Get("missing"))
	})

	t.Run("Overwrite", func(t *testing.T) {
		state := &FlowState{}
		state.Set("key", "one")
		state.Set("key", "two")
		assert.Equal(t, "two", state.Get("key"))
	})
}

func TestNewReservationDraft(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 45, 0, 0, time.UTC)
	draft := NewReservationDraft(now)

	assert.Equal(t, "2026-03-14", draft.Date)
	assert.Equal(t, "18:45", draft.Time)
	assert.Empty(t, draft.Name)
	assert.Empty(t, draft.RestaurantID)
	assert.Zero(t, draft.GuestCount)
}

func TestPaymentSession_Busy(t *testing.T) {
	busy := []PaymentState{PaymentInitializing, PaymentVerifying, PaymentConfirming}
	for _, state := range busy {
		s := &PaymentSession{State: state}
		assert.True(t, s.Busy(), "state %s should be busy", state)
	}

	idle := []PaymentState{PaymentIdle, PaymentAwaitingRedirect, PaymentSucceeded, PaymentFailed}
	for _, state := range idle {
		s := &PaymentSession{State: state}
		assert.False(t, s.Busy(), "state %s should not be busy", state)
	}
}

func TestPaymentSession_Terminal(t *testing.T) {
	assert.True(t, (&PaymentSession{State: PaymentSucceeded}).Terminal())
	assert.True(t, (&PaymentSession{State: PaymentFailed}).Terminal())
	assert.False(t, (&PaymentSession{State: PaymentAwaitingRedirect}).Terminal())
	assert.False(t, (&PaymentSession{State: PaymentIdle}).Terminal())
}
