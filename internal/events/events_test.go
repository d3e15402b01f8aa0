package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishJSONDeliversToSubscribers(t *testing.T) {
	bus := NewEventBus()

	var got PaymentEventPayload
	bus.Subscribe(EventPaymentSucceeded, func(ev *Event) error {
		return json.Unmarshal(ev.Payload, &got)
	})

	err := bus.PublishJSON(EventPaymentSucceeded, PaymentEventPayload{
		ReservationID: "res-1",
		Reference:     "ref_1",
	})
	require.NoError(t, err)

	assert.Equal(t, "res-1", got.ReservationID)
	assert.Equal(t, "ref_1", got.Reference)
}

func TestSubscribersAreTypeScoped(t *testing.T) {
	bus := NewEventBus()

	succeeded := 0
	failed := 0
	bus.Subscribe(EventPaymentSucceeded, func(ev *Event) error { succeeded++; return nil })
	bus.Subscribe(EventPaymentFailed, func(ev *Event) error { failed++; return nil })

	require.NoError(t, bus.PublishJSON(EventPaymentSucceeded, PaymentEventPayload{}))
	require.NoError(t, bus.PublishJSON(EventPaymentSucceeded, PaymentEventPayload{}))

	assert.Equal(t, 2, succeeded)
	assert.Zero(t, failed)
}

func TestMultipleSubscribersAllRun(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	bus.Subscribe(EventReservationCreated, func(ev *Event) error { calls++; return nil })
	bus.Subscribe(EventReservationCreated, func(ev *Event) error { calls++; return errors.New("handler failure ignored") })
	bus.Subscribe(EventReservationCreated, func(ev *Event) error { calls++; return nil })

	require.NoError(t, bus.PublishJSON(EventReservationCreated, ReservationEventPayload{ReservationID: "res-1"}))
	assert.Equal(t, 3, calls)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewEventBus()
	require.NoError(t, bus.PublishJSON(EventReservationCancelled, ReservationEventPayload{}))
}
