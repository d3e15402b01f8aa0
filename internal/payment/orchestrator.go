package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"dinebook/internal/cms"
	"dinebook/internal/domain"
	"dinebook/internal/events"
	"dinebook/internal/metrics"
	"dinebook/internal/models"

	"github.com/rs/zerolog"
)

// User-facing messages for the failure branches the UI renders.
const (
	MsgInvalidReference = "Invalid payment reference received"
	MsgNoReservation    = "No reservation to pay for"
	MsgInvalidAmount    = "Payment amount must be greater than 0"
	MsgBusy             = "Payment is already being processed"
)

var (
	// ErrBusy is returned when a user action arrives while a backend
	// call is in flight. The UI disables those actions, this is the
	// backstop.
	ErrBusy = errors.New("payment call in flight")
	// ErrWrongState is returned for an action the current state does
	// not allow.
	ErrWrongState = errors.New("action not allowed in current payment state")
)

// Orchestrator drives a payment session through
// idle → initializing → awaiting_redirect → verifying → confirming →
// succeeded, with failed as the terminal state of an attempt. It owns
// no goroutines: every method runs a single sequential attempt and
// mutates the session it is given, so the whole machine is testable
// with a fake client.
type Orchestrator struct {
	client   domain.PaymentClient
	events   domain.EventPublisher
	logger   *zerolog.Logger
	currency string
}

func NewOrchestrator(client domain.PaymentClient, bus domain.EventPublisher, currency string, logger *zerolog.Logger) *Orchestrator {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return &Orchestrator{
		client:   client,
		events:   bus,
		logger:   logger,
		currency: currency,
	}
}

// NewSession creates an idle session for a freshly submitted
// reservation. Nothing is sent to the backend yet.
func NewSession(reservationID string, amount int64, currency string) *models.PaymentSession {
	return &models.PaymentSession{
		ReservationID: reservationID,
		Amount:        amount,
		Currency:      currency,
		State:         models.PaymentIdle,
	}
}

func (o *Orchestrator) transition(s *models.PaymentSession, to models.PaymentState) {
	from := s.State
	s.State = to
	metrics.IncPaymentTransition(string(to))
	o.logger.Info().
		Str("reservation_id", s.ReservationID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("payment transition")
}

func (o *Orchestrator) fail(s *models.PaymentSession, message string) {
	s.LastError = message
	o.transition(s, models.PaymentFailed)
	if o.events != nil {
		_ = o.events.PublishJSON(events.EventPaymentFailed, events.PaymentEventPayload{
			ReservationID: s.ReservationID,
			Reference:     s.Reference,
			Error:         message,
		})
	}
}

// Begin validates the session preconditions and initializes the
// payment with the backend. Precondition violations route straight to
// failed without a network attempt.
func (o *Orchestrator) Begin(ctx context.Context, s *models.PaymentSession, reservation *models.Reservation) error {
	if s.Busy() {
		return ErrBusy
	}
	if s.State != models.PaymentIdle && s.State != models.PaymentInitializing {
		return fmt.Errorf("%w: begin from %s", ErrWrongState, s.State)
	}

	if reservation == nil || reservation.ID == "" {
		o.fail(s, MsgNoReservation)
		return nil
	}
	if s.Amount <= 0 {
		o.fail(s, MsgInvalidAmount)
		return nil
	}

	o.transition(s, models.PaymentInitializing)

	meta := cms.PaymentIntentMetadata{
		GuestName:  reservation.CustomerName,
		GuestCount: reservation.GuestCount,
		Date:       reservation.Date,
	}
	intent, err := o.client.CreatePaymentIntent(ctx, reservation.ID, s.Amount, s.Currency, reservation.CustomerEmail, meta)
	if err != nil {
		o.fail(s, cms.UserMessage(err))
		return nil
	}

	s.AuthorizationURL = intent.AuthorizationURL
	o.transition(s, models.PaymentAwaitingRedirect)
	if o.events != nil {
		_ = o.events.PublishJSON(events.EventPaymentInitialized, events.PaymentEventPayload{
			ReservationID: s.ReservationID,
		})
	}
	return nil
}

// ExtractReference pulls the provider reference out of a redirect
// completion URL. Paystack uses both "reference" and "trxref".
func ExtractReference(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	if ref := q.Get("reference"); ref != "" {
		return ref
	}
	return q.Get("trxref")
}

// CompleteRedirect consumes the hosted page's completion signal. A
// signal without a parsable reference is a failure, not a no-op.
func (o *Orchestrator) CompleteRedirect(ctx context.Context, s *models.PaymentSession, rawURL string) error {
	if s.Busy() {
		return ErrBusy
	}
	if s.State != models.PaymentAwaitingRedirect {
		return fmt.Errorf("%w: redirect completion from %s", ErrWrongState, s.State)
	}

	reference := ExtractReference(rawURL)
	if reference == "" {
		o.fail(s, MsgInvalidReference)
		return nil
	}
	s.Reference = reference

	return o.verify(ctx, s)
}

func (o *Orchestrator) verify(ctx context.Context, s *models.PaymentSession) error {
	o.transition(s, models.PaymentVerifying)

	if _, err := o.client.VerifyPayment(ctx, s.Reference); err != nil {
		o.fail(s, cms.UserMessage(err))
		return nil
	}
	s.Verified = true

	return o.confirm(ctx, s)
}

func (o *Orchestrator) confirm(ctx context.Context, s *models.PaymentSession) error {
	// Never confirm twice for the same reference.
	if s.State == models.PaymentSucceeded {
		return nil
	}
	o.transition(s, models.PaymentConfirming)

	if err := o.client.ConfirmPayment(ctx, s.ReservationID, s.Reference); err != nil {
		// Reference stays on the session so a retry can confirm
		// without re-verifying.
		o.fail(s, cms.UserMessage(err))
		return nil
	}

	s.LastError = ""
	o.transition(s, models.PaymentSucceeded)
	metrics.IncReservation(models.StatusConfirmed)
	if o.events != nil {
		_ = o.events.PublishJSON(events.EventPaymentSucceeded, events.PaymentEventPayload{
			ReservationID: s.ReservationID,
			Reference:     s.Reference,
		})
	}
	return nil
}

// Retry restarts a failed attempt. A session that already holds a
// verified reference resumes at confirmation; anything else restarts
// at initialization.
func (o *Orchestrator) Retry(ctx context.Context, s *models.PaymentSession, reservation *models.Reservation) error {
	if s.State != models.PaymentFailed {
		return fmt.Errorf("%w: retry from %s", ErrWrongState, s.State)
	}

	s.LastError = ""
	if s.Verified && s.Reference != "" {
		return o.confirm(ctx, s)
	}

	s.Reference = ""
	s.Verified = false
	s.AuthorizationURL = ""
	s.State = models.PaymentIdle
	return o.Begin(ctx, s, reservation)
}

// Cancel abandons the attempt. Allowed only while waiting for the
// hosted page or after a failure; the reservation stays pending on the
// backend — no cancel call is issued here.
func (o *Orchestrator) Cancel(s *models.PaymentSession) error {
	if s.Busy() {
		return ErrBusy
	}
	switch s.State {
	case models.PaymentAwaitingRedirect, models.PaymentFailed, models.PaymentIdle:
	default:
		return fmt.Errorf("%w: cancel from %s", ErrWrongState, s.State)
	}

	o.reset(s)
	return nil
}

// Teardown is called when the owning flow goes away. A session that
// has not succeeded leaves nothing behind.
func (o *Orchestrator) Teardown(s *models.PaymentSession) {
	if s == nil || s.State == models.PaymentSucceeded {
		return
	}
	o.reset(s)
}

func (o *Orchestrator) reset(s *models.PaymentSession) {
	s.Reference = ""
	s.AuthorizationURL = ""
	s.Verified = false
	s.LastError = ""
	o.transition(s, models.PaymentIdle)
}
