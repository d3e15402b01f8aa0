package models

type PaymentState string

const (
	PaymentIdle             PaymentState = "idle"
	PaymentInitializing     PaymentState = "initializing"
	PaymentAwaitingRedirect PaymentState = "awaiting_redirect"
	PaymentVerifying        PaymentState = "verifying"
	PaymentConfirming       PaymentState = "confirming"
	PaymentSucceeded        PaymentState = "succeeded"
	PaymentFailed           PaymentState = "failed"
)

// PaymentSession tracks a single payment attempt for a pending reservation.
// At most one session is active per user; it is reset on success, explicit
// cancel, or teardown.
type PaymentSession struct {
	ReservationID    string       `json:"reservation_id"`
	Amount           int64        `json:"amount"`
	Currency         string       `json:"currency"`
	Reference        string       `json:"reference,omitempty"`
	Verified         bool         `json:"verified,omitempty"`
	AuthorizationURL string       `json:"authorization_url,omitempty"`
	State            PaymentState `json:"state"`
	LastError        string       `json:"last_error,omitempty"`
}

// Busy reports whether a backend call is in flight for this session.
// User actions (cancel button and the like) are gated on it.
func (s *PaymentSession) Busy() bool {
	switch s.State {
	case PaymentInitializing, PaymentVerifying, PaymentConfirming:
		return true
	}
	return false
}

// Terminal reports whether the session reached an end state for the attempt.
func (s *PaymentSession) Terminal() bool {
	return s.State == PaymentSucceeded || s.State == PaymentFailed
}
