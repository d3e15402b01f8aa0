package cms

import (
	"context"
	"net/http"
	"net/url"
)

// PaymentIntentMetadata is forwarded to the payment provider as custom
// fields on the hosted payment page.
type PaymentIntentMetadata struct {
	GuestName  string `json:"guest_name,omitempty"`
	GuestCount int    `json:"guest_count,omitempty"`
	Date       string `json:"reservation_date,omitempty"`
}

type createPaymentIntentRequest struct {
	ReservationID string                `json:"reservationId"`
	Amount        int64                 `json:"amount"`
	Currency      string                `json:"currency"`
	Email         string                `json:"email,omitempty"`
	Metadata      PaymentIntentMetadata `json:"metadata"`
}

// PaymentIntent is the backend's answer to an initialization request:
// the hosted page the user must complete.
type PaymentIntent struct {
	AuthorizationURL string `json:"authorizationUrl"`
	ReservationID    string `json:"reservationId"`
}

func (c *Client) CreatePaymentIntent(ctx context.Context, reservationID string, amount int64, currency, email string, meta PaymentIntentMetadata) (*PaymentIntent, error) {
	if reservationID == "" {
		return nil, newValidationError("reservation id is required")
	}
	if amount <= 0 {
		return nil, newValidationError("payment amount must be greater than 0")
	}

	req := createPaymentIntentRequest{
		ReservationID: reservationID,
		Amount:        amount,
		Currency:      currency,
		Email:         email,
		Metadata:      meta,
	}

	var resp PaymentIntent
	if err := c.do(ctx, http.MethodPost, "/reservations/payment", req, &resp); err != nil {
		return nil, err
	}
	if resp.AuthorizationURL == "" {
		return nil, newServerError(http.StatusOK, "Payment initialization failed")
	}
	return &resp, nil
}

type VerifyResult struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
}

// VerifyPayment asks the backend to check the reference with the
// payment provider. The backend dedups references, so repeating the
// call with the same reference is safe.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (*VerifyResult, error) {
	if reference == "" {
		return nil, newValidationError("payment reference is required")
	}

	var resp VerifyResult
	if err := c.do(ctx, http.MethodGet, "/verify-payment/"+url.PathEscape(reference), nil, &resp); err != nil {
		if e, ok := AsError(err); ok && e.Kind == KindServer {
			e.Kind = KindPaymentProvider
		}
		return nil, err
	}
	return &resp, nil
}

type confirmPaymentRequest struct {
	ReservationID    string `json:"reservationId"`
	PaymentReference string `json:"paymentReference"`
}

func (c *Client) ConfirmPayment(ctx context.Context, reservationID, reference string) error {
	if reservationID == "" {
		return newValidationError("reservation id is required")
	}
	if reference == "" {
		return newValidationError("payment reference is required")
	}

	req := confirmPaymentRequest{ReservationID: reservationID, PaymentReference: reference}
	if err := c.do(ctx, http.MethodPost, "/reservations/confirm-payment", req, nil); err != nil {
		if e, ok := AsError(err); ok && e.Kind == KindServer {
			e.Kind = KindPaymentProvider
		}
		return err
	}
	return nil
}
