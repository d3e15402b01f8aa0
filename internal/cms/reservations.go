package cms

import (
	"context"
	"net/http"
	"net/url"

	"dinebook/internal/models"
)

type createReservationRequest struct {
	RestaurantID    string `json:"restaurantId"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Guests          int    `json:"guests"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

type apiReservation struct {
	LegacyID      string `json:"_id"`
	ID            string `json:"id"`
	RestaurantID  string `json:"restaurantId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhoneNumber"`
	Guests        int    `json:"guests"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Status        string `json:"status"`
}

func (r apiReservation) normalize() models.Reservation {
	id := r.ID
	if id == "" {
		id = r.LegacyID
	}
	status := r.Status
	if status == "" {
		status = models.StatusPending
	}
	return models.Reservation{
		ID:            id,
		RestaurantID:  r.RestaurantID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		GuestCount:    r.Guests,
		Date:          r.Date,
		Time:          r.Time,
		Status:        status,
	}
}

// CreateReservation submits a validated draft. The returned reservation
// carries the server-assigned id the payment flow needs.
func (c *Client) CreateReservation(ctx context.Context, draft models.ReservationDraft) (*models.Reservation, error) {
	req := createReservationRequest{
		RestaurantID:    draft.RestaurantID,
		Name:            draft.Name,
		Email:           draft.Email,
		PhoneNumber:     draft.PhoneNumber,
		Guests:          draft.GuestCount,
		Date:            draft.Date,
		Time:            draft.Time,
		SpecialRequests: draft.SpecialRequests,
	}

	var resp struct {
		Reservation apiReservation `json:"reservation"`
	}
	if err := c.do(ctx, http.MethodPost, "/reservations", req, &resp); err != nil {
		return nil, err
	}

	reservation := resp.Reservation.normalize()
	if reservation.ID == "" {
		return nil, newServerError(http.StatusOK, "Reservation created without an id")
	}
	return &reservation, nil
}

type AvailabilitySlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

func (c *Client) CheckAvailability(ctx context.Context, restaurantID, date string) ([]AvailabilitySlot, error) {
	if restaurantID == "" {
		return nil, newValidationError("restaurant id is required")
	}
	if date == "" {
		return nil, newValidationError("date is required")
	}

	path := "/reservations/availability/" + url.PathEscape(restaurantID) + "/" + url.PathEscape(date)
	var resp struct {
		Slots []AvailabilitySlot `json:"slots"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Slots, nil
}

func (c *Client) CancelReservation(ctx context.Context, id string) error {
	if id == "" {
		return newValidationError("reservation id is required")
	}
	return c.do(ctx, http.MethodPut, "/reservations/"+url.PathEscape(id)+"/cancel", nil, nil)
}
