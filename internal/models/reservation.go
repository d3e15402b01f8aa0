package models

import "time"

type Reservation struct {
	ID              string    `json:"id"`
	RestaurantID    string    `json:"restaurant_id"`
	RestaurantName  string    `json:"restaurant_name"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone"`
	GuestCount      int       `json:"guest_count"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	Status          string    `json:"status"` // pending, confirmed, cancelled
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ReservationDraft holds the in-progress reservation form fields before
// submission. Owned by the draft store; never sent to the backend until
// it passes validation.
type ReservationDraft struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	GuestCount      int    `json:"guest_count"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	RestaurantID    string `json:"restaurant_id"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// NewReservationDraft returns a draft with current date/time defaults,
// matching the form's initial state.
func NewReservationDraft(now time.Time) ReservationDraft {
	return ReservationDraft{
		Date: now.Format("2006-01-02"),
		Time: now.Format("15:04"),
	}
}
