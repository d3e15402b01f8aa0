package draft

import (
	"context"
	"errors"
	"time"

	"dinebook/internal/domain"
	"dinebook/internal/events"
	"dinebook/internal/metrics"
	"dinebook/internal/models"

	"github.com/rs/zerolog"
)

type Status string

const (
	StatusEditing         Status = "editing"
	StatusSubmitting      Status = "submitting"
	StatusSubmittedOk     Status = "submitted_ok"
	StatusSubmittedFailed Status = "submitted_failed"
)

// Validation messages surfaced to the form.
const (
	MsgNoRestaurant  = "No restaurant selected"
	MsgMissingFields = "Please fill in all fields"
)

var ErrSubmitting = errors.New("submission already in progress")

// ValidationError is raised before any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Store owns one in-progress reservation form. Each workflow instance
// gets its own store; nothing here is a process-wide singleton.
type Store struct {
	client domain.ReservationClient
	events domain.EventPublisher
	logger *zerolog.Logger

	draft       models.ReservationDraft
	status      Status
	lastError   string
	reservation *models.Reservation
}

func NewStore(client domain.ReservationClient, bus domain.EventPublisher, logger *zerolog.Logger) *Store {
	return &Store{
		client: client,
		events: bus,
		logger: logger,
		draft:  models.NewReservationDraft(time.Now()),
		status: StatusEditing,
	}
}

// Restore rebuilds a store around draft fields persisted in the flow
// state, so an interrupted conversation picks up where it stopped.
func Restore(client domain.ReservationClient, bus domain.EventPublisher, logger *zerolog.Logger, draft models.ReservationDraft) *Store {
	s := NewStore(client, bus, logger)
	s.draft = draft
	return s
}

func (s *Store) Status() Status                   { return s.status }
func (s *Store) LastError() string                { return s.lastError }
func (s *Store) Draft() models.ReservationDraft   { return s.draft }
func (s *Store) Reservation() *models.Reservation { return s.reservation }

// edit applies a field mutation. Editing after a failed submission
// returns the store to editing.
func (s *Store) edit(apply func(*models.ReservationDraft)) {
	if s.status == StatusSubmittedFailed {
		s.status = StatusEditing
		s.lastError = ""
	}
	apply(&s.draft)
}

func (s *Store) SetName(name string)   { s.edit(func(d *models.ReservationDraft) { d.Name = name }) }
func (s *Store) SetEmail(email string) { s.edit(func(d *models.ReservationDraft) { d.Email = email }) }
func (s *Store) SetPhoneNumber(phone string) {
	s.edit(func(d *models.ReservationDraft) { d.PhoneNumber = phone })
}
func (s *Store) SetGuestCount(guests int) {
	s.edit(func(d *models.ReservationDraft) { d.GuestCount = guests })
}
func (s *Store) SetDate(date string) { s.edit(func(d *models.ReservationDraft) { d.Date = date }) }
func (s *Store) SetTime(t string)    { s.edit(func(d *models.ReservationDraft) { d.Time = t }) }
func (s *Store) SetRestaurantID(id string) {
	s.edit(func(d *models.ReservationDraft) { d.RestaurantID = id })
}
func (s *Store) SetSpecialRequests(text string) {
	s.edit(func(d *models.ReservationDraft) { d.SpecialRequests = text })
}

func validate(d models.ReservationDraft) *ValidationError {
	if d.RestaurantID == "" {
		return &ValidationError{Message: MsgNoRestaurant}
	}
	if d.Name == "" || d.Email == "" || d.PhoneNumber == "" || d.GuestCount <= 0 {
		return &ValidationError{Message: MsgMissingFields}
	}
	return nil
}

// Submit validates the draft and creates the reservation. Invalid
// drafts fail fast and never reach the network.
func (s *Store) Submit(ctx context.Context, userID int64) (*models.Reservation, error) {
	if s.status == StatusSubmitting {
		return nil, ErrSubmitting
	}

	if verr := validate(s.draft); verr != nil {
		s.status = StatusSubmittedFailed
		s.lastError = verr.Message
		return nil, verr
	}

	s.status = StatusSubmitting
	reservation, err := s.client.CreateReservation(ctx, s.draft)
	if err != nil {
		s.status = StatusSubmittedFailed
		s.lastError = err.Error()
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("reservation submission failed")
		return nil, err
	}

	s.status = StatusSubmittedOk
	s.lastError = ""
	s.reservation = reservation
	metrics.IncReservation(reservation.Status)
	if s.events != nil {
		_ = s.events.PublishJSON(events.EventReservationCreated, events.ReservationEventPayload{
			ReservationID: reservation.ID,
			UserID:        userID,
			RestaurantID:  reservation.RestaurantID,
			CustomerName:  reservation.CustomerName,
			Date:          reservation.Date,
			Time:          reservation.Time,
			Status:        reservation.Status,
		})
	}

	// Form resets to defaults once the reservation exists; the
	// reservation itself lives on for the payment flow.
	s.draft = models.NewReservationDraft(time.Now())
	return reservation, nil
}

// Reset clears all fields to defaults and drops any submission result.
func (s *Store) Reset() {
	s.draft = models.NewReservationDraft(time.Now())
	s.status = StatusEditing
	s.lastError = ""
	s.reservation = nil
}
