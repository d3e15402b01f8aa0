package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dinebook/internal/models"
)

var ErrReservationNotFound = errors.New("reservation not found")

func (d *DB) SaveReservation(ctx context.Context, userID int64, reservation *models.Reservation) error {
	if reservation == nil || reservation.ID == "" {
		return errors.New("reservation id is required")
	}

	query := `INSERT INTO reservations (
                id, user_id, restaurant_id, restaurant_name, customer_name,
                customer_email, customer_phone, guest_count, date, time,
                special_requests, status, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(id) DO UPDATE SET
                status = excluded.status,
                updated_at = excluded.updated_at`

	now := time.Now()
	_, err := d.ExecContext(ctx, query,
		reservation.ID,
		userID,
		reservation.RestaurantID,
		reservation.RestaurantName,
		reservation.CustomerName,
		reservation.CustomerEmail,
		reservation.CustomerPhone,
		reservation.GuestCount,
		reservation.Date,
		reservation.Time,
		reservation.SpecialRequests,
		reservation.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save reservation: %w", err)
	}

	reservation.CreatedAt = now
	reservation.UpdatedAt = now
	return nil
}

func (d *DB) UpdateReservationStatus(ctx context.Context, id string, status string) error {
	query := `UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`
	result, err := d.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (d *DB) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	query := `SELECT id, restaurant_id, restaurant_name, customer_name, customer_email,
                customer_phone, guest_count, date, time, special_requests, status,
                created_at, updated_at
              FROM reservations WHERE id = ?`

	var r models.Reservation
	err := d.QueryRowContext(ctx, query, id).Scan(
		&r.ID,
		&r.RestaurantID,
		&r.RestaurantName,
		&r.CustomerName,
		&r.CustomerEmail,
		&r.CustomerPhone,
		&r.GuestCount,
		&r.Date,
		&r.Time,
		&r.SpecialRequests,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &r, nil
}

// ListReservations returns the user's reservations, newest first.
func (d *DB) ListReservations(ctx context.Context, userID int64) ([]*models.Reservation, error) {
	query := `SELECT id, restaurant_id, restaurant_name, customer_name, customer_email,
                customer_phone, guest_count, date, time, special_requests, status,
                created_at, updated_at
              FROM reservations WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := d.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*models.Reservation
	for rows.Next() {
		var r models.Reservation
		if err := rows.Scan(
			&r.ID,
			&r.RestaurantID,
			&r.RestaurantName,
			&r.CustomerName,
			&r.CustomerEmail,
			&r.CustomerPhone,
			&r.GuestCount,
			&r.Date,
			&r.Time,
			&r.SpecialRequests,
			&r.Status,
			&r.CreatedAt,
			&r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservations: %w", err)
	}
	return reservations, nil
}
