package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dinebook/internal/models"
)

// SaveSession replaces whatever session is on the device with the new
// one. There is only ever one.
func (d *DB) SaveSession(ctx context.Context, session *models.Session) error {
	if session == nil || session.Token == "" {
		return errors.New("session token is required")
	}

	query := `INSERT INTO sessions (id, token, user_id, user_name, user_email, user_phone, created_at)
              VALUES (1, ?, ?, ?, ?, ?, ?)
              ON CONFLICT(id) DO UPDATE SET
                token = excluded.token,
                user_id = excluded.user_id,
                user_name = excluded.user_name,
                user_email = excluded.user_email,
                user_phone = excluded.user_phone,
                created_at = excluded.created_at`

	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := d.ExecContext(ctx, query,
		session.Token,
		session.User.ID,
		session.User.Name,
		session.User.Email,
		session.User.Phone,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LoadSession returns the persisted session or nil when logged out.
func (d *DB) LoadSession(ctx context.Context) (*models.Session, error) {
	query := `SELECT token, user_id, user_name, user_email, user_phone, created_at FROM sessions WHERE id = 1`

	var s models.Session
	err := d.QueryRowContext(ctx, query).Scan(
		&s.Token,
		&s.User.ID,
		&s.User.Name,
		&s.User.Email,
		&s.User.Phone,
		&s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &s, nil
}

func (d *DB) ClearSession(ctx context.Context) error {
	if _, err := d.ExecContext(ctx, `DELETE FROM sessions WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
