package storage

import (
	"context"
	"fmt"
	"time"

	"dinebook/internal/models"
)

// ReplaceRestaurants swaps the cached directory for a fresh fetch.
func (d *DB) ReplaceRestaurants(ctx context.Context, restaurants []models.Restaurant) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM restaurants`); err != nil {
		return fmt.Errorf("failed to clear restaurant cache: %w", err)
	}

	query := `INSERT INTO restaurants (id, name, location, cuisine, image_uri, cached_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	for _, r := range restaurants {
		if _, err := tx.ExecContext(ctx, query, r.ID, r.Name, r.Location, r.Cuisine, r.ImageURI, now); err != nil {
			return fmt.Errorf("failed to cache restaurant %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit restaurant cache: %w", err)
	}
	return nil
}

func (d *DB) ListCachedRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	rows, err := d.QueryContext(ctx, `SELECT id, name, location, cuisine, image_uri FROM restaurants ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		var r models.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Location, &r.Cuisine, &r.ImageURI); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}
