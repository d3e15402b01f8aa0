package directory

import (
	"context"
	"strings"
	"time"

	"dinebook/internal/cms"
	"dinebook/internal/domain"
	"dinebook/internal/models"

	"github.com/rs/zerolog"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// Cache persists the directory across restarts; sqlite storage
// implements it.
type Cache interface {
	ReplaceRestaurants(ctx context.Context, restaurants []models.Restaurant) error
	ListCachedRestaurants(ctx context.Context) ([]models.Restaurant, error)
}

// Store is the read-mostly restaurant directory: fetch, cache,
// select. Local add/remove exists for optimistic UI only and never
// issues backend calls.
type Store struct {
	client domain.DirectoryClient
	cache  Cache
	logger *zerolog.Logger

	restaurants []models.Restaurant
	selected    *models.Restaurant
	status      Status
	lastError   string
	fetchedAt   time.Time
	ttl         time.Duration
}

func NewStore(client domain.DirectoryClient, cache Cache, ttl time.Duration, logger *zerolog.Logger) *Store {
	if ttl <= 0 {
		ttl = time.Duration(models.DirectoryCacheTTL) * time.Second
	}
	return &Store{
		client: client,
		cache:  cache,
		logger: logger,
		status: StatusIdle,
		ttl:    ttl,
	}
}

func (s *Store) Status() Status    { return s.status }
func (s *Store) LastError() string { return s.lastError }

// Restaurants returns the cached list; call FetchAll first.
func (s *Store) Restaurants() []models.Restaurant {
	return s.restaurants
}

// FetchAll refreshes the directory from the backend. On transport
// failure it falls back to the persisted cache so the user still sees
// something.
func (s *Store) FetchAll(ctx context.Context) ([]models.Restaurant, error) {
	if s.status == StatusLoaded && time.Since(s.fetchedAt) < s.ttl {
		return s.restaurants, nil
	}

	s.status = StatusLoading
	restaurants, err := s.client.ListRestaurants(ctx)
	if err != nil {
		s.lastError = cms.UserMessage(err)

		if s.cache != nil && cms.KindOf(err) == cms.KindTransport {
			cached, cacheErr := s.cache.ListCachedRestaurants(ctx)
			if cacheErr == nil && len(cached) > 0 {
				s.logger.Warn().Err(err).Msg("directory fetch failed, serving persisted cache")
				s.restaurants = cached
				s.status = StatusLoaded
				s.fetchedAt = time.Time{} // stale; next fetch tries the backend again
				return cached, nil
			}
		}

		s.status = StatusFailed
		return nil, err
	}

	s.restaurants = restaurants
	s.status = StatusLoaded
	s.lastError = ""
	s.fetchedAt = time.Now()

	if s.cache != nil {
		if cacheErr := s.cache.ReplaceRestaurants(ctx, restaurants); cacheErr != nil {
			s.logger.Warn().Err(cacheErr).Msg("failed to persist restaurant cache")
		}
	}
	return restaurants, nil
}

// Select stores a by-value snapshot of the chosen restaurant; later
// directory refreshes do not mutate it.
func (s *Store) Select(restaurant models.Restaurant) {
	snapshot := restaurant
	s.selected = &snapshot
}

// Selected returns the snapshot taken at selection time, nil when
// nothing is selected.
func (s *Store) Selected() *models.Restaurant {
	return s.selected
}

func (s *Store) ClearSelection() {
	s.selected = nil
}

// Add appends a restaurant locally (optimistic UI only).
func (s *Store) Add(restaurant models.Restaurant) {
	s.restaurants = append(s.restaurants, restaurant)
}

// Remove drops a restaurant locally (optimistic UI only).
func (s *Store) Remove(id string) {
	filtered := s.restaurants[:0]
	for _, r := range s.restaurants {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	s.restaurants = filtered
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
}

// Search filters the loaded list by name or cuisine, case-insensitive.
func (s *Store) Search(query string) []models.Restaurant {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.restaurants
	}

	var matched []models.Restaurant
	for _, r := range s.restaurants {
		if strings.Contains(strings.ToLower(r.Name), query) ||
			strings.Contains(strings.ToLower(r.Cuisine), query) {
			matched = append(matched, r)
		}
	}
	return matched
}

// Find returns the restaurant with the given id from the loaded list.
func (s *Store) Find(id string) *models.Restaurant {
	for i := range s.restaurants {
		if s.restaurants[i].ID == id {
			return &s.restaurants[i]
		}
	}
	return nil
}
