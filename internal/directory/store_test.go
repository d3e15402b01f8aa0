package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinebook/internal/cms"
	"dinebook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectoryClient struct {
	listCalls   int
	listErr     error
	restaurants []models.Restaurant
}

func (f *fakeDirectoryClient) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.restaurants, nil
}

func (f *fakeDirectoryClient) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	for _, r := range f.restaurants {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, errors.New("not found")
}

type memoryCache struct {
	restaurants []models.Restaurant
}

func (m *memoryCache) ReplaceRestaurants(ctx context.Context, restaurants []models.Restaurant) error {
	m.restaurants = restaurants
	return nil
}

func (m *memoryCache) ListCachedRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return m.restaurants, nil
}

func sampleRestaurants() []models.Restaurant {
	return []models.Restaurant{
		{ID: "r1", Name: "La Petite", Cuisine: "French", Location: "Cape Town"},
		{ID: "r2", Name: "Thai Garden", Cuisine: "Thai", Location: "Johannesburg"},
		{ID: "r3", Name: "Sushi Spot", Cuisine: "Japanese", Location: "Durban"},
	}
}

func newTestDirectory(client *fakeDirectoryClient, cache Cache) *Store {
	logger := zerolog.Nop()
	return NewStore(client, cache, time.Hour, &logger)
}

func TestFetchAllLoadsAndPersists(t *testing.T) {
	client := &fakeDirectoryClient{restaurants: sampleRestaurants()}
	cache := &memoryCache{}
	s := newTestDirectory(client, cache)

	restaurants, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, restaurants, 3)
	assert.Equal(t, StatusLoaded, s.Status())
	assert.Len(t, cache.restaurants, 3, "fetched list persisted to cache")
}

func TestFetchAllWithinTTLSkipsBackend(t *testing.T) {
	client := &fakeDirectoryClient{restaurants: sampleRestaurants()}
	s := newTestDirectory(client, nil)

	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	_, err = s.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, client.listCalls)
}

func TestTransportFailureFallsBackToCache(t *testing.T) {
	cache := &memoryCache{restaurants: sampleRestaurants()}
	client := &fakeDirectoryClient{listErr: &cms.Error{Kind: cms.KindTransport, Message: cms.TransportMessage}}
	s := newTestDirectory(client, cache)

	restaurants, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, restaurants, 3)
	assert.Equal(t, StatusLoaded, s.Status())
}

func TestServerFailureDoesNotUseCache(t *testing.T) {
	cache := &memoryCache{restaurants: sampleRestaurants()}
	client := &fakeDirectoryClient{listErr: &cms.Error{Kind: cms.KindServer, StatusCode: 500, Message: "internal error"}}
	s := newTestDirectory(client, cache)

	_, err := s.FetchAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusFailed, s.Status())
	assert.Equal(t, "internal error", s.LastError())
}

func TestSelectTakesSnapshot(t *testing.T) {
	client := &fakeDirectoryClient{restaurants: sampleRestaurants()}
	s := newTestDirectory(client, nil)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	original := s.Restaurants()[0]
	s.Select(original)

	// Mutating the source after selection must not leak into the snapshot.
	s.Restaurants()[0].Name = "Renamed"

	selected := s.Selected()
	require.NotNil(t, selected)
	assert.Equal(t, "La Petite", selected.Name)
}

func TestSearchByNameAndCuisine(t *testing.T) {
	client := &fakeDirectoryClient{restaurants: sampleRestaurants()}
	s := newTestDirectory(client, nil)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, s.Search("thai"), 1)
	assert.Len(t, s.Search("SUSHI"), 1)
	assert.Len(t, s.Search("french"), 1)
	assert.Empty(t, s.Search("mexican"))
	assert.Len(t, s.Search(""), 3, "empty query returns everything")
	assert.Len(t, s.Search("  thai  "), 1, "query is trimmed")
}

func TestAddAndRemoveAreLocalOnly(t *testing.T) {
	client := &fakeDirectoryClient{restaurants: sampleRestaurants()}
	s := newTestDirectory(client, nil)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	callsAfterFetch := client.listCalls

	s.Add(models.Restaurant{ID: "r4", Name: "New Spot"})
	assert.Len(t, s.Restaurants(), 4)

	s.Select(s.Restaurants()[0])
	s.Remove("r1")
	assert.Len(t, s.Restaurants(), 3)
	assert.Nil(t, s.Selected(), "removing the selected restaurant clears the selection")

	assert.Equal(t, callsAfterFetch, client.listCalls, "no backend calls for local mutations")
}

func TestFind(t *testing.T) {
	client := &fakeDirectoryClient{restaurants: sampleRestaurants()}
	s := newTestDirectory(client, nil)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, s.Find("r2"))
	assert.Nil(t, s.Find("missing"))
}
