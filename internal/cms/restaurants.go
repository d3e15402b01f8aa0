package cms

import (
	"context"
	"net/http"
	"net/url"

	"dinebook/internal/models"
)

// apiRestaurant covers both id shapes the backend has been seen to
// return. Normalization happens here, once, not at call sites.
type apiRestaurant struct {
	LegacyID string `json:"_id"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Cuisine  string `json:"cuisine"`
	ImageURI string `json:"imageUri"`
}

func (r apiRestaurant) normalize() models.Restaurant {
	id := r.ID
	if id == "" {
		id = r.LegacyID
	}
	return models.Restaurant{
		ID:       id,
		Name:     r.Name,
		Location: r.Location,
		Cuisine:  r.Cuisine,
		ImageURI: r.ImageURI,
	}
}

func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var resp []apiRestaurant
	if err := c.do(ctx, http.MethodGet, "/restaurants", nil, &resp); err != nil {
		return nil, err
	}

	restaurants := make([]models.Restaurant, 0, len(resp))
	for _, r := range resp {
		restaurants = append(restaurants, r.normalize())
	}
	return restaurants, nil
}

func (c *Client) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	if id == "" {
		return nil, newValidationError("restaurant id is required")
	}
	var resp apiRestaurant
	if err := c.do(ctx, http.MethodGet, "/restaurants/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	restaurant := resp.normalize()
	return &restaurant, nil
}
