package cms

import (
	"context"
	"net/http"
	"strings"
)

type Feedback struct {
	RestaurantID string `json:"restaurantId,omitempty"`
	Rating       int    `json:"rating,omitempty"`
	Message      string `json:"message"`
}

func (c *Client) SubmitFeedback(ctx context.Context, fb Feedback) error {
	if strings.TrimSpace(fb.Message) == "" {
		return newValidationError("feedback message is required")
	}
	return c.do(ctx, http.MethodPost, "/feedback", fb, nil)
}
