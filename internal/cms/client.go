package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dinebook/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource supplies the current bearer token, empty when the user is
// not authenticated. The auth store implements it.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a plain function to TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }

// Client is the single point of outbound HTTP calls to the restaurant
// CMS. Every call is one request attempt; retrying is the caller's
// decision.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
	}
}

// errorBody is the shape the backend uses for non-2xx responses. Some
// endpoints use "message", older ones "error".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Msg("CMS request")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.IncCMSRequest(path, "transport_error")
		c.logger.Warn().Err(err).Str("path", path).Msg("CMS request failed without response")
		return newTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncCMSRequest(path, "transport_error")
		return newTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.IncCMSRequest(path, "server_error")
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		message := eb.Message
		if message == "" {
			message = eb.Error
		}
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("message", message).
			Msg("CMS request rejected")
		return newServerError(resp.StatusCode, message)
	}

	metrics.IncCMSRequest(path, "ok")

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
