// Package storeapi talks to the remote spreadsheet-backed booking store.
package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"barberbook/internal/model"
)

const availabilityCacheKey = "barberbook:availability"

// Client is a small HTTP client for the store endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// BookingPayload is the body of the primary POST and the source of the
// fallback query parameters.
type BookingPayload struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Service string `json:"service"`
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// PayloadFor converts a booking into the wire payload.
func PayloadFor(b model.Booking) BookingPayload {
	return BookingPayload{
		Date:    b.Slot.Date.String(),
		Time:    b.Slot.Time.String(),
		Service: b.Service,
		Name:    b.CustomerName,
		Phone:   b.CustomerPhone,
	}
}

// NewClient constructs a client for endpoint.
func NewClient(endpoint string, timeout time.Duration, logger *zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "storeapi").Logger()
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     l,
	}
}

// UseRedisCache configures optional Redis caching of the reservations
// payload.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// FetchAvailability returns the raw reservations object. Every failure is
// a *FetchError.
func (c *Client) FetchAvailability(ctx context.Context) (map[string]any, error) {
	var raw map[string]any
	if c.readCache(ctx, availabilityCacheKey, &raw) {
		return raw, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, http.NoBody)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: &TransportError{Op: "GET reservations", Err: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Err:        &StatusError{StatusCode: resp.StatusCode, Status: resp.Status},
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Err: &TransportError{Op: "read reservations", Err: err}}
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("malformed payload: %w", err)}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	c.writeCache(ctx, availabilityCacheKey, json.RawMessage(body))
	return raw, nil
}

// InvalidateAvailability drops the cached payload.
func (c *Client) InvalidateAvailability(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, availabilityCacheKey).Err()
}

// SendPrimary posts the booking as JSON. The store may not let the caller
// read the response, so anything short of a transport error counts as a
// provisional success and the body is not inspected.
func (c *Client) SendPrimary(ctx context.Context, p BookingPayload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "POST booking", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug().Int("status", resp.StatusCode).Msg("primary booking sent")
	return nil
}

// SendFallback repeats the booking as GET ?action=create&... and requires a
// success status.
func (c *Client) SendFallback(ctx context.Context, p BookingPayload) error {
	endpoint, err := c.fallbackURL(p)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "GET create booking", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

func (c *Client) fallbackURL(p BookingPayload) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("action", "create")
	q.Set("date", p.Date)
	q.Set("time", p.Time)
	q.Set("service", p.Service)
	if p.Name != "" {
		q.Set("name", p.Name)
	}
	if p.Phone != "" {
		q.Set("phone", p.Phone)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache write failed")
	}
}
