package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"quizas-booking-backend/config"
	"quizas-booking-backend/internal/availability"
	"quizas-booking-backend/internal/pricing"
	"quizas-booking-backend/internal/room"
)

// Request is a booking request ready for submission: the visitor's raw form
// fields plus the room, dates and price the flow settled on.
type Request struct {
	Form      map[string]string
	Room      room.Room
	Stay      availability.Stay
	Price     pricing.Amount
	Occupancy int
}

// Payload flattens the request into the upstream wire shape: form fields at
// the top level with room, ISO-8601 dates and price merged in.
func (r Request) Payload() map[string]any {
	payload := make(map[string]any, len(r.Form)+4)
	for k, v := range r.Form {
		payload[k] = v
	}
	payload["room"] = r.Room
	payload["dates"] = map[string]string{
		"arrival":   r.Stay.Arrival.Format(time.RFC3339),
		"departure": r.Stay.Departure.Format(time.RFC3339),
	}
	payload["price"] = r.Price
	payload["people"] = r.Occupancy
	return payload
}

// SubmitError reports a rejected or failed submission. It is recoverable:
// the form stays editable and the visitor may retry.
type SubmitError struct {
	StatusCode int
	Err        error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("booking submission failed: %v", e.Err)
	}
	return fmt.Sprintf("booking submission failed: status %d", e.StatusCode)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Submitter delivers a booking request to its destination.
type Submitter interface {
	Submit(ctx context.Context, req Request) error
}

// Client submits booking requests to the configured upstream endpoint.
type Client struct {
	cfg    *config.BookingConfig
	client *http.Client
}

// NewClient creates a booking submission client.
func NewClient(cfg *config.BookingConfig) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Submit posts the booking payload. Only HTTP 200 counts as an
// acknowledgment; anything else is a recoverable SubmitError.
func (c *Client) Submit(ctx context.Context, req Request) error {
	jsonBody, err := json.Marshal(req.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal booking payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SubmitURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range c.cfg.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return &SubmitError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &SubmitError{StatusCode: resp.StatusCode}
	}
	return nil
}
