package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"quizas-booking-backend/config"

	gocache "github.com/patrickmn/go-cache"
)

const snapshotKey = "events"

// Client fetches the guesthouse calendar from the upstream feed. It keeps the
// last successfully fetched event list as a snapshot so a flaky upstream does
// not blank out the calendar between refreshes.
type Client struct {
	cfg      *config.FeedConfig
	client   *http.Client
	snapshot *gocache.Cache
	loc      *time.Location
}

// NewClient creates and initializes a new feed client.
func NewClient(cfg *config.FeedConfig) *Client {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Warning: could not load timezone %q: %v. Falling back to UTC.", cfg.Timezone, err)
		loc = time.UTC
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		snapshot: gocache.New(gocache.NoExpiration, 0),
		loc:      loc,
	}
}

// Location returns the timezone bare feed dates are interpreted in. Candidate
// stay dates must be parsed in the same location, or a midnight-vs-midnight
// comparison against event bounds is off by the UTC offset.
func (c *Client) Location() *time.Location {
	return c.loc
}

// Run refreshes the snapshot in a loop until the context is cancelled.
func (c *Client) Run(ctx context.Context) {
	if c.cfg.URL == "" {
		log.Println("Feed URL is not configured. Not starting refresh loop.")
		return
	}
	log.Println("Starting calendar feed refresh loop...")

	c.refresh(ctx)

	timer := time.NewTimer(c.cfg.RefreshInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Feed refresh loop shutting down.")
			return
		case <-timer.C:
			c.refresh(ctx)
			timer.Reset(c.cfg.RefreshInterval)
		}
	}
}

func (c *Client) refresh(ctx context.Context) {
	events, err := c.fetch(ctx, nil)
	if err != nil {
		log.Printf("Feed refresh failed: %v. Keeping previous snapshot.", err)
		return
	}
	c.snapshot.Set(snapshotKey, events, gocache.NoExpiration)
	log.Printf("Feed refresh finished: %d events in snapshot.", len(events))
}

// Events returns the calendar events overlapping the given window (all events
// when win is nil). On upstream failure it falls back to the last snapshot;
// fromCache reports whether the snapshot was used. With no snapshot either,
// the error is returned and the caller decides what failing open means.
func (c *Client) Events(ctx context.Context, win *Window) ([]Event, bool, error) {
	events, err := c.fetch(ctx, win)
	if err == nil {
		if win == nil {
			c.snapshot.Set(snapshotKey, events, gocache.NoExpiration)
		}
		return events, false, nil
	}

	if cached, found := c.snapshot.Get(snapshotKey); found {
		log.Printf("Feed fetch failed: %v. Serving snapshot.", err)
		events := cached.([]Event)
		if win != nil {
			events = filterWindow(events, *win)
		}
		return events, true, nil
	}

	return nil, false, err
}

func filterWindow(events []Event, win Window) []Event {
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Overlaps(win.From, win.To) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// fetch performs a single feed request. A window is sent upstream as a POST
// body with ISO-8601 bounds, mirroring the widget's request shape.
func (c *Client) fetch(ctx context.Context, win *Window) ([]Event, error) {
	method := http.MethodGet
	var body io.Reader
	if win != nil {
		jsonBody, err := json.Marshal(win)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal feed window: %w", err)
		}
		method = http.MethodPost
		body = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range c.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed response: %w", err)
	}
	if !apiResp.Success {
		return nil, fmt.Errorf("feed reported success=false")
	}

	return c.convert(apiResp.Events), nil
}

// convert parses the wire events into Events. Entries with unparseable
// timestamps are skipped with a warning rather than failing the whole fetch.
func (c *Client) convert(items []apiEvent) []Event {
	events := make([]Event, 0, len(items))
	for _, item := range items {
		start, err := c.parseTimestamp(item.Start)
		if err != nil {
			log.Printf("Warning: could not parse start of event %q: %v", item.Summary, err)
			continue
		}
		end, err := c.parseTimestamp(item.End)
		if err != nil {
			log.Printf("Warning: could not parse end of event %q: %v", item.Summary, err)
			continue
		}
		if !end.After(start) {
			log.Printf("Warning: event %q has end <= start; skipping", item.Summary)
			continue
		}
		events = append(events, Event{
			Start:       start,
			End:         end,
			Type:        EventType(item.Type),
			Summary:     item.Summary,
			Description: item.Description,
			Bedroom:     item.Bedroom,
		})
	}
	return events
}

// parseTimestamp accepts RFC3339 timestamps and bare dates. Bare dates are
// interpreted in the configured timezone.
func (c *Client) parseTimestamp(tsStr string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, tsStr); err == nil {
		return ts, nil
	}

	ts, err := time.ParseInLocation("2006-01-02", tsStr, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", tsStr, err)
	}
	return ts, nil
}
