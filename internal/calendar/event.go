package calendar

import "time"

// EventType classifies an upstream calendar entry.
type EventType string

const (
	// EventOff marks the whole property closed for the interval.
	EventOff EventType = "OFF"
	// EventResa marks one room reserved for the interval.
	EventResa EventType = "RESA"
)

// Event is a calendar entry with parsed timestamps. End is exclusive: a guest
// departing on day D did not occupy night D, so that day is a valid
// changeover day.
type Event struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Type        EventType `json:"type"`
	Summary     string    `json:"summary"`
	Description *string   `json:"description,omitempty"`
	Bedroom     *string   `json:"bedroom"`
}

// Overlaps reports whether the event shares at least one night with
// [from, to). Touching endpoints do not overlap: one booking's departure day
// is another's arrival day.
func (e Event) Overlaps(from, to time.Time) bool {
	return from.Before(e.End) && to.After(e.Start)
}

// Window is an optional date-range filter for a feed request.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// apiEvent models a single event as the upstream feed serializes it.
type apiEvent struct {
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Type        string  `json:"type"`
	Summary     string  `json:"summary"`
	Description *string `json:"description"`
	Bedroom     *string `json:"bedroom"`
}

// apiResponse models the top-level structure of the upstream feed's response.
type apiResponse struct {
	Success bool       `json:"success"`
	Events  []apiEvent `json:"events"`
}
