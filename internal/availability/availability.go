package availability

import (
	"errors"
	"fmt"
	"log"
	"time"

	"quizas-booking-backend/config"
	"quizas-booking-backend/internal/calendar"
	"quizas-booking-backend/internal/room"
)

// ErrInvalidRange is returned when a candidate range has departure on or
// before arrival.
var ErrInvalidRange = errors.New("departure must be after arrival")

// StayTooShortError reports a candidate range below the minimum stay for its
// period. It is user-correctable: the widget surfaces it and keeps the dates
// editable.
type StayTooShortError struct {
	MinNights int
}

func (e *StayTooShortError) Error() string {
	return fmt.Sprintf("stay requires at least %d nights", e.MinNights)
}

// Stay is a candidate booking range. Departure is exclusive: the guest does
// not occupy the departure night.
type Stay struct {
	Arrival   time.Time
	Departure time.Time
}

// Nights returns the number of nights between arrival and departure, counted
// as whole calendar days between the two wall-clock dates. Elapsed hours
// would under-count across a DST transition: a one-night stay over the spring
// change lasts 23 hours but is still one night.
func (s Stay) Nights() int {
	ay, am, ad := s.Arrival.Date()
	dy, dm, dd := s.Departure.Date()
	arrival := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	departure := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return int(departure.Sub(arrival).Hours() / 24)
}

// Validate checks the range invariant.
func (s Stay) Validate() error {
	if !s.Departure.After(s.Arrival) {
		return ErrInvalidRange
	}
	return nil
}

// BlockedSet is the set of rooms unavailable for a candidate stay. It is
// derived per query and never stored.
type BlockedSet map[room.Room]bool

// Blocked reports whether the given room is in the set.
func (b BlockedSet) Blocked(r room.Room) bool {
	return b[r]
}

// Full reports whether every room of the house is blocked.
func (b BlockedSet) Full() bool {
	return len(b) == len(room.All())
}

// Rooms returns the blocked rooms in the house's canonical order.
func (b BlockedSet) Rooms() []room.Room {
	blocked := make([]room.Room, 0, len(b))
	for _, r := range room.All() {
		if b[r] {
			blocked = append(blocked, r)
		}
	}
	return blocked
}

// Resolver decides which rooms a calendar blocks for a candidate stay and
// enforces the minimum-stay rule.
type Resolver struct {
	rooms *room.Resolver
	stay  config.StayConfig
}

// NewResolver creates a Resolver.
func NewResolver(rooms *room.Resolver, stay config.StayConfig) *Resolver {
	return &Resolver{rooms: rooms, stay: stay}
}

// MinNights returns the minimum stay for the candidate range: high-season
// months (July and August by default) require more nights than the rest of
// the year. The rule looks at touched months, not nights, so a one-night
// stay arriving July 31 is still a high-season stay.
func (r *Resolver) MinNights(s Stay) int {
	for _, m := range r.stay.HighSeasonMonths {
		if int(s.Arrival.Month()) == m || int(s.Departure.Month()) == m {
			return r.stay.HighSeasonNights
		}
	}
	return r.stay.DefaultNights
}

// CheckStay validates the candidate range and the minimum-stay rule. It runs
// before any blocking decision and is independent of the calendar.
func (r *Resolver) CheckStay(s Stay) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if min := r.MinNights(s); s.Nights() < min {
		return &StayTooShortError{MinNights: min}
	}
	return nil
}

// BlockedRooms resolves which rooms the calendar blocks for the candidate
// stay. An OFF event overlapping the stay closes the whole house. A RESA
// event blocks the one room its summary (or explicit bedroom field) resolves
// to; RESA entries without the reservation marker are calendar noise, and
// unresolvable room references are dropped rather than blocking everything.
func (r *Resolver) BlockedRooms(events []calendar.Event, s Stay) BlockedSet {
	blocked := make(BlockedSet)

	for _, ev := range events {
		if !ev.Overlaps(s.Arrival, s.Departure) {
			continue
		}

		switch ev.Type {
		case calendar.EventOff:
			for _, rm := range room.All() {
				blocked[rm] = true
			}
		case calendar.EventResa:
			if !r.rooms.HasMarker(ev.Summary) {
				continue
			}
			bedroom := ""
			if ev.Bedroom != nil {
				bedroom = *ev.Bedroom
			}
			res := r.rooms.Resolve(ev.Summary, bedroom)
			if !res.Resolved {
				log.Printf("Warning: could not resolve room from reservation %q; dropping event", ev.Summary)
				continue
			}
			blocked[res.Room] = true
		}
	}

	return blocked
}
