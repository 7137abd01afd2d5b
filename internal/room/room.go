package room

import (
	"log"
	"regexp"
	"strings"
)

// Room identifies one of the guesthouse's three bedrooms. The set is fixed:
// the house has exactly these rooms and the tariff card is built around them.
type Room string

const (
	LadyChatterley  Room = "LADY CHATTERLEY"
	HenryDeMonfreid Room = "HENRY DE MONFREID"
	Napoleon        Room = "NAPOLÉON"
)

// All returns every room of the house.
func All() []Room {
	return []Room{LadyChatterley, HenryDeMonfreid, Napoleon}
}

// MaxOccupancy returns how many people the room sleeps.
func (r Room) MaxOccupancy() int {
	if r == LadyChatterley {
		return 3
	}
	return 2
}

var spaceRe = regexp.MustCompile(`\s+`)

// Normalize is the single canonical normalization step for room references:
// uppercase, separators collapsed to single spaces, outer whitespace trimmed.
func Normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", "–", " ", "/", " ", ":", " ", ".", " ").Replace(s)
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Known maps a free-form name to a Room, if it names one of the three rooms.
func Known(name string) (Room, bool) {
	n := Normalize(name)
	for _, r := range All() {
		if n == string(r) {
			return r, true
		}
	}
	return "", false
}

// Resolution is the outcome of mapping a calendar reference to a room.
// A reference either resolves to exactly one room or stays unresolved with
// the raw text kept for logging.
type Resolution struct {
	Room     Room
	Raw      string
	Resolved bool
}

// Resolver maps calendar event text to rooms. The reservation marker and the
// code table come from configuration because the upstream calendar's summary
// convention is still in flux.
type Resolver struct {
	marker string
	codes  map[string]Room
}

// NewResolver builds a Resolver from a marker string and a code-to-room-name
// table. Codes pointing at unknown room names are dropped with a warning.
func NewResolver(marker string, codes map[string]string) *Resolver {
	r := &Resolver{
		marker: Normalize(marker),
		codes:  make(map[string]Room, len(codes)),
	}
	for code, name := range codes {
		room, ok := Known(name)
		if !ok {
			log.Printf("Warning: room code %q maps to unknown room %q; ignoring", code, name)
			continue
		}
		r.codes[Normalize(code)] = room
	}
	return r
}

// HasMarker reports whether the summary carries the reservation marker.
// Calendar entries without it are manual annotations, not reservations.
func (r *Resolver) HasMarker(summary string) bool {
	for _, tok := range strings.Fields(Normalize(summary)) {
		if tok == r.marker {
			return true
		}
	}
	return false
}

// FromSummary resolves a room from a reservation summary. It first looks for
// a full room name, then for a configured code among the tokens after the
// marker.
func (r *Resolver) FromSummary(summary string) Resolution {
	n := Normalize(summary)

	for _, candidate := range All() {
		if strings.Contains(n, string(candidate)) {
			return Resolution{Room: candidate, Raw: summary, Resolved: true}
		}
	}

	for _, tok := range strings.Fields(n) {
		if room, ok := r.codes[tok]; ok {
			return Resolution{Room: room, Raw: summary, Resolved: true}
		}
	}

	return Resolution{Raw: summary}
}

// Resolve maps a reservation event to a room: the summary wins, the event's
// explicit bedroom field is the fallback when summary parsing fails.
func (r *Resolver) Resolve(summary, bedroom string) Resolution {
	if res := r.FromSummary(summary); res.Resolved {
		return res
	}
	if bedroom != "" {
		if room, ok := Known(bedroom); ok {
			return Resolution{Room: room, Raw: bedroom, Resolved: true}
		}
	}
	return Resolution{Raw: summary}
}
