package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"quizas-booking-backend/config"
	"quizas-booking-backend/internal/calendar"
	"quizas-booking-backend/internal/room"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func newTestResolver() *Resolver {
	rooms := room.NewResolver("RESA", config.DefaultRoomCodes)
	return NewResolver(rooms, config.StayConfig{
		HighSeasonMonths: []int{7, 8},
		HighSeasonNights: 2,
		DefaultNights:    1,
	})
}

func resa(start, end time.Time, summary string) calendar.Event {
	return calendar.Event{Start: start, End: end, Type: calendar.EventResa, Summary: summary}
}

func off(start, end time.Time) calendar.Event {
	return calendar.Event{Start: start, End: end, Type: calendar.EventOff, Summary: "Fermeture"}
}

func TestCheckStay(t *testing.T) {
	r := newTestResolver()

	testCases := []struct {
		name     string
		stay     Stay
		expected error
	}{
		{
			name:     "One night in June is enough",
			stay:     Stay{Arrival: day(2024, time.June, 10), Departure: day(2024, time.June, 11)},
			expected: nil,
		},
		{
			name:     "One night in July is too short",
			stay:     Stay{Arrival: day(2024, time.July, 10), Departure: day(2024, time.July, 11)},
			expected: &StayTooShortError{MinNights: 2},
		},
		{
			name:     "Two nights in August pass",
			stay:     Stay{Arrival: day(2024, time.August, 10), Departure: day(2024, time.August, 12)},
			expected: nil,
		},
		{
			name:     "Departure month counts for the season",
			stay:     Stay{Arrival: day(2024, time.June, 30), Departure: day(2024, time.July, 1)},
			expected: &StayTooShortError{MinNights: 2},
		},
		{
			name:     "Departure before arrival is invalid",
			stay:     Stay{Arrival: day(2024, time.June, 11), Departure: day(2024, time.June, 10)},
			expected: ErrInvalidRange,
		},
		{
			name:     "Zero nights is invalid",
			stay:     Stay{Arrival: day(2024, time.June, 10), Departure: day(2024, time.June, 10)},
			expected: ErrInvalidRange,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := r.CheckStay(tc.stay)
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tc.expected, err)
			}
		})
	}
}

func TestBlockedRooms(t *testing.T) {
	r := newTestResolver()

	lc := resa(day(2024, time.August, 1), day(2024, time.August, 5), "RESA - LADY CHATTERLEY Dupont")

	testCases := []struct {
		name     string
		events   []calendar.Event
		stay     Stay
		expected []room.Room
	}{
		{
			name:     "Empty feed blocks nothing",
			events:   nil,
			stay:     Stay{Arrival: day(2024, time.August, 3), Departure: day(2024, time.August, 6)},
			expected: nil,
		},
		{
			name:     "Overlapping reservation blocks only its room",
			events:   []calendar.Event{lc},
			stay:     Stay{Arrival: day(2024, time.August, 3), Departure: day(2024, time.August, 6)},
			expected: []room.Room{room.LadyChatterley},
		},
		{
			name:     "Arrival on the reservation's departure day is free",
			events:   []calendar.Event{lc},
			stay:     Stay{Arrival: day(2024, time.August, 5), Departure: day(2024, time.August, 7)},
			expected: nil,
		},
		{
			name: "OFF covering a single night blocks the whole house",
			events: []calendar.Event{
				off(day(2024, time.August, 5), day(2024, time.August, 6)),
			},
			stay:     Stay{Arrival: day(2024, time.August, 3), Departure: day(2024, time.August, 6)},
			expected: []room.Room{room.LadyChatterley, room.HenryDeMonfreid, room.Napoleon},
		},
		{
			name: "RESA without the marker is noise",
			events: []calendar.Event{
				resa(day(2024, time.August, 1), day(2024, time.August, 5), "peinture LADY CHATTERLEY"),
			},
			stay:     Stay{Arrival: day(2024, time.August, 3), Departure: day(2024, time.August, 6)},
			expected: nil,
		},
		{
			name: "Unresolvable reservation is dropped, not escalated",
			events: []calendar.Event{
				resa(day(2024, time.August, 1), day(2024, time.August, 5), "RESA chambre verte"),
			},
			stay:     Stay{Arrival: day(2024, time.August, 3), Departure: day(2024, time.August, 6)},
			expected: nil,
		},
		{
			name: "Two reservations block two rooms",
			events: []calendar.Event{
				lc,
				resa(day(2024, time.August, 2), day(2024, time.August, 4), "RESA - NP Martin"),
			},
			stay:     Stay{Arrival: day(2024, time.August, 3), Departure: day(2024, time.August, 6)},
			expected: []room.Room{room.LadyChatterley, room.Napoleon},
		},
		{
			name: "Bedroom field resolves when the summary does not",
			events: []calendar.Event{
				func() calendar.Event {
					e := resa(day(2024, time.August, 1), day(2024, time.August, 5), "RESA booking #4812")
					b := "henry de monfreid"
					e.Bedroom = &b
					return e
				}(),
			},
			stay:     Stay{Arrival: day(2024, time.August, 3), Departure: day(2024, time.August, 6)},
			expected: []room.Room{room.HenryDeMonfreid},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blocked := r.BlockedRooms(tc.events, tc.stay)
			assert.ElementsMatch(t, tc.expected, blocked.Rooms())
		})
	}
}

func TestBlockedRoomsIsDeterministic(t *testing.T) {
	r := newTestResolver()
	events := []calendar.Event{
		resa(day(2024, time.August, 1), day(2024, time.August, 5), "RESA - LC Dupont"),
		off(day(2024, time.August, 10), day(2024, time.August, 12)),
	}
	stay := Stay{Arrival: day(2024, time.August, 3), Departure: day(2024, time.August, 6)}

	first := r.BlockedRooms(events, stay)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.BlockedRooms(events, stay))
	}
}

func TestBlockedSetFull(t *testing.T) {
	r := newTestResolver()

	stay := Stay{Arrival: day(2024, time.August, 3), Departure: day(2024, time.August, 6)}
	blocked := r.BlockedRooms([]calendar.Event{
		off(day(2024, time.August, 1), day(2024, time.August, 10)),
	}, stay)

	assert.True(t, blocked.Full())
	assert.True(t, blocked.Blocked(room.Napoleon))
}

func TestNights(t *testing.T) {
	s := Stay{Arrival: day(2024, time.June, 10), Departure: day(2024, time.June, 15)}
	assert.Equal(t, 5, s.Nights())
}

func TestNightsAcrossSpringClockChange(t *testing.T) {
	// Local midnight to local midnight over the spring transition is only
	// 23 elapsed hours, but still one night.
	s := Stay{
		Arrival:   time.Date(2024, time.March, 30, 0, 0, 0, 0, time.FixedZone("CET", 3600)),
		Departure: time.Date(2024, time.March, 31, 0, 0, 0, 0, time.FixedZone("CEST", 7200)),
	}
	assert.Equal(t, 1, s.Nights())
	assert.NoError(t, s.Validate())
}
