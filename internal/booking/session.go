package booking

import (
	"context"
	"errors"
	"fmt"

	"quizas-booking-backend/internal/availability"
	"quizas-booking-backend/internal/calendar"
	"quizas-booking-backend/internal/pricing"
	"quizas-booking-backend/internal/room"
)

// State is a step of the room-selection flow.
type State string

const (
	StateNoDatesSelected State = "no_dates_selected"
	StateDatesPending    State = "dates_pending"
	StateRoomSelectable  State = "room_selectable"
	StateRoomChosen      State = "room_chosen"
	StateOccupancyChosen State = "occupancy_chosen"
	StateSubmitting      State = "submitting"
	StateSubmitted       State = "submitted"
	StateSubmitFailed    State = "submit_failed"
)

// ErrRoomUnavailable is returned when the chosen room conflicts with the
// calendar. The visitor must pick another room.
var ErrRoomUnavailable = errors.New("room is not available for these dates")

// ErrHouseFull is returned when every room is blocked for the chosen dates.
var ErrHouseFull = errors.New("no rooms available for these dates")

// TransitionError reports an operation applied in the wrong state.
type TransitionError struct {
	From State
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s in state %s", e.Op, e.From)
}

// Session is the selection flow as an explicit value. Every transition takes
// a Session and returns the next one, so the whole flow is testable without
// any HTTP in sight. A failed transition returns the input unchanged along
// with the error; nothing here is fatal to the visitor's session.
type Session struct {
	State     State
	Stay      availability.Stay
	Blocked   availability.BlockedSet
	Room      room.Room
	Occupancy int
	Price     pricing.Amount
}

// NewSession starts an empty selection flow.
func NewSession() Session {
	return Session{State: StateNoDatesSelected}
}

// SelectDates records a candidate range.
func (s Session) SelectDates(stay availability.Stay) (Session, error) {
	if err := stay.Validate(); err != nil {
		return s, err
	}
	return Session{State: StateDatesPending, Stay: stay}, nil
}

// ResolveRooms checks the minimum stay and derives the blocked set from the
// calendar. Entering RoomSelectable requires the stay rule to pass and at
// least one room to be free.
func (s Session) ResolveRooms(resolver *availability.Resolver, events []calendar.Event) (Session, error) {
	if s.State != StateDatesPending {
		return s, &TransitionError{From: s.State, Op: "resolve rooms"}
	}
	if err := resolver.CheckStay(s.Stay); err != nil {
		return s, err
	}

	blocked := resolver.BlockedRooms(events, s.Stay)
	if blocked.Full() {
		return s, ErrHouseFull
	}

	next := s
	next.State = StateRoomSelectable
	next.Blocked = blocked
	return next, nil
}

// ChooseRoom selects a room. Blocked rooms cannot be chosen. Re-choosing
// from a later state restarts the occupancy selection.
func (s Session) ChooseRoom(r room.Room) (Session, error) {
	switch s.State {
	case StateRoomSelectable, StateRoomChosen, StateOccupancyChosen, StateSubmitFailed:
	default:
		return s, &TransitionError{From: s.State, Op: "choose room"}
	}
	if s.Blocked.Blocked(r) {
		return s, ErrRoomUnavailable
	}

	next := s
	next.State = StateRoomChosen
	next.Room = r
	next.Occupancy = 0
	next.Price = 0
	return next, nil
}

// ChooseOccupancy picks the number of guests and computes the price.
func (s Session) ChooseOccupancy(occupancy int, tariffs *pricing.Table) (Session, error) {
	switch s.State {
	case StateRoomChosen, StateOccupancyChosen, StateSubmitFailed:
	default:
		return s, &TransitionError{From: s.State, Op: "choose occupancy"}
	}

	price, err := tariffs.ComputePrice(s.Room, s.Stay.Nights(), occupancy)
	if err != nil {
		return s, err
	}

	next := s
	next.State = StateOccupancyChosen
	next.Occupancy = occupancy
	next.Price = price
	return next, nil
}

// Submit sends the booking request upstream. Success ends the flow in
// Submitted; any failure lands in SubmitFailed, from which room, occupancy
// and submission can all be retried.
func (s Session) Submit(ctx context.Context, submitter Submitter, form map[string]string) (Session, error) {
	switch s.State {
	case StateOccupancyChosen, StateSubmitFailed:
	default:
		return s, &TransitionError{From: s.State, Op: "submit"}
	}

	next := s
	next.State = StateSubmitting

	req := Request{
		Form:      form,
		Room:      s.Room,
		Stay:      s.Stay,
		Price:     s.Price,
		Occupancy: s.Occupancy,
	}
	if err := submitter.Submit(ctx, req); err != nil {
		next.State = StateSubmitFailed
		return next, err
	}

	next.State = StateSubmitted
	return next, nil
}
