package pricing

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"quizas-booking-backend/config"
	"quizas-booking-backend/internal/room"
)

// Amount is a price in whole euros, matching the upstream rate card and the
// booking payload. Formatting to a two-decimal currency string happens at the
// presentation boundary only.
type Amount int

// ErrInvalidNights is returned for a stay below one night.
var ErrInvalidNights = errors.New("nights must be at least 1")

// ErrUnknownRoom is returned when the tariff table has no row for the room.
var ErrUnknownRoom = errors.New("no tariff for room")

// InvalidOccupancyError reports a (room, occupancy) combination the tariff
// table does not define. This is a contract violation of the caller, never
// silently priced.
type InvalidOccupancyError struct {
	Room      room.Room
	Occupancy int
}

func (e *InvalidOccupancyError) Error() string {
	return fmt.Sprintf("room %s has no tariff for %d people", e.Room, e.Occupancy)
}

// Table holds the per-room, per-occupancy tariff rows. It is built once from
// configuration and never mutated.
type Table struct {
	rows map[room.Room][]config.TariffRow
}

// NewTable builds a tariff table from configuration. Entries for unknown
// rooms are dropped with a warning.
func NewTable(cfg config.TariffsConfig) *Table {
	rows := make(map[room.Room][]config.TariffRow, len(cfg))
	for name, tariffs := range cfg {
		r, ok := room.Known(name)
		if !ok {
			log.Printf("Warning: tariff entry for unknown room %q; ignoring", name)
			continue
		}
		rows[r] = tariffs
	}
	return &Table{rows: rows}
}

// ComputePrice returns the total price for a stay. The first two nights are
// a package rate; every night beyond the second adds a flat increment.
func (t *Table) ComputePrice(r room.Room, nights, occupancy int) (Amount, error) {
	if nights < 1 {
		return 0, ErrInvalidNights
	}

	tariffs, ok := t.rows[r]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRoom, r)
	}
	if occupancy < 1 || occupancy > len(tariffs) {
		return 0, &InvalidOccupancyError{Room: r, Occupancy: occupancy}
	}

	row := tariffs[occupancy-1]
	switch {
	case nights == 1:
		return Amount(row.OneNight), nil
	case nights == 2:
		return Amount(row.TwoNights), nil
	default:
		return Amount(row.TwoNights + (nights-2)*row.ExtraNight), nil
	}
}

// FormatPrice renders an amount as a French two-decimal euro string.
func FormatPrice(a Amount) string {
	return strings.ReplaceAll(fmt.Sprintf("%.2f €", float64(a)), ".", ",")
}
