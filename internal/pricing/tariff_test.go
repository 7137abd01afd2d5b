package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizas-booking-backend/config"
	"quizas-booking-backend/internal/room"
)

func TestComputePrice(t *testing.T) {
	table := NewTable(config.DefaultTariffs)

	testCases := []struct {
		name      string
		room      room.Room
		nights    int
		occupancy int
		expected  Amount
	}{
		{
			name:      "One night is the one-night rate",
			room:      room.Napoleon,
			nights:    1,
			occupancy: 1,
			expected:  200,
		},
		{
			name:      "Two nights are the package rate",
			room:      room.Napoleon,
			nights:    2,
			occupancy: 1,
			expected:  200,
		},
		{
			name:      "Extra nights add the flat increment",
			room:      room.Napoleon,
			nights:    5,
			occupancy: 1,
			expected:  200 + 3*90,
		},
		{
			name:      "Occupancy picks the row",
			room:      room.Napoleon,
			nights:    3,
			occupancy: 2,
			expected:  230 + 100,
		},
		{
			name:      "Three people in the big room",
			room:      room.LadyChatterley,
			nights:    4,
			occupancy: 3,
			expected:  300 + 2*120,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			price, err := table.ComputePrice(tc.room, tc.nights, tc.occupancy)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, price)
		})
	}
}

func TestComputePriceTiersMatchCustomRows(t *testing.T) {
	table := NewTable(config.TariffsConfig{
		"NAPOLÉON": {{OneNight: 180, TwoNights: 200, ExtraNight: 90}},
	})

	one, err := table.ComputePrice(room.Napoleon, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, Amount(180), one)

	two, err := table.ComputePrice(room.Napoleon, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, Amount(200), two)

	five, err := table.ComputePrice(room.Napoleon, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, two+3*90, five)
}

func TestComputePriceContractViolations(t *testing.T) {
	table := NewTable(config.DefaultTariffs)

	// Occupancy 3 for a two-person room must error, never price.
	_, err := table.ComputePrice(room.Napoleon, 2, 3)
	var occErr *InvalidOccupancyError
	require.ErrorAs(t, err, &occErr)
	assert.Equal(t, room.Napoleon, occErr.Room)
	assert.Equal(t, 3, occErr.Occupancy)

	_, err = table.ComputePrice(room.Napoleon, 2, 0)
	assert.ErrorAs(t, err, &occErr)

	_, err = table.ComputePrice(room.Napoleon, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidNights)
}

func TestNewTableDropsUnknownRooms(t *testing.T) {
	table := NewTable(config.TariffsConfig{
		"NAPOLÉON":  {{OneNight: 200, TwoNights: 200, ExtraNight: 90}},
		"PENTHOUSE": {{OneNight: 900, TwoNights: 900, ExtraNight: 500}},
	})

	_, err := table.ComputePrice(room.Napoleon, 1, 1)
	assert.NoError(t, err)

	_, err = table.ComputePrice(room.LadyChatterley, 1, 1)
	assert.ErrorIs(t, err, ErrUnknownRoom)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "300,00 €", FormatPrice(300))
	assert.Equal(t, "470,00 €", FormatPrice(470))
}
