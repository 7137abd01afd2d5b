package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizas-booking-backend/config"
	"quizas-booking-backend/internal/availability"
	"quizas-booking-backend/internal/room"
)

func TestClientSubmitSendsHeadersAndPayload(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(&config.BookingConfig{
		SubmitURL:      server.URL,
		Headers:        map[string]string{"Authorization": "Bearer token"},
		TimeoutSeconds: 5,
	})

	err := client.Submit(context.Background(), Request{
		Form: map[string]string{"name": "Martin"},
		Room: room.Napoleon,
		Stay: availability.Stay{
			Arrival:   time.Date(2024, 8, 3, 0, 0, 0, 0, time.UTC),
			Departure: time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC),
		},
		Price:     330,
		Occupancy: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer token", gotAuth)
	assert.Equal(t, "Martin", gotPayload["name"])
	assert.Equal(t, "NAPOLÉON", gotPayload["room"])
	assert.Equal(t, float64(330), gotPayload["price"])
}

func TestClientSubmitRejectsNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(&config.BookingConfig{SubmitURL: server.URL, TimeoutSeconds: 5})
	err := client.Submit(context.Background(), Request{Room: room.Napoleon})

	var submitErr *SubmitError
	require.True(t, errors.As(err, &submitErr))
	assert.Equal(t, http.StatusServiceUnavailable, submitErr.StatusCode)
}
