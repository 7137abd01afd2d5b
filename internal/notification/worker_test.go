package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"

	"quizas-booking-backend/internal/availability"
	"quizas-booking-backend/internal/room"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func testAlert() BookingAlert {
	return BookingAlert{
		Room: room.Napoleon,
		Stay: availability.Stay{
			Arrival:   time.Date(2024, 8, 3, 0, 0, 0, 0, time.UTC),
			Departure: time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC),
		},
		Price: 330,
		Guest: "Martin",
	}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, NewRegistry(), &webpush.Options{})

	wp.Dispatch(testAlert())

	select {
	case alert := <-wp.jobs:
		assert.Equal(t, room.Napoleon, alert.Room)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for alert to be dispatched")
	}
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	registry := NewRegistry()
	wp := NewWorkerPool(1, registry, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends notification for one subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		registry.Add(webpush.Subscription{
			Endpoint: "https://example.com/push",
			Keys:     webpush.Keys{P256dh: "test_p256dh", Auth: "test_auth"},
		})

		wp.SetSender(&mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				assert.Equal(t, "Nouvelle demande de Martin : NAPOLÉON du 03/08/2024 au 06/08/2024, 330,00 €", string(payload))
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		})

		wp.Dispatch(testAlert())
		wg.Wait()
	})

	t.Run("removes expired subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		registry.Remove("https://example.com/push")
		registry.Add(webpush.Subscription{
			Endpoint: "https://example.com/expired",
			Keys:     webpush.Keys{P256dh: "test_p256dh_expired", Auth: "test_auth_expired"},
		})

		wp.SetSender(&mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		})

		wp.Dispatch(testAlert())
		wg.Wait()

		// A short sleep to allow the eviction after Send returns.
		time.Sleep(100 * time.Millisecond)
		_, found := registry.Get("https://example.com/expired")
		assert.False(t, found)
	})
}

func TestRegistryAddReplaces(t *testing.T) {
	registry := NewRegistry()

	registry.Add(webpush.Subscription{
		Endpoint: "https://example.com/a",
		Keys:     webpush.Keys{P256dh: "old", Auth: "old"},
	})
	registry.Add(webpush.Subscription{
		Endpoint: "https://example.com/a",
		Keys:     webpush.Keys{P256dh: "new", Auth: "new"},
	})

	assert.Len(t, registry.All(), 1)
	sub, found := registry.Get("https://example.com/a")
	assert.True(t, found)
	assert.Equal(t, "new", sub.Keys.P256dh)
}
