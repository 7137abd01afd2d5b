package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"

	"quizas-booking-backend/internal/availability"
	"quizas-booking-backend/internal/pricing"
	"quizas-booking-backend/internal/room"
)

// BookingAlert is the payload for an owner notification about a new booking
// request.
type BookingAlert struct {
	Room  room.Room
	Stay  availability.Stay
	Price pricing.Amount
	Guest string
}

func (a BookingAlert) message() string {
	guest := a.Guest
	if guest == "" {
		guest = "un visiteur"
	}
	return fmt.Sprintf("Nouvelle demande de %s : %s du %s au %s, %s",
		guest, a.Room,
		a.Stay.Arrival.Format("02/01/2006"),
		a.Stay.Departure.Format("02/01/2006"),
		pricing.FormatPrice(a.Price))
}

// Registry holds the owner's browser push subscriptions. It is in-memory:
// nothing in this service persists, so the owner re-subscribes per process.
type Registry struct {
	mu   sync.RWMutex
	subs map[string]webpush.Subscription
}

// NewRegistry creates an empty subscription registry.
func NewRegistry() *Registry {
	return &Registry{subs: make(map[string]webpush.Subscription)}
}

// Add registers or replaces a subscription, keyed by its endpoint.
func (r *Registry) Add(sub webpush.Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.Endpoint] = sub
}

// Remove deletes the subscription with the given endpoint.
func (r *Registry) Remove(endpoint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, endpoint)
}

// Get returns the subscription with the given endpoint.
func (r *Registry) Get(endpoint string) (webpush.Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[endpoint]
	return sub, ok
}

// All returns a copy of the registered subscriptions.
func (r *Registry) All() []webpush.Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs := make([]webpush.Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		subs = append(subs, sub)
	}
	return subs
}

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers delivering booking alerts to the
// owner's subscribed browsers.
type WorkerPool struct {
	size     int
	jobs     chan BookingAlert
	registry *Registry
	webpush  *webpush.Options
	sender   NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, registry *Registry, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:     size,
		jobs:     make(chan BookingAlert, size),
		registry: registry,
		webpush:  webpushOptions,
		sender:   &WebPushSender{},
	}
}

// SetSender replaces the sender, for tests.
func (wp *WorkerPool) SetSender(s NotificationSender) {
	wp.sender = s
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case alert := <-wp.jobs:
			wp.sendAlert(alert)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a booking alert to the worker pool.
func (wp *WorkerPool) Dispatch(alert BookingAlert) {
	wp.jobs <- alert
}

// sendAlert delivers one alert to every registered subscription.
func (wp *WorkerPool) sendAlert(alert BookingAlert) {
	subs := wp.registry.All()
	if len(subs) == 0 {
		return
	}

	log.Printf("Sending %d booking notifications for room %s", len(subs), alert.Room)
	payload := []byte(alert.message())
	for _, sub := range subs {
		wp.sendNotification(sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(sub webpush.Subscription, payload []byte) {
	resp, err := wp.sender.Send(payload, &sub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions are evicted on the push service's say-so.
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Removing.", sub.Endpoint)
		wp.registry.Remove(sub.Endpoint)
	}
}
