package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"quizas-booking-backend/internal/availability"
	"quizas-booking-backend/internal/booking"
	"quizas-booking-backend/internal/calendar"
	"quizas-booking-backend/internal/notification"
	"quizas-booking-backend/internal/pricing"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	feed      *calendar.Client
	resolver  *availability.Resolver
	tariffs   *pricing.Table
	submitter booking.Submitter
	registry  *notification.Registry
	alerts    *notification.WorkerPool
	webpush   *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(
	feed *calendar.Client,
	resolver *availability.Resolver,
	tariffs *pricing.Table,
	submitter booking.Submitter,
	registry *notification.Registry,
	alerts *notification.WorkerPool,
	webpushOptions *webpush.Options,
) *Handler {
	return &Handler{
		feed:      feed,
		resolver:  resolver,
		tariffs:   tariffs,
		submitter: submitter,
		registry:  registry,
		alerts:    alerts,
		webpush:   webpushOptions,
	}
}
