package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizas-booking-backend/config"
	"quizas-booking-backend/internal/api"
	"quizas-booking-backend/internal/availability"
	"quizas-booking-backend/internal/booking"
	"quizas-booking-backend/internal/calendar"
	"quizas-booking-backend/internal/notification"
	"quizas-booking-backend/internal/pricing"
	"quizas-booking-backend/internal/room"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "quizas-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Booking.SubmitURL == "" {
		logger.Fatalf("booking.submit_url must be configured; booking requests have nowhere to go.")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Println("VAPID keys are not configured; owner notifications are disabled.")
	}

	// Domain wiring: room resolution, availability, tariffs
	rooms := room.NewResolver(cfg.Rooms.ReservationMarker, cfg.Rooms.Codes)
	resolver := availability.NewResolver(rooms, cfg.Stay)
	tariffs := pricing.NewTable(cfg.Tariffs)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Calendar feed client with background refresh
	feed := calendar.NewClient(&cfg.Feed)
	go feed.Run(ctx)

	// Booking submission client
	submitter := booking.NewClient(&cfg.Booking)

	// Owner notifications
	registry := notification.NewRegistry()
	alerts := notification.NewWorkerPool(cfg.WorkerPool.Size, registry, &webpushOptions)
	alerts.Start(ctx)

	// Initialize router
	handler := api.NewHandler(feed, resolver, tariffs, submitter, registry, alerts, &webpushOptions)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
