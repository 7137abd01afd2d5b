package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"quizas-booking-backend/config"
	"quizas-booking-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), 5, cfg.RequestIPHeader)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Calendar feed, as the widget consumes it
		api.GET("/events", caching, handler.GetEvents)
		api.POST("/events", handler.PostEvents)

		// Availability and pricing for a candidate stay
		api.GET("/availability", caching, handler.GetAvailability)
		api.POST("/quote", handler.PostQuote)

		// Booking submission
		api.POST("/bookingRequest", handler.PostBookingRequest)

		// Owner push subscriptions
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
