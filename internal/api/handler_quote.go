package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quizas-booking-backend/internal/availability"
	"quizas-booking-backend/internal/pricing"
	"quizas-booking-backend/internal/room"
)

type quoteRequest struct {
	Room      string    `json:"room" binding:"required"`
	Arrival   time.Time `json:"arrival" binding:"required"`
	Departure time.Time `json:"departure" binding:"required"`
	People    int       `json:"people" binding:"required"`
}

type quoteResponse struct {
	Room      room.Room      `json:"room"`
	Nights    int            `json:"nights"`
	People    int            `json:"people"`
	Price     pricing.Amount `json:"price"`
	Formatted string         `json:"formatted"`
}

// PostQuote handles the POST /api/quote request: the price for a room, stay
// and occupancy. Undefined combinations are an error, never a silent zero.
func (h *Handler) PostQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, ok := room.Known(req.Room)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown room"})
		return
	}

	stay := availability.Stay{Arrival: req.Arrival, Departure: req.Departure}
	if err := stay.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.resolver.CheckStay(stay); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	price, err := h.tariffs.ComputePrice(r, stay.Nights(), req.People)
	if err != nil {
		var occErr *pricing.InvalidOccupancyError
		if errors.As(err, &occErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quoteResponse{
		Room:      r,
		Nights:    stay.Nights(),
		People:    req.People,
		Price:     price,
		Formatted: pricing.FormatPrice(price),
	})
}
