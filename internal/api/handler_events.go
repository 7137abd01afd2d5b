package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"quizas-booking-backend/internal/calendar"
)

// eventsResponse mirrors the feed shape the widget expects.
type eventsResponse struct {
	Success   bool             `json:"success"`
	Events    []calendar.Event `json:"events"`
	FromCache bool             `json:"fromCache"`
}

// GetEvents handles the GET /api/events request: the full calendar.
func (h *Handler) GetEvents(c *gin.Context) {
	h.respondEvents(c, nil)
}

// PostEvents handles the POST /api/events request with a {from, to} window.
func (h *Handler) PostEvents(c *gin.Context) {
	var win calendar.Window
	if err := c.ShouldBindJSON(&win); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !win.To.After(win.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'to' must be after 'from'"})
		return
	}
	h.respondEvents(c, &win)
}

// respondEvents serves the calendar with the fail-open policy: an unreachable
// feed yields zero events and success=false, never an error page. The widget
// then offers every room rather than closing the booking flow.
func (h *Handler) respondEvents(c *gin.Context, win *calendar.Window) {
	events, fromCache, err := h.feed.Events(c.Request.Context(), win)
	if err != nil {
		log.Printf("Feed unavailable: %v. Failing open with zero events.", err)
		c.JSON(http.StatusOK, eventsResponse{Success: false, Events: []calendar.Event{}})
		return
	}

	if events == nil {
		events = []calendar.Event{}
	}
	c.JSON(http.StatusOK, eventsResponse{Success: true, Events: events, FromCache: fromCache})
}
