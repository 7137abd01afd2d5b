package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quizas-booking-backend/internal/availability"
	"quizas-booking-backend/internal/calendar"
	"quizas-booking-backend/internal/room"
)

// roomAvailability is one room's verdict for a candidate stay.
type roomAvailability struct {
	Room         room.Room `json:"room"`
	Available    bool      `json:"available"`
	MaxOccupancy int       `json:"maxOccupancy"`
}

// availabilityResponse is the API response for an availability check.
type availabilityResponse struct {
	Nights    int                `json:"nights"`
	MinNights int                `json:"minNights"`
	Rooms     []roomAvailability `json:"rooms"`
}

// parseStayParam accepts bare dates and RFC3339 timestamps. Bare dates are
// parsed in the same location as the feed's bare dates, so a stay bound and
// an event bound on the same calendar day are the same instant.
func parseStayParam(value string, loc *time.Location) (time.Time, error) {
	if ts, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q; use YYYY-MM-DD or RFC3339", value)
	}
	return ts, nil
}

func stayFromQuery(c *gin.Context, loc *time.Location) (availability.Stay, error) {
	arrival, err := parseStayParam(c.Query("arrival"), loc)
	if err != nil {
		return availability.Stay{}, err
	}
	departure, err := parseStayParam(c.Query("departure"), loc)
	if err != nil {
		return availability.Stay{}, err
	}
	return availability.Stay{Arrival: arrival, Departure: departure}, nil
}

// GetAvailability handles the GET /api/availability request: which rooms the
// calendar blocks for the candidate range, plus the minimum-stay verdict.
func (h *Handler) GetAvailability(c *gin.Context) {
	stay, err := stayFromQuery(c, h.feed.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := stay.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The stay rule comes before any blocking decision.
	if err := h.resolver.CheckStay(stay); err != nil {
		var tooShort *availability.StayTooShortError
		if errors.As(err, &tooShort) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":     err.Error(),
				"minNights": tooShort.MinNights,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	win := &calendar.Window{From: stay.Arrival, To: stay.Departure}
	events, _, err := h.feed.Events(c.Request.Context(), win)
	if err != nil {
		// Fail open: an unreachable feed blocks nothing.
		log.Printf("Feed unavailable for availability check: %v. Failing open.", err)
		events = nil
	}

	blocked := h.resolver.BlockedRooms(events, stay)

	rooms := make([]roomAvailability, 0, len(room.All()))
	for _, r := range room.All() {
		rooms = append(rooms, roomAvailability{
			Room:         r,
			Available:    !blocked.Blocked(r),
			MaxOccupancy: r.MaxOccupancy(),
		})
	}

	c.JSON(http.StatusOK, availabilityResponse{
		Nights:    stay.Nights(),
		MinNights: h.resolver.MinNights(stay),
		Rooms:     rooms,
	})
}
