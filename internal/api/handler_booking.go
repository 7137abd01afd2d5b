package api

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"quizas-booking-backend/internal/availability"
	"quizas-booking-backend/internal/booking"
	"quizas-booking-backend/internal/calendar"
	"quizas-booking-backend/internal/notification"
	"quizas-booking-backend/internal/pricing"
	"quizas-booking-backend/internal/room"
)

// PostBookingRequest handles the POST /api/bookingRequest request. The body
// is the widget's form payload: free-form fields plus room, dates and people.
// The whole selection flow is replayed server-side, so the price and the
// availability the visitor saw are re-verified before anything goes upstream.
func (h *Handler) PostBookingRequest(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomName, _ := raw["room"].(string)
	r, ok := room.Known(roomName)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown or missing room"})
		return
	}

	stay, err := stayFromPayload(raw, h.feed.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	people, err := peopleFromPayload(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form := formFields(raw)

	session, err := booking.NewSession().SelectDates(stay)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	win := &calendar.Window{From: stay.Arrival, To: stay.Departure}
	events, _, feedErr := h.feed.Events(c.Request.Context(), win)
	if feedErr != nil {
		// Fail open: the server side owns double-booking prevention.
		log.Printf("Feed unavailable for booking check: %v. Failing open.", feedErr)
		events = nil
	}

	session, err = session.ResolveRooms(h.resolver, events)
	if err != nil {
		var tooShort *availability.StayTooShortError
		switch {
		case errors.As(err, &tooShort):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":     err.Error(),
				"minNights": tooShort.MinNights,
			})
		case errors.Is(err, booking.ErrHouseFull):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	session, err = session.ChooseRoom(r)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	session, err = session.ChooseOccupancy(people, h.tariffs)
	if err != nil {
		var occErr *pricing.InvalidOccupancyError
		if errors.As(err, &occErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err = session.Submit(c.Request.Context(), h.submitter, form)
	if err != nil {
		// Recoverable: the widget keeps the form editable for a retry.
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if h.alerts != nil {
		h.alerts.Dispatch(notification.BookingAlert{
			Room:  session.Room,
			Stay:  session.Stay,
			Price: session.Price,
			Guest: form["name"],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"price":   session.Price,
	})
}

func stayFromPayload(raw map[string]any, loc *time.Location) (availability.Stay, error) {
	dates, ok := raw["dates"].(map[string]any)
	if !ok {
		return availability.Stay{}, fmt.Errorf("missing dates")
	}

	arrivalStr, _ := dates["arrival"].(string)
	arrival, err := parseStayParam(arrivalStr, loc)
	if err != nil {
		return availability.Stay{}, fmt.Errorf("bad arrival: %w", err)
	}

	departureStr, _ := dates["departure"].(string)
	departure, err := parseStayParam(departureStr, loc)
	if err != nil {
		return availability.Stay{}, fmt.Errorf("bad departure: %w", err)
	}

	return availability.Stay{Arrival: arrival, Departure: departure}, nil
}

// peopleFromPayload accepts a JSON number or the string value of the
// widget's occupancy select. Missing means one person.
func peopleFromPayload(raw map[string]any) (int, error) {
	switch v := raw["people"].(type) {
	case nil:
		return 1, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("bad people value %v", v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("bad people value %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("bad people value")
	}
}

// formFields extracts the visitor's raw form values, leaving out the keys the
// flow owns.
func formFields(raw map[string]any) map[string]string {
	form := make(map[string]string)
	for k, v := range raw {
		switch k {
		case "room", "dates", "people", "price":
			continue
		}
		if s, ok := v.(string); ok {
			form[k] = s
		}
	}
	return form
}
