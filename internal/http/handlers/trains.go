package handlers

import (
	"net/http"
	"strings"

	"railbook/internal/domain"
	"railbook/internal/services"

	"github.com/gin-gonic/gin"
)

type trainSummary struct {
	TrainNo       int                `json:"trainNo"`
	TrainName     string             `json:"trainName"`
	Distance      float64            `json:"distance"`
	DepartureTime string             `json:"departureTime"`
	ArrivalTime   string             `json:"arrivalTime"`
	Fares         map[string]float64 `json:"fares"`
	SeatsLeft     map[string]int     `json:"seatsLeft"`
}

// GET /api/places
func (h *Handlers) Places(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"places": h.Inventory.Places()})
}

// GET /api/trains?from=&to=
func (h *Handlers) Trains(c *gin.Context) {
	from := strings.ToUpper(strings.TrimSpace(c.Query("from")))
	to := strings.ToUpper(strings.TrimSpace(c.Query("to")))
	if from == "" || to == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "from and to are required", nil)
		return
	}

	out := []trainSummary{}
	for _, t := range h.Inventory.TrainsServing(from, to) {
		distance, err := domain.TotalDistance(t, from, to)
		if err != nil {
			continue
		}
		sum := trainSummary{
			TrainNo:   t.TrainNo,
			TrainName: t.TrainName,
			Distance:  distance,
			Fares:     map[string]float64{},
			SeatsLeft: map[string]int{},
		}
		sum.DepartureTime, sum.ArrivalTime, _ = domain.JourneyTimes(t, from, to)
		for class := range t.FareStructure {
			if fare, err := domain.TotalFare(t, from, to, domain.SeatClass(class)); err == nil {
				sum.Fares[class] = fare
			}
			if left, err := domain.SeatsLeft(t, from, to, domain.SeatClass(class)); err == nil {
				sum.SeatsLeft[class] = max(left, 0)
			}
		}
		out = append(out, sum)
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "trains": out, "currency": h.Currency})
}

// POST /api/quote
func (h *Handlers) Quote(c *gin.Context) {
	var req services.BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	q, err := h.Bookings.Quote(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": q, "currency": h.Currency})
}
