package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"railbook/internal/domain"
	"railbook/internal/domain/models"
	"railbook/internal/utils"
)

// BookingRequest is a journey on one train for a group of passengers.
type BookingRequest struct {
	TrainNo     int                     `json:"trainNo" binding:"required"`
	Source      string                  `json:"source" binding:"required"`
	Destination string                  `json:"destination" binding:"required"`
	Passengers  []models.PassengerInput `json:"passengers" binding:"required"`
}

// Quote is the price of a request before anything is reserved.
type Quote struct {
	TrainNo     int       `json:"trainNo"`
	TrainName   string    `json:"trainName"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Distance    float64   `json:"distance"`
	Fares       []float64 `json:"fares"`
	TotalFare   float64   `json:"totalFare"`
	SeatsOK     bool      `json:"seatsAvailable"`
	DepartureAt string    `json:"departureTime"`
	ArrivalAt   string    `json:"arrivalTime"`
	Passengers  int       `json:"passengers"`
}

// BookingService runs the book and cancel flows. Its mutex serializes them so
// a capacity check and the reservation that follows it cannot interleave
// with another caller's.
type BookingService struct {
	Inventory *InventoryService
	Ledger    *LedgerService
	Validator PassengerValidator

	mu sync.Mutex
}

// Normalize upper-cases the station codes and validates the passengers.
func (s *BookingService) Normalize(req BookingRequest) (BookingRequest, error) {
	req.Source = strings.ToUpper(strings.TrimSpace(req.Source))
	req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))
	if req.Source == "" || req.Destination == "" {
		return req, domain.ValidationError{Field: "route", Msg: "source and destination are required", Err: domain.ErrInvalidRoute}
	}
	if req.Source == req.Destination {
		return req, domain.ValidationError{Field: "route", Msg: "source and destination cannot be the same", Err: domain.ErrInvalidRoute}
	}
	passengers, err := s.Validator.NormalizeAll(req.Passengers)
	if err != nil {
		return req, err
	}
	req.Passengers = passengers
	return req, nil
}

// Quote prices req and reports whether the seats are currently free.
func (s *BookingService) Quote(req BookingRequest) (Quote, error) {
	req, err := s.Normalize(req)
	if err != nil {
		return Quote{}, err
	}
	return s.quote(req)
}

func (s *BookingService) quote(req BookingRequest) (Quote, error) {
	t, err := s.Inventory.Train(req.TrainNo)
	if err != nil {
		return Quote{}, err
	}
	distance, err := domain.TotalDistance(t, req.Source, req.Destination)
	if err != nil {
		return Quote{}, err
	}
	q := Quote{
		TrainNo:     t.TrainNo,
		TrainName:   t.TrainName,
		Source:      req.Source,
		Destination: req.Destination,
		Distance:    distance,
		Passengers:  len(req.Passengers),
	}
	q.Fares, q.TotalFare, err = domain.AggregateFare(t, req.Source, req.Destination, req.Passengers)
	if err != nil {
		return Quote{}, err
	}
	if dep, arr, err := domain.JourneyTimes(t, req.Source, req.Destination); err == nil {
		q.DepartureAt, q.ArrivalAt = dep, arr
	}
	q.SeatsOK = domain.CheckDemand(t, req.Source, req.Destination, domain.InputClasses(req.Passengers)) == nil
	return q, nil
}

// Book reserves seats for every passenger and records the booking. If the
// ledger write fails the seats are given back.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (models.Booking, error) {
	req, err := s.Normalize(req)
	if err != nil {
		return models.Booking{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.quote(req)
	if err != nil {
		return models.Booking{}, err
	}
	classes := domain.InputClasses(req.Passengers)
	if err := s.Inventory.ReserveChecked(ctx, req.TrainNo, req.Source, req.Destination, classes); err != nil {
		return models.Booking{}, err
	}

	t, err := s.Inventory.Train(req.TrainNo)
	if err == nil {
		var b models.Booking
		b, err = s.Ledger.CreateBooking(ctx, t, req.Source, req.Destination, req.Passengers, q.Distance, q.TotalFare)
		if err == nil {
			utils.LogEvent(utils.RequestIDFrom(ctx), "booking", "book", fmt.Sprintf("booking_id=%s train=%d route=%s-%s fare=%s",
				b.BookingID, b.TrainNo, b.Source, b.Destination, utils.FormatAmount(b.TotalFare)))
			return b, nil
		}
	}

	if rerr := s.Inventory.Release(ctx, req.TrainNo, req.Source, req.Destination, classes); rerr != nil {
		utils.LogEvent(utils.RequestIDFrom(ctx), "booking", "book_revert", fmt.Sprintf("train=%d err=%v", req.TrainNo, rerr))
	}
	return models.Booking{}, err
}

// Cancel removes the passengers at the given 1-based ordinals from a booking.
func (s *BookingService) Cancel(ctx context.Context, bookingID string, ordinals []int) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.Ledger.CancelPassengers(ctx, strings.TrimSpace(bookingID), ordinals)
	if err != nil {
		return models.Booking{}, err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "booking", "cancel", fmt.Sprintf("booking_id=%s ordinals=%v", b.BookingID, ordinals))
	return b, nil
}
