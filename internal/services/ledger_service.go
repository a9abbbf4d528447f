package services

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"railbook/internal/domain"
	"railbook/internal/domain/models"
	"railbook/internal/repositories"
	"railbook/internal/utils"
)

// LedgerService keeps every booking in memory and mirrors it to Store:
// creation appends one record, cancellation rewrites the ledger.
type LedgerService struct {
	Store     repositories.BookingStore
	Inventory *InventoryService
	Now       func() time.Time

	mu       sync.Mutex
	bookings []models.Booking
	lastID   int64
}

func NewLedgerService(ctx context.Context, store repositories.BookingStore, inv *InventoryService) (*LedgerService, error) {
	bookings, err := store.LoadBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	s := &LedgerService{Store: store, Inventory: inv, bookings: bookings}
	for _, b := range bookings {
		if n, err := strconv.ParseInt(b.BookingID, 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}
	utils.LogEvent("", "ledger", "load", fmt.Sprintf("bookings=%d", len(bookings)))
	return s, nil
}

// NextBookingID is the current Unix time in milliseconds, bumped past the
// last issued id when the clock has not moved.
func (s *LedgerService) NextBookingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextIDLocked()
}

func (s *LedgerService) nextIDLocked() string {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *LedgerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// PassengerID is assigned once per passenger: "<bookingID>-P<ordinal>".
func PassengerID(bookingID string, ordinal int) string {
	return fmt.Sprintf("%s-P%d", bookingID, ordinal)
}

// CreateBooking records a booking whose seats are already reserved.
func (s *LedgerService) CreateBooking(ctx context.Context, t *models.Train, sourceCode, destCode string, passengers []models.PassengerInput, distance, fare float64) (models.Booking, error) {
	dep, arr, err := domain.JourneyTimes(t, sourceCode, destCode)
	if err != nil {
		return models.Booking{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextIDLocked()
	b := models.Booking{
		BookingID:     id,
		TrainNo:       t.TrainNo,
		TrainName:     t.TrainName,
		Source:        sourceCode,
		Destination:   destCode,
		TotalDistance: distance,
		TotalFare:     fare,
		DepartureTime: dep,
		ArrivalTime:   arr,
		Passengers:    make([]models.Passenger, 0, len(passengers)),
	}
	for i, p := range passengers {
		b.Passengers = append(b.Passengers, models.Passenger{
			PassengerID: PassengerID(id, i+1),
			Name:        p.Name,
			Age:         p.Age,
			SeatClass:   domain.ParseSeatClass(p.SeatClass).String(),
		})
	}

	if err := s.Store.AppendBooking(ctx, b); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "could not write booking", Err: err}
	}
	s.bookings = append(s.bookings, b)
	utils.LogEvent(utils.RequestIDFrom(ctx), "ledger", "create", fmt.Sprintf("booking_id=%s train=%d passengers=%d", id, t.TrainNo, len(passengers)))
	return cloneBooking(b), nil
}

// CancelPassengers removes the passengers at the given 1-based ordinals and
// releases their seats. Remaining passengers keep their ids. Nothing changes
// if any ordinal is out of range.
func (s *LedgerService) CancelPassengers(ctx context.Context, bookingID string, ordinals []int) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(bookingID)
	if idx < 0 {
		return models.Booking{}, domain.NotFoundError{Resource: "booking " + bookingID}
	}
	b := s.bookings[idx]

	drop, err := selectOrdinals(len(b.Passengers), ordinals)
	if err != nil {
		return models.Booking{}, err
	}

	cancelled := make([]models.Passenger, 0, len(drop))
	remaining := make([]models.Passenger, 0, len(b.Passengers)-len(drop))
	for i, p := range b.Passengers {
		if drop[i] {
			cancelled = append(cancelled, p)
		} else {
			remaining = append(remaining, p)
		}
	}
	classes := domain.PassengerClasses(cancelled)

	if err := s.Inventory.Release(ctx, b.TrainNo, b.Source, b.Destination, classes); err != nil {
		return models.Booking{}, err
	}

	updated := slices.Clone(s.bookings)
	updated[idx].Passengers = remaining
	if err := s.Store.RewriteBookings(ctx, updated); err != nil {
		if rerr := s.Inventory.Reserve(ctx, b.TrainNo, b.Source, b.Destination, classes); rerr != nil {
			utils.LogEvent(utils.RequestIDFrom(ctx), "ledger", "cancel_revert", fmt.Sprintf("booking_id=%s err=%v", bookingID, rerr))
		}
		return models.Booking{}, domain.InternalError{Msg: "could not rewrite booking ledger", Err: err}
	}
	s.bookings = updated
	utils.LogEvent(utils.RequestIDFrom(ctx), "ledger", "cancel", fmt.Sprintf("booking_id=%s cancelled=%d remaining=%d", bookingID, len(cancelled), len(remaining)))
	return cloneBooking(updated[idx]), nil
}

// selectOrdinals validates 1-based ordinals against n passengers and
// returns the 0-based positions to drop. Duplicates collapse.
func selectOrdinals(n int, ordinals []int) (map[int]bool, error) {
	if len(ordinals) == 0 {
		return nil, domain.ValidationError{Field: "passengers", Msg: "select at least one passenger", Err: domain.ErrInvalidSelection}
	}
	drop := make(map[int]bool, len(ordinals))
	for _, o := range ordinals {
		if o < 1 || o > n {
			return nil, domain.ValidationError{
				Field: "passengers",
				Msg:   fmt.Sprintf("passenger number %d is not between 1 and %d", o, n),
				Err:   domain.ErrInvalidSelection,
			}
		}
		drop[o-1] = true
	}
	return drop, nil
}

func (s *LedgerService) FindBooking(bookingID string) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(bookingID)
	if idx < 0 {
		return models.Booking{}, domain.NotFoundError{Resource: "booking " + bookingID}
	}
	return cloneBooking(s.bookings[idx]), nil
}

// Bookings lists the ledger in creation order.
func (s *LedgerService) Bookings() []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, cloneBooking(b))
	}
	return out
}

func (s *LedgerService) indexLocked(bookingID string) int {
	return slices.IndexFunc(s.bookings, func(b models.Booking) bool { return b.BookingID == bookingID })
}

func cloneBooking(b models.Booking) models.Booking {
	b.Passengers = slices.Clone(b.Passengers)
	if b.Passengers == nil {
		b.Passengers = []models.Passenger{}
	}
	return b
}
