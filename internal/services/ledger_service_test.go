package services

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"railbook/internal/domain"
	"railbook/internal/domain/models"
)

func TestNextBookingIDStrictlyIncreases(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	s := &LedgerService{Now: func() time.Time { return fixed }}

	first := s.NextBookingID()
	second := s.NextBookingID()
	if first != "1700000000000" {
		t.Fatalf("first id = %s", first)
	}
	if second != "1700000000001" {
		t.Fatalf("same-tick id should bump, got %s", second)
	}
}

func TestNewLedgerSeedsIDsFromLoadedBookings(t *testing.T) {
	store := &memBookingStore{bookings: []models.Booking{{BookingID: "1900000000000"}}}
	s, err := NewLedgerService(context.Background(), store, nil)
	if err != nil {
		t.Fatalf("NewLedgerService: %v", err)
	}
	s.Now = func() time.Time { return time.UnixMilli(1700000000000) }
	if id := s.NextBookingID(); id != "1900000000001" {
		t.Fatalf("id after reload = %s, want 1900000000001", id)
	}
}

func TestPassengerID(t *testing.T) {
	if got := PassengerID("1700000000000", 3); got != "1700000000000-P3" {
		t.Fatalf("got %s", got)
	}
}

func bookTwoAC(t *testing.T, f fixture) models.Booking {
	t.Helper()
	b, err := f.bookings.Book(context.Background(), BookingRequest{
		TrainNo:     12001,
		Source:      "A",
		Destination: "C",
		Passengers: []models.PassengerInput{
			{Name: "Asha", Age: 31, SeatClass: "AC"},
			{Name: "Ravi", Age: 40, SeatClass: "ac"},
		},
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	return b
}

func TestCreateBookingRecordsJourney(t *testing.T) {
	f := newFixture(t)
	b := bookTwoAC(t, f)

	if b.DepartureTime != "06:00" || b.ArrivalTime != "08:30" {
		t.Fatalf("times = %s/%s, want 06:00/08:30", b.DepartureTime, b.ArrivalTime)
	}
	if b.TotalDistance != 30 || b.TotalFare != 320 {
		t.Fatalf("distance/fare = %v/%v, want 30/320", b.TotalDistance, b.TotalFare)
	}
	if b.Passengers[1].PassengerID != b.BookingID+"-P2" || b.Passengers[1].SeatClass != "AC" {
		t.Fatalf("second passenger = %+v", b.Passengers[1])
	}
	if f.ledger.appends != 1 || f.ledger.rewrites != 0 {
		t.Fatalf("create should append once, got appends=%d rewrites=%d", f.ledger.appends, f.ledger.rewrites)
	}
}

func TestCreateBookingWithoutSegment(t *testing.T) {
	f := newFixture(t)
	tr := testTrain()
	tr.Segments = tr.Segments[:1]

	_, err := f.led.CreateBooking(context.Background(), tr, "A", "C", []models.PassengerInput{{Name: "X", Age: 20, SeatClass: "AC"}}, 30, 160)
	if !errors.Is(err, domain.ErrNoSegmentTimetable) {
		t.Fatalf("expected ErrNoSegmentTimetable, got %v", err)
	}
	if f.ledger.appends != 0 {
		t.Fatalf("nothing should be written")
	}
}

func TestCancelFirstPassengerReleasesSeats(t *testing.T) {
	f := newFixture(t)
	b := bookTwoAC(t, f)
	if got := f.seats(t, "AC"); !slices.Equal(got, []int{3, 1}) {
		t.Fatalf("after booking seats = %v, want [3 1]", got)
	}

	updated, err := f.bookings.Cancel(context.Background(), b.BookingID, []int{1})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got := f.seats(t, "AC"); !slices.Equal(got, []int{4, 2}) {
		t.Fatalf("after cancel seats = %v, want [4 2]", got)
	}
	if len(updated.Passengers) != 1 || updated.Passengers[0].PassengerID != b.BookingID+"-P2" {
		t.Fatalf("remaining passengers = %+v", updated.Passengers)
	}
	if f.ledger.rewrites != 1 || len(f.ledger.lastRewritten[0].Passengers) != 1 {
		t.Fatalf("cancel should rewrite the ledger once: %+v", f.ledger.lastRewritten)
	}

	stored, err := f.led.FindBooking(b.BookingID)
	if err != nil || len(stored.Passengers) != 1 {
		t.Fatalf("FindBooking after cancel = %+v, %v", stored, err)
	}
}

func TestCancelInvalidSelectionChangesNothing(t *testing.T) {
	f := newFixture(t)
	b := bookTwoAC(t, f)

	for _, ordinals := range [][]int{{0}, {3}, {1, 3}, {}} {
		_, err := f.bookings.Cancel(context.Background(), b.BookingID, ordinals)
		if !errors.Is(err, domain.ErrInvalidSelection) {
			t.Fatalf("ordinals %v: expected ErrInvalidSelection, got %v", ordinals, err)
		}
	}
	if got := f.seats(t, "AC"); !slices.Equal(got, []int{3, 1}) {
		t.Fatalf("seats changed by invalid selection: %v", got)
	}
	if f.ledger.rewrites != 0 {
		t.Fatalf("ledger rewritten on invalid selection")
	}
	stored, _ := f.led.FindBooking(b.BookingID)
	if len(stored.Passengers) != 2 {
		t.Fatalf("passengers removed on invalid selection")
	}
}

func TestCancelDuplicateOrdinalsCollapse(t *testing.T) {
	f := newFixture(t)
	b := bookTwoAC(t, f)

	updated, err := f.bookings.Cancel(context.Background(), b.BookingID, []int{2, 2})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(updated.Passengers) != 1 || updated.Passengers[0].Name != "Asha" {
		t.Fatalf("remaining = %+v", updated.Passengers)
	}
	if got := f.seats(t, "AC"); !slices.Equal(got, []int{4, 2}) {
		t.Fatalf("duplicate ordinal released twice: %v", got)
	}
}

func TestCancelUnknownBooking(t *testing.T) {
	f := newFixture(t)
	if _, err := f.bookings.Cancel(context.Background(), "nope", []int{1}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancelRewriteFailureRestoresSeats(t *testing.T) {
	f := newFixture(t)
	b := bookTwoAC(t, f)
	f.ledger.failRewrite = errStoreDown

	if _, err := f.bookings.Cancel(context.Background(), b.BookingID, []int{1}); !domain.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if got := f.seats(t, "AC"); !slices.Equal(got, []int{3, 1}) {
		t.Fatalf("seats after failed rewrite = %v, want [3 1]", got)
	}
	stored, _ := f.led.FindBooking(b.BookingID)
	if len(stored.Passengers) != 2 {
		t.Fatalf("passengers removed although rewrite failed")
	}
}
