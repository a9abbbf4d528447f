package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	intconfig "railbook/internal/config"
	"railbook/internal/domain/models"
	"railbook/internal/repositories"
	"railbook/internal/services"
)

type harness struct {
	dir    string
	trains repositories.TrainFileRepo
	ledger repositories.BookingFileRepo
	inv    *services.InventoryService
	led    *services.LedgerService
	svc    *services.BookingService
}

func newHarness(t *testing.T) harness {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	h := harness{
		dir:    dir,
		trains: repositories.TrainFileRepo{Path: filepath.Join(dir, "trains.json")},
		ledger: repositories.BookingFileRepo{Path: filepath.Join(dir, "bookings.txt")},
	}
	train := &models.Train{
		TrainNo:     12001,
		TrainName:   "Shatabdi",
		Source:      models.Station{Name: "Alpha", Code: "A"},
		MiddleStops: []models.Station{{Name: "Bravo", Code: "B"}},
		Destination: models.Station{Name: "Charlie", Code: "C"},
		Distances:   []float64{10, 20},
		SeatAvailability: map[string][]int{
			"AC":  {5, 3},
			"GEN": {50, 50},
			"SL":  {0, 0},
		},
		FareStructure: map[string]models.FareRule{
			"AC":  {BaseFare: 100, PerKmFare: 2},
			"GEN": {BaseFare: 20, PerKmFare: 0.5},
			"SL":  {BaseFare: 50, PerKmFare: 1},
		},
		Segments: []models.Segment{
			{From: "A", To: "B", DepartureTime: "06:00", ArrivalTime: "07:00"},
			{From: "B", To: "C", DepartureTime: "07:10", ArrivalTime: "08:30"},
		},
	}
	if err := h.trains.SaveTrains(ctx, []*models.Train{train}); err != nil {
		t.Fatalf("seed trains: %v", err)
	}

	var err error
	h.inv, err = services.NewInventoryService(ctx, h.trains)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	h.led, err = services.NewLedgerService(ctx, h.ledger, h.inv)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	h.led.Now = func() time.Time { return time.UnixMilli(1700000000000) }
	h.svc = &services.BookingService{
		Inventory: h.inv,
		Ledger:    h.led,
		Validator: services.NewPassengerValidator(intconfig.DefaultSettings().Booking),
	}
	return h
}

func (h harness) run(t *testing.T, script ...string) string {
	t.Helper()
	var out bytes.Buffer
	s := New(strings.NewReader(strings.Join(script, "\n")+"\n"), &out)
	s.Bookings = h.svc
	s.Inventory = h.inv
	s.Ledger = h.led
	s.Docs = services.DocsService{Ledger: h.led}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func (h harness) seats(t *testing.T, class string) []int {
	t.Helper()
	tr, err := h.inv.Train(12001)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	return tr.SeatAvailability[class]
}

func TestBookThenCancel(t *testing.T) {
	h := newHarness(t)

	out := h.run(t,
		"1", "a", "c", "2", "12001",
		"Asha", "31", "ac",
		"Ravi", "40", "AC",
		"yes",
		"2", "1700000000000", "1", "yes",
		"3",
	)

	for _, want := range []string{
		"Available Places: Alpha (A), Charlie (C), Bravo (B)",
		"Shatabdi (12001)",
		"Total Distance: 30 km",
		"Total Fare: ₹320",
		"Booking ID: 1700000000000",
		"Passenger IDs: 1700000000000-P1, 1700000000000-P2",
		"Departure Time: 06:00",
		"Arrival Time: 08:30",
		"1. Asha (1700000000000-P1)",
		"Cancellation successful.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if got := h.seats(t, "AC"); !slices.Equal(got, []int{4, 2}) {
		t.Fatalf("AC seats = %v, want [4 2]", got)
	}

	bookings, err := h.ledger.LoadBookings(context.Background())
	if err != nil {
		t.Fatalf("LoadBookings: %v", err)
	}
	if len(bookings) != 1 || len(bookings[0].Passengers) != 1 || bookings[0].Passengers[0].PassengerID != "1700000000000-P2" {
		t.Fatalf("ledger after cancel = %+v", bookings)
	}
}

func TestBookingRepromptsInvalidFields(t *testing.T) {
	h := newHarness(t)

	out := h.run(t,
		"1", "Z", "C",
		"A", "A",
		"A", "C", "11",
		"A", "C", "1", "999",
		"A", "C", "1", "12001",
		"", "Meera", "abc", "0", "60", "FC", "gen",
		"no",
		"3",
	)

	for _, want := range []string{
		"Invalid source station code. Please try again.",
		"Source and destination cannot be the same.",
		"Invalid number of passengers. Please try again.",
		"Invalid train number. Please try again.",
		"Name cannot be empty. Please try again.",
		"Invalid age. Please enter a number between 1 and 120.",
		"Invalid class. Please enter GEN, SL, AC.",
		"Total Fare: ₹35",
		"Booking cancelled.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if got := h.seats(t, "GEN"); !slices.Equal(got, []int{50, 50}) {
		t.Fatalf("declined booking changed seats: %v", got)
	}
}

func TestBookingWithoutSeats(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "1", "A", "C", "1", "12001", "Dev", "9", "SL", "3")
	if !strings.Contains(out, "Seats not available. Please try again.") {
		t.Fatalf("expected seats message:\n%s", out)
	}
}

func TestCancelRejectsBadSelection(t *testing.T) {
	h := newHarness(t)

	out := h.run(t,
		"1", "A", "C", "1", "12001", "Asha", "31", "AC", "yes",
		"2", "unknown",
		"1700000000000", "0",
		"1700000000000", "2",
		"1700000000000", "1", "no",
		"3",
	)
	if strings.Count(out, "Invalid passenger selection. Please try again.") != 2 {
		t.Fatalf("expected two selection errors:\n%s", out)
	}
	for _, want := range []string{"Booking not found.", "Cancellation aborted."} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if got := h.seats(t, "AC"); !slices.Equal(got, []int{4, 2}) {
		t.Fatalf("AC seats = %v, want [4 2]", got)
	}
}

func TestMenuExitsOnEOFAndBadOption(t *testing.T) {
	h := newHarness(t)
	out := h.run(t, "9")
	if !strings.Contains(out, "Please choose a valid option.") || !strings.Contains(out, "Exiting....") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestBookingWritesTicket(t *testing.T) {
	h := newHarness(t)
	var out bytes.Buffer
	s := New(strings.NewReader("1\nA\nB\n1\n12001\nAsha\n31\nGEN\nyes\n3\n"), &out)
	s.Bookings, s.Inventory, s.Ledger = h.svc, h.inv, h.led
	s.Docs = services.DocsService{Ledger: h.led}
	s.TicketDir = filepath.Join(h.dir, "tickets")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	path := filepath.Join(s.TicketDir, "ETICKET_1700000000000_12001.pdf")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("ticket not written: %v\n%s", err, out.String())
	}
}
