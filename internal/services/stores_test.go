package services

import (
	"context"
	"errors"
	"slices"
	"testing"

	intconfig "railbook/internal/config"
	"railbook/internal/domain/models"
)

var errStoreDown = errors.New("store down")

type memTrainStore struct {
	trains  []*models.Train
	saved   []*models.Train
	saves   int
	failErr error
}

func (m *memTrainStore) LoadTrains(ctx context.Context) ([]*models.Train, error) {
	return m.trains, nil
}

func (m *memTrainStore) SaveTrains(ctx context.Context, trains []*models.Train) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.saved = m.saved[:0]
	for _, t := range trains {
		m.saved = append(m.saved, t.Clone())
	}
	return nil
}

type memBookingStore struct {
	bookings      []models.Booking
	appends       int
	rewrites      int
	failAppend    error
	failRewrite   error
	lastRewritten []models.Booking
}

func (m *memBookingStore) LoadBookings(ctx context.Context) ([]models.Booking, error) {
	return slices.Clone(m.bookings), nil
}

func (m *memBookingStore) AppendBooking(ctx context.Context, b models.Booking) error {
	if m.failAppend != nil {
		return m.failAppend
	}
	m.appends++
	m.bookings = append(m.bookings, b)
	return nil
}

func (m *memBookingStore) RewriteBookings(ctx context.Context, bookings []models.Booking) error {
	if m.failRewrite != nil {
		return m.failRewrite
	}
	m.rewrites++
	m.lastRewritten = slices.Clone(bookings)
	m.bookings = slices.Clone(bookings)
	return nil
}

// testTrain runs A -> B -> C with 10 km and 20 km legs.
func testTrain() *models.Train {
	return &models.Train{
		TrainNo:     12001,
		TrainName:   "Shatabdi",
		Source:      models.Station{Name: "Alpha", Code: "A"},
		MiddleStops: []models.Station{{Name: "Bravo", Code: "B"}},
		Destination: models.Station{Name: "Charlie", Code: "C"},
		Distances:   []float64{10, 20},
		SeatAvailability: map[string][]int{
			"AC":  {5, 3},
			"GEN": {50, 50},
		},
		FareStructure: map[string]models.FareRule{
			"AC":  {BaseFare: 100, PerKmFare: 2},
			"GEN": {BaseFare: 20, PerKmFare: 0.5},
		},
		Segments: []models.Segment{
			{From: "A", To: "B", DepartureTime: "06:00", ArrivalTime: "07:00"},
			{From: "B", To: "C", DepartureTime: "07:10", ArrivalTime: "08:30"},
		},
	}
}

type fixture struct {
	trains   *memTrainStore
	ledger   *memBookingStore
	inv      *InventoryService
	led      *LedgerService
	bookings *BookingService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	ts := &memTrainStore{trains: []*models.Train{testTrain()}}
	bs := &memBookingStore{}
	inv, err := NewInventoryService(ctx, ts)
	if err != nil {
		t.Fatalf("NewInventoryService: %v", err)
	}
	led, err := NewLedgerService(ctx, bs, inv)
	if err != nil {
		t.Fatalf("NewLedgerService: %v", err)
	}
	return fixture{
		trains: ts,
		ledger: bs,
		inv:    inv,
		led:    led,
		bookings: &BookingService{
			Inventory: inv,
			Ledger:    led,
			Validator: NewPassengerValidator(intconfig.DefaultSettings().Booking),
		},
	}
}

func (f fixture) seats(t *testing.T, class string) []int {
	t.Helper()
	tr, err := f.inv.Train(12001)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	return tr.SeatAvailability[class]
}
