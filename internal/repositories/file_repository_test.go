package repositories

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"railbook/internal/domain/models"
)

const legacyTimetable = `[
  {
    "trainNo": 12001,
    "trainName": "Shatabdi Express",
    "source": {"name": "New Delhi", "code": "NDLS"},
    "destination": {"name": "Jaipur", "code": "JP"},
    "middleStops": [{"name": "Agra Cantt", "code": "AGC"}],
    "distances": [200, 240],
    "seatAvailability": {"GEN": [100, 100], "SL": [60, 60], "AC": [5, 3]},
    "fareStructure": {
      "baseFare": {"GEN": 50, "SL": 100, "AC": 300},
      "perKmFare": {"GEN": 0.5, "SL": 1, "AC": 2.5}
    },
    "segments": [
      {"from": "NDLS", "to": "AGC", "departureTime": "06:00", "arrivalTime": "08:00"},
      {"from": "AGC", "to": "JP", "departureTime": "08:10", "arrivalTime": "12:30"}
    ]
  }
]`

func writeTimetable(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trains.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write timetable: %v", err)
	}
	return path
}

func TestTrainFileRepoLoadsLegacyLayout(t *testing.T) {
	repo := TrainFileRepo{Path: writeTimetable(t, legacyTimetable)}
	trains, err := repo.LoadTrains(context.Background())
	if err != nil {
		t.Fatalf("LoadTrains: %v", err)
	}
	if len(trains) != 1 {
		t.Fatalf("expected 1 train, got %d", len(trains))
	}
	tr := trains[0]
	if tr.MiddleStops[0].Code != "AGC" || tr.Destination.Name != "Jaipur" {
		t.Fatalf("stations not decoded: %+v", tr)
	}
	ac := tr.FareStructure["AC"]
	if ac.BaseFare != 300 || ac.PerKmFare != 2.5 {
		t.Fatalf("AC fare = %+v, want base 300 perKm 2.5", ac)
	}
	if !slices.Equal(tr.SeatAvailability["AC"], []int{5, 3}) {
		t.Fatalf("AC seats = %v", tr.SeatAvailability["AC"])
	}
}

func TestTrainFileRepoRejectsBrokenTrain(t *testing.T) {
	broken := strings.Replace(legacyTimetable, `"distances": [200, 240]`, `"distances": [200]`, 1)
	repo := TrainFileRepo{Path: writeTimetable(t, broken)}
	if _, err := repo.LoadTrains(context.Background()); err == nil {
		t.Fatalf("expected error for distances/stops mismatch")
	}
}

func TestTrainFileRepoSavePersistsInventory(t *testing.T) {
	ctx := context.Background()
	repo := TrainFileRepo{Path: writeTimetable(t, legacyTimetable)}
	trains, err := repo.LoadTrains(ctx)
	if err != nil {
		t.Fatalf("LoadTrains: %v", err)
	}
	trains[0].SeatAvailability["AC"][1] = 0
	if err := repo.SaveTrains(ctx, trains); err != nil {
		t.Fatalf("SaveTrains: %v", err)
	}

	raw, err := os.ReadFile(repo.Path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(raw), `"baseFare": {`) {
		t.Fatalf("saved file lost the legacy fareStructure layout:\n%s", raw)
	}

	again, err := repo.LoadTrains(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !slices.Equal(again[0].SeatAvailability["AC"], []int{5, 0}) {
		t.Fatalf("AC seats after save = %v, want [5 0]", again[0].SeatAvailability["AC"])
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(repo.Path), ".trains.json-*"))
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func sampleBooking(id string, names ...string) models.Booking {
	b := models.Booking{
		BookingID:     id,
		TrainNo:       12001,
		TrainName:     "Shatabdi Express",
		Source:        "NDLS",
		Destination:   "JP",
		TotalDistance: 440,
		TotalFare:     2800,
		DepartureTime: "06:00",
		ArrivalTime:   "12:30",
	}
	for i, n := range names {
		b.Passengers = append(b.Passengers, models.Passenger{
			PassengerID: id + "-P" + string(rune('1'+i)),
			Name:        n,
			Age:         30 + i,
			SeatClass:   "AC",
		})
	}
	return b
}

func TestBookingFileRepoAppendAndRewrite(t *testing.T) {
	ctx := context.Background()
	repo := BookingFileRepo{Path: filepath.Join(t.TempDir(), "bookings.txt")}

	empty, err := repo.LoadBookings(ctx)
	if err != nil {
		t.Fatalf("missing ledger should load empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty ledger, got %d", len(empty))
	}

	first := sampleBooking("1700000000001", "Asha", "Ravi")
	second := sampleBooking("1700000000002", "Meera")
	if err := repo.AppendBooking(ctx, first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := repo.AppendBooking(ctx, second); err != nil {
		t.Fatalf("append second: %v", err)
	}

	raw, _ := os.ReadFile(repo.Path)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 ledger lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"BookingID":"1700000000001"`) || !strings.Contains(lines[0], `"passengerID":"1700000000001-P1"`) {
		t.Fatalf("unexpected ledger line: %s", lines[0])
	}

	first.Passengers = first.Passengers[1:]
	if err := repo.RewriteBookings(ctx, []models.Booking{first, second}); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	got, err := repo.LoadBookings(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || len(got[0].Passengers) != 1 || got[0].Passengers[0].PassengerID != "1700000000001-P2" {
		t.Fatalf("rewrite not reflected: %+v", got)
	}
}

func TestBookingFileRepoSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.txt")
	body := `{"BookingID":"1","Train_No":1,"passengers":[]}` + "\n\n" + `{"BookingID":"2","Train_No":1,"passengers":[]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := BookingFileRepo{Path: path}.LoadBookings(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[1].BookingID != "2" {
		t.Fatalf("unexpected bookings: %+v", got)
	}
}

func TestBookingFileRepoReadsRecordsOnOneLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.txt")
	// a rewrite without a trailing newline followed by an append
	body := `{"BookingID":"1","Train_No":1,"passengers":[]}` + "\n" +
		`{"BookingID":"2","Train_No":1,"passengers":[]}{"BookingID":"3","Train_No":1,"passengers":[{"passengerID":"3-P1","name":"Asha","age":31,"seatClass":"AC"}]}` + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	repo := BookingFileRepo{Path: path}
	got, err := repo.LoadBookings(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 3 || got[2].BookingID != "3" || len(got[2].Passengers) != 1 || got[2].Passengers[0].PassengerID != "3-P1" {
		t.Fatalf("unexpected bookings: %+v", got)
	}

	if err := os.WriteFile(path, []byte(`{"BookingID":"1"} not-json`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := repo.LoadBookings(context.Background()); err == nil {
		t.Fatalf("expected error for trailing garbage")
	}
}
