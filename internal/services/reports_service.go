package services

import (
	"maps"
	"slices"

	"railbook/internal/domain"
)

type ReportFilter struct {
	TrainNo int
}

// TrainReport summarizes the ledger and remaining inventory of one train.
type TrainReport struct {
	TrainNo           int              `json:"trainNo"`
	TrainName         string           `json:"trainName"`
	Bookings          int              `json:"bookings"`
	Passengers        int              `json:"passengers"`
	PassengersByClass map[string]int   `json:"passengersByClass"`
	FareBooked        float64          `json:"fareBooked"`
	SeatsLeft         map[string][]int `json:"seatsLeft"`
}

type ReportsService struct {
	Inventory *InventoryService
	Ledger    *LedgerService
}

// TrainReports returns one report per train, ordered by train number.
// Bookings whose passengers were all cancelled are not counted, and
// FareBooked keeps the fare recorded at booking time.
func (s ReportsService) TrainReports(f ReportFilter) ([]TrainReport, error) {
	trains := s.Inventory.Snapshot()
	if f.TrainNo != 0 {
		t, err := domain.FindTrain(trains, f.TrainNo)
		if err != nil {
			return nil, err
		}
		trains = trains[:0]
		trains = append(trains, t)
	}

	byNo := map[int]*TrainReport{}
	for _, t := range trains {
		seats := make(map[string][]int, len(t.SeatAvailability))
		for class, cells := range t.SeatAvailability {
			seats[class] = slices.Clone(cells)
		}
		byNo[t.TrainNo] = &TrainReport{
			TrainNo:           t.TrainNo,
			TrainName:         t.TrainName,
			PassengersByClass: map[string]int{},
			SeatsLeft:         seats,
		}
	}

	for _, b := range s.Ledger.Bookings() {
		r, ok := byNo[b.TrainNo]
		if !ok || len(b.Passengers) == 0 {
			continue
		}
		r.Bookings++
		r.Passengers += len(b.Passengers)
		r.FareBooked += b.TotalFare
		for _, p := range b.Passengers {
			r.PassengersByClass[p.SeatClass]++
		}
	}

	out := make([]TrainReport, 0, len(byNo))
	for _, no := range slices.Sorted(maps.Keys(byNo)) {
		out = append(out, *byNo[no])
	}
	return out, nil
}
