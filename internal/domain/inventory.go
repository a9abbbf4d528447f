package domain

import (
	"fmt"
	"math"

	"railbook/internal/domain/models"
)

// SeatsLeft is the smallest remaining count for class over the journey's
// segment range, i.e. how many more passengers of that class could board.
func SeatsLeft(t *models.Train, sourceCode, destCode string, class SeatClass) (int, error) {
	start, end, err := SegmentRange(t, sourceCode, destCode)
	if err != nil {
		return 0, err
	}
	cells, err := classCells(t, class, end)
	if err != nil {
		return 0, err
	}
	left := math.MaxInt
	for i := start; i < end; i++ {
		if cells[i] < left {
			left = cells[i]
		}
	}
	return left, nil
}

// HasCapacity reports whether one more passenger of class fits on every
// segment of the journey.
func HasCapacity(t *models.Train, sourceCode, destCode string, class SeatClass) (bool, error) {
	left, err := SeatsLeft(t, sourceCode, destCode, class)
	if err != nil {
		return false, err
	}
	return left >= 1, nil
}

// CheckDemand verifies that every class can absorb all of its passengers at
// once, which HasCapacity alone does not guarantee for groups.
func CheckDemand(t *models.Train, sourceCode, destCode string, classes []SeatClass) error {
	for _, class := range orderedClasses(classes) {
		need := countClass(classes, class)
		left, err := SeatsLeft(t, sourceCode, destCode, class)
		if err != nil {
			return err
		}
		if left < need {
			return ConflictError{
				Resource: "seats",
				Msg:      fmt.Sprintf("%d %s seat(s) requested, %d available from %s to %s", need, class, max(left, 0), sourceCode, destCode),
				Err:      ErrNoCapacity,
			}
		}
	}
	return nil
}

// AdjustSeats adds delta to every touched cell once per entry in classes:
// -1 reserves, +1 releases. Classes are validated before any cell changes.
// It performs no capacity check; callers reserve only after HasCapacity or
// CheckDemand.
func AdjustSeats(t *models.Train, sourceCode, destCode string, classes []SeatClass, delta int) error {
	start, end, err := SegmentRange(t, sourceCode, destCode)
	if err != nil {
		return err
	}
	for _, class := range classes {
		if _, err := classCells(t, class, end); err != nil {
			return err
		}
	}
	for _, class := range classes {
		cells := t.SeatAvailability[class.String()]
		for i := start; i < end; i++ {
			cells[i] += delta
		}
	}
	return nil
}

func classCells(t *models.Train, class SeatClass, end int) ([]int, error) {
	cells, ok := t.SeatAvailability[class.String()]
	if !ok {
		return nil, ValidationError{Field: "seat_class", Msg: fmt.Sprintf("train %d has no %s inventory", t.TrainNo, class), Err: ErrUnknownClass}
	}
	if len(cells) < end {
		return nil, InternalError{Msg: fmt.Sprintf("train %d: %s inventory covers %d segments, need %d", t.TrainNo, class, len(cells), end)}
	}
	return cells, nil
}

func orderedClasses(classes []SeatClass) []SeatClass {
	out := []SeatClass{}
	for _, c := range classes {
		if !c.In(out) {
			out = append(out, c)
		}
	}
	return out
}

func countClass(classes []SeatClass, class SeatClass) int {
	n := 0
	for _, c := range classes {
		if c == class {
			n++
		}
	}
	return n
}

// PassengerClasses extracts seat classes in passenger order.
func PassengerClasses(passengers []models.Passenger) []SeatClass {
	out := make([]SeatClass, len(passengers))
	for i, p := range passengers {
		out[i] = ParseSeatClass(p.SeatClass)
	}
	return out
}

// InputClasses is PassengerClasses for passengers not yet booked.
func InputClasses(passengers []models.PassengerInput) []SeatClass {
	out := make([]SeatClass, len(passengers))
	for i, p := range passengers {
		out[i] = ParseSeatClass(p.SeatClass)
	}
	return out
}
