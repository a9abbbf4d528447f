package domain

import (
	"fmt"

	"railbook/internal/domain/models"
)

// CheckTrain verifies the structural invariants of a loaded train: unique stop
// codes, one distance and one inventory cell per segment, nothing negative.
func CheckTrain(t *models.Train) error {
	stops := StopSequence(t)
	if len(stops) < 2 {
		return trainError(t, "needs at least two stops")
	}
	seen := map[string]bool{}
	for _, code := range stops {
		if code == "" {
			return trainError(t, "empty station code")
		}
		if seen[code] {
			return trainError(t, fmt.Sprintf("station %s listed twice", code))
		}
		seen[code] = true
	}
	segments := len(stops) - 1
	if len(t.Distances) != segments {
		return trainError(t, fmt.Sprintf("%d distances for %d segments", len(t.Distances), segments))
	}
	for i, d := range t.Distances {
		if d < 0 {
			return trainError(t, fmt.Sprintf("negative distance on segment %d", i))
		}
	}
	for class, cells := range t.SeatAvailability {
		if len(cells) != segments {
			return trainError(t, fmt.Sprintf("%s inventory has %d cells for %d segments", class, len(cells), segments))
		}
		for i, n := range cells {
			if n < 0 {
				return trainError(t, fmt.Sprintf("%s inventory negative on segment %d", class, i))
			}
		}
	}
	return nil
}

func trainError(t *models.Train, msg string) error {
	return ValidationError{Field: fmt.Sprintf("train %d", t.TrainNo), Msg: msg}
}

// JourneyTimes returns the departure time at sourceCode and the arrival time
// at destCode from the train's segment timetable.
func JourneyTimes(t *models.Train, sourceCode, destCode string) (string, string, error) {
	var dep, arr *models.Segment
	for i := range t.Segments {
		if dep == nil && t.Segments[i].From == sourceCode {
			dep = &t.Segments[i]
		}
		if arr == nil && t.Segments[i].To == destCode {
			arr = &t.Segments[i]
		}
	}
	if dep == nil || arr == nil {
		return "", "", InternalError{
			Msg: fmt.Sprintf("train %d has no timetable for %s -> %s", t.TrainNo, sourceCode, destCode),
			Err: ErrNoSegmentTimetable,
		}
	}
	return dep.DepartureTime, arr.ArrivalTime, nil
}
