package domain

import (
	"fmt"
	"iter"
	"slices"

	"railbook/internal/domain/models"
)

// StopSequence returns the train's stop codes in travel order.
func StopSequence(t *models.Train) []string {
	stations := t.Stations()
	out := make([]string, len(stations))
	for i, s := range stations {
		out[i] = s.Code
	}
	return out
}

// SegmentRange resolves a journey to the half-open segment range [start, end)
// it crosses. The first occurrence of each code is used and the source must
// strictly precede the destination.
func SegmentRange(t *models.Train, sourceCode, destCode string) (int, int, error) {
	stops := StopSequence(t)
	start := slices.Index(stops, sourceCode)
	if start < 0 {
		return 0, 0, invalidRoute(fmt.Sprintf("train %d does not stop at %s", t.TrainNo, sourceCode))
	}
	end := slices.Index(stops, destCode)
	if end < 0 {
		return 0, 0, invalidRoute(fmt.Sprintf("train %d does not stop at %s", t.TrainNo, destCode))
	}
	if start >= end {
		return 0, 0, invalidRoute(fmt.Sprintf("%s does not precede %s on train %d", sourceCode, destCode, t.TrainNo))
	}
	return start, end, nil
}

// TrainsServing yields the trains that run sourceCode -> destCode in that
// direction. Trains that fail the ordering check are skipped.
func TrainsServing(trains []*models.Train, sourceCode, destCode string) iter.Seq[*models.Train] {
	return func(yield func(*models.Train) bool) {
		for _, t := range trains {
			if _, _, err := SegmentRange(t, sourceCode, destCode); err != nil {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// AllPlaces lists every station across all trains as "name (code)",
// deduplicated by exact string and kept in first-seen order.
func AllPlaces(trains []*models.Train) []string {
	seen := map[string]struct{}{}
	out := []string{}
	add := func(s models.Station) {
		label := fmt.Sprintf("%s (%s)", s.Name, s.Code)
		if _, ok := seen[label]; ok {
			return
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	for _, t := range trains {
		add(t.Source)
		add(t.Destination)
		for _, s := range t.MiddleStops {
			add(s)
		}
	}
	return out
}

// KnownCode reports whether any train calls at code.
func KnownCode(trains []*models.Train, code string) bool {
	for _, t := range trains {
		if slices.Contains(StopSequence(t), code) {
			return true
		}
	}
	return false
}

// FindTrain looks a train up by number.
func FindTrain(trains []*models.Train, trainNo int) (*models.Train, error) {
	for _, t := range trains {
		if t.TrainNo == trainNo {
			return t, nil
		}
	}
	return nil, NotFoundError{Resource: fmt.Sprintf("train %d", trainNo), Err: ErrNotFound}
}
