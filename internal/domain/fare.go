package domain

import "railbook/internal/domain/models"

// TotalDistance sums the segment distances between the two stops.
func TotalDistance(t *models.Train, sourceCode, destCode string) (float64, error) {
	start, end, err := SegmentRange(t, sourceCode, destCode)
	if err != nil {
		return 0, err
	}
	return sumDistances(t, start, end), nil
}

func sumDistances(t *models.Train, start, end int) float64 {
	var total float64
	for i := start; i < end; i++ {
		total += t.Distances[i]
	}
	return total
}

// TotalFare prices a single passenger of the given class:
// baseFare + distance * perKmFare.
func TotalFare(t *models.Train, sourceCode, destCode string, class SeatClass) (float64, error) {
	rule, ok := t.FareStructure[class.String()]
	if !ok {
		return 0, unknownClass(class)
	}
	distance, err := TotalDistance(t, sourceCode, destCode)
	if err != nil {
		return 0, err
	}
	return rule.BaseFare + distance*rule.PerKmFare, nil
}

// AggregateFare prices each passenger in their own class and returns the
// per-passenger fares with their sum.
func AggregateFare(t *models.Train, sourceCode, destCode string, passengers []models.PassengerInput) ([]float64, float64, error) {
	fares := make([]float64, 0, len(passengers))
	var total float64
	for _, p := range passengers {
		fare, err := TotalFare(t, sourceCode, destCode, ParseSeatClass(p.SeatClass))
		if err != nil {
			return nil, 0, err
		}
		fares = append(fares, fare)
		total += fare
	}
	return fares, total, nil
}
