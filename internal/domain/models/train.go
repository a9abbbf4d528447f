package models

// Station is a stop a train calls at. Code is unique within one train's stop list.
type Station struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// FareRule prices one seat class.
type FareRule struct {
	BaseFare  float64 `json:"baseFare"`
	PerKmFare float64 `json:"perKmFare"`
}

// Segment is the timetable entry for the leg From -> To.
type Segment struct {
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
}

// Train is a service with an ordered stop list. Distances and every
// SeatAvailability slice have one entry per segment (len(stops)-1).
type Train struct {
	TrainNo          int                 `json:"trainNo"`
	TrainName        string              `json:"trainName"`
	Source           Station             `json:"source"`
	MiddleStops      []Station           `json:"middleStops"`
	Destination      Station             `json:"destination"`
	Distances        []float64           `json:"distances"`
	SeatAvailability map[string][]int    `json:"seatAvailability"`
	FareStructure    map[string]FareRule `json:"fareStructure"`
	Segments         []Segment           `json:"segments"`
}

// Stations returns source, middle stops and destination in travel order.
func (t *Train) Stations() []Station {
	out := make([]Station, 0, len(t.MiddleStops)+2)
	out = append(out, t.Source)
	out = append(out, t.MiddleStops...)
	out = append(out, t.Destination)
	return out
}

// Clone returns a deep copy, used to snapshot inventory before a mutation.
func (t *Train) Clone() *Train {
	c := *t
	c.MiddleStops = append([]Station(nil), t.MiddleStops...)
	c.Distances = append([]float64(nil), t.Distances...)
	c.Segments = append([]Segment(nil), t.Segments...)
	c.SeatAvailability = make(map[string][]int, len(t.SeatAvailability))
	for k, v := range t.SeatAvailability {
		c.SeatAvailability[k] = append([]int(nil), v...)
	}
	c.FareStructure = make(map[string]FareRule, len(t.FareStructure))
	for k, v := range t.FareStructure {
		c.FareStructure[k] = v
	}
	return &c
}
