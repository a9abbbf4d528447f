package models

// Booking is one confirmed reservation. TrainNo is a lookup key into the
// timetable, not an owning reference.
type Booking struct {
	BookingID     string      `json:"bookingId"`
	TrainNo       int         `json:"trainNo"`
	TrainName     string      `json:"trainName"`
	Source        string      `json:"source"`
	Destination   string      `json:"destination"`
	TotalDistance float64     `json:"totalDistance"`
	TotalFare     float64     `json:"totalFare"`
	DepartureTime string      `json:"departureTime"`
	ArrivalTime   string      `json:"arrivalTime"`
	Passengers    []Passenger `json:"passengers"`
}

// Passenger is a traveller on a booking. PassengerID is assigned once at
// booking time and never recomputed.
type Passenger struct {
	PassengerID string `json:"passengerId"`
	Name        string `json:"name"`
	Age         int    `json:"age"`
	SeatClass   string `json:"seatClass"`
}

// PassengerInput carries passenger details before a booking exists.
type PassengerInput struct {
	Name      string `json:"name" validate:"required"`
	Age       int    `json:"age" validate:"gte=0"`
	SeatClass string `json:"seatClass" validate:"required"`
}
