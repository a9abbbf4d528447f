package repositories

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"railbook/internal/domain/models"
)

// ledgerLine is one line of bookings.txt.
type ledgerLine struct {
	BookingID     string            `json:"BookingID"`
	TrainName     string            `json:"Train_Name"`
	TrainNo       int               `json:"Train_No"`
	Source        string            `json:"Source"`
	Destination   string            `json:"Destination"`
	TotalDistance float64           `json:"Total_Distance"`
	TotalFare     float64           `json:"Total_Fare"`
	DepartureTime string            `json:"Departure_Time"`
	ArrivalTime   string            `json:"Arrival_Time"`
	Passengers    []ledgerPassenger `json:"passengers"`
}

type ledgerPassenger struct {
	PassengerID string `json:"passengerID"`
	Name        string `json:"name"`
	Age         int    `json:"age"`
	SeatClass   string `json:"seatClass"`
}

// BookingFileRepo is a newline-delimited JSON ledger.
type BookingFileRepo struct {
	Path string
}

// LoadBookings decodes every record in the ledger. Records are normally one
// per line, but records run together on one line are accepted too. A missing
// file is an empty ledger.
func (r BookingFileRepo) LoadBookings(ctx context.Context) ([]models.Booking, error) {
	f, err := os.Open(r.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Booking{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	out := []models.Booking{}
	dec := json.NewDecoder(bufio.NewReader(f))
	for dec.More() {
		var l ledgerLine
		if err := dec.Decode(&l); err != nil {
			return nil, fmt.Errorf("ledger record %d: %w", len(out)+1, err)
		}
		out = append(out, l.toModel())
	}
	return out, nil
}

// AppendBooking writes one line at the end of the ledger.
func (r BookingFileRepo) AppendBooking(ctx context.Context, b models.Booking) error {
	data, err := json.Marshal(fromBooking(b))
	if err != nil {
		return fmt.Errorf("encode booking: %w", err)
	}
	f, err := os.OpenFile(r.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("append ledger: %w", err)
	}
	return f.Close()
}

// RewriteBookings replaces the ledger with the given bookings, one per line.
func (r BookingFileRepo) RewriteBookings(ctx context.Context, bookings []models.Booking) error {
	var buf bytes.Buffer
	for _, b := range bookings {
		data, err := json.Marshal(fromBooking(b))
		if err != nil {
			return fmt.Errorf("encode booking %s: %w", b.BookingID, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return writeFileAtomic(r.Path, buf.Bytes())
}

func (l ledgerLine) toModel() models.Booking {
	b := models.Booking{
		BookingID:     l.BookingID,
		TrainNo:       l.TrainNo,
		TrainName:     l.TrainName,
		Source:        l.Source,
		Destination:   l.Destination,
		TotalDistance: l.TotalDistance,
		TotalFare:     l.TotalFare,
		DepartureTime: l.DepartureTime,
		ArrivalTime:   l.ArrivalTime,
		Passengers:    make([]models.Passenger, 0, len(l.Passengers)),
	}
	for _, p := range l.Passengers {
		b.Passengers = append(b.Passengers, models.Passenger(p))
	}
	return b
}

func fromBooking(b models.Booking) ledgerLine {
	l := ledgerLine{
		BookingID:     b.BookingID,
		TrainName:     b.TrainName,
		TrainNo:       b.TrainNo,
		Source:        b.Source,
		Destination:   b.Destination,
		TotalDistance: b.TotalDistance,
		TotalFare:     b.TotalFare,
		DepartureTime: b.DepartureTime,
		ArrivalTime:   b.ArrivalTime,
		Passengers:    make([]ledgerPassenger, 0, len(b.Passengers)),
	}
	for _, p := range b.Passengers {
		l.Passengers = append(l.Passengers, ledgerPassenger(p))
	}
	return l
}
