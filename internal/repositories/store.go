package repositories

import (
	"context"

	"railbook/internal/domain/models"
)

// TrainStore loads the timetable and persists inventory. SaveTrains always
// receives the full collection.
type TrainStore interface {
	LoadTrains(ctx context.Context) ([]*models.Train, error)
	SaveTrains(ctx context.Context, trains []*models.Train) error
}

// BookingStore is the booking ledger. New bookings are appended; a
// cancellation rewrites every booking.
type BookingStore interface {
	LoadBookings(ctx context.Context) ([]models.Booking, error)
	AppendBooking(ctx context.Context, b models.Booking) error
	RewriteBookings(ctx context.Context, bookings []models.Booking) error
}
