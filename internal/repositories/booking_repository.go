package repositories

import (
	"context"
	"database/sql"

	intdb "railbook/internal/db"
	"railbook/internal/domain"
	"railbook/internal/domain/models"
)

// BookingRepo keeps the ledger in `bookings` and `booking_passengers`.
// Ledger order is insertion order (bookings.id).
type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) LoadBookings(ctx context.Context) ([]models.Booking, error) {
	if r.DB == nil || !intdb.HasTable(ctx, r.DB, "bookings") {
		return nil, domain.NotFoundError{Resource: "bookings table", Err: domain.ErrNotFound}
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT booking_id, train_no, train_name, source, destination,
		       total_distance, total_fare,
		       COALESCE(departure_time, ''), COALESCE(arrival_time, '')
		FROM bookings
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	index := map[string]int{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.BookingID,
			&b.TrainNo,
			&b.TrainName,
			&b.Source,
			&b.Destination,
			&b.TotalDistance,
			&b.TotalFare,
			&b.DepartureTime,
			&b.ArrivalTime,
		); err != nil {
			return nil, err
		}
		b.Passengers = []models.Passenger{}
		index[b.BookingID] = len(out)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prow, err := r.DB.QueryContext(ctx, `
		SELECT booking_id, passenger_id, name, age, seat_class
		FROM booking_passengers
		ORDER BY booking_id ASC, ordinal ASC
	`)
	if err != nil {
		return nil, err
	}
	defer prow.Close()

	for prow.Next() {
		var (
			bookingID string
			p         models.Passenger
		)
		if err := prow.Scan(&bookingID, &p.PassengerID, &p.Name, &p.Age, &p.SeatClass); err != nil {
			return nil, err
		}
		i, ok := index[bookingID]
		if !ok {
			continue
		}
		out[i].Passengers = append(out[i].Passengers, p)
	}
	return out, prow.Err()
}

func (r BookingRepo) AppendBooking(ctx context.Context, b models.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (booking_id, train_no, train_name, source, destination, total_distance, total_fare, departure_time, arrival_time)
		VALUES (?,?,?,?,?,?,?,?,?)
	`,
		b.BookingID, b.TrainNo, b.TrainName, b.Source, b.Destination,
		b.TotalDistance, b.TotalFare,
		intdb.NullIfEmpty(b.DepartureTime), intdb.NullIfEmpty(b.ArrivalTime),
	); err != nil {
		return err
	}
	if err := insertPassengers(ctx, tx, b); err != nil {
		return err
	}
	return tx.Commit()
}

// RewriteBookings replaces the passenger rows of every booking in one
// transaction. Booking headers never change after creation.
func (r BookingRepo) RewriteBookings(ctx context.Context, bookings []models.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, b := range bookings {
		if _, err := tx.ExecContext(ctx, `DELETE FROM booking_passengers WHERE booking_id=?`, b.BookingID); err != nil {
			return err
		}
		if err := insertPassengers(ctx, tx, b); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertPassengers(ctx context.Context, tx *sql.Tx, b models.Booking) error {
	for i, p := range b.Passengers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO booking_passengers (passenger_id, booking_id, ordinal, name, age, seat_class)
			VALUES (?,?,?,?,?,?)
		`, p.PassengerID, b.BookingID, i+1, p.Name, p.Age, p.SeatClass); err != nil {
			return err
		}
	}
	return nil
}
