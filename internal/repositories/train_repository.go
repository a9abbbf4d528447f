package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	intdb "railbook/internal/db"
	"railbook/internal/domain"
	"railbook/internal/domain/models"
)

// timetableDoc is the static part of a train, stored as JSON in trains.timetable.
type timetableDoc struct {
	Source        models.Station             `json:"source"`
	Destination   models.Station             `json:"destination"`
	MiddleStops   []models.Station           `json:"middleStops"`
	Distances     []float64                  `json:"distances"`
	FareStructure map[string]models.FareRule `json:"fareStructure"`
	Segments      []models.Segment           `json:"segments"`
}

// TrainRepo stores timetables in `trains` and inventory in `segment_seats`,
// one row per (train, class, segment).
type TrainRepo struct {
	DB *sql.DB
}

func (r TrainRepo) LoadTrains(ctx context.Context) ([]*models.Train, error) {
	if r.DB == nil || !intdb.HasTable(ctx, r.DB, "trains") {
		return nil, domain.NotFoundError{Resource: "trains table", Err: domain.ErrNotFound}
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT train_no, train_name, timetable FROM trains ORDER BY train_no ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Train{}
	byNo := map[int]*models.Train{}
	for rows.Next() {
		var (
			no   int
			name string
			raw  []byte
		)
		if err := rows.Scan(&no, &name, &raw); err != nil {
			return nil, err
		}
		var doc timetableDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("train %d timetable: %w", no, err)
		}
		t := &models.Train{
			TrainNo:          no,
			TrainName:        name,
			Source:           doc.Source,
			Destination:      doc.Destination,
			MiddleStops:      doc.MiddleStops,
			Distances:        doc.Distances,
			SeatAvailability: map[string][]int{},
			FareStructure:    doc.FareStructure,
			Segments:         doc.Segments,
		}
		if t.FareStructure == nil {
			t.FareStructure = map[string]models.FareRule{}
		}
		out = append(out, t)
		byNo[no] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadSeats(ctx, byNo); err != nil {
		return nil, err
	}
	for _, t := range out {
		if err := domain.CheckTrain(t); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r TrainRepo) loadSeats(ctx context.Context, byNo map[int]*models.Train) error {
	rows, err := r.DB.QueryContext(ctx, `SELECT train_no, seat_class, seg_index, available FROM segment_seats ORDER BY train_no, seat_class, seg_index`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			no, idx, available int
			class              string
		)
		if err := rows.Scan(&no, &class, &idx, &available); err != nil {
			return err
		}
		t, ok := byNo[no]
		if !ok {
			continue
		}
		segments := len(t.Distances)
		if idx < 0 || idx >= segments {
			return fmt.Errorf("train %d: seat row for segment %d outside %d segments", no, idx, segments)
		}
		cells, ok := t.SeatAvailability[class]
		if !ok {
			cells = make([]int, segments)
			t.SeatAvailability[class] = cells
		}
		cells[idx] = available
	}
	return rows.Err()
}

// SaveTrains writes every inventory cell of every train in one transaction.
func (r TrainRepo) SaveTrains(ctx context.Context, trains []*models.Train) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsertSeats(ctx, tx, trains); err != nil {
		return err
	}
	return tx.Commit()
}

// SeedTrains imports timetables and inventory, typically from trains.json
// into an empty database.
func (r TrainRepo) SeedTrains(ctx context.Context, trains []*models.Train) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range trains {
		doc, err := json.Marshal(timetableDoc{
			Source:        t.Source,
			Destination:   t.Destination,
			MiddleStops:   t.MiddleStops,
			Distances:     t.Distances,
			FareStructure: t.FareStructure,
			Segments:      t.Segments,
		})
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO trains (train_no, train_name, timetable) VALUES (?,?,?)
			ON DUPLICATE KEY UPDATE train_name=VALUES(train_name), timetable=VALUES(timetable)`,
			t.TrainNo, t.TrainName, doc); err != nil {
			return err
		}
	}
	if err := upsertSeats(ctx, tx, trains); err != nil {
		return err
	}
	return tx.Commit()
}

// CountTrains is used to decide whether a database needs seeding.
func (r TrainRepo) CountTrains(ctx context.Context) (int, error) {
	if !intdb.HasTable(ctx, r.DB, "trains") {
		return 0, nil
	}
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM trains`).Scan(&n)
	return n, err
}

func upsertSeats(ctx context.Context, tx *sql.Tx, trains []*models.Train) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO segment_seats (train_no, seg_index, seat_class, available) VALUES (?,?,?,?)
		ON DUPLICATE KEY UPDATE available=VALUES(available)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range trains {
		for _, class := range slices.Sorted(maps.Keys(t.SeatAvailability)) {
			for idx, available := range t.SeatAvailability[class] {
				if _, err := stmt.ExecContext(ctx, t.TrainNo, idx, class, available); err != nil {
					return fmt.Errorf("train %d %s segment %d: %w", t.TrainNo, class, idx, err)
				}
			}
		}
	}
	return nil
}
