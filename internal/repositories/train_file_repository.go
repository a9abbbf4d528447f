package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"railbook/internal/domain"
	"railbook/internal/domain/models"
)

// raw structures matching trains.json
type rawTrain struct {
	TrainNo          int              `json:"trainNo"`
	TrainName        string           `json:"trainName"`
	Source           rawStation       `json:"source"`
	Destination      rawStation       `json:"destination"`
	MiddleStops      []rawStation     `json:"middleStops"`
	Distances        []float64        `json:"distances"`
	SeatAvailability map[string][]int `json:"seatAvailability"`
	FareStructure    rawFareStructure `json:"fareStructure"`
	Segments         []rawSegment     `json:"segments"`
}

type rawStation struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type rawFareStructure struct {
	BaseFare  map[string]float64 `json:"baseFare"`
	PerKmFare map[string]float64 `json:"perKmFare"`
}

type rawSegment struct {
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
}

// TrainFileRepo keeps the timetable in a single JSON document.
type TrainFileRepo struct {
	Path string
}

func (r TrainFileRepo) LoadTrains(ctx context.Context) ([]*models.Train, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("open timetable: %w", err)
	}
	defer f.Close()
	return DecodeTrains(f)
}

// DecodeTrains parses a trains.json document and checks every train.
func DecodeTrains(r io.Reader) ([]*models.Train, error) {
	var raw []rawTrain
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode timetable: %w", err)
	}
	out := make([]*models.Train, 0, len(raw))
	for _, rt := range raw {
		t := rt.toModel()
		if err := domain.CheckTrain(t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// SaveTrains rewrites the whole file through a temp file so a crash never
// leaves a half-written timetable.
func (r TrainFileRepo) SaveTrains(ctx context.Context, trains []*models.Train) error {
	raw := make([]rawTrain, len(trains))
	for i, t := range trains {
		raw[i] = fromModel(t)
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode timetable: %w", err)
	}
	return writeFileAtomic(r.Path, data)
}

func (rt rawTrain) toModel() *models.Train {
	t := &models.Train{
		TrainNo:          rt.TrainNo,
		TrainName:        rt.TrainName,
		Source:           models.Station(rt.Source),
		Destination:      models.Station(rt.Destination),
		MiddleStops:      make([]models.Station, 0, len(rt.MiddleStops)),
		Distances:        rt.Distances,
		SeatAvailability: rt.SeatAvailability,
		FareStructure:    map[string]models.FareRule{},
		Segments:         make([]models.Segment, 0, len(rt.Segments)),
	}
	for _, s := range rt.MiddleStops {
		t.MiddleStops = append(t.MiddleStops, models.Station(s))
	}
	for _, s := range rt.Segments {
		t.Segments = append(t.Segments, models.Segment(s))
	}
	if t.SeatAvailability == nil {
		t.SeatAvailability = map[string][]int{}
	}
	// a class is priced only when it has a base fare; a missing per-km rate is 0
	for class, base := range rt.FareStructure.BaseFare {
		t.FareStructure[class] = models.FareRule{BaseFare: base, PerKmFare: rt.FareStructure.PerKmFare[class]}
	}
	return t
}

func fromModel(t *models.Train) rawTrain {
	rt := rawTrain{
		TrainNo:          t.TrainNo,
		TrainName:        t.TrainName,
		Source:           rawStation(t.Source),
		Destination:      rawStation(t.Destination),
		MiddleStops:      make([]rawStation, 0, len(t.MiddleStops)),
		Distances:        t.Distances,
		SeatAvailability: t.SeatAvailability,
		FareStructure: rawFareStructure{
			BaseFare:  map[string]float64{},
			PerKmFare: map[string]float64{},
		},
		Segments: make([]rawSegment, 0, len(t.Segments)),
	}
	for _, s := range t.MiddleStops {
		rt.MiddleStops = append(rt.MiddleStops, rawStation(s))
	}
	for _, s := range t.Segments {
		rt.Segments = append(rt.Segments, rawSegment(s))
	}
	for class, rule := range t.FareStructure {
		rt.FareStructure.BaseFare[class] = rule.BaseFare
		rt.FareStructure.PerKmFare[class] = rule.PerKmFare
	}
	return rt
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
