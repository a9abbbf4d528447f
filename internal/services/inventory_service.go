package services

import (
	"context"
	"fmt"
	"sync"

	"railbook/internal/domain"
	"railbook/internal/domain/models"
	"railbook/internal/repositories"
	"railbook/internal/utils"
)

// InventoryService owns the loaded trains and is the only writer of their
// seat inventory. Every change is written back in full through Store.
//
// Reserve and Release trust the caller: Reserve does not re-check capacity
// and can drive a cell negative when called without a prior HasCapacity.
// Builds tagged `debug` refuse such a reservation instead. Concurrent
// callers must use ReserveChecked.
type InventoryService struct {
	Store repositories.TrainStore

	mu     sync.RWMutex
	trains []*models.Train
}

func NewInventoryService(ctx context.Context, store repositories.TrainStore) (*InventoryService, error) {
	trains, err := store.LoadTrains(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trains: %w", err)
	}
	utils.LogEvent("", "inventory", "load", fmt.Sprintf("trains=%d", len(trains)))
	return &InventoryService{Store: store, trains: trains}, nil
}

// Snapshot returns deep copies of every train.
func (s *InventoryService) Snapshot() []*models.Train {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Train, 0, len(s.trains))
	for _, t := range s.trains {
		out = append(out, t.Clone())
	}
	return out
}

// Train returns a copy of train trainNo.
func (s *InventoryService) Train(trainNo int) (*models.Train, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := domain.FindTrain(s.trains, trainNo)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (s *InventoryService) Places() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.AllPlaces(s.trains)
}

func (s *InventoryService) KnownCode(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.KnownCode(s.trains, code)
}

// TrainsServing lists copies of the trains that run from sourceCode to destCode.
func (s *InventoryService) TrainsServing(sourceCode, destCode string) []*models.Train {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Train{}
	for t := range domain.TrainsServing(s.trains, sourceCode, destCode) {
		out = append(out, t.Clone())
	}
	return out
}

func (s *InventoryService) SeatsLeft(trainNo int, sourceCode, destCode string, class domain.SeatClass) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := domain.FindTrain(s.trains, trainNo)
	if err != nil {
		return 0, err
	}
	return domain.SeatsLeft(t, sourceCode, destCode, class)
}

func (s *InventoryService) HasCapacity(trainNo int, sourceCode, destCode string, class domain.SeatClass) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := domain.FindTrain(s.trains, trainNo)
	if err != nil {
		return false, err
	}
	return domain.HasCapacity(t, sourceCode, destCode, class)
}

// CheckDemand reports ErrNoCapacity unless every class can seat all of its
// passengers on the journey.
func (s *InventoryService) CheckDemand(trainNo int, sourceCode, destCode string, classes []domain.SeatClass) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := domain.FindTrain(s.trains, trainNo)
	if err != nil {
		return err
	}
	return domain.CheckDemand(t, sourceCode, destCode, classes)
}

// Reserve takes one seat per entry in classes on every segment of the
// journey. Capacity must already have been checked.
func (s *InventoryService) Reserve(ctx context.Context, trainNo int, sourceCode, destCode string, classes []domain.SeatClass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := domain.FindTrain(s.trains, trainNo)
	if err != nil {
		return err
	}
	if err := guardReserve(t, sourceCode, destCode, classes); err != nil {
		return err
	}
	return s.adjust(ctx, t, sourceCode, destCode, classes, -1)
}

// ReserveChecked verifies the whole group fits and reserves it without
// letting another caller in between.
func (s *InventoryService) ReserveChecked(ctx context.Context, trainNo int, sourceCode, destCode string, classes []domain.SeatClass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := domain.FindTrain(s.trains, trainNo)
	if err != nil {
		return err
	}
	if err := domain.CheckDemand(t, sourceCode, destCode, classes); err != nil {
		return err
	}
	return s.adjust(ctx, t, sourceCode, destCode, classes, -1)
}

// Release returns one seat per entry in classes on every segment of the journey.
func (s *InventoryService) Release(ctx context.Context, trainNo int, sourceCode, destCode string, classes []domain.SeatClass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := domain.FindTrain(s.trains, trainNo)
	if err != nil {
		return err
	}
	return s.adjust(ctx, t, sourceCode, destCode, classes, 1)
}

// adjust applies delta and persists. A failed save reverts the in-memory
// change so memory never runs ahead of the store.
func (s *InventoryService) adjust(ctx context.Context, t *models.Train, sourceCode, destCode string, classes []domain.SeatClass, delta int) error {
	if len(classes) == 0 {
		return nil
	}
	if err := domain.AdjustSeats(t, sourceCode, destCode, classes, delta); err != nil {
		return err
	}
	if err := s.Store.SaveTrains(ctx, s.trains); err != nil {
		_ = domain.AdjustSeats(t, sourceCode, destCode, classes, -delta)
		return domain.InternalError{Msg: "could not save seat inventory", Err: err}
	}
	action := "reserve"
	if delta > 0 {
		action = "release"
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "inventory", action, fmt.Sprintf("train=%d route=%s-%s seats=%d", t.TrainNo, sourceCode, destCode, len(classes)))
	return nil
}
