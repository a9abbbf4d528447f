//go:build !debug

package services

import (
	"railbook/internal/domain"
	"railbook/internal/domain/models"
)

func guardReserve(*models.Train, string, string, []domain.SeatClass) error { return nil }
