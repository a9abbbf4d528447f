//go:build debug

package services

import (
	"fmt"

	"railbook/internal/domain"
	"railbook/internal/domain/models"
	"railbook/internal/utils"
)

// guardReserve refuses a reservation that would leave a negative cell.
func guardReserve(t *models.Train, sourceCode, destCode string, classes []domain.SeatClass) error {
	if err := domain.CheckDemand(t, sourceCode, destCode, classes); err != nil {
		utils.LogEvent("", "inventory", "reserve_guard", fmt.Sprintf("train=%d route=%s-%s err=%v", t.TrainNo, sourceCode, destCode, err))
		return domain.InternalError{Msg: "reserve called without capacity", Err: err}
	}
	return nil
}
