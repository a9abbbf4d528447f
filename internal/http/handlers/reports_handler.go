package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"railbook/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/reports?trainNo=
func (h *Handlers) TrainReports(c *gin.Context) {
	var f services.ReportFilter
	if raw := strings.TrimSpace(c.Query("trainNo")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "trainNo must be a positive number", nil)
			return
		}
		f.TrainNo = n
	}

	svc := services.ReportsService{Inventory: h.Inventory, Ledger: h.Ledger}
	reports, err := svc.TrainReports(f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "currency": h.Currency})
}
