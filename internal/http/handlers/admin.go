package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	bookings := h.Ledger.Bookings()
	passengers := 0
	for _, b := range bookings {
		passengers += len(b.Passengers)
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings), "passengers": passengers})
}
