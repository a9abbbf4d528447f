package handlers

import (
	"fmt"
	"net/http"

	"railbook/internal/services"
	"railbook/internal/utils"

	"github.com/gin-gonic/gin"
)

type cancelRequest struct {
	Ordinals []int `json:"ordinals" binding:"required"`
}

// POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req services.BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	// A booking is committed only when its token can be issued.
	if err := h.Tokens.Ready(); err != nil {
		utils.LogEvent(requestID(c), "booking", "tokens_unavailable", err.Error())
		respondError(c, http.StatusServiceUnavailable, "tokens_unavailable", "bookings are disabled until token signing is configured", nil)
		return
	}
	b, err := h.Bookings.Book(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	token, err := h.Tokens.IssueBookingToken(b.BookingID)
	if err != nil {
		utils.LogEvent(requestID(c), "booking", "issue_token_failed", err.Error())
		respondError(c, http.StatusInternalServerError, "token_error", "booking saved but token could not be issued", gin.H{"bookingId": b.BookingID})
		return
	}
	utils.LogEvent(requestID(c), "booking", "created", fmt.Sprintf("booking_id=%s passengers=%d", b.BookingID, len(b.Passengers)))
	c.JSON(http.StatusCreated, gin.H{"booking": b, "token": token, "currency": h.Currency})
}

// GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	b, err := h.Ledger.FindBooking(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b, "currency": h.Currency})
}

// POST /api/bookings/:id/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	var req cancelRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := h.Bookings.Cancel(c.Request.Context(), c.Param("id"), req.Ordinals)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(requestID(c), "booking", "cancelled", fmt.Sprintf("booking_id=%s ordinals=%v remaining=%d", b.BookingID, req.Ordinals, len(b.Passengers)))
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// GET /api/bookings/:id/e-ticket
func (h *Handlers) ETicket(c *gin.Context) {
	pdf, filename, err := h.docs(requestID(c)).GenerateETicket(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
