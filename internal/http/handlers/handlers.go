package handlers

import (
	"railbook/internal/services"
)

// Handlers serves the JSON API on top of the booking services.
type Handlers struct {
	Bookings  *services.BookingService
	Inventory *services.InventoryService
	Ledger    *services.LedgerService
	Tokens    services.TokenService
	Currency  string
}

func (h *Handlers) docs(requestID string) services.DocsService {
	return services.DocsService{Ledger: h.Ledger, RequestID: requestID}
}
