package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"railbook/internal/domain/models"
	"railbook/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the e-ticket PDF for a booking.
type DocsService struct {
	Ledger    *LedgerService
	RequestID string
	Now       func() time.Time
	Loader    func(bookingID string) (models.Booking, error)
}

func (s DocsService) GenerateETicket(bookingID string) ([]byte, string, error) {
	b, err := s.load(bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("booking_id=%s passengers=%d", b.BookingID, len(b.Passengers)))
	return buildETicketPDF(b, s.issuedAt())
}

func (s DocsService) load(bookingID string) (models.Booking, error) {
	if s.Loader != nil {
		return s.Loader(bookingID)
	}
	return s.Ledger.FindBooking(bookingID)
}

func (s DocsService) issuedAt() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// The core PDF fonts are Latin-1 only, so amounts use the ISO code rather
// than the rupee sign.
func buildETicketPDF(b models.Booking, issued time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+b.BookingID, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	duration := "-"
	if d, err := utils.TravelDuration(b.DepartureTime, b.ArrivalTime); err == nil {
		duration = utils.FormatDuration(d)
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking ID   : %s", b.BookingID),
		fmt.Sprintf("Train        : %s (%d)", safe(b.TrainName, "-"), b.TrainNo),
		fmt.Sprintf("From / To    : %s -> %s", b.Source, b.Destination),
		fmt.Sprintf("Departure    : %s", safe(b.DepartureTime, "-")),
		fmt.Sprintf("Arrival      : %s", safe(b.ArrivalTime, "-")),
		fmt.Sprintf("Travel time  : %s", duration),
		fmt.Sprintf("Distance     : %s km", utils.FormatAmount(b.TotalDistance)),
		fmt.Sprintf("Total fare   : %s", utils.FormatMoney("INR", b.TotalFare)),
		fmt.Sprintf("Issued       : %s", utils.FormatDateTime(issued)),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(60, 8, "Passenger ID", "1", 0, "", false, 0, "")
	pdf.CellFormat(70, 8, "Name", "1", 0, "", false, 0, "")
	pdf.CellFormat(20, 8, "Age", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Class", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, p := range b.Passengers {
		pdf.CellFormat(60, 7, p.PassengerID, "1", 0, "", false, 0, "")
		pdf.CellFormat(70, 7, safe(p.Name, "-"), "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", p.Age), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 7, p.SeatClass, "1", 1, "C", false, 0, "")
	}
	if len(b.Passengers) == 0 {
		pdf.CellFormat(175, 7, "All passengers on this booking have been cancelled.", "1", 1, "", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Carry a photo ID matching a passenger name. Seats are held for the listed segments only.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s_%d.pdf", safeFilenamePart(b.BookingID), b.TrainNo)
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
