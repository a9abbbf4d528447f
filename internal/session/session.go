// Package session drives the interactive booking menu over a line-based
// reader and writer.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	intconfig "railbook/internal/config"
	"railbook/internal/domain/models"
	"railbook/internal/services"
	"railbook/internal/utils"
)

type state int

const (
	stateMenu state = iota
	stateCollectingRoute
	stateCollectingPassengers
	stateConfirming
	stateCancelling
	stateDone
)

// draft is a booking being assembled across prompts.
type draft struct {
	source     string
	dest       string
	count      int
	trainNo    int
	passengers []models.PassengerInput
	quote      services.Quote
}

func (d draft) request() services.BookingRequest {
	return services.BookingRequest{
		TrainNo:     d.trainNo,
		Source:      d.source,
		Destination: d.dest,
		Passengers:  d.passengers,
	}
}

// Session is one user at a terminal. It is not safe for concurrent use.
type Session struct {
	Bookings  *services.BookingService
	Inventory *services.InventoryService
	Ledger    *services.LedgerService
	Docs      services.DocsService
	Settings  intconfig.Settings
	TicketDir string

	in    *bufio.Scanner
	out   io.Writer
	state state
	draft draft
}

func New(in io.Reader, out io.Writer) *Session {
	return &Session{
		Settings: intconfig.DefaultSettings(),
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run loops until the user exits or input ends.
func (s *Session) Run(ctx context.Context) error {
	s.state = stateMenu
	for s.state != stateDone {
		if err := ctx.Err(); err != nil {
			return err
		}
		var (
			next state
			err  error
		)
		switch s.state {
		case stateMenu:
			next, err = s.menu()
		case stateCollectingRoute:
			next, err = s.collectRoute()
		case stateCollectingPassengers:
			next, err = s.collectPassengers()
		case stateConfirming:
			next, err = s.confirmBooking(ctx)
		case stateCancelling:
			next, err = s.cancel(ctx)
		default:
			next = stateMenu
		}
		if errors.Is(err, io.EOF) {
			s.printf("\nExiting....\n")
			return nil
		}
		if err != nil {
			return err
		}
		s.state = next
	}
	return nil
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// ask prints label and reads one trimmed line.
func (s *Session) ask(label string) (string, error) {
	s.printf("%s", label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) menu() (state, error) {
	s.printf("\n--- Train Booking ---\n1. Book Ticket\n2. Cancel Ticket\n3. Exit\n")
	choice, err := s.ask("Please select an option: ")
	if err != nil {
		return stateDone, err
	}
	switch choice {
	case "1":
		return stateCollectingRoute, nil
	case "2":
		return stateCancelling, nil
	case "3":
		s.printf("Exiting....\n")
		return stateDone, nil
	default:
		s.printf("Please choose a valid option.\n")
		return stateMenu, nil
	}
}

func (s *Session) collectRoute() (state, error) {
	s.draft = draft{}
	s.printf("--- Book Ticket ---\n")
	s.printf("Available Places: %s\n", strings.Join(s.Inventory.Places(), ", "))

	src, err := s.ask("Enter the source station code: ")
	if err != nil {
		return stateDone, err
	}
	dst, err := s.ask("Enter the destination station code: ")
	if err != nil {
		return stateDone, err
	}
	src, dst = strings.ToUpper(src), strings.ToUpper(dst)

	switch {
	case !s.Inventory.KnownCode(src):
		s.printf("Invalid source station code. Please try again.\n")
		return stateCollectingRoute, nil
	case !s.Inventory.KnownCode(dst):
		s.printf("Invalid destination station code. Please try again.\n")
		return stateCollectingRoute, nil
	case src == dst:
		s.printf("Source and destination cannot be the same.\n")
		return stateCollectingRoute, nil
	}

	raw, err := s.ask(fmt.Sprintf("Enter the number of passengers (max %d): ", s.Settings.Booking.MaxPassengers))
	if err != nil {
		return stateDone, err
	}
	count, convErr := strconv.Atoi(raw)
	if convErr != nil || s.Bookings.Validator.CheckCount(count) != nil {
		s.printf("Invalid number of passengers. Please try again.\n")
		return stateCollectingRoute, nil
	}

	trains := s.Inventory.TrainsServing(src, dst)
	if len(trains) == 0 {
		s.printf("No trains available for this route.\n")
		return stateCollectingRoute, nil
	}
	s.printf(" -- Available Trains --\n")
	for _, t := range trains {
		s.printf("%s (%d)\n", t.TrainName, t.TrainNo)
	}

	raw, err = s.ask("Enter the train number: ")
	if err != nil {
		return stateDone, err
	}
	trainNo, convErr := strconv.Atoi(raw)
	found := false
	for _, t := range trains {
		if convErr == nil && t.TrainNo == trainNo {
			found = true
			break
		}
	}
	if !found {
		s.printf("Invalid train number. Please try again.\n")
		return stateCollectingRoute, nil
	}

	s.draft = draft{source: src, dest: dst, count: count, trainNo: trainNo}
	return stateCollectingPassengers, nil
}

func (s *Session) collectPassengers() (state, error) {
	v := s.Bookings.Validator
	classes := make([]string, len(s.Settings.Booking.SeatClasses))
	for i, c := range s.Settings.Booking.SeatClasses {
		classes[i] = c.String()
	}

	for i := 0; i < s.draft.count; i++ {
		var p models.PassengerInput
		for {
			raw, err := s.ask(fmt.Sprintf("Enter name for Passenger %d: ", i+1))
			if err != nil {
				return stateDone, err
			}
			name, verr := v.CheckName(raw)
			if verr == nil {
				p.Name = name
				break
			}
			s.printf("Name cannot be empty. Please try again.\n")
		}
		for {
			raw, err := s.ask("Age: ")
			if err != nil {
				return stateDone, err
			}
			age, convErr := strconv.Atoi(raw)
			if convErr == nil && v.CheckAge(age) == nil {
				p.Age = age
				break
			}
			s.printf("Invalid age. Please enter a number between %d and %d.\n", s.Settings.Booking.MinAge, s.Settings.Booking.MaxAge)
		}
		for {
			raw, err := s.ask(fmt.Sprintf("Class (%s): ", strings.Join(classes, ", ")))
			if err != nil {
				return stateDone, err
			}
			class, verr := v.CheckClass(raw)
			if verr == nil {
				p.SeatClass = class.String()
				break
			}
			s.printf("Invalid class. Please enter %s.\n", strings.Join(classes, ", "))
		}
		s.draft.passengers = append(s.draft.passengers, p)
	}

	q, err := s.Bookings.Quote(s.draft.request())
	if err != nil {
		s.printf("%v. Please try again.\n", err)
		return stateCollectingRoute, nil
	}
	if !q.SeatsOK {
		s.printf("Seats not available. Please try again.\n")
		return stateCollectingRoute, nil
	}
	s.draft.quote = q

	s.printf("\n--- Booking Details ---\n")
	s.printf("Train: %s (%d)\n", q.TrainName, q.TrainNo)
	s.printf("Source: %s, Destination: %s\n", q.Source, q.Destination)
	s.printf("Total Distance: %s km\n", utils.FormatAmount(q.Distance))
	s.printf("Total Fare: %s\n", utils.FormatFare(s.Settings.Currency, q.TotalFare))
	return stateConfirming, nil
}

func (s *Session) confirmBooking(ctx context.Context) (state, error) {
	answer, err := s.ask("Confirm booking (yes/no): ")
	if err != nil {
		return stateDone, err
	}
	if strings.ToLower(answer) != "yes" {
		s.printf("Booking cancelled.\n")
		return stateMenu, nil
	}

	b, err := s.Bookings.Book(ctx, s.draft.request())
	if err != nil {
		s.printf("Booking failed: %v\n", err)
		return stateMenu, nil
	}

	ids := make([]string, len(b.Passengers))
	for i, p := range b.Passengers {
		ids[i] = p.PassengerID
	}
	s.printf("\n--- Booking Successful ---\n")
	s.printf("Booking ID: %s\n", b.BookingID)
	s.printf("Train: %s (%d)\n", b.TrainName, b.TrainNo)
	s.printf("Source: %s, Destination: %s\n", b.Source, b.Destination)
	s.printf("Total Distance: %s km\n", utils.FormatAmount(b.TotalDistance))
	s.printf("Total Fare: %s\n", utils.FormatFare(s.Settings.Currency, b.TotalFare))
	s.printf("Passenger IDs: %s\n", strings.Join(ids, ", "))
	s.printf("Departure Time: %s\n", b.DepartureTime)
	s.printf("Arrival Time: %s\n", b.ArrivalTime)

	if s.TicketDir != "" {
		s.writeTicket(b.BookingID)
	}
	return stateMenu, nil
}

func (s *Session) writeTicket(bookingID string) {
	pdf, name, err := s.Docs.GenerateETicket(bookingID)
	if err == nil {
		err = os.MkdirAll(s.TicketDir, 0o755)
	}
	path := filepath.Join(s.TicketDir, name)
	if err == nil {
		err = os.WriteFile(path, pdf, 0o644)
	}
	if err != nil {
		s.printf("Could not write e-ticket: %v\n", err)
		return
	}
	s.printf("E-ticket: %s\n", path)
}

func (s *Session) cancel(ctx context.Context) (state, error) {
	s.printf("--- Cancel Ticket ---\n")
	id, err := s.ask("Enter Booking ID (blank to go back): ")
	if err != nil {
		return stateDone, err
	}
	if id == "" {
		return stateMenu, nil
	}
	b, err := s.Ledger.FindBooking(id)
	if err != nil {
		s.printf("Booking not found.\n")
		return stateCancelling, nil
	}
	if len(b.Passengers) == 0 {
		s.printf("No passengers left on this booking.\n")
		return stateMenu, nil
	}

	s.printf("Passengers:\n")
	for i, p := range b.Passengers {
		s.printf("%d. %s (%s)\n", i+1, p.Name, p.PassengerID)
	}
	raw, err := s.ask("Enter the passenger number to cancel (comma-separated): ")
	if err != nil {
		return stateDone, err
	}
	ordinals, perr := utils.ParseOrdinals(raw)
	if perr != nil || !inRange(ordinals, len(b.Passengers)) {
		s.printf("Invalid passenger selection. Please try again.\n")
		return stateCancelling, nil
	}

	answer, err := s.ask("Are you sure you want to cancel (yes/no): ")
	if err != nil {
		return stateDone, err
	}
	if strings.ToLower(answer) != "yes" {
		s.printf("Cancellation aborted.\n")
		return stateMenu, nil
	}

	if _, err := s.Bookings.Cancel(ctx, b.BookingID, ordinals); err != nil {
		s.printf("Cancellation failed: %v\n", err)
		return stateMenu, nil
	}
	s.printf("Cancellation successful.\n")
	return stateMenu, nil
}

func inRange(ordinals []int, n int) bool {
	if len(ordinals) == 0 {
		return false
	}
	for _, o := range ordinals {
		if o < 1 || o > n {
			return false
		}
	}
	return true
}
