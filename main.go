package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "railbook/internal/config"
	router "railbook/internal/http"
	"railbook/internal/http/handlers"
	"railbook/internal/repositories"
	"railbook/internal/services"
	"railbook/internal/session"

	"github.com/gin-gonic/gin"
)

type app struct {
	inventory *services.InventoryService
	ledger    *services.LedgerService
	bookings  *services.BookingService
	db        *sql.DB
}

func main() {
	env := intconfig.LoadEnv()
	settings, err := intconfig.LoadSettings(env.SettingsFile)
	if err != nil {
		log.Fatalf("[CONFIG] action=load_settings msg=%v", err)
	}

	ctx := context.Background()
	a, err := build(ctx, env, settings)
	if err != nil {
		log.Fatalf("[APP] action=startup msg=%v", err)
	}
	if a.db != nil {
		defer a.db.Close()
	}

	switch env.AppMode {
	case intconfig.ModeServe:
		err = serve(ctx, env, settings, a)
	case intconfig.ModeCLI:
		s := session.New(os.Stdin, os.Stdout)
		s.Bookings, s.Inventory, s.Ledger = a.bookings, a.inventory, a.ledger
		s.Docs = services.DocsService{Ledger: a.ledger}
		s.Settings = settings
		s.TicketDir = env.TicketDir
		err = s.Run(ctx)
	default:
		err = fmt.Errorf("unknown APP_MODE %q (want %s or %s)", env.AppMode, intconfig.ModeCLI, intconfig.ModeServe)
	}
	if err != nil {
		log.Fatalf("[APP] action=run msg=%v", err)
	}
}

// build loads inventory and the ledger from the configured store.
func build(ctx context.Context, env intconfig.Env, settings intconfig.Settings) (*app, error) {
	a := &app{}
	var (
		trainStore   repositories.TrainStore
		bookingStore repositories.BookingStore
	)

	switch env.StoreDriver {
	case intconfig.StoreFile:
		trainStore = repositories.TrainFileRepo{Path: env.TrainsFile}
		bookingStore = repositories.BookingFileRepo{Path: env.BookingsFile}
	case intconfig.StoreMySQL:
		db, err := intconfig.ConnectDB(env.MySQLDSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		if err := repositories.EnsureSchema(ctx, db); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		trains := repositories.TrainRepo{DB: db}
		if err := seedIfEmpty(ctx, trains, env.TrainsFile); err != nil {
			return nil, err
		}
		trainStore = trains
		bookingStore = repositories.BookingRepo{DB: db}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", env.StoreDriver)
	}

	inv, err := services.NewInventoryService(ctx, trainStore)
	if err != nil {
		return nil, fmt.Errorf("load trains: %w", err)
	}
	led, err := services.NewLedgerService(ctx, bookingStore, inv)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	a.inventory, a.ledger = inv, led
	a.bookings = &services.BookingService{
		Inventory: inv,
		Ledger:    led,
		Validator: services.NewPassengerValidator(settings.Booking),
	}
	return a, nil
}

func seedIfEmpty(ctx context.Context, repo repositories.TrainRepo, path string) error {
	n, err := repo.CountTrains(ctx)
	if err != nil || n > 0 {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("seed trains: %w", err)
	}
	defer f.Close()
	trains, err := repositories.DecodeTrains(f)
	if err != nil {
		return fmt.Errorf("seed trains: %w", err)
	}
	log.Printf("[DB] action=seed msg=importing %d trains from %s", len(trains), path)
	return repo.SeedTrains(ctx, trains)
}

func serve(ctx context.Context, env intconfig.Env, settings intconfig.Settings, a *app) error {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	tokens := services.TokenService{
		Secret:            []byte(env.JWTSecret),
		TTL:               time.Duration(settings.Tokens.TTLHours) * time.Hour,
		AdminPasswordHash: env.AdminPasswordHash,
	}
	if err := tokens.Ready(); err != nil {
		return fmt.Errorf("serve mode needs JWT_SECRET: %w", err)
	}

	r := router.NewRouter(env, &handlers.Handlers{
		Bookings:  a.bookings,
		Inventory: a.inventory,
		Ledger:    a.ledger,
		Tokens:    tokens,
		Currency:  settings.Currency,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("Server stopped.")
	return nil
}
