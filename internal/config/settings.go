package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"railbook/internal/domain"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type BookingSettings struct {
	MaxPassengers int                `yaml:"maxPassengers" validate:"min=1,max=100"`
	SeatClasses   []domain.SeatClass `yaml:"seatClasses" validate:"min=1,dive,required"`
	MinAge        int                `yaml:"minAge" validate:"min=1"`
	MaxAge        int                `yaml:"maxAge" validate:"gtefield=MinAge"`
}

type TokenSettings struct {
	TTLHours int `yaml:"ttlHours" validate:"min=1"`
}

// Settings are the tunables read from railbook.yml.
type Settings struct {
	Booking  BookingSettings `yaml:"booking"`
	Tokens   TokenSettings   `yaml:"tokens"`
	Currency string          `yaml:"currency" validate:"required"`
}

func DefaultSettings() Settings {
	return Settings{
		Booking: BookingSettings{
			MaxPassengers: 10,
			SeatClasses:   append([]domain.SeatClass(nil), domain.DefaultSeatClasses...),
			MinAge:        1,
			MaxAge:        120,
		},
		Tokens:   TokenSettings{TTLHours: 24},
		Currency: "₹",
	}
}

// LoadSettings overlays the YAML file at path on the defaults. A missing
// file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	for i, c := range s.Booking.SeatClasses {
		s.Booking.SeatClasses[i] = domain.ParseSeatClass(string(c))
	}
	if err := validator.New().Struct(s); err != nil {
		return s, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}
