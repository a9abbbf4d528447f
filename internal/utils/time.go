package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutClock    = "15:04"
	layoutDateTime = "2006-01-02 15:04:05"
)

// FormatDateTime formats t as "YYYY-MM-DD HH:MM:SS" in local time.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}

// TravelDuration is the time between two "HH:MM" clock readings. An arrival
// earlier than the departure is taken to be on the next day.
func TravelDuration(departure, arrival string) (time.Duration, error) {
	dep, err := time.Parse(layoutClock, strings.TrimSpace(departure))
	if err != nil {
		return 0, err
	}
	arr, err := time.Parse(layoutClock, strings.TrimSpace(arrival))
	if err != nil {
		return 0, err
	}
	d := arr.Sub(dep)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d, nil
}

// FormatDuration prints d as "5h 20m".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
