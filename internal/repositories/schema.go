package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaDDL = []string{`
CREATE TABLE IF NOT EXISTS trains (
	train_no INT PRIMARY KEY,
	train_name VARCHAR(255) NOT NULL,
	timetable JSON NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`, `
CREATE TABLE IF NOT EXISTS segment_seats (
	train_no INT NOT NULL,
	seg_index INT NOT NULL,
	seat_class VARCHAR(16) NOT NULL,
	available INT NOT NULL,
	PRIMARY KEY (train_no, seat_class, seg_index)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`, `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id VARCHAR(64) NOT NULL,
	train_no INT NOT NULL,
	train_name VARCHAR(255) NOT NULL,
	source VARCHAR(16) NOT NULL,
	destination VARCHAR(16) NOT NULL,
	total_distance DOUBLE NOT NULL,
	total_fare DOUBLE NOT NULL,
	departure_time VARCHAR(32) NULL,
	arrival_time VARCHAR(32) NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`, `
CREATE TABLE IF NOT EXISTS booking_passengers (
	passenger_id VARCHAR(80) PRIMARY KEY,
	booking_id VARCHAR(64) NOT NULL,
	ordinal INT NOT NULL DEFAULT 0,
	name VARCHAR(255) NOT NULL,
	age INT NOT NULL,
	seat_class VARCHAR(16) NOT NULL,
	KEY idx_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`}

// EnsureSchema creates the tables the MySQL stores need.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db not available")
	}
	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
