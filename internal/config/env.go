package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ModeCLI   = "cli"
	ModeServe = "serve"

	StoreFile  = "file"
	StoreMySQL = "mysql"
)

type Env struct {
	AppMode           string
	AppAddr           string
	GinMode           string
	StoreDriver       string
	TrainsFile        string
	BookingsFile      string
	MySQLDSN          string
	TicketDir         string
	JWTSecret         string
	AdminPasswordHash string
	CORSOrigins       []string
	SettingsFile      string
}

// LoadEnv reads the process environment. A .env file in the working
// directory is loaded first when present; real variables win over it.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[CONFIG] action=load_dotenv msg=%v", err)
	}

	return Env{
		AppMode:           strings.ToLower(getenv("APP_MODE", ModeCLI)),
		AppAddr:           getenv("APP_ADDR", ":8080"),
		GinMode:           getenv("GIN_MODE", ""),
		StoreDriver:       strings.ToLower(getenv("STORE_DRIVER", StoreFile)),
		TrainsFile:        getenv("TRAINS_FILE", "trains.json"),
		BookingsFile:      getenv("BOOKINGS_FILE", "bookings.txt"),
		MySQLDSN:          getenv("MYSQL_DSN", ""),
		TicketDir:         getenv("TICKET_DIR", ""),
		JWTSecret:         getenv("JWT_SECRET", ""),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH", ""),
		CORSOrigins:       splitList(getenv("CORS_ALLOWED_ORIGINS", "")),
		SettingsFile:      getenv("SETTINGS_FILE", "railbook.yml"),
	}
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
