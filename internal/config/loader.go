package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the attendance service.
type Config struct {
	HTTPPort       int
	SQLiteDSN      string
	JWTSecret      string
	TokenTTL       time.Duration
	WorkHoursCap   float64
	ShiftUnit      time.Duration
	ScheduledShift time.Duration
}

// Load parses configuration values from the current process environment.
//
// A .env file in the working directory is loaded first when present. The
// loader applies sensible defaults for optional fields while validating
// required values.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:       8080,
		SQLiteDSN:      "file:attendance.db?_foreign_keys=on",
		TokenTTL:       12 * time.Hour,
		WorkHoursCap:   8.0,
		ShiftUnit:      12 * time.Hour,
		ScheduledShift: 8 * time.Hour,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ATTENDANCE_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ATTENDANCE_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ATTENDANCE_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secret := strings.TrimSpace(os.Getenv("ATTENDANCE_JWT_SECRET")); secret == "" {
		missing = append(missing, "ATTENDANCE_JWT_SECRET")
	} else {
		cfg.JWTSecret = secret
	}

	if ttlValue := strings.TrimSpace(os.Getenv("ATTENDANCE_TOKEN_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "ATTENDANCE_TOKEN_TTL")
		} else {
			cfg.TokenTTL = ttl
		}
	}

	if capValue := strings.TrimSpace(os.Getenv("ATTENDANCE_WORK_HOURS_CAP")); capValue != "" {
		workCap, err := strconv.ParseFloat(capValue, 64)
		if err != nil || workCap <= 0 {
			invalid = append(invalid, "ATTENDANCE_WORK_HOURS_CAP")
		} else {
			cfg.WorkHoursCap = workCap
		}
	}

	if unitValue := strings.TrimSpace(os.Getenv("ATTENDANCE_SHIFT_UNIT")); unitValue != "" {
		unit, err := time.ParseDuration(unitValue)
		if err != nil || unit <= 0 {
			invalid = append(invalid, "ATTENDANCE_SHIFT_UNIT")
		} else {
			cfg.ShiftUnit = unit
		}
	}

	if shiftValue := strings.TrimSpace(os.Getenv("ATTENDANCE_SCHEDULED_SHIFT")); shiftValue != "" {
		shift, err := time.ParseDuration(shiftValue)
		if err != nil || shift <= 0 {
			invalid = append(invalid, "ATTENDANCE_SCHEDULED_SHIFT")
		} else {
			cfg.ScheduledShift = shift
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
