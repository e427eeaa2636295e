package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field
// corresponds to an environment variable. Everything here is fixed at
// process start; the auth subsystem receives these values through
// constructors and never reads the environment itself.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	JWTSecret       string // secret used to sign JWTs
	AccessTTLMin    int    // access token time-to-live in minutes
	RefreshTTLDays  int    // refresh token time-to-live in days
	NotBeforeGapMin int    // clock-skew allowance subtracted from iat for nbf, minutes
	RenewWithinDays int    // renewal threshold for token_expires_soon, days
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
// The token timing knobs default to the values the rest of the system
// was built against: 30-minute access tokens, 16-day refresh tokens,
// a 1-minute not-before gap and a 3-day renewal window.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		AccessTTLMin:    intOr("ACCESS_TOKEN_TTL_MIN", 30),
		RefreshTTLDays:  intOr("REFRESH_TOKEN_TTL_DAYS", 16),
		NotBeforeGapMin: intOr("TOKEN_NOT_BEFORE_GAP_MIN", 1),
		RenewWithinDays: intOr("TOKEN_RENEW_WITHIN_DAYS", 3),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr retrieves an integer environment variable, falling back to a
// default when unset. A value that is present but not an integer is a
// configuration mistake and aborts startup.
func intOr(key string, def int) int {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
