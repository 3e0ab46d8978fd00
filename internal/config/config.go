package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable: strings for identifiers and
// secrets, ints for durations and costs.  Required variables are
// enforced by must() and missing values halt startup.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	JWTSecret       string        // secret used to sign JWTs
	AccessTTLMin    int           // access token time-to-live in minutes
	RefreshTTLDays  int           // refresh token time-to-live in days
	BcryptCost      int           // bcrypt cost for password hashing
	BookingAttempts int           // max admission attempts on transient write conflicts
	BookingTimeout  time.Duration // per-admission transaction timeout
	DBMaxOpenConns  int           // connection pool upper bound
	DBMaxIdleConns  int           // idle connections kept in the pool
	DBConnLifetime  time.Duration // recycle connections older than this
	DBPingTimeout   time.Duration // startup connectivity check timeout
}

// Load reads configuration from the environment and returns a Config.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		AccessTTLMin:    mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays:  mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:      mustInt("BCRYPT_COST"),
		BookingAttempts: intDefault("BOOKING_RETRY_ATTEMPTS", 3),
		BookingTimeout:  durDefault("BOOKING_TX_TIMEOUT", 5*time.Second),
		DBMaxOpenConns:  intDefault("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  intDefault("DB_MAX_IDLE_CONNS", 25),
		DBConnLifetime:  durDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		DBPingTimeout:   durDefault("DB_PING_TIMEOUT", 5*time.Second),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// intDefault reads an optional integer env var.
func intDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

// durDefault reads an optional duration env var ("5s", "250ms").
func durDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}
