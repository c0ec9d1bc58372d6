package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time parses durations for hold TTL and sweep interval
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for the
// hold TTL and the sweeper interval.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	JWTSecret     string        // secret used to verify tokens issued by the user service
	HoldTTL       time.Duration // default seat hold time-to-live
	SweepInterval time.Duration // how often the expiry sweeper runs
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  HOLD_TTL and
// SWEEP_INTERVAL are optional and default to 5m and 30s respectively.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),                               // environment (dev/test/prod)
		Port:          must("APP_PORT"),                              // port to bind the HTTP server
		DBUser:        must("DB_USER"),                               // database user
		DBPass:        os.Getenv("DB_PASS"),                          // database password (empty allowed)
		DBHost:        must("DB_HOST"),                               // database host
		DBPort:        must("DB_PORT"),                               // database port
		DBName:        must("DB_NAME"),                               // database name
		JWTSecret:     must("JWT_SECRET"),                            // secret shared with the user service
		HoldTTL:       envDuration("HOLD_TTL", 5*time.Minute),        // default hold TTL
		SweepInterval: envDuration("SWEEP_INTERVAL", 30*time.Second), // sweeper cadence
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envDuration retrieves an optional duration environment variable.  Unset
// or unparsable values fall back to the provided default.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid duration for %s: %q, using %s", key, v, def)
		return def
	}
	return d
}
