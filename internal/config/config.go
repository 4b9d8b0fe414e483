package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time is used for duration-typed settings
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The struct is built once at process start and
// passed by reference into every component that needs it; nothing reads
// configuration as ambient global state after startup.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	JWTSecret       string        // secret used to sign access tokens
	AccessTTLMin    int           // access token time-to-live in minutes
	BcryptCost      int           // bcrypt cost for password hashing
	ModelServiceURL string        // base URL of the external classification service
	ModelTimeout    time.Duration // upper bound on a single classification call
	AMQPURL         string        // RabbitMQ URL for the fine-tune queue (optional)
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),                 // environment (dev/test/prod)
		Port:            must("APP_PORT"),                // port to bind the HTTP server
		DBUser:          must("DB_USER"),                 // database user
		DBPass:          os.Getenv("DB_PASS"),            // database password (empty allowed)
		DBHost:          must("DB_HOST"),                 // database host
		DBPort:          must("DB_PORT"),                 // database port
		DBName:          must("DB_NAME"),                 // database name
		JWTSecret:       must("JWT_SECRET"),              // secret used for signing JWTs
		AccessTTLMin:    mustInt("ACCESS_TOKEN_TTL_MIN"), // TTL for access tokens in minutes
		BcryptCost:      mustInt("BCRYPT_COST"),          // bcrypt cost factor
		ModelServiceURL: must("MODEL_SERVICE_URL"),       // classification service base URL
		ModelTimeout:    durOr("MODEL_TIMEOUT", 10*time.Second),
		AMQPURL:         os.Getenv("RABBITMQ_URL"), // empty disables the fine-tune trigger
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// durOr parses an optional duration variable, falling back to def when the
// variable is unset or unparsable.
func durOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using default %s", key, v, def)
		return def
	}
	return d
}
