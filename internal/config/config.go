package config // package config loads application configuration from environment variables

import (
    "log" // log reports configuration errors and halts execution
    "os"  // os provides access to environment variables
    "time"

    "github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The employee backend is the source of truth for
// accounts and records; this process only keeps browser sessions.
type Config struct {
    Env            string        // application environment (e.g. "dev", "prod")
    Port           string        // HTTP port to listen on
    BackendURL     string        // base URL of the employee REST backend
    SessionSecret  string        // signs the session cookie and seals stored tokens
    SessionTTL     time.Duration // idle lifetime of a browser session
    BackendTimeout time.Duration // per-request timeout towards the backend
    RegisterDelay  time.Duration // pause on the registration notice before redirecting
    InflightTTL    time.Duration // lifetime of an abandoned in-flight submit lock
    LogLevel       string        // debug, info, warn, error
    CookieSecure   bool          // mark the session cookie Secure

    // Activity store and queue.  Both are optional; when DBHost is empty the
    // recent activity panel stays empty.
    ActivityEnabled bool
    AMQPURL         string
    DBUser          string
    DBPass          string
    DBHost          string
    DBPort          string
    DBName          string
}

// Load reads configuration values from the environment, after loading a
// .env file when one exists.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
    _ = godotenv.Load() // a missing .env is fine; the real environment wins

    return Config{
        Env:            must("APP_ENV"),
        Port:           must("APP_PORT"),
        BackendURL:     must("BACKEND_URL"),
        SessionSecret:  must("SESSION_SECRET"),
        SessionTTL:     envDur("SESSION_TTL", 24*time.Hour),
        BackendTimeout: envDur("BACKEND_TIMEOUT", 15*time.Second),
        RegisterDelay:  envDur("REGISTER_REDIRECT_DELAY", 1500*time.Millisecond),
        InflightTTL:    envDur("INFLIGHT_TTL", 30*time.Second),
        LogLevel:       envStr("LOG_LEVEL", "info"),
        CookieSecure:   envBool("COOKIE_SECURE", false),

        ActivityEnabled: envBool("ACTIVITY_ENABLED", true),
        AMQPURL:         amqpURL(),
        DBUser:          os.Getenv("DB_USER"),
        DBPass:          os.Getenv("DB_PASS"), // empty allowed
        DBHost:          os.Getenv("DB_HOST"),
        DBPort:          envStr("DB_PORT", "3306"),
        DBName:          os.Getenv("DB_NAME"),
    }
}

// amqpURL prefers RABBITMQ_URL and falls back to AMQP_URL.
func amqpURL() string {
    if v := os.Getenv("RABBITMQ_URL"); v != "" {
        return v
    }
    return os.Getenv("AMQP_URL")
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
