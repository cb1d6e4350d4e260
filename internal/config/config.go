package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	RedisURL         string

	JWTSecret      string
	JWTExpiry      time.Duration
	BcryptCost     int
	UploadDir      string
	MaxUploadBytes int64
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string

	// EmailProvider selects the outbound mail transport: smtp, resend or noop.
	EmailProvider string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	EmailFrom     string
	AdminEmail    string
	ResendAPIKey  string

	RazorpayKeyID     string
	RazorpayKeySecret string
	PaymentCurrency   string

	HallTicketWindow  time.Duration
	ReconcileSchedule string
	ReconcileAfter    time.Duration
	NotifyMaxAttempts int
	NotifyBaseDelay   time.Duration
	PublicRateLimit   int
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "pretty"),

		MongoURI:         getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGODB_DATABASE", "institute"),
		MongoMaxPoolSize: uint64(getEnvInt("MONGODB_MAX_POOL_SIZE", 10)),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),

		JWTSecret:      getEnv("JWT_SECRET", "change-this-to-a-secure-random-string"),
		JWTExpiry:      time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 12)) * time.Hour,
		BcryptCost:     getEnvInt("BCRYPT_COST", 10),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 5)) * 1024 * 1024,
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "")),

		EmailProvider: getEnv("EMAIL_PROVIDER", "noop"),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		EmailFrom:     getEnv("EMAIL_FROM", "Institute <no-reply@localhost>"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@localhost"),
		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),

		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		PaymentCurrency:   getEnv("PAYMENT_CURRENCY", "INR"),

		HallTicketWindow:  time.Duration(getEnvInt("HALL_TICKET_WINDOW_DAYS", 7)) * 24 * time.Hour,
		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "@every 15m"),
		ReconcileAfter:    time.Duration(getEnvInt("RECONCILE_AFTER_MINUTES", 30)) * time.Minute,
		NotifyMaxAttempts: getEnvInt("NOTIFY_MAX_ATTEMPTS", 5),
		NotifyBaseDelay:   time.Duration(getEnvInt("NOTIFY_BASE_DELAY_SECONDS", 10)) * time.Second,
		PublicRateLimit:   getEnvInt("PUBLIC_RATE_LIMIT", 20),
	}
}

// MongoMigrateURL returns the connection string with the database name in the
// path, which is what golang-migrate's mongodb driver expects.
func (c *Config) MongoMigrateURL() (string, error) {
	u, err := url.Parse(c.MongoURI)
	if err != nil {
		return "", err
	}
	u.Path = "/" + c.MongoDatabase
	return u.String(), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
