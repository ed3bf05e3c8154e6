package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer       string // Issuer claim for session tokens
	JWTSecret    string // Required outside dev: HMAC secret for session tokens
	CookieSecret string // Required outside dev: HMAC secret for signed cookies

	DatabaseFile string // Optional: path to SQLite database file (default: ./auth.db)
	RedisAddr    string // Optional: redis address; empty selects the in-memory key store
	RedisDB      int    // Optional: redis database number

	WebURL string // Frontend base URL the mailed links point at

	MailAPIKey       string // Optional: provider API key; empty selects the log mailer
	MailFromEmail    string
	MailFromName     string
	MailWelcomeTplID string
	MailVerifyTplID  string
	MailResetTplID   string

	AvatarDir    string // Directory the filesystem object store writes to (default: ./avatars)
	RootPassword string // Overrides the seeded root password

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	KeySweepInterval    time.Duration // In-memory key store sweep interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:       getEnvOrDefault("AUTH_ISSUER", "auth-api"),
		JWTSecret:    os.Getenv("AUTH_JWT_SECRET"),
		CookieSecret: os.Getenv("AUTH_COOKIE_SECRET"),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		RedisAddr:    os.Getenv("AUTH_REDIS_ADDR"),
		RedisDB:      getEnvIntOrDefault("AUTH_REDIS_DB", 0),

		WebURL: getEnvOrDefault("AUTH_WEB_URL", "http://localhost:3000"),

		MailAPIKey:       os.Getenv("AUTH_MAIL_API_KEY"),
		MailFromEmail:    getEnvOrDefault("AUTH_MAIL_FROM_EMAIL", "noreply@localhost"),
		MailFromName:     getEnvOrDefault("AUTH_MAIL_FROM_NAME", "Auth API"),
		MailWelcomeTplID: os.Getenv("AUTH_MAIL_WELCOME_TEMPLATE"),
		MailVerifyTplID:  os.Getenv("AUTH_MAIL_VERIFY_TEMPLATE"),
		MailResetTplID:   os.Getenv("AUTH_MAIL_RESET_TEMPLATE"),

		AvatarDir:    getEnvOrDefault("AUTH_AVATAR_DIR", "avatars"),
		RootPassword: os.Getenv("AUTH_ROOT_PASSWORD"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		KeySweepInterval:    getEnvDurationOrDefault("KEY_SWEEP_INTERVAL", 1*time.Hour),
	}

	// Dev gets working defaults; production must set real secrets.
	if cfg.JWTSecret == "" && cfg.Env == "dev" {
		cfg.JWTSecret = "dev-jwt-secret"
	}
	if cfg.CookieSecret == "" && cfg.Env == "dev" {
		cfg.CookieSecret = "dev-cookie-secret"
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
