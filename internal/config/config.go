package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Remote backends
const (
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Config holds application configuration
type Config struct {
	Port         string
	LogLevel     string
	DataDir      string
	SnapshotFile string

	RemoteBackend           string
	DBConn                  string
	FirebaseProjectID       string
	FirebaseCredentialsFile string

	JWTSecret    string
	TokenTTL     time.Duration
	SessionToken string

	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SenderEmail   string
	ReminderEmail string
	ReminderSpec  string
}

// NewConfig loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		SnapshotFile: getEnv("SNAPSHOT_FILE", "snapshot.json"),

		RemoteBackend:           getEnv("REMOTE_BACKEND", BackendPostgres),
		DBConn:                  getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=rentals sslmode=disable"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),

		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		TokenTTL:     ttl,
		SessionToken: getEnv("SESSION_TOKEN", ""),

		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SenderEmail:   getEnv("SENDER_EMAIL", ""),
		ReminderEmail: getEnv("REMINDER_EMAIL", ""),
		ReminderSpec:  getEnv("REMINDER_SPEC", "@every 1m"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings required by the chosen backends are present
func (c *Config) Validate() error {
	switch c.RemoteBackend {
	case BackendPostgres:
		if c.DBConn == "" {
			return fmt.Errorf("DB_CONN is required")
		}
	case BackendFirestore:
		if c.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required")
		}
		// accounts still live in postgres
		if c.DBConn == "" {
			return fmt.Errorf("DB_CONN is required")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown REMOTE_BACKEND %q", c.RemoteBackend)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.SnapshotFile == "" {
		return fmt.Errorf("SNAPSHOT_FILE is required")
	}
	return nil
}

// SnapshotPath returns the full path of the local snapshot document
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, c.SnapshotFile)
}

// EmailEnabled reports whether reminder emails can be sent
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.SenderEmail != "" && c.ReminderEmail != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
