package dto

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// PlaceholderFirebaseKey is the value shipped in example env files. It counts
// as "not configured".
const PlaceholderFirebaseKey = "your-api-key"

type Backend string

const (
	BackendLocal  Backend = "local"
	BackendRemote Backend = "remote"
)

type Config struct {
	Port string

	FirebaseKey         string
	FirebaseProjectID   string
	RemoteTxMaxAttempts int

	LocalStoragePath  string
	LocalStorageKey   string
	LocalDatabaseURL  string
	LocalPollInterval time.Duration

	RabbitMQURL string

	ChoiceALabel string
	ChoiceBLabel string

	LogLevel  string
	LogFormat string
}

func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using process environment")
	}
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv builds a Config from the given lookup function, applying
// defaults for unset keys.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:              valueOr(getenv("PORT"), "8080"),
		FirebaseKey:       getenv("FIREBASE_KEY"),
		FirebaseProjectID: getenv("FIREBASE_PROJECT_ID"),
		LocalStoragePath:  valueOr(getenv("LOCAL_STORAGE_PATH"), "data"),
		LocalStorageKey:   valueOr(getenv("LOCAL_STORAGE_KEY"), "mock_guesses"),
		LocalDatabaseURL:  getenv("LOCAL_DATABASE_URL"),
		RabbitMQURL:       getenv("RABBITMQ_URL"),
		ChoiceALabel:      valueOr(getenv("CHOICE_A_LABEL"), "Boy"),
		ChoiceBLabel:      valueOr(getenv("CHOICE_B_LABEL"), "Girl"),
		LogLevel:          valueOr(getenv("LOG_LEVEL"), "info"),
		LogFormat:         valueOr(getenv("LOG_FORMAT"), "text"),
	}

	attempts, err := strconv.Atoi(valueOr(getenv("REMOTE_TX_MAX_ATTEMPTS"), "5"))
	if err != nil || attempts < 1 {
		return Config{}, fmt.Errorf("REMOTE_TX_MAX_ATTEMPTS must be a positive integer, got %q", getenv("REMOTE_TX_MAX_ATTEMPTS"))
	}
	cfg.RemoteTxMaxAttempts = attempts

	interval, err := time.ParseDuration(valueOr(getenv("LOCAL_POLL_INTERVAL"), "2s"))
	if err != nil || interval <= 0 {
		return Config{}, fmt.Errorf("LOCAL_POLL_INTERVAL must be a positive duration, got %q", getenv("LOCAL_POLL_INTERVAL"))
	}
	cfg.LocalPollInterval = interval

	return cfg, nil
}

// Backend reports which vote store the configuration selects. A missing or
// placeholder Firebase key means the local store.
func (c Config) Backend() Backend {
	if c.FirebaseKey == "" || c.FirebaseKey == PlaceholderFirebaseKey {
		return BackendLocal
	}
	return BackendRemote
}

func (c Config) DecodeFirebaseKey() ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(c.FirebaseKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FIREBASE_KEY: %w", err)
	}
	return decoded, nil
}

func (c Config) ConfigureLogger() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
