package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	LogLevel    slog.Level

	StoreDriver      string
	MongoURI         string
	MongoDatabase    string
	DBUrl            string
	DBConnectTimeout time.Duration
	RequestTimeout   time.Duration

	Media          MediaConfig
	MaxUploadBytes int64
	Mail           MailConfig

	CORSAllowedOrigins []string
}

// MediaConfig selects and configures the image host.
type MediaConfig struct {
	Provider        string
	Folder          string
	Bucket          string
	Region          string
	Endpoint        string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
}

// MailConfig selects and configures the outgoing mail provider.
type MailConfig struct {
	Provider              string
	FromAddress           string
	FromName              string
	SESRegion             string
	SESAccessKeyID        string
	SESSecretAccessKey    string
	SESEndpoint           string
	SESInsecureSkipVerify bool
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production the process environment is the only source.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			slog.Debug(".env file not loaded", "err", err)
		}
	}

	cfg := &Config{
		Environment:   env,
		Port:          getEnv("PORT", "8080"),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "devevent"),
		DBUrl:         os.Getenv("DATABASE_URL"),
		Media: MediaConfig{
			Provider:        getEnv("MEDIA_PROVIDER", "noop"),
			Folder:          getEnv("MEDIA_FOLDER", "DevEvent"),
			Bucket:          os.Getenv("MEDIA_BUCKET"),
			Region:          getEnv("MEDIA_REGION", os.Getenv("AWS_REGION")),
			Endpoint:        os.Getenv("MEDIA_ENDPOINT"),
			PublicBaseURL:   os.Getenv("MEDIA_PUBLIC_BASE_URL"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		Mail: MailConfig{
			Provider:           getEnv("MAIL_PROVIDER", "noop"),
			FromAddress:        os.Getenv("MAIL_FROM_ADDRESS"),
			FromName:           getEnv("MAIL_FROM_NAME", "DevEvent"),
			SESRegion:          getEnv("SES_REGION", os.Getenv("AWS_REGION")),
			SESAccessKeyID:     getEnv("SES_ACCESS_KEY_ID", os.Getenv("AWS_ACCESS_KEY_ID")),
			SESSecretAccessKey: getEnv("SES_SECRET_ACCESS_KEY", os.Getenv("AWS_SECRET_ACCESS_KEY")),
			SESEndpoint:        os.Getenv("SES_ENDPOINT"),
		},
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	var err error
	if cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.DBConnectTimeout, err = getDuration("DB_CONNECT_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes, err = getInt64("MAX_UPLOAD_BYTES", 10<<20); err != nil {
		return nil, err
	}
	if cfg.Mail.SESInsecureSkipVerify, err = getBool("SES_INSECURE_SKIP_VERIFY", false); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case StoreMongo, StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be one of %s, %s, %s; got %q", StoreMongo, StorePostgres, StoreMemory, cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
