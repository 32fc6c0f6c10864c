package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Session store backends
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreRedis  = "redis"
)

// Email providers
const (
	EmailNone     = "none"
	EmailPostmark = "postmark"
	EmailSendgrid = "sendgrid"
)

type Config struct {
	// Server Settings
	ListenAddr string
	LogLevel   logrus.Level

	// Backend API
	APIBaseURL string
	APITimeout time.Duration

	// Session persistence
	SessionStore  string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	// Receipts
	EmailProvider    string
	PostmarkAPIToken string
	SendgridAPIKey   string
	EmailSender      string

	LoginRatePerMinute int
}

// Load reads .env if present and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found. Proceeding with environment variables.")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for anything unset
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		APIBaseURL:       strings.TrimRight(get("API_BASE_URL", "http://localhost:8080/api"), "/"),
		SessionStore:     strings.ToLower(get("SESSION_STORE", StoreMemory)),
		MongoURI:         get("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    get("MONGO_DATABASE", "storefront"),
		RedisAddr:        get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getenv("REDIS_PASSWORD"),
		EmailProvider:    strings.ToLower(get("EMAIL_PROVIDER", EmailNone)),
		PostmarkAPIToken: getenv("POSTMARK_API_TOKEN"),
		SendgridAPIKey:   getenv("SENDGRID_API_KEY"),
		EmailSender:      get("EMAIL_SENDER", "no-reply@storefront.local"),
	}

	cfg.ListenAddr = get("LISTEN_ADDR", "")
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":" + get("PORT", "3000")
	}

	level, err := logrus.ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		return nil, errors.Wrap(err, "LOG_LEVEL")
	}
	cfg.LogLevel = level

	if cfg.APITimeout, err = time.ParseDuration(get("API_TIMEOUT", "10s")); err != nil {
		return nil, errors.Wrap(err, "API_TIMEOUT")
	}
	if cfg.SessionTTL, err = time.ParseDuration(get("SESSION_TTL", "168h")); err != nil {
		return nil, errors.Wrap(err, "SESSION_TTL")
	}
	if cfg.LoginRatePerMinute, err = strconv.Atoi(get("LOGIN_RATE_PER_MINUTE", "10")); err != nil {
		return nil, errors.Wrap(err, "LOGIN_RATE_PER_MINUTE")
	}

	switch cfg.SessionStore {
	case StoreMemory, StoreMongo, StoreRedis:
	default:
		return nil, errors.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}
	switch cfg.EmailProvider {
	case EmailNone:
	case EmailPostmark:
		if cfg.PostmarkAPIToken == "" {
			return nil, errors.New("POSTMARK_API_TOKEN is not set")
		}
	case EmailSendgrid:
		if cfg.SendgridAPIKey == "" {
			return nil, errors.New("SENDGRID_API_KEY is not set")
		}
	default:
		return nil, errors.Errorf("unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
	return cfg, nil
}
