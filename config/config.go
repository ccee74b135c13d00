package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Defaults for optional settings.
const (
	DefaultDBUrl         = "sqlite3://announcebot.db"
	DefaultStreamRuleTag = "official_account_tweets"
	DefaultFeedBaseURL   = "https://api.twitter.com"
	DefaultHTTPAddr      = ":8080"
	DefaultTimezone      = "Asia/Tokyo"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	DBUrl       string
	// DotenvErr records why .env was not loaded outside production. It is
	// not fatal; the caller decides whether to report it.
	DotenvErr error

	// Feed
	AppAccessToken  string
	AccountUsername string
	StreamRuleTag   string
	FeedBaseURL     string

	// Notifications
	NotifierProvider string
	WebhookURL       string
	EmailFrom        string
	EmailFromName    string
	EmailTo          string
	AWSRegion        string
	AWSAccessKeyID   string
	AWSSecretKey     string
	SESInsecureSkip  bool

	// RecurringCatalogPath overrides the embedded recurring-date catalog.
	RecurringCatalogPath string
	// SchedulerLocation is where the daily tick's midnight is taken.
	SchedulerLocation *time.Location

	// Ops API. An empty HTTPAddr disables the server.
	HTTPAddr           string
	JWTSecret          string
	CORSAllowedOrigins []string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production the environment is authoritative and .env may not exist.
	var dotenvErr error
	if env != "production" {
		dotenvErr = godotenv.Load()
	}

	cfg := &Config{
		Environment:          env,
		DotenvErr:            dotenvErr,
		DBUrl:                getenv("DATABASE_URL", DefaultDBUrl),
		AppAccessToken:       os.Getenv("APP_ACCESS_TOKEN"),
		AccountUsername:      os.Getenv("ACCOUNT_USERNAME"),
		StreamRuleTag:        getenv("STREAM_RULE_TAG", DefaultStreamRuleTag),
		FeedBaseURL:          getenv("FEED_BASE_URL", DefaultFeedBaseURL),
		NotifierProvider:     getenv("NOTIFIER_PROVIDER", "log"),
		WebhookURL:           os.Getenv("WEBHOOK_URL"),
		EmailFrom:            os.Getenv("EMAIL_FROM"),
		EmailFromName:        os.Getenv("EMAIL_FROM_NAME"),
		EmailTo:              os.Getenv("EMAIL_TO"),
		AWSRegion:            os.Getenv("AWS_REGION"),
		AWSAccessKeyID:       os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:         os.Getenv("AWS_SECRET_ACCESS_KEY"),
		RecurringCatalogPath: os.Getenv("RECURRING_CATALOG_PATH"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		CORSAllowedOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	// HTTP_ADDR set to "" explicitly disables the server.
	if addr, ok := os.LookupEnv("HTTP_ADDR"); ok {
		cfg.HTTPAddr = addr
	} else {
		cfg.HTTPAddr = DefaultHTTPAddr
	}

	if s := os.Getenv("SES_INSECURE_SKIP_VERIFY"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("SES_INSECURE_SKIP_VERIFY: %w", err)
		}
		cfg.SESInsecureSkip = v
	}

	loc, err := time.LoadLocation(getenv("SCHEDULER_TIMEZONE", DefaultTimezone))
	if err != nil {
		return nil, fmt.Errorf("SCHEDULER_TIMEZONE: %w", err)
	}
	cfg.SchedulerLocation = loc

	return cfg, nil
}

// RequireFeed reports an error naming every missing setting the feed loop needs.
func (c *Config) RequireFeed() error {
	var missing []string
	if c.AppAccessToken == "" {
		missing = append(missing, "APP_ACCESS_TOKEN")
	}
	if c.AccountUsername == "" {
		missing = append(missing, "ACCOUNT_USERNAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
