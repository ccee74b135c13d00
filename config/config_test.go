package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	for _, k := range []string{
		"DATABASE_URL", "STREAM_RULE_TAG", "FEED_BASE_URL", "NOTIFIER_PROVIDER",
		"SCHEDULER_TIMEZONE", "SES_INSECURE_SKIP_VERIFY", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, DefaultDBUrl, cfg.DBUrl)
	assert.Equal(t, DefaultStreamRuleTag, cfg.StreamRuleTag)
	assert.Equal(t, DefaultFeedBaseURL, cfg.FeedBaseURL)
	assert.Equal(t, "log", cfg.NotifierProvider)
	assert.Equal(t, DefaultTimezone, cfg.SchedulerLocation.String())
	assert.False(t, cfg.SESInsecureSkip)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoad_MissingDotenvIsNotFatal(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("GO_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Error(t, cfg.DotenvErr)

	t.Setenv("GO_ENV", "production")
	cfg, err = Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.DotenvErr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/announce?sslmode=disable")
	t.Setenv("NOTIFIER_PROVIDER", "webhook")
	t.Setenv("WEBHOOK_URL", "https://hooks.example.com/x")
	t.Setenv("SCHEDULER_TIMEZONE", "UTC")
	t.Setenv("SES_INSECURE_SKIP_VERIFY", "true")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost/announce?sslmode=disable", cfg.DBUrl)
	assert.Equal(t, "webhook", cfg.NotifierProvider)
	assert.Equal(t, "https://hooks.example.com/x", cfg.WebhookURL)
	assert.Equal(t, "UTC", cfg.SchedulerLocation.String())
	assert.True(t, cfg.SESInsecureSkip)
	assert.Empty(t, cfg.HTTPAddr, "explicitly empty HTTP_ADDR disables the server")
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("SES_INSECURE_SKIP_VERIFY", "sometimes")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("SES_INSECURE_SKIP_VERIFY", "")
	t.Setenv("SCHEDULER_TIMEZONE", "Mars/Olympus_Mons")
	_, err = Load()
	require.Error(t, err)
}

func TestConfig_RequireFeed(t *testing.T) {
	err := (&Config{}).RequireFeed()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ACCESS_TOKEN")
	assert.Contains(t, err.Error(), "ACCOUNT_USERNAME")

	require.NoError(t, (&Config{AppAccessToken: "t", AccountUsername: "u"}).RequireFeed())
}
