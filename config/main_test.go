package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadAppConfig_Defaults(t *testing.T) {
	t.Setenv("SKIP_DOTENV", "true")
	for _, key := range []string{
		"PORT", "REQUEST_TIMEOUT", "GIN_MODE", "TRUSTED_PROXIES", "MAX_REQUEST_BODY_BYTES",
		"CORS_ALLOWED_ORIGIN", "HSTS_ENABLED", "METRICS_ENABLED", "WAITLIST_PRODUCT_NAME",
		"WAITLIST_FOLD_EMAIL_CASE",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadAppConfig(quietLogger())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Nil(t, cfg.TrustedProxies)
	assert.Equal(t, int64(1<<20), cfg.MaxRequestBodyBytes)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "Muscle AI", cfg.Waitlist.ProductName)
	assert.False(t, cfg.Waitlist.FoldEmailCase)
	assert.NotNil(t, cfg.Database)
}

func TestLoadAppConfig_Overrides(t *testing.T) {
	t.Setenv("SKIP_DOTENV", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://muscle.ai, https://www.muscle.ai")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("HSTS_ENABLED", "true")
	t.Setenv("WAITLIST_PRODUCT_NAME", "Muscle AI Pro")
	t.Setenv("WAITLIST_FOLD_EMAIL_CASE", "true")

	cfg := LoadAppConfig(quietLogger())

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
	assert.Equal(t, []string{"https://muscle.ai", "https://www.muscle.ai"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.HSTS.Enabled)
	assert.Equal(t, "Muscle AI Pro", cfg.Waitlist.ProductName)
	assert.True(t, cfg.Waitlist.FoldEmailCase)

	rc := cfg.RouterConfig()
	assert.True(t, rc.DisableMetrics)
	assert.Equal(t, "9090", rc.Port)
	assert.Equal(t, cfg.CORSAllowedOrigins, rc.CORSAllowedOrigins)
}

func TestLoadApplicationConfiguration_RejectsAutoMigrateInProduction(t *testing.T) {
	t.Setenv("SKIP_DOTENV", "true")
	t.Setenv(AppEnvKey, "production")

	_, err := LoadApplicationConfiguration(quietLogger(), true)
	assert.Error(t, err)
}
