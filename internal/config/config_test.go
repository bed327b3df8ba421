package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "NINSAUDE_BASE_URL", "NINSAUDE_TIMEOUT",
		"WEBHOOK_SECRET", "ACCOUNT_UNIDADE", "PROFISSIONAL_ID", "SERVICO_ID",
		"ESPECIALIDADE_ID", "AGENDAR_CHECK_AVAILABILITY", "WEBHOOK_CHECK_AVAILABILITY",
		"DATABASE_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "10000", cfg.ServerPort)
	assert.Equal(t, ":10000", cfg.Addr())
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "https://api.ninsaude.com/v1", cfg.NinsaudeBaseURL)
	assert.Equal(t, 30*time.Second, cfg.NinsaudeTimeout)
	assert.Equal(t, DefaultWebhookSecret, cfg.WebhookSecret)
	assert.True(t, cfg.InsecureWebhookSecret())
	assert.Equal(t, 1, cfg.AccountUnidade)
	assert.Equal(t, 3, cfg.ProfissionalID)
	assert.Equal(t, 1, cfg.ServicoID)
	assert.Equal(t, 1, cfg.EspecialidadeID)
	assert.True(t, cfg.AgendarCheckAvailability)
	assert.False(t, cfg.WebhookCheckAvailability)
	assert.Empty(t, cfg.DBUrl)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("NINSAUDE_BASE_URL", "http://localhost:9999/v1/")
	t.Setenv("NINSAUDE_TIMEOUT", "5")
	t.Setenv("WEBHOOK_SECRET", "s3cr3t")
	t.Setenv("PROFISSIONAL_ID", "7")
	t.Setenv("AGENDAR_CHECK_AVAILABILITY", "false")
	t.Setenv("WEBHOOK_CHECK_AVAILABILITY", "true")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://localhost:9999/v1", cfg.NinsaudeBaseURL)
	assert.Equal(t, 5*time.Second, cfg.NinsaudeTimeout)
	assert.False(t, cfg.InsecureWebhookSecret())
	assert.Equal(t, 7, cfg.ProfissionalID)
	assert.False(t, cfg.AgendarCheckAvailability)
	assert.True(t, cfg.WebhookCheckAvailability)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SERVICO_ID", "abc")
	t.Setenv("AGENDAR_CHECK_AVAILABILITY", "maybe")

	cfg := Load()

	assert.Equal(t, 1, cfg.ServicoID)
	assert.True(t, cfg.AgendarCheckAvailability)
}
