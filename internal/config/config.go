package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultWebhookSecret is used when WEBHOOK_SECRET is unset. Not safe outside local runs.
const DefaultWebhookSecret = "changeme"

type Config struct {
	Env          string
	LogLevel     string
	ServerPort   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Ninsaúde API
	NinsaudeBaseURL      string
	NinsaudeRefreshToken string
	NinsaudeAccount      string
	NinsaudeTimeout      time.Duration

	WebhookSecret string

	// Ids used by /agendar, which does not receive them in the body.
	AccountUnidade  int
	ProfissionalID  int
	ServicoID       int
	EspecialidadeID int

	AgendarCheckAvailability bool
	WebhookCheckAvailability bool

	// Audit trail (optional)
	DBUrl          string
	AuditQueueSize int
}

func Load() *Config {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	return &Config{
		Env:          getEnv("ENV", "development"),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		ServerPort:   getEnv("PORT", "10000"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		NinsaudeBaseURL:      strings.TrimSuffix(getEnv("NINSAUDE_BASE_URL", "https://api.ninsaude.com/v1"), "/"),
		NinsaudeRefreshToken: getEnv("NINSAUDE_REFRESH_TOKEN", ""),
		NinsaudeAccount:      getEnv("NINSAUDE_ACCOUNT", ""),
		NinsaudeTimeout:      time.Duration(getEnvAsInt("NINSAUDE_TIMEOUT", 30)) * time.Second,

		WebhookSecret: getEnv("WEBHOOK_SECRET", DefaultWebhookSecret),

		AccountUnidade:  getEnvAsInt("ACCOUNT_UNIDADE", 1),
		ProfissionalID:  getEnvAsInt("PROFISSIONAL_ID", 3),
		ServicoID:       getEnvAsInt("SERVICO_ID", 1),
		EspecialidadeID: getEnvAsInt("ESPECIALIDADE_ID", 1),

		AgendarCheckAvailability: getEnvAsBool("AGENDAR_CHECK_AVAILABILITY", true),
		WebhookCheckAvailability: getEnvAsBool("WEBHOOK_CHECK_AVAILABILITY", false),

		DBUrl:          getEnv("DATABASE_URL", ""),
		AuditQueueSize: getEnvAsInt("AUDIT_QUEUE_SIZE", 100),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return def
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

// InsecureWebhookSecret reports whether the webhook is guarded by the built-in default.
func (c *Config) InsecureWebhookSecret() bool {
	return c.WebhookSecret == DefaultWebhookSecret
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
