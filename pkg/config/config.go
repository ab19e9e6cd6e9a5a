package config

import (
	"strings"
	"time"

	"go.uber.org/fx"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Module = fx.Provide(NewConfig)

type IConfig interface {
	Get(key string) interface{}
	GetBool(key string) bool
	GetFloat64(key string) float64
	GetInt(key string) int
	GetInt64(key string) int64
	GetString(key string) string
	GetStringSlice(key string) []string
	GetDuration(key string) time.Duration
	UnmarshalKey(key string, val interface{}) error
}

type config struct {
	cfg *viper.Viper
}

func NewConfig() IConfig {
	_ = godotenv.Load()

	cfg := viper.New()
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	_ = cfg.BindEnv("server.port", "SERVER_PORT")
	_ = cfg.BindEnv("crm.base_url", "MIKROWISP_BASE_URL")
	_ = cfg.BindEnv("crm.token", "MIKROWISP_TOKEN")
	_ = cfg.BindEnv("crm.timeout", "MIKROWISP_TIMEOUT")
	_ = cfg.BindEnv("database.dns", "DATABASE_URL")
	_ = cfg.BindEnv("database.migration", "DATABASE_MIGRATION_URL")
	_ = cfg.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = cfg.BindEnv("openai.model", "OPENAI_MODEL")
	_ = cfg.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	_ = cfg.BindEnv("workflow.webhook_url", "N8N_WEBHOOK_URL")
	_ = cfg.BindEnv("workflow.api_key", "N8N_API_KEY")
	_ = cfg.BindEnv("queue.url", "RABBITMQ_URL")
	_ = cfg.BindEnv("queue.name", "RABBITMQ_QUEUE")
	_ = cfg.BindEnv("jwt.secret", "JWT_SECRET_KEY")
	_ = cfg.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = cfg.BindEnv("log.level", "LOG_LEVEL")

	cfg.SetDefault("server.port", ":8000")
	cfg.SetDefault("crm.timeout", 30)
	cfg.SetDefault("openai.model", "gpt-4o-mini")
	cfg.SetDefault("openai.base_url", "https://api.openai.com/v1")
	cfg.SetDefault("queue.name", "mikrowisp_messages")
	cfg.SetDefault("jwt.expiration", 3600)
	cfg.SetDefault("log.level", "info")

	return &config{cfg: cfg}
}

func (c *config) Get(key string) interface{} {
	return c.cfg.Get(key)
}

func (c *config) GetBool(key string) bool {
	return c.cfg.GetBool(key)
}

func (c *config) GetFloat64(key string) float64 {
	return c.cfg.GetFloat64(key)
}

func (c *config) GetInt(key string) int {
	return c.cfg.GetInt(key)
}

func (c *config) GetInt64(key string) int64 {
	return c.cfg.GetInt64(key)
}

func (c *config) GetString(key string) string {
	return c.cfg.GetString(key)
}

func (c *config) GetStringSlice(key string) []string {
	return c.cfg.GetStringSlice(key)
}

func (c *config) GetDuration(key string) time.Duration {
	return c.cfg.GetDuration(key)
}

func (c *config) UnmarshalKey(key string, val interface{}) error {
	return c.cfg.UnmarshalKey(key, &val)
}
