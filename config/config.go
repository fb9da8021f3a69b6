// Package config loads the application configuration from file and
// environment. Environment variables use the CAMPUSLINK prefix with dots
// replaced by underscores, e.g. CAMPUSLINK_DATABASES_REDIS_HOST.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the portal backend
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Databases DatabasesConfig `mapstructure:"databases"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Chat      ChatConfig      `mapstructure:"chat"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug     bool   `mapstructure:"debug"`
	LogLevel  string `mapstructure:"log_level"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address       string `mapstructure:"address"`
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// DatabasesConfig groups the backing stores
type DatabasesConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the connection string, preferring an explicit URL.
func (p PostgresConfig) DSN() (string, error) {
	if strings.TrimSpace(p.URL) != "" {
		return p.URL, nil
	}
	if strings.TrimSpace(p.Host) == "" || strings.TrimSpace(p.DBName) == "" {
		return "", fmt.Errorf("postgres not configured (databases.postgres.host/dbname or url)")
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl), nil
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("databases.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("databases.redis.port required")
	}
	return nil
}

// ProvidersConfig contains the language model provider settings
type ProvidersConfig struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

// OpenAIConfig configures the OpenAI-compatible provider
type OpenAIConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	CompletionModel string        `mapstructure:"completion_model"`
	AnalysisModel   string        `mapstructure:"analysis_model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// ChatConfig tunes the question answering pipeline
type ChatConfig struct {
	HistoryWindow int           `mapstructure:"history_window"`
	SearchLimit   int           `mapstructure:"search_limit"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
}

// LoadConfig reads config from path, or from the conventional locations when
// path is empty. A missing file is fine; environment variables still apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.migrations_dir", "file://migrations")
	v.SetDefault("databases.postgres.port", "5432")
	v.SetDefault("databases.postgres.sslmode", "disable")
	v.SetDefault("databases.redis.port", "6379")
	v.SetDefault("databases.redis.timeout", "5s")
	v.SetDefault("providers.openai.completion_model", "gpt-4o-mini")
	v.SetDefault("providers.openai.temperature", 0.7)
	v.SetDefault("providers.openai.timeout", "50s")
	v.SetDefault("chat.history_window", 10)
	v.SetDefault("chat.search_limit", 10)
	v.SetDefault("chat.session_ttl", "720h")

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("CAMPUSLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
