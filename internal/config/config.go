package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	TokenTTL          time.Duration
	DashboardCacheTTL time.Duration
	GraderURL         string
	GraderTimeout     time.Duration
	AIProvider        string
	OpenAIAPIKey      string
	OpenAIModel       string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ESSAY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Essay API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("token.ttl", "1h")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("grader.timeout", "20s")
	v.SetDefault("ai.provider", "openai")

	tokenTTL, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	graderTimeout, err := time.ParseDuration(v.GetString("grader.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid grader timeout: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		TokenTTL:          tokenTTL,
		DashboardCacheTTL: cacheTTL,
		GraderURL:         v.GetString("grader.url"),
		GraderTimeout:     graderTimeout,
		AIProvider:        strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		OpenAIModel:       v.GetString("openai_model"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}

	return cfg, nil
}
