package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Guild is a statically configured guild tracked by the API. Guilds are
// never created or destroyed at runtime.
type Guild struct {
	ID     string
	Name   string
	APIKey string
}

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`

	// Redis token cache
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// HTTP server
	ListenAddr   string `env:"LISTEN_ADDR" envDefault:":8080"`
	CookieDomain string `env:"COOKIE_DOMAIN" envDefault:"api.tinyarmy.org"`

	// Auth
	JWTKey     string `env:"JWT_KEY"`
	JWTIssuer  string `env:"JWT_ISSUER" envDefault:"https://api.tinyarmy.org/"`
	ServiceKey string `env:"SERVICE_KEY"`

	// GW2 API key used for guild-level requests (details, roster)
	GuildAPIKey string `env:"GUILD_API_KEY"`

	// Discord bot token used for member metadata lookups
	DiscordToken string `env:"DISCORD_TOKEN"`

	// Guilds as "id:name:apikey" triplets, comma separated
	GuildSpecs []string `env:"GUILDS" envSeparator:","`

	// Lottery
	LotteryExcludedAccounts []string `env:"LOTTERY_EXCLUDED_ACCOUNTS" envSeparator:","`
	BannerImagePath         string   `env:"BANNER_IMAGE_PATH" envDefault:"public/images/gold.jpg"`

	// Task scheduling
	TaskIntervalSeconds int `env:"TASK_INTERVAL_SECONDS" envDefault:"300"`
	StatsHourUTC        int `env:"STATS_HOUR_UTC" envDefault:"6"`
	BackfillLimit       int `env:"BACKFILL_LIMIT" envDefault:"20"`

	// Environment: "development", "production" or "test"
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	Guilds []Guild `env:"-"`
}

// Load reads configuration from environment variables, loading a .env file
// first if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	for _, spec := range cfg.GuildSpecs {
		guild, err := parseGuildSpec(spec)
		if err != nil {
			return nil, err
		}
		cfg.Guilds = append(cfg.Guilds, guild)
	}

	if cfg.Environment != "test" {
		// Validate required configuration
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if cfg.JWTKey == "" {
			return nil, fmt.Errorf("JWT_KEY is required")
		}
	}

	return cfg, nil
}

func parseGuildSpec(spec string) (Guild, error) {
	parts := strings.SplitN(strings.TrimSpace(spec), ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return Guild{}, fmt.Errorf("invalid guild spec %q, want id:name:apikey", spec)
	}
	return Guild{ID: parts[0], Name: parts[1], APIKey: parts[2]}, nil
}
