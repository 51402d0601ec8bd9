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
	NATSURL           string
	JWTSecret         string
	PlatformOwnerID   string
	InitialPointGrant int64
	SpaceCacheTTL     time.Duration
	ActivitySubject   string
	VoteRateLimit     int
	VoteRateWindow    time.Duration
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
	v.SetEnvPrefix("SPACEVOTE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SpaceVote API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("initial.point_grant", 1000)
	v.SetDefault("space.cache_ttl", "5m")
	v.SetDefault("activity.subject", "spacevote.activity")
	v.SetDefault("vote.rate_limit", 20)
	v.SetDefault("vote.rate_window", "1m")

	ttl, err := time.ParseDuration(v.GetString("space.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid space cache ttl: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("vote.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid vote rate window: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		PlatformOwnerID:   v.GetString("platform.owner_id"),
		InitialPointGrant: v.GetInt64("initial.point_grant"),
		SpaceCacheTTL:     ttl,
		ActivitySubject:   v.GetString("activity.subject"),
		VoteRateLimit:     v.GetInt("vote.rate_limit"),
		VoteRateWindow:    rateWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.PlatformOwnerID == "" {
		return Config{}, fmt.Errorf("platform owner id must be provided")
	}

	if cfg.InitialPointGrant < 0 {
		cfg.InitialPointGrant = 0
	}

	return cfg, nil
}
