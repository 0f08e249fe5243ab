// Package config provides configuration management for the bot.
// It loads environment variables (and an optional .env file) into an
// immutable Config that is handed to every component at construction.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Database drivers
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string `env:"botToken"`
	DevGuildID string `env:"devGuildId"`

	// Database
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"mongo"`
	MongoDBURL     string `env:"mongodbUrl" envDefault:"mongodb://localhost:27017"`
	DBName         string `env:"dbName" envDefault:"floppabot"`

	// MQTT
	MQTTHost     string `env:"MQTT_Host"`
	MQTTPort     string `env:"MQTT_Port" envDefault:"1883"`
	MQTTUser     string `env:"MQTT_User"`
	MQTTPassword string `env:"MQTT_Password"`

	// Web Server
	Port         string `env:"PORT" envDefault:"3000"`
	APIToken     string `env:"API_TOKEN"`
	AllowedHosts string `env:"WEB_ALLOWED_HOSTS"`
	WebRateLimit int    `env:"WEB_RATE_LIMIT" envDefault:"100"`

	// Environment
	Environment string `env:"enviroment" envDefault:"dev"`

	// Webhooks
	ErrorWebhook      string `env:"errorWebhook"`
	LogsWebhook       string `env:"logsWebhook"`
	LogsWebServerHook string `env:"logsWebServerWebhook"`

	// Logging
	LogsDir string `env:"LOGS_DIR" envDefault:"logs"`

	// TikTok feed
	FeedHost     string        `env:"FEED_HOST" envDefault:"rsshub.app"`
	FeedInterval time.Duration `env:"FEED_INTERVAL" envDefault:"120s"`
	FeedTimeout  time.Duration `env:"FEED_TIMEOUT" envDefault:"15s"`

	// Birthdays
	BirthdaySchedule string `env:"BIRTHDAY_SCHEDULE" envDefault:"@every 24h"`

	// Outbound messages per second for background jobs
	SendRate int `env:"SEND_RATE" envDefault:"5"`
}

var (
	Version   = "Dev-Local"
	BuildTime = "Today"
)

// Load reads the .env file (if any) and the process environment into a new Config.
// Each call returns a fresh value; nothing is cached globally.
func Load() (*Config, error) {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	return cfg, nil
}

// Validate reports startup misconfiguration that the bot cannot recover from
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("botToken is required")
	}
	switch c.DatabaseDriver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.FeedInterval <= 0 {
		return fmt.Errorf("FEED_INTERVAL must be positive, got %s", c.FeedInterval)
	}
	if c.FeedTimeout <= 0 {
		return fmt.Errorf("FEED_TIMEOUT must be positive, got %s", c.FeedTimeout)
	}
	if c.BirthdaySchedule == "" {
		return fmt.Errorf("BIRTHDAY_SCHEDULE must not be empty")
	}
	if c.SendRate <= 0 {
		return fmt.Errorf("SEND_RATE must be positive, got %d", c.SendRate)
	}
	return nil
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// FeedSchedule returns the cron spec for the TikTok poller
func (c *Config) FeedSchedule() string {
	return "@every " + c.FeedInterval.String()
}

// MQTTEnabled reports whether an MQTT broker was configured
func (c *Config) MQTTEnabled() bool {
	return c.MQTTHost != ""
}
