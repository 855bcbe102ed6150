package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Articles ArticlesConfig `yaml:"articles"`
	Signals  SignalsConfig  `yaml:"signals"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Server   ServerConfig   `yaml:"server"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ScheduleConfig configures the evaluation cycle interval.
type ScheduleConfig struct {
	CycleInterval string `yaml:"cycle_interval"`
}

// ParseCycleInterval returns the cycle interval as time.Duration.
func (s ScheduleConfig) ParseCycleInterval() time.Duration {
	d, err := time.ParseDuration(s.CycleInterval)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// ArticlesConfig holds the tracked-article sources.
type ArticlesConfig struct {
	CMS    CMSConfig       `yaml:"cms"`
	Static []StaticArticle `yaml:"static"`
}

// StaticArticle is a single config-declared tracked article.
type StaticArticle struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// CMSConfig for the CMS article source.
type CMSConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Limit   int    `yaml:"limit"`
}

// SignalsConfig holds the engagement signal sources.
type SignalsConfig struct {
	Twitter TwitterConfig `yaml:"twitter"`
	Nitter  NitterConfig  `yaml:"nitter"`
}

// TwitterConfig for the Twitter recent-search source.
type TwitterConfig struct {
	Enabled     bool   `yaml:"enabled"`
	BearerToken string `yaml:"bearer_token"`
}

// NitterConfig for the Nitter search RSS source.
type NitterConfig struct {
	Enabled   bool   `yaml:"enabled"`
	NitterURL string `yaml:"nitter_url"`
}

// AlertsConfig configures alert destinations.
type AlertsConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook alerts.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook alerts.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook alerts.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./shareradar.db"},
		Schedule: ScheduleConfig{CycleInterval: "30m"},
		Articles: ArticlesConfig{
			CMS: CMSConfig{Limit: 100},
		},
		Signals: SignalsConfig{
			Nitter: NitterConfig{
				Enabled:   true,
				NitterURL: "https://nitter.net",
			},
		},
		Alerts: AlertsConfig{},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SHARERADAR_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("CMS_TOKEN"); v != "" {
		cfg.Articles.CMS.Token = v
	}
	if v := os.Getenv("TWITTER_BEARER_TOKEN"); v != "" {
		cfg.Signals.Twitter.BearerToken = v
		cfg.Signals.Twitter.Enabled = true
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
}
