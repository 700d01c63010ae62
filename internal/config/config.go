package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/utils"
)

// Config is the process-level configuration. Values come from an optional
// YAML file (CONFIG_PATH, default ./config.yaml) with environment variables
// taking precedence, so containers can override single keys without a file.
type Config struct {
	Port         string   `yaml:"port"`
	LogMode      string   `yaml:"log_mode"`
	Environment  string   `yaml:"environment"`
	AllowOrigins []string `yaml:"allow_origins"`

	RedisAddr          string `yaml:"redis_addr"`
	RedisNotifyChannel string `yaml:"redis_notify_channel"`
	SlackWebhookURL    string `yaml:"slack_webhook_url"`
}

func defaults() Config {
	return Config{
		Port:        "8080",
		LogMode:     "development",
		Environment: "development",
	}
}

// Load reads the optional config file, then applies env overrides.
func Load(log *logger.Logger) (Config, error) {
	cfg := defaults()

	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path == "" {
		path = "config.yaml"
	}
	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	} else if log != nil {
		log.Debug("No config file found, using defaults and env", "path", path)
	}

	cfg.Port = utils.GetEnv("PORT", cfg.Port, log)
	cfg.LogMode = utils.GetEnv("LOG_MODE", cfg.LogMode, log)
	cfg.Environment = utils.GetEnv("ENVIRONMENT", cfg.Environment, log)
	cfg.RedisAddr = utils.GetEnv("REDIS_ADDR", cfg.RedisAddr, log)
	cfg.RedisNotifyChannel = utils.GetEnv("REDIS_NOTIFY_CHANNEL", cfg.RedisNotifyChannel, log)
	cfg.SlackWebhookURL = utils.GetEnv("SLACK_WEBHOOK_URL", cfg.SlackWebhookURL, log)

	if origins := strings.TrimSpace(os.Getenv("ALLOW_ORIGINS")); origins != "" {
		parts := strings.Split(origins, ",")
		cfg.AllowOrigins = cfg.AllowOrigins[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, p)
			}
		}
	}

	return cfg, nil
}
