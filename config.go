package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL string `yaml:"api_base_url"`
	APIToken   string `yaml:"api_token"`

	InsightProvider string `yaml:"insight_provider"` // "anthropic", "endpoint", or "off"
	InsightEndpoint string `yaml:"insight_endpoint"`
	InsightModel    string `yaml:"insight_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`

	DBPath          string `yaml:"db_path"`
	ReportOutputDir string `yaml:"report_output_dir"`
	ProductName     string `yaml:"product_name"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	AlertChannelID string `yaml:"alert_channel_id"`

	AssessSchedule     string  `yaml:"assess_schedule"` // 5-field cron; empty disables
	TargetHoursPerUnit float64 `yaml:"target_hours_per_unit"`
	Timezone           string  `yaml:"timezone"`

	Location *time.Location `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.APIBaseURL, "API_BASE_URL")
	envOverride(&cfg.APIToken, "API_TOKEN")
	envOverride(&cfg.InsightProvider, "INSIGHT_PROVIDER")
	envOverride(&cfg.InsightEndpoint, "INSIGHT_ENDPOINT")
	envOverride(&cfg.InsightModel, "INSIGHT_MODEL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.ProductName, "PRODUCT_NAME")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.AlertChannelID, "ALERT_CHANNEL_ID")
	envOverride(&cfg.AssessSchedule, "ASSESS_SCHEDULE")
	envOverrideFloat(&cfg.TargetHoursPerUnit, "TARGET_HOURS_PER_UNIT")
	envOverride(&cfg.Timezone, "TIMEZONE")

	// Defaults
	if cfg.InsightProvider == "" {
		cfg.InsightProvider = "off"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./impactbot.db"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.ProductName == "" {
		cfg.ProductName = "ImpactBot"
	}
	if cfg.TargetHoursPerUnit == 0 {
		cfg.TargetHoursPerUnit = 400
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	if cfg.APIBaseURL == "" {
		log.Fatalf("Required config 'api_base_url' is not set (via config.yaml or env var)")
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	switch cfg.InsightProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Fatalf("anthropic_api_key is required when insight_provider=anthropic")
		}
	case "endpoint":
		if cfg.InsightEndpoint == "" {
			log.Fatalf("insight_endpoint is required when insight_provider=endpoint")
		}
	case "off":
	default:
		log.Fatalf("insight_provider must be 'anthropic', 'endpoint', or 'off', got '%s'", cfg.InsightProvider)
	}

	if cfg.AlertChannelID != "" && cfg.SlackBotToken == "" {
		log.Fatalf("slack_bot_token is required when alert_channel_id is set")
	}
	if cfg.TargetHoursPerUnit < 0 {
		log.Fatalf("invalid target_hours_per_unit '%f': must be >= 0", cfg.TargetHoursPerUnit)
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
		cfg.Timezone = time.Local.String()
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.AlertChannelID != ""
}

func (c Config) InsightsConfigured() bool {
	return c.InsightProvider != "off"
}
