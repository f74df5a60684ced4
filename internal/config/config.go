package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Classifier struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"classifier"`

	Gemini struct {
		APIKey     string `yaml:"api_key"`
		ModelName  string `yaml:"model_name"`
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"gemini"`

	WebSearch struct {
		APIKey         string `yaml:"api_key"`
		EngineID       string `yaml:"engine_id"`
		MaxResults     int    `yaml:"max_results"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"web_search"`

	Legal struct {
		DatasetPath string `yaml:"dataset_path"`
	} `yaml:"legal"`

	Alerts struct {
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   int64  `yaml:"telegram_chat_id"`
	} `yaml:"alerts"`

	Database struct {
		Type string `yaml:"type"` // "sqlite" or "postgres"
		Path string `yaml:"path"` // SQLite path or PostgreSQL URL
	} `yaml:"database"`

	InteractionLog struct {
		Path string `yaml:"path"`
	} `yaml:"interaction_log"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	// Set defaults
	if config.Server.Port == "" {
		config.Server.Port = ":8000"
	}

	if config.Classifier.TimeoutSeconds == 0 {
		config.Classifier.TimeoutSeconds = 30
	}

	if config.Gemini.ModelName == "" {
		config.Gemini.ModelName = "gemini-1.5-flash"
	}

	if config.Gemini.MaxRetries == 0 {
		config.Gemini.MaxRetries = 3
	}

	if config.WebSearch.MaxResults == 0 {
		config.WebSearch.MaxResults = 3
	}

	if config.WebSearch.TimeoutSeconds == 0 {
		config.WebSearch.TimeoutSeconds = 5
	}

	if config.Database.Type == "" {
		config.Database.Type = "sqlite"
	}

	if config.Database.Path == "" {
		config.Database.Path = "./data/analytics.db"
	}

	if config.InteractionLog.Path == "" {
		config.InteractionLog.Path = "./logs/interactions.log"
	}

	// Expand environment variables in secrets
	config.Gemini.APIKey = os.ExpandEnv(config.Gemini.APIKey)
	config.WebSearch.APIKey = os.ExpandEnv(config.WebSearch.APIKey)
	config.Alerts.TelegramBotToken = os.ExpandEnv(config.Alerts.TelegramBotToken)

	return config, nil
}

// ClassifierTimeout returns the classifier HTTP timeout as a duration.
func (c *Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.Classifier.TimeoutSeconds) * time.Second
}

// WebSearchTimeout returns the web context fetch timeout as a duration.
func (c *Config) WebSearchTimeout() time.Duration {
	return time.Duration(c.WebSearch.TimeoutSeconds) * time.Second
}
