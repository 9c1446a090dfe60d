// Package config loads the relay configuration from a YAML file with an
// environment overlay (.env supported) for credentials.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MinRefreshInterval is the floor applied to the flow refresh cadence, so a
// misconfigured interval cannot hot-loop against the sheet export.
const MinRefreshInterval = 30 * time.Second

// Config is the full relay configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	LogLevel   string `yaml:"log_level"`

	VerifyToken string `yaml:"verify_token"`

	WhatsApp struct {
		Token         string `yaml:"token"`
		PhoneNumberID string `yaml:"phone_number_id"`
	} `yaml:"whatsapp"`

	Flow struct {
		SheetURL        string        `yaml:"sheet_url"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
	} `yaml:"flow"`

	// Redis is optional; conversation logging is disabled when Addr is empty.
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`

	// OpenAI is optional; the generative fallback is skipped when the key
	// is empty.
	OpenAI struct {
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"openai"`
}

// Load reads the YAML file, overlays environment variables, applies defaults
// and validates. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.overlayEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overlayEnv lets the environment override file values, so credentials can
// stay out of the YAML.
func (c *Config) overlayEnv() {
	setIfPresent := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setIfPresent(&c.ListenAddr, "LISTEN_ADDR")
	setIfPresent(&c.VerifyToken, "VERIFY_TOKEN")
	setIfPresent(&c.WhatsApp.Token, "WHATSAPP_TOKEN")
	setIfPresent(&c.WhatsApp.PhoneNumberID, "PHONE_NUMBER_ID")
	setIfPresent(&c.Flow.SheetURL, "FLOW_SHEET_URL")
	setIfPresent(&c.Redis.Addr, "REDIS_ADDR")
	setIfPresent(&c.Redis.Password, "REDIS_PASSWORD")
	setIfPresent(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setIfPresent(&c.OpenAI.Model, "OPENAI_MODEL")
	setIfPresent(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8030"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Flow.RefreshInterval < MinRefreshInterval {
		c.Flow.RefreshInterval = MinRefreshInterval
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
}

func (c *Config) validate() error {
	if c.VerifyToken == "" {
		return fmt.Errorf("verify_token is required")
	}
	if c.WhatsApp.Token == "" {
		return fmt.Errorf("whatsapp.token is required")
	}
	if c.WhatsApp.PhoneNumberID == "" {
		return fmt.Errorf("whatsapp.phone_number_id is required")
	}
	if c.Flow.SheetURL == "" {
		return fmt.Errorf("flow.sheet_url is required")
	}
	return nil
}
