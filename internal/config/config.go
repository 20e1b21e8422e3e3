package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"barberbook/internal/availability"
)

type Config struct {
	Store struct {
		Endpoint        string `yaml:"endpoint"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"store"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Business struct {
		Name          string `yaml:"name"`
		WhatsAppPhone string `yaml:"whatsapp_phone"`
		Timezone      string `yaml:"timezone"`
		SchedulePath  string `yaml:"schedule_path"`
	} `yaml:"business"`

	Booking struct {
		RequireContact     *bool    `yaml:"require_contact"`
		PhoneRegion        string   `yaml:"phone_region"`
		Services           []string `yaml:"services"`
		SessionTTLMinutes  int      `yaml:"session_ttl_minutes"`
		RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
		RateLimitBurst     int      `yaml:"rate_limit_burst"`
	} `yaml:"booking"`

	Normalizer struct {
		MaxPlainKeyLength int      `yaml:"max_plain_key_length"`
		DateMarkers       []string `yaml:"date_markers"`
		TimeMarkers       []string `yaml:"time_markers"`
		MinYear           int      `yaml:"min_year"`
		MaxYear           int      `yaml:"max_year"`
	} `yaml:"normalizer"`

	HTTP struct {
		Port           int `yaml:"port"`
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"http"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Telegram struct {
		BotToken    string `yaml:"bot_token"`
		OwnerChatID int64  `yaml:"owner_chat_id"`
		APIEndpoint string `yaml:"api_endpoint"`
	} `yaml:"telegram"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Business.Name == "" {
		c.Business.Name = "Jere Barber"
	}
	if c.Business.SchedulePath == "" {
		c.Business.SchedulePath = "configs/schedule.yaml"
	}
	if c.Booking.PhoneRegion == "" {
		c.Booking.PhoneRegion = "CL"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Store.Endpoint == "" {
		errs = append(errs, errors.New("store.endpoint is required"))
	}
	if c.Business.WhatsAppPhone == "" {
		errs = append(errs, errors.New("business.whatsapp_phone is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("business.timezone: %w", err))
	}
	if h := c.Heuristics().WithDefaults(); h.MinYear > h.MaxYear {
		errs = append(errs, fmt.Errorf("normalizer: min_year %d is after max_year %d", h.MinYear, h.MaxYear))
	}
	if c.Telegram.BotToken != "" && c.Telegram.OwnerChatID == 0 {
		errs = append(errs, errors.New("telegram.owner_chat_id is required with a bot token"))
	}
	return errors.Join(errs...)
}

// Location is the shop's local clock. Empty means the process zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Business.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Business.Timezone)
}

func (c *Config) StoreTimeout() time.Duration {
	if c.Store.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Store.TimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	if c.Store.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Store.CacheTTLSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	if c.Booking.SessionTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Booking.SessionTTLMinutes) * time.Minute
}

// HTTPTimeout is the API read timeout; the server allows twice as long to
// write. A booking can take three store round trips (POST, fallback GET,
// refresh), so it never drops below 1.5x the store timeout.
func (c *Config) HTTPTimeout() time.Duration {
	d := 15 * time.Second
	if c.HTTP.TimeoutSeconds > 0 {
		d = time.Duration(c.HTTP.TimeoutSeconds) * time.Second
	}
	return max(d, c.StoreTimeout()*3/2)
}

// ContactRequired defaults to true: the widget asks for name and phone.
func (c *Config) ContactRequired() bool {
	return c.Booking.RequireContact == nil || *c.Booking.RequireContact
}

// Heuristics returns the normalizer thresholds; zero fields fall back to
// the defaults.
func (c *Config) Heuristics() availability.Heuristics {
	return availability.Heuristics{
		MaxPlainKeyLength: c.Normalizer.MaxPlainKeyLength,
		DateMarkers:       c.Normalizer.DateMarkers,
		TimeMarkers:       c.Normalizer.TimeMarkers,
		MinYear:           c.Normalizer.MinYear,
		MaxYear:           c.Normalizer.MaxYear,
	}
}
