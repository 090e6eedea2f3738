package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout" validate:"required"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowRequest     time.Duration `yaml:"slow_request" default:"5s"`
		RefreshBurst    float64       `yaml:"refresh_burst" default:"3" validate:"gt=0"`
		RefreshPerSec   float64       `yaml:"refresh_per_sec" default:"0.05" validate:"gt=0"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Quote struct {
		URL        string        `yaml:"url" default:"https://www.google.com/finance/quote/FTW5000:INDEXNYSEGIS?hl=en" validate:"required,url"`
		Timeout    time.Duration `yaml:"timeout" default:"10s" validate:"gt=0"`
		UserAgent  string        `yaml:"user_agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
		Renderer   string        `yaml:"renderer" default:"http" validate:"oneof=http chrome"`
		CacheTTL   time.Duration `yaml:"cache_ttl"`
		Strategies []Strategy    `yaml:"strategies" validate:"dive"`
	} `yaml:"quote"`
	FRED struct {
		APIKey           string        `yaml:"api_key"`
		BaseURL          string        `yaml:"base_url" default:"https://api.stlouisfed.org/fred" validate:"required,url"`
		SeriesID         string        `yaml:"series_id" default:"GDP" validate:"required"`
		ObservationStart string        `yaml:"observation_start" default:"2020-01-01" validate:"required,datetime=2006-01-02"`
		Timeout          time.Duration `yaml:"timeout" default:"10s" validate:"gt=0"`
		CacheTTL         time.Duration `yaml:"cache_ttl" default:"6h"`
	} `yaml:"fred"`
	Cache struct {
		Backend string `yaml:"backend" default:"memory" validate:"oneof=none memory redis layered"`
		MaxSize int    `yaml:"max_size" default:"128" validate:"gte=1"`
		Redis   struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"buffett"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Valuation struct {
		PointsPerTrillion float64 `yaml:"points_per_trillion" default:"1000" validate:"gt=0"`
	} `yaml:"valuation"`
}

// Strategy names one CSS selector used to locate the index value on the quote page.
type Strategy struct {
	Name     string `yaml:"name" validate:"required"`
	Selector string `yaml:"selector" validate:"required"`
}

var validate = validator.New()

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing file is not an error: the program runs on defaults plus env.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		c, err = Default()
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FRED_API_KEY"); v != "" {
		c.FRED.APIKey = v
	}
	if v := os.Getenv("QUOTE_URL"); v != "" {
		c.Quote.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Cache.Redis.Host = host
		if ok {
			var p int
			if _, err := fmt.Sscanf(port, "%d", &p); err == nil {
				c.Cache.Redis.Port = p
			}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// HasFREDKey reports whether a FRED credential is configured.
func (c *Config) HasFREDKey() bool {
	return strings.TrimSpace(c.FRED.APIKey) != ""
}
