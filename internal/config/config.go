package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type AppConfig struct {
	// Exactly one of DataFile and DataURL names the station data source.
	DataFile string `yaml:"data_file" validate:"required_without=DataURL,excluded_with=DataURL"`
	DataURL  string `yaml:"data_url" validate:"omitempty,url"`

	// SkipMalformed drops unparsable lines instead of failing the load.
	SkipMalformed bool `yaml:"skip_malformed"`

	// ReloadInterval controls how often the source is reloaded (0 = never).
	ReloadInterval time.Duration `yaml:"reload_interval" validate:"gte=0"`

	HTTPTimeout time.Duration `yaml:"http_timeout" validate:"gt=0"`

	// MaxRangeDays caps the number of calendar dates one HTTP query may span.
	MaxRangeDays int `yaml:"max_range_days" validate:"gt=0"`

	Port     string `yaml:"port" validate:"required,numeric"`
	LogLevel string `yaml:"log_level" validate:"required,oneof=trace debug info warn warning error fatal panic"`
}

// Load reads configuration from an optional YAML file (CONFIG_FILE) and then
// from environment with sensible defaults. Environment wins over the file.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		HTTPTimeout:  10 * time.Second,
		MaxRangeDays: 3660,
		Port:         "8080",
		LogLevel:     "info",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.DataFile = getenvDefault("DATA_FILE", cfg.DataFile)
	cfg.DataURL = getenvDefault("DATA_URL", cfg.DataURL)
	cfg.SkipMalformed = getenvBool("SKIP_MALFORMED", cfg.SkipMalformed)

	var err error
	if cfg.ReloadInterval, err = getenvDuration("RELOAD_INTERVAL", cfg.ReloadInterval); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return nil, err
	}

	if cfg.MaxRangeDays, err = getenvInt("MAX_RANGE_DAYS", cfg.MaxRangeDays); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", cfg.LogLevel))

	return cfg, nil
}

// Validate checks the final configuration, after command-line overrides.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config from YAML: %w", err)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
