package config

import (
	"errors"
	"fmt"
	"os"
	"route-engine-client/internal/domain"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config selects and configures one engine backend.
type Config struct {
	Backend string        `yaml:"backend" validate:"oneof=mock remote native"`
	Remote  RemoteConfig  `yaml:"remote"`
	Native  NativeConfig  `yaml:"native"`
	Logging LoggingConfig `yaml:"logging"`
}

type RemoteConfig struct {
	Address   string        `yaml:"address" validate:"omitempty,url"`
	Profile   string        `yaml:"profile" validate:"oneof=car bike foot"`
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	RateLimit float64       `yaml:"rate_limit" validate:"gte=0"`
	UserAgent string        `yaml:"user_agent"`
}

type NativeConfig struct {
	MapFile   string `yaml:"map_file"`
	Algorithm string `yaml:"algorithm" validate:"oneof=MLD CH mld ch"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
}

// Default is the configuration used when nothing is set: the offline mock.
func Default() Config {
	return Config{
		Backend: "mock",
		Remote: RemoteConfig{
			Address: "http://localhost:5000",
			Profile: "car",
			Timeout: 10 * time.Second,
		},
		Native:  NativeConfig{Algorithm: "MLD"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then .env and environment overrides, and validates
// the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Backend = getEnv("ROUTING_BACKEND", cfg.Backend)
	cfg.Remote.Address = getEnv("OSRM_ROUTED_ADDRESS", cfg.Remote.Address)
	cfg.Remote.Profile = getEnv("OSRM_PROFILE", cfg.Remote.Profile)
	cfg.Native.MapFile = getEnv("OSRM_MAP_FILE", cfg.Native.MapFile)
	cfg.Native.Algorithm = getEnv("OSRM_ALGORITHM", cfg.Native.Algorithm)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	if v := os.Getenv("OSRM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("OSRM_TIMEOUT: %w", err)
		}
		cfg.Remote.Timeout = d
	}
	if v := os.Getenv("OSRM_RATE_LIMIT"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("OSRM_RATE_LIMIT: %w", err)
		}
		cfg.Remote.RateLimit = rps
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateBackend, Config{})
	return v
}

// validateBackend requires the settings of the selected backend.
func validateBackend(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	switch cfg.Backend {
	case "remote":
		if strings.TrimSpace(cfg.Remote.Address) == "" {
			sl.ReportError(cfg.Remote.Address, "Remote.Address", "Address", "required_for_remote", "")
		}
	case "native":
		if strings.TrimSpace(cfg.Native.MapFile) == "" {
			sl.ReportError(cfg.Native.MapFile, "Native.MapFile", "MapFile", "required_for_native", "")
		}
	}
}

// Validate checks field values and the settings the selected backend needs.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) Profile() (domain.Profile, error) {
	return domain.ParseProfile(c.Remote.Profile)
}

func (c Config) Algorithm() (domain.Algorithm, error) {
	return domain.ParseAlgorithm(c.Native.Algorithm)
}
