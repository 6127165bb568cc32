package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/tire-pressure-alarm/internal/logger"
)

// SensorKind selects the pressure sensor implementation.
type SensorKind string

const (
	// SensorRandom samples pseudo-random readings.
	SensorRandom SensorKind = "random"
	// SensorScripted replays the configured readings.
	SensorScripted SensorKind = "scripted"
)

// Sensor configures the pressure sensor used by the monitor.
type Sensor struct {
	// Kind is the sensor implementation.
	Kind SensorKind `yaml:"kind"`
	// Seed makes the random sensor reproducible when set.
	Seed *uint64 `yaml:"seed,omitempty"`
	// Readings are replayed in order by the scripted sensor.
	Readings []float64 `yaml:"readings,omitempty"`
}

// Config holds the monitor settings.
type Config struct {
	// PollInterval is the delay between two alarm checks.
	PollInterval time.Duration `yaml:"poll_interval"`
	// MaxChecks stops the monitor after that many checks; zero means unbounded.
	MaxChecks int `yaml:"max_checks"`
	// LogLevel is the minimum level written to the log.
	LogLevel string `yaml:"log_level"`
	// LogFormat is either console or json.
	LogFormat string `yaml:"log_format"`
	// MetricsAddress enables the Prometheus endpoint when not empty.
	MetricsAddress string `yaml:"metrics_addr,omitempty"`
	// Sensor configures the pressure source.
	Sensor Sensor `yaml:"sensor"`
}

const (
	// DefaultConfigFilename is the conventional settings filename.
	DefaultConfigFilename = "tpms-monitor.yaml"

	// DefaultPollInterval is used when poll_interval is unset.
	DefaultPollInterval = time.Second

	// DefaultLogLevel is used when log_level is unset.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the permission for saved config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeMaxChecks is returned when max_checks is below zero.
	errNegativeMaxChecks = errors.New("max_checks must not be negative")
	// errUnknownSensorKind is returned for unsupported sensor kinds.
	errUnknownSensorKind = errors.New("unknown sensor kind")
	// errReadingsRequired is returned when a scripted sensor has nothing to replay.
	errReadingsRequired = errors.New("scripted sensor requires readings")
	// errInvalidLogLevel is returned for unknown log levels.
	errInvalidLogLevel = errors.New("invalid log level")
	// errInvalidLogFormat is returned for unknown log formats.
	errInvalidLogFormat = errors.New("invalid log format")
)

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := new(Config)

	// Defaults always validate.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from path. An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to path in YAML format.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the settings for consistency.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	if cfg.MaxChecks < 0 {
		return errNegativeMaxChecks
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.LogLevel)
	}

	format, ok := logger.ParseFormat(cfg.LogFormat)
	if !ok {
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.LogFormat)
	}

	cfg.LogFormat = string(format)

	if cfg.MetricsAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", cfg.MetricsAddress); err != nil {
			return fmt.Errorf("invalid metrics address: %w", err)
		}
	}

	return validateSensor(&cfg.Sensor)
}

func validateSensor(s *Sensor) error {
	if s.Kind == "" {
		s.Kind = SensorRandom
	}

	switch s.Kind {
	case SensorRandom:
		return nil
	case SensorScripted:
		if len(s.Readings) == 0 {
			return errReadingsRequired
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownSensorKind, s.Kind)
	}
}
