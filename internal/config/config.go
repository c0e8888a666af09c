package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/omextract/internal/extract"
	"github.com/dgallion1/omextract/internal/output"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goccy/go-yaml"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// MaxConfigSize bounds the YAML config file.
const MaxConfigSize = 1 << 20

type Config struct {
	// Conversion
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Format  string `yaml:"format"`
	Workers int    `yaml:"workers"` // section units extracted concurrently

	// Batch runs
	BatchWorkers int `yaml:"batchWorkers"`

	// Logging
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"` // text or json

	// HTTP API
	Port           string        `yaml:"port"`
	APIKey         string        `yaml:"apiKey"`
	MaxUploadBytes int64         `yaml:"maxUploadBytes"`
	StatsWindow    time.Duration `yaml:"statsWindow"`

	Vocabulary extract.Vocabulary `yaml:"vocabulary"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Input:          "omdxe11330.xml",
		Output:         "output.csv",
		Format:         string(output.CSV),
		Workers:        1,
		BatchWorkers:   4,
		LogLevel:       "info",
		LogFormat:      "text",
		Port:           "8090",
		MaxUploadBytes: 52428800, // 50MB
		StatsWindow:    time.Hour,
		Vocabulary:     extract.DefaultVocabulary(),
	}
}

// Load returns the defaults overridden by OMEXTRACT_* environment variables.
func Load() Config {
	cfg := Defaults()
	applyEnv(&cfg)
	cfg.normalize()
	return cfg
}

// LoadFile layers a YAML file between the defaults and the environment.
// An empty path behaves like Load.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if len(data) > MaxConfigSize {
			return Config{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrConfigParse, path, MaxConfigSize)
		}
		if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigParse, path, err)
		}
	}
	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Input = envOr("OMEXTRACT_INPUT", cfg.Input)
	cfg.Output = envOr("OMEXTRACT_OUTPUT", cfg.Output)
	cfg.Format = envOr("OMEXTRACT_FORMAT", cfg.Format)
	cfg.Workers = envInt("OMEXTRACT_WORKERS", cfg.Workers)
	cfg.BatchWorkers = envInt("OMEXTRACT_BATCH_WORKERS", cfg.BatchWorkers)

	cfg.LogLevel = envOr("OMEXTRACT_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOr("OMEXTRACT_LOG_FORMAT", cfg.LogFormat)

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("OMEXTRACT_API_KEY", cfg.APIKey)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.StatsWindow = envDuration("OMEXTRACT_STATS_WINDOW", cfg.StatsWindow)

	cfg.Vocabulary.Section = envOr("OMEXTRACT_SECTION_TAG", cfg.Vocabulary.Section)
	cfg.Vocabulary.Subsection = envOr("OMEXTRACT_SUBSECTION_TAG", cfg.Vocabulary.Subsection)
}

func (c *Config) normalize() {
	d := Defaults()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.BatchWorkers <= 0 {
		c.BatchWorkers = d.BatchWorkers
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = d.StatsWindow
	}
	c.Vocabulary = c.Vocabulary.WithDefaults()
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)
}

var (
	portPattern = regexp.MustCompile(`^[0-9]{1,5}$`)
	tagPattern  = regexp.MustCompile(`^(\{[^{}\s]+\})?[A-Za-z_][A-Za-z0-9._-]*$`)
)

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Format, validation.By(func(value any) error {
			_, err := output.ParseFormat(value.(string))
			return err
		})),
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(256)),
		validation.Field(&c.BatchWorkers, validation.Required, validation.Min(1), validation.Max(256)),
		validation.Field(&c.LogLevel, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.Required, validation.In("text", "json")),
		validation.Field(&c.Port, validation.Required, validation.Match(portPattern)),
		validation.Field(&c.MaxUploadBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.Vocabulary, validation.By(func(value any) error {
			return validateVocabulary(value.(extract.Vocabulary))
		})),
	)
}

func validateVocabulary(v extract.Vocabulary) error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Section, validation.Required, validation.Match(tagPattern)),
		validation.Field(&v.Subsection, validation.Required, validation.Match(tagPattern)),
		validation.Field(&v.Head, validation.Required, validation.Match(tagPattern)),
		validation.Field(&v.Paragraph, validation.Required, validation.Match(tagPattern)),
		validation.Field(&v.Table, validation.Required, validation.Match(tagPattern)),
		validation.Field(&v.Row, validation.Required, validation.Match(tagPattern)),
		validation.Field(&v.Entry, validation.Required, validation.Match(tagPattern)),
		validation.Field(&v.Cell, validation.Required, validation.Match(tagPattern)),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
