package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
// It is loaded once at startup and passed into the pipeline as an
// immutable value; nothing mutates it after Load returns.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// PipelineConfig contains the run-level settings for one conversion pass.
type PipelineConfig struct {
	// InputDir is the root directory scanned recursively for sensor logs.
	InputDir string `yaml:"input_dir" envconfig:"INPUT_DIR" default:"data/raw" validate:"required"`
	// OutputDir receives the generated all_series.json.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"site/data" validate:"required"`
	// Extensions lists the file extensions treated as candidate inputs.
	Extensions []string `yaml:"extensions" envconfig:"EXTENSIONS" default:".dat"`
	// Units is the unit every input value is assumed to be in.
	Units string `yaml:"units" envconfig:"UNITS" default:"psi" validate:"required,units"`
	// Timezone is the IANA zone applied to timestamps that carry no offset.
	Timezone string `yaml:"timezone" envconfig:"TIMEZONE" default:"UTC" validate:"required"`
	// Resample is the display-downsampling rule: a Go duration ("15m"),
	// a legacy minute rule ("15min"), or "none"/"off"/"" to disable.
	Resample string `yaml:"resample" envconfig:"RESAMPLE" default:"15m" validate:"resample"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/presviz.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// minuteRule matches pandas-style resample rules like "15min" that older
// site configs still use.
var minuteRule = regexp.MustCompile(`^(\d+)\s*min$`)

// ParseResampleRule converts a configured rule string into a bucket width.
// The second return reports whether resampling is enabled at all. A rule
// that is neither a disable keyword nor a valid positive interval is a
// configuration error, never a per-file failure.
func ParseResampleRule(rule string) (time.Duration, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(rule))
	if trimmed == "" || trimmed == "none" || trimmed == "off" {
		return 0, false, nil
	}

	if m := minuteRule.FindStringSubmatch(trimmed); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return 0, false, fmt.Errorf("invalid resample rule %q", rule)
		}
		return time.Duration(n) * time.Minute, true, nil
	}

	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, false, fmt.Errorf("invalid resample rule %q: %w", rule, err)
	}
	if d <= 0 {
		return 0, false, fmt.Errorf("resample interval must be positive, got %q", rule)
	}
	return d, true, nil
}

// ResampleInterval returns the parsed bucket width and whether resampling
// is enabled. Config values that passed Load never error here.
func (p PipelineConfig) ResampleInterval() (time.Duration, bool) {
	d, enabled, _ := ParseResampleRule(p.Resample)
	return d, enabled
}

// InputLocation resolves the configured timezone label.
func (p PipelineConfig) InputLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid input timezone %q: %w", p.Timezone, err)
	}
	return loc, nil
}

// newValidator builds the struct validator with the custom rules used by
// the pipeline config.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("resample", func(fl validator.FieldLevel) bool {
		_, _, err := ParseResampleRule(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("units", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "psi", "kpa":
			return true
		}
		return false
	})

	return v
}

// Load loads configuration from environment variables and an optional
// config file, then validates it.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PRESVIZ", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Pipeline.InputDir == "" {
		envConfig.Pipeline.InputDir = fileConfig.Pipeline.InputDir
	}
	if envConfig.Pipeline.OutputDir == "" {
		envConfig.Pipeline.OutputDir = fileConfig.Pipeline.OutputDir
	}
	if len(envConfig.Pipeline.Extensions) == 0 {
		envConfig.Pipeline.Extensions = fileConfig.Pipeline.Extensions
	}
	if envConfig.Pipeline.Units == "" {
		envConfig.Pipeline.Units = fileConfig.Pipeline.Units
	}
	if envConfig.Pipeline.Timezone == "" {
		envConfig.Pipeline.Timezone = fileConfig.Pipeline.Timezone
	}
	if envConfig.Pipeline.Resample == "" {
		envConfig.Pipeline.Resample = fileConfig.Pipeline.Resample
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}

	return envConfig
}

// Validate checks the configuration via struct tags plus the constraints
// the tags cannot express.
func (c *Config) Validate() error {
	v := newValidator()
	if err := v.Struct(c); err != nil {
		return err
	}

	for _, ext := range c.Pipeline.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}

	if _, err := c.Pipeline.InputLocation(); err != nil {
		return err
	}

	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/presviz.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file, if one exists.
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns the default configuration, matching the documented
// behavior of the original site build.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			InputDir:   "data/raw",
			OutputDir:  "site/data",
			Extensions: []string{".dat"},
			Units:      "psi",
			Timezone:   "UTC",
			Resample:   "15m",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/presviz.log",
		},
	}
}
