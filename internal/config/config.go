// Package config loads the automation settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultInterval is the pause between iterations when none is configured.
const DefaultInterval = 5

// Environment variables that override file values when set and non-empty.
const (
	EnvOCREndpoint = "NOVELCLICK_OCR_API_ENDPOINT"
	EnvInterval    = "NOVELCLICK_INTERVAL"
	EnvTitle       = "NOVELCLICK_TITLE"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the effective configuration. It is not modified after Load.
type Config struct {
	Title             string   `yaml:"title"                         json:"title"`
	Interval          int      `yaml:"interval"                      json:"interval"`
	Steps             []string `yaml:"steps"                         json:"steps"`
	OCREndpoint       string   `yaml:"ocr_api_endpoint"              json:"ocr_api_endpoint"`
	CaptureKeepHeight int      `yaml:"capture_keep_height,omitempty" json:"capture_keep_height,omitempty"`
	SkipUnchanged     bool     `yaml:"skip_unchanged,omitempty"      json:"skip_unchanged,omitempty"`
	Annotate          bool     `yaml:"annotate,omitempty"            json:"annotate,omitempty"`

	// Warnings lists non-fatal problems found while loading.
	Warnings []string `yaml:"-" json:"-"`
}

// IntervalDuration returns Interval as a time.Duration.
func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// rawConfig mirrors the file before type checks. Loosely typed fields accept
// scalars of any kind so they can be stringified like the rest of the file.
type rawConfig struct {
	Title             interface{} `yaml:"title"`
	Interval          interface{} `yaml:"interval"`
	Steps             interface{} `yaml:"steps"`
	OCRAPIEndpoint    interface{} `yaml:"ocr_api_endpoint"`
	OCRURL            interface{} `yaml:"ocr_url"`
	CaptureKeepHeight interface{} `yaml:"capture_keep_height"`
	SkipUnchanged     bool        `yaml:"skip_unchanged"`
	Annotate          bool        `yaml:"annotate"`
}

// LoadDotEnv loads dir/.env into the process environment if the file exists.
// Variables already set are left alone.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads and validates the YAML file at path, then applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse validates YAML config bytes and applies environment overrides.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing yaml: %v", ErrInvalid, err)
	}

	cfg := &Config{
		Title:         strings.TrimSpace(scalarString(raw.Title)),
		Interval:      DefaultInterval,
		SkipUnchanged: raw.SkipUnchanged,
		Annotate:      raw.Annotate,
	}

	if raw.Interval != nil {
		n, err := scalarInt(raw.Interval)
		if err != nil {
			return nil, fmt.Errorf("%w: interval: %v", ErrInvalid, err)
		}
		cfg.Interval = n
	}

	steps, err := parseSteps(raw.Steps)
	if err != nil {
		return nil, err
	}
	cfg.Steps = steps

	endpoint := raw.OCRAPIEndpoint
	if endpoint == nil {
		endpoint = raw.OCRURL
	}
	cfg.OCREndpoint = strings.TrimSpace(scalarString(endpoint))

	if raw.CaptureKeepHeight != nil {
		n, err := scalarInt(raw.CaptureKeepHeight)
		if err != nil {
			return nil, fmt.Errorf("%w: capture_keep_height: %v", ErrInvalid, err)
		}
		cfg.CaptureKeepHeight = n
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for i, s := range cfg.Steps {
		if strings.TrimSpace(s) == "" {
			cfg.Warnings = append(cfg.Warnings,
				fmt.Sprintf("steps[%d] is blank and will match the first recognized word", i))
		}
	}
	return cfg, nil
}

// Validate checks required fields and ranges.
func (c *Config) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if c.OCREndpoint == "" {
		return fmt.Errorf("%w: ocr_api_endpoint is required", ErrInvalid)
	}
	if c.Interval < 0 {
		return fmt.Errorf("%w: interval must be >= 0, got %d", ErrInvalid, c.Interval)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvTitle)); v != "" {
		c.Title = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOCREndpoint)); v != "" {
		c.OCREndpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvInterval)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not an integer", ErrInvalid, EnvInterval, v)
		}
		c.Interval = n
	}
	return nil
}

func parseSteps(v interface{}) ([]string, error) {
	if v == nil || v == "" {
		return []string{}, nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: steps must be a list", ErrInvalid)
	}
	steps := make([]string, 0, len(list))
	for i, item := range list {
		switch item.(type) {
		case []interface{}, map[string]interface{}:
			return nil, fmt.Errorf("%w: steps[%d] must be a scalar", ErrInvalid, i)
		}
		steps = append(steps, scalarString(item))
	}
	return steps, nil
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func scalarInt(v interface{}) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case uint64:
		return int(t), nil
	case float64:
		return int(t), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported value %v", t)
	}
}
