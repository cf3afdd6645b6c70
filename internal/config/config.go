// Package config provides configuration management for the store crawler worker.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoSources              = errors.New("at least one source is required")
	ErrSourceMissingBrand     = errors.New("brand is required")
	ErrSourceMissingURLOrFile = errors.New("either URL or file path is required")
	ErrSourceInvalidShape     = errors.New("shape must be one of: api, embedded, html")
	ErrNoEnabledSources       = errors.New("at least one source must be enabled")
	ErrInvalidMaxAttempts     = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay    = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoff         = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout         = errors.New("retry.timeout_sec must be at least 1")
	ErrMissingOutputPath      = errors.New("output.base_path is required")
	ErrInvalidOutputFormat    = errors.New("output.format must be 'json' or 'jsonl'")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat       = errors.New("logging.format must be 'text' or 'json'")
	ErrInvalidKeyPolicy       = errors.New("dedup.key_policy must be one of: auto, number, address_url")
)

// Source shapes, matching the three upstream raw-mapping layouts.
const (
	ShapeAPI      = "api"
	ShapeEmbedded = "embedded"
	ShapeHTML     = "html"
)

// Config represents the complete worker configuration.
type Config struct {
	Crawler CrawlerConfig `yaml:"crawler"`
}

// CrawlerConfig contains crawler-specific settings.
type CrawlerConfig struct {
	Output       OutputConfig   `yaml:"output"`
	Sources      []SourceConfig `yaml:"sources"`
	Logging      LoggingConfig  `yaml:"logging"`
	Dedup        DedupConfig    `yaml:"dedup"`
	Retry        RetryPolicy    `yaml:"retry"`
	Placeholders []string       `yaml:"brand_placeholders"`
}

// SourceConfig describes one store-locator source.
type SourceConfig struct {
	// Brand is the source's identifier, used in output paths.
	Brand string `yaml:"brand"`
	// Name is the brand display name substituted for placeholder tokens.
	Name string `yaml:"name"`
	// Shape selects the adapter: api, embedded, or html.
	Shape string `yaml:"shape"`
	// URL is the page or endpoint to fetch. URLTemplate, when set, expands
	// {latitude}, {longitude}, and {zipcode} per zipcode seed entry.
	URL         string   `yaml:"url"`
	URLTemplate string   `yaml:"url_template"`
	BackupURLs  []string `yaml:"backup_urls"`
	// File points at a local fixture instead of a remote URL.
	File string `yaml:"file"`
	// ZipcodeFile seeds URLTemplate expansion.
	ZipcodeFile string `yaml:"zipcode_file"`
	// RecordsPath is the dotted path to the record array inside an API or
	// embedded payload, e.g. "body.data.stores".
	RecordsPath string `yaml:"records_path"`
	// ScriptMarker locates the embedded JSON payload inside a script tag,
	// e.g. "window.__PRELOADED_STATE__=".
	ScriptMarker string `yaml:"script_marker"`
	// TableClass names the HTML table holding store rows.
	TableClass string `yaml:"table_class"`
	// FieldMap maps canonical intermediate keys to dotted source paths.
	FieldMap map[string]string `yaml:"field_map"`
	Enabled  bool              `yaml:"enabled"`
}

// IsLocalFile returns true if this source reads a local fixture.
func (s *SourceConfig) IsLocalFile() bool {
	return s.File != ""
}

// GetAllURLs returns the primary URL plus backups.
func (s *SourceConfig) GetAllURLs() []string {
	urls := []string{s.URL}
	urls = append(urls, s.BackupURLs...)

	return urls
}

// RetryPolicy defines HTTP retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the per-request timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// OutputConfig defines output behavior.
type OutputConfig struct {
	BasePath    string `yaml:"base_path"`
	Format      string `yaml:"format"`
	PrettyPrint bool   `yaml:"pretty_print"`
	// SQLitePath, when set, additionally persists emitted records to a
	// SQLite database.
	SQLitePath string `yaml:"sqlite_path"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DedupConfig selects the duplicate key composition.
type DedupConfig struct {
	KeyPolicy string `yaml:"key_policy"`
}

// LoadConfig loads and validates configuration from a YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves configuration to a YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Crawler.Logging.Level == "" {
		c.Crawler.Logging.Level = "info"
	}

	if c.Crawler.Logging.Format == "" {
		c.Crawler.Logging.Format = "text"
	}

	if c.Crawler.Output.Format == "" {
		c.Crawler.Output.Format = "json"
	}

	if c.Crawler.Dedup.KeyPolicy == "" {
		c.Crawler.Dedup.KeyPolicy = "auto"
	}

	if len(c.Crawler.Placeholders) == 0 {
		c.Crawler.Placeholders = []string{"[c_groceryBrand]", "[name]"}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Crawler.Sources) == 0 {
		return ErrNoSources
	}

	enabledCount := 0

	validShapes := map[string]bool{ShapeAPI: true, ShapeEmbedded: true, ShapeHTML: true}

	for i, src := range c.Crawler.Sources {
		if src.Brand == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingBrand, i)
		}

		if src.URL == "" && src.URLTemplate == "" && src.File == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingURLOrFile, i)
		}

		if !validShapes[src.Shape] {
			return fmt.Errorf("%w: source[%d] has %q", ErrSourceInvalidShape, i, src.Shape)
		}

		if src.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledSources
	}

	if c.Crawler.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Crawler.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Crawler.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoff
	}

	if c.Crawler.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Crawler.Output.BasePath == "" {
		return ErrMissingOutputPath
	}

	if c.Crawler.Output.Format != "json" && c.Crawler.Output.Format != "jsonl" {
		return ErrInvalidOutputFormat
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Crawler.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Crawler.Logging.Format != "text" && c.Crawler.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	validPolicies := map[string]bool{"auto": true, "number": true, "address_url": true}
	if !validPolicies[c.Crawler.Dedup.KeyPolicy] {
		return ErrInvalidKeyPolicy
	}

	return nil
}

// GetEnabledSources returns only enabled sources.
func (c *Config) GetEnabledSources() []SourceConfig {
	var enabled []SourceConfig

	for _, src := range c.Crawler.Sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}

	return enabled
}

// GetSourceByBrand returns the enabled source for a brand, if any.
func (c *Config) GetSourceByBrand(brand string) (SourceConfig, bool) {
	for _, src := range c.Crawler.Sources {
		if src.Brand == brand && src.Enabled {
			return src, true
		}
	}

	return SourceConfig{}, false
}

// GetOutputPath follows structure: {base_path}/{brand}/stores.{format}.
func (c *Config) GetOutputPath(brand string) string {
	return fmt.Sprintf("%s/%s/stores.%s",
		c.Crawler.Output.BasePath,
		brand,
		c.Crawler.Output.Format,
	)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sources: %d, MaxAttempts: %d, Output: %s}",
		len(c.Crawler.Sources),
		c.Crawler.Retry.MaxAttempts,
		c.Crawler.Output.BasePath,
	)
}
