package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/covid-metrics-etl/internal/domain"
)

// DefaultSourceURL is the OWID compact COVID dataset.
const DefaultSourceURL = "https://catalog.ourworldindata.org/garden/covid/latest/compact/compact.csv"

// Config holds all service settings, populated from environment variables.
type Config struct {
	SourceURL    string
	FetchTimeout time.Duration

	// Base and comparison countries. The engine only ever sees this list,
	// never the environment.
	CountryBase    string
	CountryCompare string

	OutputDir string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Cron expression for scheduled runs. Empty means run once and exit.
	CronSchedule string

	// Kafka run-report publishing, enabled when a topic is configured.
	KafkaBrokers     []string
	KafkaReportTopic string
	ReportEnabled    bool

	// Optional YAML override for the column alias table.
	AliasFile string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeoutStr := sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "60s")
	fetchTimeout, err2 := time.ParseDuration(fetchTimeoutStr)
	if err2 != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	reportTopic := os.Getenv("KAFKA_REPORT_TOPIC")
	reportEnabled := reportTopic != ""
	if v := os.Getenv("REPORT_ENABLED"); v != "" {
		reportEnabled = v == "true"
	}

	cfg := &Config{
		SourceURL:    sharedcfg.EnvOrDefault("SOURCE_URL", DefaultSourceURL),
		FetchTimeout: fetchTimeout,

		CountryBase:    sharedcfg.EnvOrDefault("COUNTRY_BASE", "Ecuador"),
		CountryCompare: sharedcfg.EnvOrDefault("COUNTRY_COMPARE", "Peru"),

		OutputDir: sharedcfg.EnvOrDefault("OUTPUT_DIR", "reports"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CronSchedule: os.Getenv("CRON_SCHEDULE"),

		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaReportTopic: reportTopic,
		ReportEnabled:    reportEnabled,

		AliasFile: os.Getenv("ALIAS_FILE"),
	}

	if cfg.SourceURL == "" {
		return nil, errors.New("SOURCE_URL is required")
	}
	if cfg.CountryBase == "" || cfg.CountryCompare == "" {
		return nil, errors.New("COUNTRY_BASE and COUNTRY_COMPARE are required")
	}
	if cfg.CountryBase == cfg.CountryCompare {
		return nil, errors.New("COUNTRY_BASE and COUNTRY_COMPARE must differ")
	}
	if cfg.ReportEnabled && cfg.KafkaReportTopic == "" {
		return nil, errors.New("REPORT_ENABLED is true but KAFKA_REPORT_TOPIC is not set")
	}
	if cfg.ReportEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when report publishing is enabled")
	}

	return cfg, nil
}

// Countries returns the configured country filter, base country first.
func (c *Config) Countries() []string {
	return []string{c.CountryBase, c.CountryCompare}
}

// Aliases returns the column alias table: the built-in one, or the YAML
// override when ALIAS_FILE is set.
func (c *Config) Aliases() ([]domain.FieldAliases, error) {
	if c.AliasFile == "" {
		return domain.DefaultAliases, nil
	}
	return LoadAliases(c.AliasFile)
}

// LoadAliases reads an alias table override from a YAML file shaped as a
// list of {canonical, aliases} entries.
func LoadAliases(path string) ([]domain.FieldAliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	var aliases []domain.FieldAliases
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("parse alias file %s: %w", path, err)
	}
	if len(aliases) == 0 {
		return nil, fmt.Errorf("alias file %s defines no fields", path)
	}
	return aliases, nil
}
