package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid-metrics-etl/internal/domain"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultSourceURL, cfg.SourceURL)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "Ecuador", cfg.CountryBase)
	assert.Equal(t, "Peru", cfg.CountryCompare)
	assert.Equal(t, "reports", cfg.OutputDir)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.CronSchedule)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Empty(t, cfg.KafkaReportTopic)
	assert.False(t, cfg.ReportEnabled)
	assert.Empty(t, cfg.AliasFile)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("SOURCE_URL", "https://example.com/owid.csv")
	t.Setenv("FETCH_TIMEOUT", "90s")
	t.Setenv("COUNTRY_BASE", "Chile")
	t.Setenv("COUNTRY_COMPARE", "Argentina")
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CRON_SCHEDULE", "0 6 * * *")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_REPORT_TOPIC", "covid-run-reports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/owid.csv", cfg.SourceURL)
	assert.Equal(t, 90*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "Chile", cfg.CountryBase)
	assert.Equal(t, "Argentina", cfg.CountryCompare)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "0 6 * * *", cfg.CronSchedule)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "covid-run-reports", cfg.KafkaReportTopic)
	assert.True(t, cfg.ReportEnabled)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidFetchTimeout(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
}

func TestLoad_NegativeFetchTimeout(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "-5s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
}

func TestLoad_SameCountries(t *testing.T) {
	t.Setenv("COUNTRY_BASE", "Peru")
	t.Setenv("COUNTRY_COMPARE", "Peru")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestLoad_ReportEnabledWithoutTopic(t *testing.T) {
	t.Setenv("REPORT_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_REPORT_TOPIC")
}

func TestLoad_ReportTopicImpliesEnabled(t *testing.T) {
	t.Setenv("KAFKA_REPORT_TOPIC", "covid-run-reports")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.ReportEnabled)
}

func TestLoad_ReportExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_REPORT_TOPIC", "covid-run-reports")
	t.Setenv("REPORT_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.ReportEnabled)
}

func TestCountries(t *testing.T) {
	cfg := &Config{CountryBase: "Ecuador", CountryCompare: "Peru"}
	assert.Equal(t, []string{"Ecuador", "Peru"}, cfg.Countries())
}

func TestAliases_Default(t *testing.T) {
	cfg := &Config{}
	aliases, err := cfg.Aliases()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAliases, aliases)
}

func TestLoadAliases(t *testing.T) {
	t.Run("valid file overrides the table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aliases.yaml")
		content := `- canonical: location
  aliases: [location, land]
- canonical: date
  aliases: [date, datum]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		aliases, err := LoadAliases(path)
		require.NoError(t, err)
		require.Len(t, aliases, 2)
		assert.Equal(t, "location", aliases[0].Canonical)
		assert.Equal(t, []string{"location", "land"}, aliases[0].Aliases)

		f := domain.Frame{Columns: []string{"Land", "Datum"}}
		got := domain.Normalize(f, aliases)
		assert.Equal(t, []string{"location", "date"}, got.Columns)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := LoadAliases(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read alias file")
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("canonical: [unbalanced"), 0o644))

		_, err := LoadAliases(path)
		require.Error(t, err)
	})

	t.Run("empty table errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0o644))

		_, err := LoadAliases(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "defines no fields")
	})
}
