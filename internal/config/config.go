package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type ClassifierConfig struct {
	Model string `mapstructure:"model"`
}

// PipelineConfig holds the parsing heuristics that the original implementation
// kept as module-level constants. They are explicit configuration so the
// parser and extractor receive them as immutable values.
type PipelineConfig struct {
	// PaymentPhrases are matched case-insensitively against descriptions to
	// recognize credit-card bill payments (excluded from sign negation).
	PaymentPhrases []string `mapstructure:"payment_phrases"`
	// CurrencySymbols are probed against page 1 in slice order; the first
	// symbol present wins, so the order is a fixed priority.
	CurrencySymbols []string `mapstructure:"currency_symbols"`
}

type NotionConfig struct {
	Token      string `mapstructure:"token"`
	DatabaseID string `mapstructure:"database_id"`
}

type BigQueryConfig struct {
	Project string `mapstructure:"project"`
	Dataset string `mapstructure:"dataset"`
	Table   string `mapstructure:"table"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Notion     NotionConfig     `mapstructure:"notion"`
	BigQuery   BigQueryConfig   `mapstructure:"bigquery"`
	Log        LogConfig        `mapstructure:"log"`
}

// Load reads configuration from the given file path (e.g. "config.yaml").
// If path is empty it looks for "config.yaml" in the working directory.
// A missing file is not an error; defaults and FIN_* environment overrides
// still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. FIN_DATABASE_PATH=/tmp/fin.db
	v.SetEnvPrefix("FIN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && path == "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if path != "" {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "finsight.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("classifier.model", "gemini-2.0-flash")
	v.SetDefault("pipeline.payment_phrases", []string{
		"payment - thank you",
		"credit card bill payment",
	})
	v.SetDefault("pipeline.currency_symbols", []string{"$", "₩"})
	v.SetDefault("bigquery.dataset", "finance")
	v.SetDefault("bigquery.table", "transactions")
	v.SetDefault("log.level", "info")
}
