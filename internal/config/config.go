package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// DataConfig points at the external data files the pipeline consumes and
// the logs it produces.
type DataConfig struct {
	CuratedCSV    string `yaml:"curated_csv" mapstructure:"curated_csv"`
	RulesFile     string `yaml:"rules_file" mapstructure:"rules_file"`
	IntensityCSV  string `yaml:"intensity_csv" mapstructure:"intensity_csv"`
	AuditLog      string `yaml:"audit_log" mapstructure:"audit_log"`
	TrainingLog   string `yaml:"training_log" mapstructure:"training_log"`
	ModelManifest string `yaml:"model_manifest" mapstructure:"model_manifest"`
}

// PipelineConfig configures estimation behavior.
type PipelineConfig struct {
	IncludePackaging bool    `yaml:"include_packaging" mapstructure:"include_packaging"`
	DestinationLat   float64 `yaml:"destination_lat" mapstructure:"destination_lat"`
	DestinationLon   float64 `yaml:"destination_lon" mapstructure:"destination_lon"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrent int     `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ECO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "ecotrace.db")
	v.SetDefault("data.curated_csv", "data/brand_origins.csv")
	v.SetDefault("data.intensity_csv", "data/material_intensity.csv")
	v.SetDefault("data.audit_log", "data/unrecognized_brands.txt")
	v.SetDefault("data.training_log", "data/training_log.jsonl")
	v.SetDefault("pipeline.include_packaging", true)
	v.SetDefault("batch.max_concurrent", 5)
	v.SetDefault("batch.rate_per_sec", 2)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
