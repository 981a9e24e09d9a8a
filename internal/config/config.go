package config

import (
	"errors"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	InputDir              string
	FilePattern           string
	LedgerDir             string
	ConditionalMatrixPath string
	StationProfilePath    string
	PollInterval          time.Duration
	FileSettle            time.Duration

	KafkaBrokers   []string
	KafkaSinkTopic string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	BatchSize       int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	pollInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("POLL_INTERVAL", "30s"))
	if err != nil || pollInterval <= 0 {
		return nil, errors.New("invalid POLL_INTERVAL")
	}

	fileSettle, err := time.ParseDuration(sharedcfg.EnvOrDefault("FILE_SETTLE", "5m"))
	if err != nil || fileSettle < 0 {
		return nil, errors.New("invalid FILE_SETTLE")
	}

	cfg := &Config{
		InputDir:              sharedcfg.EnvOrDefault("INPUT_DIR", "./data/incoming"),
		FilePattern:           sharedcfg.EnvOrDefault("FILE_PATTERN", "*.mis"),
		LedgerDir:             sharedcfg.EnvOrDefault("LEDGER_DIR", "./data/ledger"),
		ConditionalMatrixPath: sharedcfg.EnvOrDefault("CONDITIONAL_MATRIX_PATH", "./parsivel_conditional_matrix.txt"),
		StationProfilePath:    os.Getenv("STATION_PROFILE"),
		PollInterval:          pollInterval,
		FileSettle:            fileSettle,

		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "disdrometer-intervals"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		BatchSize:       batchSize,
	}

	if strings.TrimSpace(cfg.InputDir) == "" {
		return nil, errors.New("INPUT_DIR is required")
	}
	if strings.TrimSpace(cfg.LedgerDir) == "" {
		return nil, errors.New("LEDGER_DIR is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}
