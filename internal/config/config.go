package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"xwords/internal/storage"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// OutputLocation is where generated files are stored: a directory or an
	// s3://bucket/prefix url.
	OutputLocation string `env:"XWORDS_OUTPUT" envDefault:"./outputs"`
	DatabaseURL    string `env:"DATABASE_URL" envDefault:"./data/xwords.db"`

	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`

	APIPort string `env:"API_PORT" envDefault:"8001"`

	// MaxCombinations caps the sentences a single request may expand to. Zero
	// disables the cap.
	MaxCombinations    int  `env:"MAX_COMBINATIONS" envDefault:"1000000"`
	AllowAliasOverride bool `env:"ALLOW_ALIAS_OVERRIDE" envDefault:"false"`
	// Seed makes generation reproducible. Zero seeds from the clock.
	Seed int64 `env:"SEED" envDefault:"0"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.MaxCombinations < 0 {
		return Config{}, fmt.Errorf("MAX_COMBINATIONS must not be negative, got %d", cfg.MaxCombinations)
	}

	if cfg.S3EndpointURL != "" && (cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "") {
		slog.Warn("S3_ENDPOINT_URL is set, but AWS_ACCESS_KEY_ID or AWS_SECRET_ACCESS_KEY are missing")
	}

	return cfg, nil
}

func (c Config) S3ClientConfig() storage.S3ClientConfig {
	return storage.S3ClientConfig{
		Endpoint:        c.S3EndpointURL,
		Region:          c.S3Region,
		AccessKeyID:     c.S3AccessKeyID,
		SecretAccessKey: c.S3SecretAccessKey,
	}
}

func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return 0, fmt.Errorf("invalid log level '%s': %w", level, err)
	}
	return l, nil
}

// NewLogger builds a text or json slog logger writing to w.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	l, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: l}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format '%s', expected text or json", format)
	}
}

// SetupLogging installs the configured logger as the slog default.
func (c Config) SetupLogging(w io.Writer) error {
	logger, err := NewLogger(w, c.LogLevel, c.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
