// Package config handles service configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/themxtr/idealab2.1-sub000/pkg/analysis"
	"github.com/themxtr/idealab2.1-sub000/pkg/pricing"
)

// Config holds all service settings.
type Config struct {
	Server   ServerConfig           `yaml:"server"`
	GRPC     GRPCConfig             `yaml:"grpc"`
	Pricing  PricingConfig          `yaml:"pricing"`
	Support  analysis.SupportParams `yaml:"support"`
	Analysis AnalysisConfig         `yaml:"analysis"`
	Fetch    FetchConfig            `yaml:"fetch"`
	S3       S3Config               `yaml:"s3"`
	Store    StoreConfig            `yaml:"store"`
	PCB      PCBConfig              `yaml:"pcb"`
	Logging  LoggingConfig          `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	MetricsEnabled  bool          `yaml:"metrics_enabled"`
}

// GRPCConfig holds the gRPC health listener. An empty address disables it.
type GRPCConfig struct {
	HealthAddr string `yaml:"health_addr"`
}

// PricingConfig holds print pricing.
type PricingConfig struct {
	Rates   pricing.Rates `yaml:"rates"`
	Density float64       `yaml:"density"`
	// FallbackWeightGrams is the caller-side floor applied to degraded
	// parses. Zero disables it.
	FallbackWeightGrams float64 `yaml:"fallback_weight_grams"`
}

// AnalysisConfig holds mesh analysis settings.
type AnalysisConfig struct {
	OnParseFailure string `yaml:"on_parse_failure"`
}

// FetchConfig holds remote model download settings.
type FetchConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	MaxBytes int64         `yaml:"max_bytes"`
}

// S3Config holds settings for s3:// model sources. An empty region and
// endpoint fall back to the AWS default chain.
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// StoreConfig selects the quote ledger backend.
type StoreConfig struct {
	Driver      string `yaml:"driver"` // "memory", "postgres" or "none"
	PostgresDSN string `yaml:"postgres_dsn"`
}

// PCBConfig points at an optional catalog override.
type PCBConfig struct {
	CatalogPath string `yaml:"catalog_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  50 << 20,
			MetricsEnabled:  true,
		},
		Pricing: PricingConfig{
			Rates:   pricing.DefaultRates(),
			Density: pricing.DefaultDensity,
		},
		Support: analysis.DefaultSupportParams(),
		Analysis: AnalysisConfig{
			OnParseFailure: string(analysis.Degrade),
		},
		Fetch: FetchConfig{
			Timeout:  20 * time.Second,
			MaxBytes: 50 << 20,
		},
		S3: S3Config{
			Region: "us-east-1",
		},
		Store: StoreConfig{
			Driver: "memory",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if c.Pricing.Density <= 0 {
		return fmt.Errorf("pricing.density must be positive, got %v", c.Pricing.Density)
	}
	if c.Pricing.Rates.StudentPerGram < 0 || c.Pricing.Rates.GuestPerGram < 0 {
		return fmt.Errorf("pricing rates must not be negative")
	}
	if c.Support.OverhangThreshold < 0 || c.Support.OverhangThreshold > 1 {
		return fmt.Errorf("support.overhang_threshold must be within [0, 1], got %v", c.Support.OverhangThreshold)
	}
	if _, err := analysis.ParseFailurePolicy(c.Analysis.OnParseFailure); err != nil {
		return fmt.Errorf("analysis.on_parse_failure: %w", err)
	}
	switch c.Store.Driver {
	case "", "memory", "none":
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	return nil
}

// FailurePolicy returns the parsed STL failure policy.
func (c *Config) FailurePolicy() analysis.FailurePolicy {
	p, err := analysis.ParseFailurePolicy(c.Analysis.OnParseFailure)
	if err != nil {
		return analysis.Degrade
	}
	return p
}
