package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "IDEALAB_"

// Load loads configuration with priority: defaults < file < environment.
// An empty path searches the standard locations. Command-line flags are
// applied by the caller on top of the returned value.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./idealab.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "IdeaLab")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "IdeaLab")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "idealab")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "idealab")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

type lookupFunc func(key string) (string, bool)

// env reads typed IDEALAB_* values and remembers the first parse failure.
type env struct {
	lookup lookupFunc
	err    error
}

func (e *env) str(key string, dst *string) {
	if v, ok := e.lookup(EnvPrefix + key); ok && v != "" {
		*dst = v
	}
}

func (e *env) float(key string, dst *float64) {
	v, ok := e.lookup(EnvPrefix + key)
	if !ok || v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, err)
		return
	}
	*dst = f
}

func (e *env) integer(key string, dst *int64) {
	v, ok := e.lookup(EnvPrefix + key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.fail(key, err)
		return
	}
	*dst = n
}

func (e *env) boolean(key string, dst *bool) {
	v, ok := e.lookup(EnvPrefix + key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, err)
		return
	}
	*dst = b
}

func (e *env) duration(key string, dst *time.Duration) {
	v, ok := e.lookup(EnvPrefix + key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, err)
		return
	}
	*dst = d
}

func (e *env) fail(key string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
	}
}

// applyEnv overlays IDEALAB_* environment variables onto cfg.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	e := &env{lookup: lookup}

	e.str("ADDR", &cfg.Server.Addr)
	e.integer("MAX_UPLOAD_BYTES", &cfg.Server.MaxUploadBytes)
	e.boolean("METRICS_ENABLED", &cfg.Server.MetricsEnabled)
	e.str("GRPC_HEALTH_ADDR", &cfg.GRPC.HealthAddr)

	e.float("RATE_STUDENT", &cfg.Pricing.Rates.StudentPerGram)
	e.float("RATE_GUEST", &cfg.Pricing.Rates.GuestPerGram)
	e.float("DENSITY", &cfg.Pricing.Density)
	e.float("FALLBACK_WEIGHT_GRAMS", &cfg.Pricing.FallbackWeightGrams)

	e.float("OVERHANG_THRESHOLD", &cfg.Support.OverhangThreshold)
	e.str("ON_PARSE_FAILURE", &cfg.Analysis.OnParseFailure)

	e.duration("FETCH_TIMEOUT", &cfg.Fetch.Timeout)
	e.integer("FETCH_MAX_BYTES", &cfg.Fetch.MaxBytes)

	e.boolean("S3_ENABLED", &cfg.S3.Enabled)
	e.str("S3_ENDPOINT", &cfg.S3.Endpoint)
	e.str("S3_REGION", &cfg.S3.Region)
	e.str("S3_ACCESS_KEY_ID", &cfg.S3.AccessKeyID)
	e.str("S3_SECRET_ACCESS_KEY", &cfg.S3.SecretAccessKey)
	e.boolean("S3_USE_PATH_STYLE", &cfg.S3.UsePathStyle)

	e.str("STORE_DRIVER", &cfg.Store.Driver)
	e.str("POSTGRES_DSN", &cfg.Store.PostgresDSN)

	e.str("PCB_CATALOG", &cfg.PCB.CatalogPath)

	e.str("LOG_LEVEL", &cfg.Logging.Level)
	e.str("LOG_FILE", &cfg.Logging.LogFile)
	e.boolean("LOG_JSON", &cfg.Logging.JSON)

	return e.err
}
