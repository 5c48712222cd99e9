package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. Zero values leave the loaded
// configuration untouched.
type Flags struct {
	ConfigPath     string
	Addr           string
	Debug          bool
	OnParseFailure string
	StoreDriver    string
}

// Register binds the override flags to fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "Path to config file")
	fs.StringVar(&f.Addr, "addr", "", "HTTP listen address")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.OnParseFailure, "on-parse-failure", "", "STL parse failure policy (degrade|throw)")
	fs.StringVar(&f.StoreDriver, "store", "", "Quote store driver (memory|postgres|none)")
}

// Apply applies CLI flag overrides to the config.
func (f *Flags) Apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Addr != "" {
		cfg.Server.Addr = f.Addr
	}
	if f.OnParseFailure != "" {
		cfg.Analysis.OnParseFailure = f.OnParseFailure
	}
	if f.StoreDriver != "" {
		cfg.Store.Driver = f.StoreDriver
	}
}

// LoadWithFlags loads the configuration and applies f on top.
func LoadWithFlags(f *Flags) (*Config, error) {
	cfg, err := Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	f.Apply(cfg)
	return cfg, cfg.Validate()
}
