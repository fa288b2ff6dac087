// Package config defines service configuration and its loading order:
// defaults, then an optional YAML file named by MUDRA_CONFIG, then MUDRA_
// prefixed environment variables.
package config

import (
	"github.com/ayusman/mudra/internal/pipeline"
)

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite database; empty means ~/.mudra/mudra.db.
	DBPath string `koanf:"db_path"`

	// WebDir serves a static monitor page when set.
	WebDir string `koanf:"web_dir"`

	// HookTimeoutMs bounds zone hook execution.
	HookTimeoutMs int `koanf:"hook_timeout_ms"`

	// Pipeline holds the default analysis options applied to new
	// sessions that carry no profile or inline options.
	Pipeline pipeline.Options `koanf:"pipeline"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Addr:          ":8080",
		HookTimeoutMs: 5000,
		Pipeline:      pipeline.DefaultOptions(),
	}
}
