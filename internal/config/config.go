// Package config holds the process configuration: where to listen, where the
// sentiment backend lives, and how long an outbound call may take.
package config

import (
	"os"
	"time"
)

// Defaults. The dashboard conventionally listens on :3000; the backend
// service conventionally runs on localhost:5000.
const (
	DefaultAddr       = ":3000"
	DefaultBackendURL = "http://localhost:5000"
	DefaultTimeout    = 5 * time.Second
)

// Environment variable names. A .env file loaded at startup can supply these.
const (
	EnvAddr       = "STOCKPULSE_ADDR"
	EnvBackendURL = "STOCKPULSE_BACKEND_URL"
	EnvTimeout    = "STOCKPULSE_TIMEOUT"
)

type Config struct {
	Addr       string
	BackendURL string
	Timeout    time.Duration
}

func Default() Config {
	return Config{
		Addr:       DefaultAddr,
		BackendURL: DefaultBackendURL,
		Timeout:    DefaultTimeout,
	}
}

// ApplyEnv overlays environment values on top of c. The command layer applies
// explicitly-set flags afterwards, so precedence is flag > env > default.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.BackendURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Timeout = d
		}
	}
}
