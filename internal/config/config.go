// Package config resolves settings from flags, environment and the
// optional config file, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Backend names accepted by the "backend" setting.
const (
	BackendMPC    = "mpc"
	BackendNative = "native"
)

// Config holds every runtime setting.
type Config struct {
	MPCBin   string
	Host     string
	Port     int
	Password string
	Backend  string

	Timeout    time.Duration
	MaxResults int

	CachePath string
	CacheTTL  time.Duration

	LogFile  string
	LogLevel string

	ServeAddr string

	Verbose bool
}

// SetDefaults registers defaults and the environment bindings MPD tools
// conventionally honor (MPD_HOST, MPD_PORT, MPC).
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mpc_bin", "mpc")
	v.SetDefault("mpd_host", "localhost")
	v.SetDefault("mpd_port", 6600)
	v.SetDefault("mpd_password", "")
	v.SetDefault("backend", BackendMPC)
	v.SetDefault("timeout", "10s")
	v.SetDefault("max_results", 0)
	v.SetDefault("cache_path", DefaultCachePath())
	v.SetDefault("cache_ttl", "60s")
	v.SetDefault("log_file", DefaultLogPath())
	v.SetDefault("log_level", "info")
	v.SetDefault("serve_addr", "127.0.0.1:6611")

	v.BindEnv("mpc_bin", "MPC")
	v.BindEnv("mpd_host", "MPD_HOST")
	v.BindEnv("mpd_port", "MPD_PORT")
	v.BindEnv("mpd_password", "MPD_PASSWORD")
}

// FromViper builds and validates a Config.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		MPCBin:     v.GetString("mpc_bin"),
		Host:       v.GetString("mpd_host"),
		Port:       v.GetInt("mpd_port"),
		Password:   v.GetString("mpd_password"),
		Backend:    v.GetString("backend"),
		Timeout:    v.GetDuration("timeout"),
		MaxResults: v.GetInt("max_results"),
		CachePath:  v.GetString("cache_path"),
		CacheTTL:   v.GetDuration("cache_ttl"),
		LogFile:    v.GetString("log_file"),
		LogLevel:   v.GetString("log_level"),
		ServeAddr:  v.GetString("serve_addr"),
		Verbose:    v.GetBool("verbose"),
	}

	if cfg.Backend != BackendMPC && cfg.Backend != BackendNative {
		return nil, fmt.Errorf("invalid backend %q (want %q or %q)", cfg.Backend, BackendMPC, BackendNative)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid mpd_port %d", cfg.Port)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive")
	}
	return cfg, nil
}

// DefaultCachePath prefers the cache directory Alfred assigns the
// workflow, falling back to the user cache dir.
func DefaultCachePath() string {
	if dir := os.Getenv("alfred_workflow_cache"); dir != "" {
		return filepath.Join(dir, "results.db")
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "alfred-mpd", "results.db")
}

// DefaultLogPath prefers the data directory Alfred assigns the workflow.
func DefaultLogPath() string {
	if dir := os.Getenv("alfred_workflow_data"); dir != "" {
		return filepath.Join(dir, "alfred-mpd.log")
	}
	return ""
}
