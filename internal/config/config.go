// Package config assembles the daemon's startup configuration from
// environment variables, with an optional YAML file providing lower
// priority defaults, plus a file layer for local dev convenience.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vibecut/daemon/internal/platform/envutil"
)

// RetrievalBackendKind selects which retrieval.Backend gets wired at
// startup.
type RetrievalBackendKind string

const (
	RetrievalLocal             RetrievalBackendKind = "local"
	RetrievalExternal          RetrievalBackendKind = "external"
	RetrievalExternalThenLocal RetrievalBackendKind = "external_then_local"
)

// Config is every knob main() needs before it can start serving.
type Config struct {
	DBPath             string `yaml:"db_path"`
	CacheDir           string `yaml:"cache_dir"`
	HTTPAddr           string `yaml:"http_addr"`
	TickRate           int    `yaml:"tick_rate"`
	SchedulerPollMS    int    `yaml:"scheduler_poll_ms"`
	RetrievalBackend   RetrievalBackendKind `yaml:"retrieval_backend"`
	MLServiceBaseURL   string `yaml:"ml_service_base_url"`
	VideoSearchBaseURL string `yaml:"video_search_base_url"`
	RedisAddr          string `yaml:"redis_addr"`
	RedisChannel       string `yaml:"redis_channel"`
	ExternalBackoffMinS int   `yaml:"external_backoff_min_seconds"`
	ExternalBackoffMaxS int   `yaml:"external_backoff_max_seconds"`
}

// SchedulerPollInterval is SchedulerPollMS as a time.Duration.
func (c Config) SchedulerPollInterval() time.Duration {
	return time.Duration(c.SchedulerPollMS) * time.Millisecond
}

func defaults() Config {
	return Config{
		DBPath:              "./vibecut.db",
		CacheDir:            "./vibecut-cache",
		HTTPAddr:            ":8787",
		TickRate:            48000,
		SchedulerPollMS:     1000,
		RetrievalBackend:    RetrievalLocal,
		MLServiceBaseURL:    "http://localhost:9001",
		VideoSearchBaseURL:  "http://localhost:9002",
		RedisChannel:        "vibecut:job_events",
		ExternalBackoffMinS: 5,
		ExternalBackoffMaxS: 60,
	}
}

// Load builds a Config from, in ascending priority: built-in defaults,
// an optional YAML file (VIBECUT_CONFIG_FILE, skipped silently if
// unset or missing), then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("VIBECUT_CONFIG_FILE"); path != "" {
		if err := applyYAMLFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg.DBPath = envutil.String("VIBECUT_DB_PATH", cfg.DBPath)
	cfg.CacheDir = envutil.String("VIBECUT_CACHE_DIR", cfg.CacheDir)
	cfg.HTTPAddr = envutil.String("VIBECUT_HTTP_ADDR", cfg.HTTPAddr)
	cfg.TickRate = envutil.Int("VIBECUT_TICK_RATE", cfg.TickRate)
	cfg.SchedulerPollMS = envutil.Int("VIBECUT_SCHEDULER_POLL_MS", cfg.SchedulerPollMS)
	cfg.RetrievalBackend = RetrievalBackendKind(envutil.String("VIBECUT_RETRIEVAL_BACKEND", string(cfg.RetrievalBackend)))
	cfg.MLServiceBaseURL = envutil.String("VIBECUT_ML_BASE_URL", cfg.MLServiceBaseURL)
	cfg.VideoSearchBaseURL = envutil.String("VIBECUT_VIDEOSEARCH_BASE_URL", cfg.VideoSearchBaseURL)
	cfg.RedisAddr = envutil.String("VIBECUT_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisChannel = envutil.String("VIBECUT_REDIS_CHANNEL", cfg.RedisChannel)
	cfg.ExternalBackoffMinS = envutil.Int("VIBECUT_EXTERNAL_BACKOFF_MIN_S", cfg.ExternalBackoffMinS)
	cfg.ExternalBackoffMaxS = envutil.Int("VIBECUT_EXTERNAL_BACKOFF_MAX_S", cfg.ExternalBackoffMaxS)

	switch cfg.RetrievalBackend {
	case RetrievalLocal, RetrievalExternal, RetrievalExternalThenLocal:
	default:
		return Config{}, fmt.Errorf("config: invalid retrieval_backend %q", cfg.RetrievalBackend)
	}
	return cfg, nil
}

func applyYAMLFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}
