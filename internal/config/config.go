// Package config handles loading and parsing application configuration.
// It supports two sources for the file location (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every value in the file can also be overridden by the environment
// variable named in its env:"..." tag.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// defaultSeedCount is used when neither the file nor SEED_COUNT sets one.
const defaultSeedCount = 20

// Config is the root configuration structure.
//
// env-required:"true" means the app refuses to start if that value is
// missing — better to crash at boot than to silently use a wrong default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite .db file.
	// Leave it empty to keep the records in memory only.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`

	// SeedCount is the number of generated students loaded into an empty
	// store at startup. Zero starts with an empty collection; absent means
	// defaultSeedCount.
	SeedCount int `yaml:"seed_count" env:"SEED_COUNT"`

	HTTPServer `yaml:"http_server"`

	Latency Latency `yaml:"latency"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
}

// Latency is the artificial delay applied before each class of operation
// completes, so the dashboard's loading states can be exercised against a
// local backend. All zero disables it.
type Latency struct {
	List   time.Duration `yaml:"list"   env:"LATENCY_LIST"`
	Get    time.Duration `yaml:"get"    env:"LATENCY_GET"`
	Create time.Duration `yaml:"create" env:"LATENCY_CREATE"`
	Query  time.Duration `yaml:"query"  env:"LATENCY_QUERY"` // search, filters, statistics
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	// Verify the file exists before trying to read it, for a clearer
	// message than a cryptic "open: no such file" later.
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	// cleanenv.ReadConfig reads the YAML file and populates the struct.
	// It also reads any env:"..." tagged fields from the environment,
	// applies env-default values and enforces env-required.
	//
	// SeedCount is preset instead of tagged env-default, so an explicit
	// seed_count: 0 in the file is kept.
	cfg := Config{SeedCount: defaultSeedCount}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if cfg.SeedCount < 0 {
		return nil, fmt.Errorf("seed_count must not be negative, got %d", cfg.SeedCount)
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. Callers do not need to
// check a returned error — if this function returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}
