package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultOutput   = "./diagram-index.json"
	DefaultStore    = StoreJSON
	DefaultDebounce = 500 * time.Millisecond

	// FileName is the optional per-project config file
	FileName = ".diagindex.toml"

	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config holds the CLI defaults. Flags override these values.
type Config struct {
	Output      string        `toml:"output"`
	Store       string        `toml:"store"`
	Incremental bool          `toml:"incremental"`
	Verbose     bool          `toml:"verbose"`
	Debounce    time.Duration `toml:"-"`

	DebounceMillis int `toml:"watch_debounce_ms"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Output:   DefaultOutput,
		Store:    DefaultStore,
		Debounce: DefaultDebounce,
	}
}

// Load builds the configuration from defaults, the config file in dir,
// a .env file in dir and the DIAGINDEX_* environment variables, in that
// order of increasing precedence.
func Load(dir string) (Config, error) {
	cfg := Default()

	if err := cfg.loadFile(filepath.Join(dir, FileName)); err != nil {
		return cfg, err
	}

	// Variables already set in the environment win over .env
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if c.DebounceMillis > 0 {
		c.Debounce = time.Duration(c.DebounceMillis) * time.Millisecond
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DIAGINDEX_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("DIAGINDEX_STORE"); v != "" {
		c.Store = v
	}
	if v := os.Getenv("DIAGINDEX_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DIAGINDEX_VERBOSE: %w", err)
		}
		c.Verbose = b
	}
	if v := os.Getenv("DIAGINDEX_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DIAGINDEX_DEBOUNCE: %w", err)
		}
		c.Debounce = d
	}
	return nil
}

// OutputFor returns the configured output, switching the default file
// name to a .db file when the sqlite store is selected
func (c Config) OutputFor(store string) string {
	if store == StoreSQLite && c.Output == DefaultOutput {
		return "./diagram-index.db"
	}
	return c.Output
}
