package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

// Environment variables consulted by LoadFromEnv.
const (
	EnvStoreDir    = "GUR_STORE_DIR"
	EnvMirrorsFile = "GUR_MIRRORS_FILE"
	EnvStorage     = "GUR_STORAGE"
	EnvLogLevel    = "GUR_LOG_LEVEL"
)

// NewConfig returns a config object with defaults initialized.  The
// config can be loaded from other sources to override the defaults.
func NewConfig() *Config {
	return &Config{
		StoreDir:    "/var/db/gur",
		MirrorsFile: "/etc/gur/mirrors.csv",
		Database:    "pkg_db.json",
		Storage:     "file",
		LogLevel:    "WARN",
		Listen:      ":8080",
	}
}

// LoadFromFile does as the name suggests, and loads the config from a
// file
func (c *Config) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	return dec.Decode(c)
}

// LoadFromEnv overrides every field whose variable is set and not
// empty.
func (c *Config) LoadFromEnv() {
	for env, field := range map[string]*string{
		EnvStoreDir:    &c.StoreDir,
		EnvMirrorsFile: &c.MirrorsFile,
		EnvStorage:     &c.Storage,
		EnvLogLevel:    &c.LogLevel,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

// AddFlags binds the overridable fields to fs.  The current values
// become the flag defaults, so load files and environment first.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.StoreDir, "store-dir", c.StoreDir, "package store root")
	fs.StringVar(&c.MirrorsFile, "mirrors", c.MirrorsFile, "mirror list file")
	fs.StringVar(&c.Storage, "storage", c.Storage, "package database backend (file, bitcask)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (TRACE, DEBUG, INFO, WARN, ERROR)")
}

// Absolute resolves the store and mirror paths against the current
// directory.  The store is entered during a run, which would change
// the meaning of relative paths.
func (c *Config) Absolute() error {
	for _, p := range []*string{&c.StoreDir, &c.MirrorsFile} {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return err
		}
		*p = abs
	}
	return nil
}
