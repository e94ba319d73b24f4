// Package config resolves routineos settings from defaults, the TOML config
// file and command line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/keyring"
	"github.com/julianstephens/routineos/internal/storage"
	"github.com/julianstephens/routineos/internal/storage/postgres"
	"github.com/julianstephens/routineos/internal/storage/sqlite"
	"github.com/julianstephens/routineos/internal/utils"
)

// KeyringDatabase selects the connection string stored in the OS keyring.
const KeyringDatabase = "keyring"

// Config holds the resolved application configuration.
type Config struct {
	// Database is a SQLite path, a PostgreSQL connection string or
	// KeyringDatabase.
	Database string `toml:"database"`
	Debug    bool   `toml:"debug"`
	LogDir   string `toml:"log_dir"`
	Timezone string `toml:"timezone"`
}

// Flags are command line values. Empty strings and false leave the file or
// default value in place.
type Flags struct {
	Database string
	Debug    bool
	LogDir   string
	Timezone string
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Database: constants.DefaultDBPath,
		Debug:    false,
		LogDir:   "",
		Timezone: "Local",
	}
}

// Load reads the config file at path over the defaults and applies flags on
// top. A missing file is not an error.
func Load(path string, flags Flags) (Config, error) {
	cfg := Defaults()

	expanded, err := ExpandPath(path)
	if err != nil {
		return Config{}, err
	}
	if expanded != "" {
		if err := loadFile(&cfg, expanded); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", expanded, err)
		}
	}

	if flags.Database != "" {
		cfg.Database = flags.Database
	}
	if flags.Debug {
		cfg.Debug = true
	}
	if flags.LogDir != "" {
		cfg.LogDir = flags.LogDir
	}
	if flags.Timezone != "" {
		cfg.Timezone = flags.Timezone
	}

	return finalize(cfg)
}

// loadFile overlays the keys present in the file. Keys that are absent keep
// their current value.
func loadFile(cfg *Config, path string) error {
	var file Config
	md, err := toml.DecodeFile(path, &file)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	if md.IsDefined("database") {
		cfg.Database = file.Database
	}
	if md.IsDefined("debug") {
		cfg.Debug = file.Debug
	}
	if md.IsDefined("log_dir") {
		cfg.LogDir = file.LogDir
	}
	if md.IsDefined("timezone") {
		cfg.Timezone = file.Timezone
	}
	return nil
}

func finalize(cfg Config) (Config, error) {
	cfg.Database = strings.TrimSpace(cfg.Database)
	if cfg.Database == "" {
		cfg.Database = constants.DefaultDBPath
	}
	if cfg.Database != KeyringDatabase && !postgres.IsConnString(cfg.Database) && !postgres.IsDSN(cfg.Database) {
		p, err := ExpandPath(cfg.Database)
		if err != nil {
			return Config{}, err
		}
		cfg.Database = p
	}

	if cfg.LogDir != "" {
		p, err := ExpandPath(cfg.LogDir)
		if err != nil {
			return Config{}, err
		}
		cfg.LogDir = p
	}

	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if !utils.ValidateTimezone(cfg.Timezone) {
		return Config{}, fmt.Errorf("invalid timezone %q", cfg.Timezone)
	}
	return cfg, nil
}

// ConfigDir is where logs and the default database live.
func ConfigDir() string {
	dir, err := ExpandPath(constants.DefaultConfigDir)
	if err != nil {
		return "."
	}
	return dir
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// Source tells where a resolved connection string came from.
type Source string

const (
	SourceSQLite  Source = "sqlite"
	SourceConfig  Source = "config"
	SourceEnv     Source = "environment"
	SourceKeyring Source = "keyring"
)

// Getenv looks up an environment variable.
type Getenv func(string) string

// Resolver picks the storage backend for a Config.
type Resolver struct {
	Getenv  Getenv
	Keyring keyring.Credentials
}

// NewResolver reads the process environment and the default keyring entry.
func NewResolver() Resolver {
	return Resolver{Getenv: os.Getenv, Keyring: keyring.Default()}
}

// Resolve returns the connection target for cfg. A PostgreSQL string given
// on the command line or in the config file must not carry a password;
// ROUTINEOS_DB_CONNECTION and the keyring may. The environment variable is
// used only when the database is left at its default.
func (r Resolver) Resolve(cfg Config) (string, Source, error) {
	switch {
	case cfg.Database == KeyringDatabase:
		connStr, err := r.Keyring.Get()
		if err != nil {
			return "", "", fmt.Errorf("reading connection string from keyring: %w", err)
		}
		return connStr, SourceKeyring, nil

	case postgres.IsConnString(cfg.Database) || postgres.IsDSN(cfg.Database):
		if _, err := postgres.ValidateConnString(cfg.Database); err != nil {
			return "", "", err
		}
		return cfg.Database, SourceConfig, nil
	}

	if r.Getenv != nil {
		if env := strings.TrimSpace(r.Getenv(constants.EnvDBConnection)); env != "" && isDefaultDB(cfg.Database) {
			if !postgres.IsConnString(env) && !postgres.IsDSN(env) {
				return "", "", fmt.Errorf("%w: %s must hold a PostgreSQL connection string",
					postgres.ErrInvalidConnectionString, constants.EnvDBConnection)
			}
			return env, SourceEnv, nil
		}
	}
	return cfg.Database, SourceSQLite, nil
}

func isDefaultDB(p string) bool {
	def, err := ExpandPath(constants.DefaultDBPath)
	return err == nil && p == def
}

// OpenStore builds the storage provider for cfg. The store is not yet
// initialized or loaded.
func (r Resolver) OpenStore(cfg Config) (storage.Provider, error) {
	connStr, source, err := r.Resolve(cfg)
	if err != nil {
		return nil, err
	}
	if source == SourceSQLite {
		return sqlite.NewStore(connStr), nil
	}
	return postgres.New(connStr), nil
}
