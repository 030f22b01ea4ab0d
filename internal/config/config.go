// Package config loads layered TOML configuration: built-in defaults, then
// the global file, then an opt-in project file, then environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL          = "http://127.0.0.1:7341"
	DefaultLogLevel        = "info"
	DefaultAutosaveDelayMS = 500
	DefaultDataDirName     = ".attachmi"
	DefaultDBFileName      = "attachmi.db"
	DefaultBlobDirName     = "attachments"

	configFileName = ".attachmi.toml"

	configDirEnvKey          = "ATTACHMI_CONFIG_DIR"
	trustProjectConfigEnvKey = "ATTACHMI_TRUST_PROJECT_CONFIG"
	apiURLEnvKey             = "ATTACHMI_API_URL"
	dbPathEnvKey             = "ATTACHMI_DB"
	blobDirEnvKey            = "ATTACHMI_BLOB_DIR"
	logLevelEnvKey           = "ATTACHMI_LOG_LEVEL"
)

// Config defines runtime configuration for attachmi.
type Config struct {
	APIURL          string `toml:"api_url"`
	DBPath          string `toml:"db_path"`
	BlobDir         string `toml:"blob_dir"`
	DownloadsDir    string `toml:"downloads_dir"`
	LogLevel        string `toml:"log_level"`
	AutosaveDelayMS int    `toml:"autosave_delay_ms"`

	TrustedProjectConfigPath string `toml:"-"`
}

// Default returns default configuration values. DBPath and BlobDir stay
// empty here; Load resolves them against the home data directory.
func Default() Config {
	return Config{
		APIURL:          DefaultAPIURL,
		LogLevel:        DefaultLogLevel,
		AutosaveDelayMS: DefaultAutosaveDelayMS,
	}
}

// Load reads config from trusted files and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			if err := loadFile(filepath.Join(home, configFileName), &cfg); err != nil {
				return nil, err
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, configFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	if apiURL := os.Getenv(apiURLEnvKey); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv(dbPathEnvKey); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if blobDir := os.Getenv(blobDirEnvKey); blobDir != "" {
		cfg.BlobDir = blobDir
	}
	if level := strings.TrimSpace(os.Getenv(logLevelEnvKey)); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.resolveDataPaths(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.AutosaveDelayMS <= 0 {
		cfg.AutosaveDelayMS = DefaultAutosaveDelayMS
	}

	return &cfg, nil
}

// resolveDataPaths fills in the db and blob locations under ~/.attachmi
// when the config leaves them empty.
func (c *Config) resolveDataPaths() error {
	if c.DBPath != "" && c.BlobDir != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	dataDir := filepath.Join(home, DefaultDataDirName)
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dataDir, DefaultDBFileName)
	}
	if c.BlobDir == "" {
		c.BlobDir = filepath.Join(dataDir, DefaultBlobDirName)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

var allowedKeys = []string{
	"api_url",
	"db_path",
	"blob_dir",
	"downloads_dir",
	"log_level",
	"autosave_delay_ms",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "blob_dir":
		return c.BlobDir, nil
	case "downloads_dir":
		return c.DownloadsDir, nil
	case "log_level":
		return c.LogLevel, nil
	case "autosave_delay_ms":
		return strconv.Itoa(c.AutosaveDelayMS), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	data[key] = parsedValue

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "autosave_delay_ms":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			return strings.ToLower(value), nil
		default:
			return nil, fmt.Errorf("%s must be one of debug, info, warn, error", key)
		}
	default:
		return value, nil
	}
}
