// Package config provides configuration management for relictum.
// It loads YAML settings from the user config directory, applies defaults for
// anything left out, and lets RELICTUM_* environment variables override a few
// keys that are commonly changed per machine.
package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
)

// Config represents the application configuration.
type Config struct {
	Settings   Settings         `yaml:"settings"`
	Integrity  IntegrityConfig  `yaml:"integrity"`
	Update     UpdateConfig     `yaml:"update"`
	Search     SearchConfig     `yaml:"search"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Latency    LatencyConfig    `yaml:"latency"`
	Hooks      HooksConfig      `yaml:"hooks"`
	Launch     LaunchConfig     `yaml:"launch"`
}

// Settings represents general application settings.
type Settings struct {
	// Directory settings
	DataDir  string `yaml:"data_dir,omitempty" env:"RELICTUM_DATA_DIR"`
	CacheDir string `yaml:"cache_dir,omitempty"`

	// Network settings
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	DetailTimeout   time.Duration `yaml:"detail_timeout"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`
	ArchiveTimeout  time.Duration `yaml:"archive_timeout"`
	UserAgent       string        `yaml:"user_agent,omitempty"`
	CatalogURL      string        `yaml:"catalog_url" env:"RELICTUM_CATALOG_URL"`

	// Output settings
	OutputFormat  string `yaml:"output_format"` // text, json
	LogLevel      string `yaml:"log_level" env:"RELICTUM_LOG_LEVEL"`
	LogFile       string `yaml:"log_file,omitempty"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`
}

// IntegrityConfig controls the self-verification check.
type IntegrityConfig struct {
	Enabled    bool   `yaml:"enabled" env:"RELICTUM_INTEGRITY_ENABLED"`
	Endpoint   string `yaml:"endpoint" env:"RELICTUM_INTEGRITY_ENDPOINT"`
	BundlePath string `yaml:"bundle_path,omitempty"`
}

// UpdateConfig points the update check at a GitHub repository.
type UpdateConfig struct {
	Repository string `yaml:"repository"`
}

// SearchConfig tunes executable discovery.
type SearchConfig struct {
	MaxDepth   int      `yaml:"max_depth"`
	ExtraNames []string `yaml:"extra_names,omitempty"`
}

// ExtractionConfig selects external extraction tools.
type ExtractionConfig struct {
	SevenZipPath string `yaml:"seven_zip_path,omitempty" env:"RELICTUM_SEVEN_ZIP"`
}

// LatencyConfig configures the login server latency check.
type LatencyConfig struct {
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`
}

// HooksConfig lists tengo scripts per hook type. Scripts named
// <hook-type>.tengo in Dir are loaded as well; explicit paths win.
type HooksConfig struct {
	Dir              string `yaml:"dir,omitempty"`
	PreLaunch        string `yaml:"pre_launch,omitempty"`
	PostInstall      string `yaml:"post_install,omitempty"`
	PostAddonInstall string `yaml:"post_addon_install,omitempty"`
}

// LaunchConfig holds launch defaults.
type LaunchConfig struct {
	ClearCache bool `yaml:"clear_cache"`
}

// Default configuration values.
const (
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultDetailTimeout   = 15 * time.Second
	DefaultDownloadTimeout = 60 * time.Second
	DefaultArchiveTimeout  = 2 * time.Hour
	DefaultCatalogURL      = "https://warperia.com/"
	DefaultIntegrityURL    = "https://raw.githubusercontent.com/glorpus-work/relictum/main/security.json"
	DefaultRepository      = "glorpus-work/relictum"
	DefaultMaxDepth        = 8
	DefaultLatencyAddress  = "logon.warmane.com:3724"
	DefaultLatencyTimeout  = 2 * time.Second
	DefaultLogMaxSizeMB    = 10
	DefaultLogMaxBackups   = 3

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dataDir, err := fsutil.GetDataDir()
	if err != nil {
		dataDir = filepath.Join(os.TempDir(), fsutil.AppName)
	}
	cacheDir, err := fsutil.GetCacheDir()
	if err != nil {
		cacheDir = filepath.Join(os.TempDir(), fsutil.AppName, "cache")
	}

	return &Config{
		Settings: Settings{
			DataDir:         dataDir,
			CacheDir:        cacheDir,
			HTTPTimeout:     DefaultHTTPTimeout,
			DetailTimeout:   DefaultDetailTimeout,
			DownloadTimeout: DefaultDownloadTimeout,
			ArchiveTimeout:  DefaultArchiveTimeout,
			CatalogURL:      DefaultCatalogURL,
			OutputFormat:    "text",
			LogLevel:        "info",
			LogMaxSizeMB:    DefaultLogMaxSizeMB,
			LogMaxBackups:   DefaultLogMaxBackups,
		},
		Integrity: IntegrityConfig{
			Enabled:  true,
			Endpoint: DefaultIntegrityURL,
		},
		Update: UpdateConfig{Repository: DefaultRepository},
		Search: SearchConfig{MaxDepth: DefaultMaxDepth},
		Latency: LatencyConfig{
			Address: DefaultLatencyAddress,
			Timeout: DefaultLatencyTimeout,
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := cfg.ApplyEnv(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader. Keys missing
// from the document keep their default values.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves configuration to a file, replacing it atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateSettings(c.Settings); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrConfigValidation, err)
	}
	if c.Search.MaxDepth < 1 {
		return fmt.Errorf("%w: search.max_depth must be at least 1", errors.ErrConfigValidation)
	}
	if c.Latency.Timeout < 0 {
		return fmt.Errorf("%w: latency.timeout cannot be negative", errors.ErrConfigValidation)
	}
	if c.Integrity.Enabled {
		if err := validateURL("integrity.endpoint", c.Integrity.Endpoint); err != nil {
			return fmt.Errorf("%w: %w", errors.ErrConfigValidation, err)
		}
	}
	return nil
}

func validateSettings(s Settings) error {
	for name, d := range map[string]time.Duration{
		"http_timeout":     s.HTTPTimeout,
		"detail_timeout":   s.DetailTimeout,
		"download_timeout": s.DownloadTimeout,
		"archive_timeout":  s.ArchiveTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("settings.%s cannot be negative", name)
		}
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json)", s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", s.LogLevel)
	}
	if s.LogMaxSizeMB < 0 || s.LogMaxBackups < 0 {
		return fmt.Errorf("log rotation limits cannot be negative")
	}
	return validateURL("settings.catalog_url", s.CatalogURL)
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must be an absolute http(s) URL: %q", key, raw)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, fsutil.AppName, "config.yaml"), nil
}

// GetLibraryPath returns the path to the game library database.
func (c *Config) GetLibraryPath() string {
	return filepath.Join(c.Settings.DataDir, "state", "library.json")
}

// GetLogPath returns the log file path, or "" when file logging is off.
func (c *Config) GetLogPath() string {
	return c.Settings.LogFile
}

// GetCacheDir returns the base cache directory from settings.
func (c *Config) GetCacheDir() string {
	return c.Settings.CacheDir
}

// GetHooksDir returns the directory scanned for hook scripts.
func (c *Config) GetHooksDir() string {
	if c.Hooks.Dir != "" {
		return c.Hooks.Dir
	}
	return filepath.Join(c.Settings.DataDir, "hooks")
}

// applyDefaults fills in zero values left by an explicit empty YAML entry.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.DataDir == "" {
		c.Settings.DataDir = defaults.Settings.DataDir
	}
	if c.Settings.CacheDir == "" {
		c.Settings.CacheDir = defaults.Settings.CacheDir
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.DetailTimeout == 0 {
		c.Settings.DetailTimeout = defaults.Settings.DetailTimeout
	}
	if c.Settings.DownloadTimeout == 0 {
		c.Settings.DownloadTimeout = defaults.Settings.DownloadTimeout
	}
	if c.Settings.ArchiveTimeout == 0 {
		c.Settings.ArchiveTimeout = defaults.Settings.ArchiveTimeout
	}
	if c.Settings.CatalogURL == "" {
		c.Settings.CatalogURL = defaults.Settings.CatalogURL
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Integrity.Endpoint == "" {
		c.Integrity.Endpoint = defaults.Integrity.Endpoint
	}
	if c.Update.Repository == "" {
		c.Update.Repository = defaults.Update.Repository
	}
	if c.Search.MaxDepth == 0 {
		c.Search.MaxDepth = defaults.Search.MaxDepth
	}
	if c.Latency.Address == "" {
		c.Latency.Address = defaults.Latency.Address
	}
	if c.Latency.Timeout == 0 {
		c.Latency.Timeout = defaults.Latency.Timeout
	}
}
