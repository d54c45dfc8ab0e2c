// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/redmarkhq/redmark/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger     logger.Config `toml:"logger"` // Embed logger config under [logger] table
	Editor     EditorConfig  `toml:"editor"` // Editor-specific settings
	ErrorTypes []ErrorType   `toml:"error_type"`
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	MaxHistory      int           `toml:"max_history"`
	SystemClipboard bool          `toml:"system_clipboard"`
	StatusBarHeight int           `toml:"status_bar_height"`
	SaveDebounce    time.Duration `toml:"-"`
	SaveDebounceMS  int           `toml:"save_debounce_ms"`
	SavePath        string        `toml:"save_path"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: "", // Empty means default path logic in logger.Init applies
		},
		Editor: EditorConfig{
			MaxHistory:      DefaultMaxHistory,
			SystemClipboard: SystemClipboard,
			StatusBarHeight: StatusBarHeight,
			SaveDebounce:    DefaultSaveDebounce,
		},
		ErrorTypes: DefaultErrorTypes(),
	}
}

// loadFromFile attempts to load configuration from a TOML file.
// It returns the loaded config and an error (nil if file not found or loaded successfully).
func loadFromFile(filePath string, verbose bool) (*Config, error) {
	cfg := &Config{} // Start empty, we'll merge later
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		if verbose {
			logger.Debugf("Config file not found: %s", filePath)
		}
		return cfg, nil // File not found is not an error here
	}
	if err != nil {
		return cfg, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if len(metadata.Undecoded()) > 0 && verbose {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, metadata.Undecoded())
	}
	return cfg, nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.MaxHistory <= 0 {
		c.Editor.MaxHistory = defaults.Editor.MaxHistory
	}
	if c.Editor.StatusBarHeight <= 0 {
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
	}
	if c.Editor.SaveDebounceMS > 0 {
		c.Editor.SaveDebounce = time.Duration(c.Editor.SaveDebounceMS) * time.Millisecond
	}
	if c.Editor.SaveDebounce <= 0 {
		c.Editor.SaveDebounce = defaults.Editor.SaveDebounce
	}

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}

	c.ErrorTypes = normalizeErrorTypes(c.ErrorTypes)
	if len(c.ErrorTypes) == 0 {
		c.ErrorTypes = DefaultErrorTypes()
	}
}

// LoadConfig orchestrates loading defaults, file, applying flags, and validation.
// It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		// During initial load, avoid logging as logger isn't initialized yet
		verbose := false

		cfg := NewDefaultConfig() // Start with defaults

		// Determine effective config file path
		effectivePath := configFilePath
		if effectivePath == "" { // If flag not set, try default location
			configDir, err := os.UserConfigDir()
			if err == nil {
				effectivePath = filepath.Join(configDir, ConfigDirName, DefaultConfigFileName)
			} else {
				effectivePath = "" // Cannot load default path
			}
		}

		// Load from file if path is determined
		if effectivePath != "" {
			fileCfg, err := loadFromFile(effectivePath, verbose)
			if err != nil {
				loadErr = err
			} else if fileCfg != nil {
				if fileCfg.Logger.LogLevel != "" {
					cfg.Logger = fileCfg.Logger
				}
				if fileCfg.Editor.MaxHistory > 0 {
					cfg.Editor.MaxHistory = fileCfg.Editor.MaxHistory
				}
				if fileCfg.Editor.SaveDebounceMS > 0 {
					cfg.Editor.SaveDebounceMS = fileCfg.Editor.SaveDebounceMS
				}
				if fileCfg.Editor.SavePath != "" {
					cfg.Editor.SavePath = fileCfg.Editor.SavePath
				}
				cfg.Editor.SystemClipboard = fileCfg.Editor.SystemClipboard
				if len(fileCfg.ErrorTypes) > 0 {
					cfg.ErrorTypes = fileCfg.ErrorTypes
				}
			}
		}

		// Apply flag overrides (if flags were parsed)
		if flags != nil {
			flags.ApplyOverrides(cfg, verbose)
		}

		// Validate the final merged configuration
		cfg.validate()

		loadedConfig = cfg // Store globally
	})

	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
