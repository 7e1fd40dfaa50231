// Package config handles mobtool configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Grabarrz90/ei-maper/internal/logger"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all mobtool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Codec   CodecConfig   `yaml:"codec"`
	IDs     IDConfig      `yaml:"ids"`
	Verify  VerifyConfig  `yaml:"verify"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// FileConfig converts the rotation settings for the logger.
func (l LoggingConfig) FileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       l.LogFile,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

// CodecConfig controls how documents are decoded.
type CodecConfig struct {
	Strict               bool `yaml:"strict"`                 // Reject text that is not valid Windows-1251
	SkipUnreadableScript bool `yaml:"skip_unreadable_script"` // Drop a keyless script instead of failing
}

// IDConfig controls map ID repair.
type IDConfig struct {
	AutoFix     bool   `yaml:"auto_fix"`     // Repair duplicate IDs on load
	FallbackMin uint32 `yaml:"fallback_min"` // First ID tried outside the document's ranges
	FallbackMax uint32 `yaml:"fallback_max"` // Exclusive upper bound of the fallback interval
}

// VerifyConfig holds batch verification settings.
type VerifyConfig struct {
	Workers int `yaml:"workers"` // Documents checked in parallel
}

// Default returns a Config with sensible default values.
func Default() *Config {
	fileDefaults := logger.DefaultFileConfig("")
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  fileDefaults.MaxSizeMB,
			MaxBackups: fileDefaults.MaxBackups,
			MaxAgeDays: fileDefaults.MaxAgeDays,
			Compress:   fileDefaults.Compress,
		},
		Codec: CodecConfig{
			Strict:               false,
			SkipUnreadableScript: false,
		},
		IDs: IDConfig{
			AutoFix:     false,
			FallbackMin: 1000,
			FallbackMax: 100000,
		},
		Verify: VerifyConfig{
			Workers: runtime.NumCPU(),
		},
	}
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}
	if c.IDs.FallbackMin == 0 || c.IDs.FallbackMin >= c.IDs.FallbackMax {
		return fmt.Errorf("%w: ids: fallback interval [%d, %d) is empty or starts at 0",
			ErrInvalidConfig, c.IDs.FallbackMin, c.IDs.FallbackMax)
	}
	if c.Verify.Workers < 1 {
		return fmt.Errorf("%w: verify.workers must be at least 1, got %d", ErrInvalidConfig, c.Verify.Workers)
	}
	return nil
}
