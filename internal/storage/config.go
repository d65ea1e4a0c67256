// Package storage implements the persistence capability the world
// orchestrator saves and loads chunks through: a YAML-configurable policy
// (which format, which chunks get saved, how aggressively) sitting on top
// of the internal/region and internal/chunkfile codecs.
package storage

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SaveStrategy selects which chunks a Save call actually persists.
type SaveStrategy string

const (
	SaveAll                SaveStrategy = "all"
	SaveModifiedOnly       SaveStrategy = "modified_only"
	SavePlayerModifiedOnly SaveStrategy = "player_modified_only"
)

// Format selects the on-disk layout: region files (ESF) or one file per
// chunk (ESFS).
type Format string

const (
	FormatESF  Format = "esf"
	FormatESFS Format = "esfs"
)

// Config is the YAML-loadable chunk storage policy.
type Config struct {
	SaveStrategy SaveStrategy `yaml:"save_strategy"`
	Format       Format       `yaml:"storage_format"`

	EnableCompression bool `yaml:"enable_compression"`
	CompressionLevel  int  `yaml:"compression_level"` // 1-9, validated but not format-varying: both RLE codecs are deterministic

	MaxCachedRegions int `yaml:"max_cached_regions"` // ESF format only

	AutoSaveEnabled  bool    `yaml:"auto_save_enabled"`
	AutoSaveInterval float64 `yaml:"auto_save_interval_seconds"`

	BasePath string `yaml:"base_save_path"`
}

// Default returns the built-in configuration a freshly created world starts
// with.
func Default() Config {
	return Config{
		SaveStrategy:      SavePlayerModifiedOnly,
		Format:            FormatESFS,
		EnableCompression: true,
		CompressionLevel:  3,
		MaxCachedRegions:  16,
		AutoSaveEnabled:   true,
		AutoSaveInterval:  300.0,
		BasePath:          ".enigma/saves",
	}
}

// Validate reports the first structural problem with c, if any.
func (c Config) Validate() error {
	switch c.SaveStrategy {
	case SaveAll, SaveModifiedOnly, SavePlayerModifiedOnly:
	default:
		return fmt.Errorf("storage: unrecognised save_strategy %q", c.SaveStrategy)
	}
	switch c.Format {
	case FormatESF, FormatESFS:
	default:
		return fmt.Errorf("storage: unrecognised storage_format %q", c.Format)
	}
	if c.CompressionLevel < 1 || c.CompressionLevel > 9 {
		return fmt.Errorf("storage: compression_level %d out of range [1,9]", c.CompressionLevel)
	}
	if c.MaxCachedRegions < 1 || c.MaxCachedRegions > 256 {
		return fmt.Errorf("storage: max_cached_regions %d out of range [1,256]", c.MaxCachedRegions)
	}
	if c.AutoSaveInterval < 10 || c.AutoSaveInterval > 3600 {
		return fmt.Errorf("storage: auto_save_interval_seconds %v out of range [10,3600]", c.AutoSaveInterval)
	}
	if c.BasePath == "" {
		return fmt.Errorf("storage: base_save_path must not be empty")
	}
	return nil
}

// LoadConfig reads and validates a YAML storage config from path. An
// unreadable or structurally invalid document falls back to Default, with
// a warning logged through log (which may be nil).
func LoadConfig(path string, log *zap.Logger) (Config, error) {
	if log == nil {
		log = zap.NewNop()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("storage: config file unreadable, using defaults", zap.String("path", path), zap.Error(err))
		return Default(), nil
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		log.Warn("storage: config file malformed, using defaults", zap.String("path", path), zap.Error(err))
		return Default(), nil
	}

	if err := cfg.Validate(); err != nil {
		log.Warn("storage: config file failed validation, using defaults", zap.String("path", path), zap.Error(err))
		return Default(), nil
	}

	return cfg, nil
}

// SaveDefault writes the default configuration to path, creating it if
// absent. Existing files are left untouched.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	out, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
