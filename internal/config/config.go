// Package config provides configuration types and defaults for fontedit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fontedit/fontedit/internal/export"
	"github.com/fontedit/fontedit/internal/importer"
	"github.com/fontedit/fontedit/internal/log"
	"github.com/fontedit/fontedit/internal/tracing"
)

// Config holds all configuration options for fontedit.
type Config struct {
	Export  ExportConfig   `mapstructure:"export"`
	Import  ImportConfig   `mapstructure:"import"`
	Editor  EditorConfig   `mapstructure:"editor"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// ExportConfig holds the default source code export options.
type ExportConfig struct {
	Format             string        `mapstructure:"format"` // c (default), arduino or python
	InvertBits         bool          `mapstructure:"invert_bits"`
	MSBFirst           bool          `mapstructure:"msb_first"`
	IncludeLineSpacing bool          `mapstructure:"include_line_spacing"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
}

// Options converts the section into export options. Call ValidateExport first.
func (c ExportConfig) Options() export.Options {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		format = export.FormatC
	}
	return export.Options{
		Format:             format,
		InvertBits:         c.InvertBits,
		MSBFirst:           c.MSBFirst,
		IncludeLineSpacing: c.IncludeLineSpacing,
	}
}

// ImportConfig holds the rasterization defaults.
type ImportConfig struct {
	Size      float64 `mapstructure:"size"` // points
	DPI       float64 `mapstructure:"dpi"`
	Runes     string  `mapstructure:"runes"` // e.g. "32-126" or "0x41-0x5A,0x30-0x39"
	Threshold int     `mapstructure:"threshold"`
}

// Descriptor builds an import descriptor for path.
func (c ImportConfig) Descriptor(path string) (importer.Descriptor, error) {
	runes, err := importer.ParseRunes(c.Runes)
	if err != nil {
		return importer.Descriptor{}, fmt.Errorf("import.runes: %w", err)
	}
	return importer.Descriptor{
		Path:      path,
		Size:      c.Size,
		DPI:       c.DPI,
		Runes:     runes,
		Threshold: uint8(c.Threshold), //nolint:gosec // G115: range checked by ValidateImport
	}, nil
}

// EditorConfig holds session behavior.
type EditorConfig struct {
	RestoreSession bool          `mapstructure:"restore_session"` // Reopen last_document on start
	LastDocument   string        `mapstructure:"last_document"`
	WatchDocument  bool          `mapstructure:"watch_document"` // Notify when the open document changes on disk
	WatchDebounce  time.Duration `mapstructure:"watch_debounce"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/fontedit/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fontedit", "traces", "traces.jsonl")
}

// DefaultConfigPath returns ~/.config/fontedit/config.yaml or empty string if
// home dir unavailable.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fontedit", "config.yaml")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	opts := export.DefaultOptions()
	tc := tracing.DefaultConfig()
	tc.FilePath = "" // Derived from config dir at runtime
	return Config{
		Export: ExportConfig{
			Format:             string(opts.Format),
			InvertBits:         opts.InvertBits,
			MSBFirst:           opts.MSBFirst,
			IncludeLineSpacing: opts.IncludeLineSpacing,
			CacheTTL:           export.DefaultCacheTTL,
		},
		Import: ImportConfig{
			Size:      importer.DefaultSize,
			DPI:       importer.DefaultDPI,
			Runes:     importer.DefaultRunes,
			Threshold: importer.DefaultThreshold,
		},
		Editor: EditorConfig{
			RestoreSession: false,
			WatchDocument:  true,
			WatchDebounce:  500 * time.Millisecond,
		},
		Tracing: tc,
	}
}

// Validate checks every section.
func Validate(cfg Config) error {
	if err := ValidateExport(cfg.Export); err != nil {
		return err
	}
	if err := ValidateImport(cfg.Import); err != nil {
		return err
	}
	if err := ValidateEditor(cfg.Editor); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateExport checks export configuration for errors.
// Empty values use defaults.
func ValidateExport(c ExportConfig) error {
	if c.Format != "" {
		if _, err := export.ParseFormat(c.Format); err != nil {
			return fmt.Errorf("export.format: %w", err)
		}
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("export.cache_ttl must not be negative, got %s", c.CacheTTL)
	}
	return nil
}

// ValidateImport checks import configuration for errors.
func ValidateImport(c ImportConfig) error {
	if c.Size < 0 {
		return fmt.Errorf("import.size must be positive, got %v", c.Size)
	}
	if c.DPI < 0 {
		return fmt.Errorf("import.dpi must be positive, got %v", c.DPI)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("import.threshold must be between 0 and 255, got %d", c.Threshold)
	}
	if c.Runes != "" {
		if _, err := importer.ParseRunes(c.Runes); err != nil {
			return fmt.Errorf("import.runes: %w", err)
		}
	}
	return nil
}

// ValidateEditor checks editor configuration for errors.
func ValidateEditor(c EditorConfig) error {
	if c.WatchDebounce < 0 {
		return fmt.Errorf("editor.watch_debounce must not be negative, got %s", c.WatchDebounce)
	}
	if c.RestoreSession && c.LastDocument != "" && !filepath.IsAbs(c.LastDocument) {
		return fmt.Errorf("editor.last_document must be an absolute path, got %q", c.LastDocument)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(c tracing.Config) error {
	if c.SampleRate < 0.0 || c.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", c.SampleRate)
	}

	if c.Exporter != "" {
		switch c.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", c.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if c.Enabled {
		if c.Exporter == "file" && c.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if c.Exporter == "otlp" && c.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# fontedit configuration

# Source code export defaults (also changed from the editor with the format panel)
export:
  format: c                    # c (default), arduino, or python
  invert_bits: false           # Emit 1 for clear pixels
  msb_first: true              # Leftmost pixel in bit 7 of each byte
  include_line_spacing: false  # Keep blank rows above and below every glyph
  # cache_ttl: 5m              # How long rendered source stays cached

# Rasterization defaults for 'fontedit import'
import:
  size: 12          # Point size
  dpi: 72
  runes: "32-126"   # Ranges or single code points, e.g. "0x20-0x7E,0xB0"
  threshold: 128    # Minimum coverage (0-255) for a pixel to be set

# Editor behavior
editor:
  restore_session: false   # Reopen the last document on start
  # last_document: /path/to/font.fontedit
  watch_document: true     # Warn when the open document changes on disk
  watch_debounce: 500ms

# Distributed tracing configuration
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/fontedit/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
