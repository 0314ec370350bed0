package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fontedit/fontedit/internal/app"
	"github.com/fontedit/fontedit/internal/config"
	"github.com/fontedit/fontedit/internal/importer"
	"github.com/fontedit/fontedit/internal/log"
	"github.com/fontedit/fontedit/internal/tracing"
)

func init() {
	// Query the terminal background before any program starts so the OSC 11
	// response does not race the input loop.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".fontedit/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fontedit [document or font]",
	Short: "A terminal editor for bitmap fonts",
	Long: `A terminal editor for small bitmap fonts.

Import a TrueType or OpenType font at a fixed size, touch up its glyphs pixel
by pixel and export them as C, Arduino or Python byte arrays for displays and
microcontrollers.`,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/fontedit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (path from FONTEDIT_LOG, default debug.log)")
	rootCmd.Flags().Bool("no-watch", false,
		"do not watch the open document for changes on disk")
}

func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("export.format", defaults.Export.Format)
	v.SetDefault("export.invert_bits", defaults.Export.InvertBits)
	v.SetDefault("export.msb_first", defaults.Export.MSBFirst)
	v.SetDefault("export.include_line_spacing", defaults.Export.IncludeLineSpacing)
	v.SetDefault("export.cache_ttl", defaults.Export.CacheTTL)
	v.SetDefault("import.size", defaults.Import.Size)
	v.SetDefault("import.dpi", defaults.Import.DPI)
	v.SetDefault("import.runes", defaults.Import.Runes)
	v.SetDefault("import.threshold", defaults.Import.Threshold)
	v.SetDefault("editor.restore_session", defaults.Editor.RestoreSession)
	v.SetDefault("editor.watch_document", defaults.Editor.WatchDocument)
	v.SetDefault("editor.watch_debounce", defaults.Editor.WatchDebounce)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
}

func initConfig() {
	viper.Reset()
	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("FONTEDIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .fontedit/config.yaml (current directory)
		// 2. ~/.config/fontedit/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "fontedit"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		switch {
		case missing && cfgFile != "":
			writeDefaultConfig(cfgFile)
		case missing:
			writeDefaultConfig(defaultConfigPath())
		default:
			log.ErrorErr(log.CatConfig, "Reading config failed", err)
		}
	}

	cfg = config.Defaults()
	if err := viper.Unmarshal(&cfg); err != nil {
		log.ErrorErr(log.CatConfig, "Decoding config failed", err)
	}
	if cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = config.DefaultTracesFilePath()
	}
}

func defaultConfigPath() string {
	if p := config.DefaultConfigPath(); p != "" {
		return p
	}
	return localConfigPath
}

// writeDefaultConfig creates a commented config on first run. Without it
// the defaults apply and nothing is persisted.
func writeDefaultConfig(path string) {
	if err := config.WriteDefaultConfig(path); err != nil {
		return
	}
	viper.SetConfigFile(path)
	_ = viper.ReadInConfig()
}

// configFileUsed is where editor changes are written back.
func configFileUsed() string {
	if p := viper.ConfigFileUsed(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// initLogging enables the debug log when requested by flag or environment.
func initLogging() (func(), error) {
	if !debugFlag && os.Getenv("FONTEDIT_DEBUG") == "" {
		return func() {}, nil
	}
	logPath := os.Getenv("FONTEDIT_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, "fontedit")
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "fontedit starting", "debug", true, "logPath", logPath, "version", version)
	return cleanup, nil
}

// startTracing creates the trace provider. The returned stop flushes it.
func startTracing() (*tracing.Provider, func(), error) {
	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.Warn(log.CatTrace, "Tracing shutdown failed", "error", err)
		}
	}
	return provider, stop, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	cleanupLog, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanupLog()

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Editor.WatchDocument = false
	}

	provider, stopTracing, err := startTracing()
	if err != nil {
		return err
	}
	defer stopTracing()

	session, err := newSession(cfg, provider.Tracer(), cfg.Editor.WatchDocument, true)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Startup failures are published on the session broker and shown as a
	// toast once the program runs, so they do not abort the start.
	target := ""
	if len(args) == 1 {
		target = args[0]
	} else if cfg.Editor.RestoreSession && cfg.Editor.LastDocument != "" {
		target = cfg.Editor.LastDocument
	}
	configPath := configFileUsed()
	zone.NewGlobal()
	model := app.New(session, cfg, configPath)
	defer model.Close()

	if target != "" {
		if importer.IsFontPath(target) {
			desc, err := cfg.Import.Descriptor(target)
			if err != nil {
				return err
			}
			_ = session.ImportFont(ctx, desc)
		} else {
			_ = session.OpenDocument(ctx, target)
		}
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	if configPath != "" && session.Path() != "" {
		if err := config.SaveLastDocument(configPath, session.Path()); err != nil {
			log.Warn(log.CatConfig, "Recording last document failed", "error", err)
		}
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
