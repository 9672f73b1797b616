package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/adnsv/go-plate/internal/auth"
	"github.com/adnsv/go-plate/internal/config"
	"github.com/adnsv/go-plate/plate"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	variantFlag string
	outDir      string

	logger   *zap.Logger
	prompter auth.Prompter // nil: read from stdin
)

var rootCmd = &cobra.Command{
	Use:   "plate",
	Short: "Lay out plate samples on a grid and export the result",
	Long: `plate reads a sample table, places every sample repetition on a lettered
plate grid, and exports the reconciled layout as a CSV table and an xlsx
workbook with one color per category.

Typical session:
  plate layout samples.csv          # writes grid.csv for editing
  plate apply samples.csv grid.csv  # reconciles edits and exports`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return nil
		}
		zc := zap.NewProductionConfig()
		if cfg, err := config.Load(configPath); err == nil {
			if lvl, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
				zc.Level = zap.NewAtomicLevelAt(lvl)
			}
		}
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "plate.yaml", "Config file (missing file means defaults)")
	rootCmd.PersistentFlags().StringVar(&variantFlag, "variant", "", "Layout variant: sequential or flagged (or set PLATE_VARIANT)")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "Output directory (or set PLATE_OUTPUT_DIR)")

	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(paletteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if variantFlag != "" {
		cfg.Layout.Variant = variantFlag
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	return cfg, nil
}

// unlock asks for the shared password when one is configured.
func unlock(cfg *config.Config) error {
	if cfg.Auth.Password == "" {
		return nil
	}
	gate, err := auth.NewGate(cfg.Auth.Password)
	if err != nil {
		return err
	}
	p := prompter
	if p == nil {
		p = auth.NewPrompter(os.Stdin, os.Stderr)
	}
	err = gate.Unlock(p, cfg.Auth.MaxAttempts, func(n int) {
		logger.Warn("password rejected", zap.Int("attempt", n))
	})
	if err != nil {
		return err
	}
	logger.Debug("unlocked")
	return nil
}

func newEditor(cfg *config.Config) (*plate.Editor, error) {
	v, err := plate.ParseVariant(cfg.Layout.Variant)
	if err != nil {
		return nil, err
	}
	dims := v.DefaultDims()
	if cfg.Layout.Rows > 0 {
		dims.Rows = cfg.Layout.Rows
	}
	if cfg.Layout.Cols > 0 {
		dims.Cols = cfg.Layout.Cols
	}
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	return plate.NewEditor(
		plate.WithLogger(logger),
		plate.WithVariant(v),
		plate.WithDims(dims),
	), nil
}

// session runs the common start of every command: config, password gate,
// and the initial layout of the source file.
func session(path string) (*config.Config, *plate.Editor, plate.State, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, plate.State{}, err
	}
	if err := unlock(cfg); err != nil {
		return nil, nil, plate.State{}, err
	}
	ed, err := newEditor(cfg)
	if err != nil {
		return nil, nil, plate.State{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, plate.State{}, err
	}
	defer f.Close()
	s, err := ed.Upload(path, f)
	if err != nil {
		return nil, nil, plate.State{}, err
	}
	return cfg, ed, s, nil
}
