// Package cmd contains all CLI commands for swipe-solver.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/swipe-solver/internal/config"
	"github.com/ironsheep/swipe-solver/internal/detection"
	"github.com/ironsheep/swipe-solver/internal/dictionary"
	"github.com/ironsheep/swipe-solver/internal/letters"
	"github.com/ironsheep/swipe-solver/internal/logging"
	"github.com/ironsheep/swipe-solver/internal/ocr"
	"github.com/ironsheep/swipe-solver/internal/solver"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	cfgFile  string
	envFile  string
	logLevel string

	cfg    *config.Config
	logger *logging.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "swipe-solver",
	Short: "Find words and swipe paths in letter-wheel game screenshots",
	Long: `swipe-solver reads a screenshot of a letter-wheel word game, detects the
letters and their screen positions, and lists dictionary words with the path
a finger would swipe to spell each one.

It runs as a one-shot CLI (solve, detect, words), an HTTP API (serve) or an
MCP tool server over stdio (mcp).

Configuration comes from defaults, an optional YAML file (--config), a .env
file and SWIPE_* environment variables, e.g. SWIPE_SERVER_ADDR=:9000.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading SWIPE_* variables")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides log_level)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile, envFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = logLevel
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg = c
	logger = logging.NewLogger("swipe-solver", cfg.Level())
	return nil
}

// components are the long-lived pieces shared by every command.
type components struct {
	engine   *ocr.Engine
	pipeline *letters.Pipeline
	dict     *dictionary.Dictionary
	solver   *solver.Solver
}

func (c *components) Close() {
	if c.engine != nil {
		if err := c.engine.Close(); err != nil {
			logger.Warn("failed to close OCR engine", "error", err)
		}
	}
}

func newPipeline() (*letters.Pipeline, *ocr.Engine) {
	engine := ocr.New(cfg.OCR)
	if info := engine.Info(); !info.Available {
		logger.Warn("character recognition unavailable, detection will find no letters", "error", info.Error)
	}
	return letters.NewPipeline(detection.NewDetector(), engine, cfg.Detection, logger), engine
}

func loadDictionary(ctx context.Context) *dictionary.Dictionary {
	return dictionary.Shared(ctx, &dictionary.Loader{
		CachePath: cfg.Dictionary.CachePath,
		URL:       cfg.Dictionary.URL,
		Timeout:   cfg.Dictionary.FetchTimeout,
		Log:       logger,
	})
}

func buildComponents(ctx context.Context) *components {
	pipeline, engine := newPipeline()
	dict := loadDictionary(ctx)
	return &components{
		engine:   engine,
		pipeline: pipeline,
		dict:     dict,
		solver:   solver.New(pipeline, dict, cfg.Swipe, logger),
	}
}

// writeOutput encodes v as indented JSON or YAML.
func writeOutput(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
