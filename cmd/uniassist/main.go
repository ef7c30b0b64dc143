// Package main provides the uniassist CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	apiKey     string
	dataDir    string
	debugMode  bool
	verbose    bool

	// Logger for non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "uniassist",
	Short: "uniassist - university question answering over local document indexes",
	Long: `uniassist answers student questions about NUST, COMSATS, and FAST.

Each question is routed to the university it concerns, answered from
that university's indexed documents, quality-checked, and retried with
a rewritten query when the first answer falls short.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "uniassist" && cmd.CalledAs() == "uniassist" {
			return nil
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
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
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the config file")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides config and GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory holding indexes and logs")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable category debug logging to files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose command logging")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(statsCmd)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "uniassist.yaml"
	}
	return home + "/.uniassist/config.yaml"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
