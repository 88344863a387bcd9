// =============================================================================
// EDI Order Translator - Root Command
// =============================================================================
//
// This file defines the root command of the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (edi-translator)
//   ├── processCmd   (edi-translator process)
//   ├── translateCmd (edi-translator translate)
//   ├── inspectCmd   (edi-translator inspect)
//   └── versionCmd   (edi-translator version)
//
// CONFIGURATION:
//   Before any command runs, the root command:
//   1. Loads the configuration (edi.yaml, EDI_* environment variables)
//   2. Builds the structured logger (--verbose forces debug level)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/edi-order-translator/internal/config"
	"github.com/ginjaninja78/edi-order-translator/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile is the --config flag. Empty means edi.yaml in the working
// directory, if present.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// appConfig and logger are set by loadRuntime before a command runs.
var (
	appConfig *config.Config
	logger    = zap.NewNop()
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "edi-translator",
	Short: "EDI order translator - route partner order files into the ERP exchange artifact",
	Long: `EDI order translator picks up purchase-order files dropped by trading
partners, identifies the partner from the header row, and translates the
order lines into the fixed-width 850 exchange file read by the ERP
EDI Transaction Load Routine.

The exchange file is a single-slot mailbox: while it exists, new order
files are quarantined until the ERP has consumed it.

Example Usage:
  edi-translator process                     # Route every file in the intake folder
  edi-translator process --config ./edi.yaml # Use a custom configuration file
  edi-translator translate ORDER.INF         # Translate one file
  edi-translator inspect --xlsx review.xlsx  # Review the pending artifact`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadRuntime()
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is ./edi.yaml if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// loadRuntime loads the configuration and builds the logger.
func loadRuntime() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}

	l, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	appConfig = cfg
	logger = l
	logger.Debug("configuration loaded",
		zap.String("root", cfg.Storage.Root),
		zap.String("artifact", cfg.Artifact.Path),
		zap.String("partners_dir", cfg.PartnersDir))

	return nil
}
