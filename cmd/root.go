// =============================================================================
// W2CAD to RFA300 Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (w2rfa)
//   ├── processCmd (w2rfa process)
//   ├── validateCmd (w2rfa validate)
//   └── versionCmd (w2rfa version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/config"
	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/converter"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose (debug-level) logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "w2rfa",

	Short: "W2CAD to RFA300 Converter - Transcode beam-data scans for dosimetry analysis",

	Long: `W2CAD to RFA300 Converter transcodes beam-dosimetry scan measurements
exported in the W2CAD ASCII format (CT-planning beam-data tool) into the
RFA300 ASCII measurement-dump format read by dosimetry analysis software.

Key Features:
  - Batch conversion of whole directory trees of .ASC exports
  - Field translation tables for detector, beam and scan-type vocabularies
  - Axis reordering and numeric reformatting per the RFA300 conventions
  - Structural validation with per-file, per-field diagnostics
  - Concurrent processing; one bad export never aborts its siblings
  - XLSX batch summary report

Example Usage:
  w2rfa process                    # Convert every .ASC file under the input root
  w2rfa process --config ./my.yaml # Use a custom configuration file
  w2rfa validate                   # Parse and validate without writing output`,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// Persistent flags are available to this command and all subcommands.

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig loads the main configuration, letting --verbose override the
// configured log level.
func loadConfig() (*config.MainConfig, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// buildLogger builds the pipeline logger for the loaded configuration.
// Verbose runs get the structured zap logger; normal runs keep the plain
// console logger.
func buildLogger(cfg *config.MainConfig) (converter.Logger, error) {
	if verbose || cfg.LogLevel == "debug" {
		return converter.NewZapLogger(cfg.LogLevel)
	}
	return converter.NewConsoleLogger(), nil
}
