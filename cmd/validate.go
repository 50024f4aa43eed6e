// =============================================================================
// W2CAD to RFA300 Converter - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which runs the reader and the
// validation engine over every discovered export without writing any output.
// Useful before a commissioning batch: it surfaces truncated blocks,
// unsupported detector codes and point-count mismatches up front.
//
// COMMAND USAGE:
//   w2rfa validate [flags]
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/validation"
	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/w2parser"
	"github.com/medphyslab/W2CAD-to-RFA-conversion/pkg/utils"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate W2CAD exports without converting them",
	Long: `The validate command parses every .ASC export beneath the input root and
runs the structural validation checks, reporting findings per file and per
measurement. No output files are written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

// init registers the validate command with the root command.
func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate parses and validates every discovered file.
func runValidate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	inputFiles, err := utils.DiscoverInputFiles(cfg.InputDir, w2parser.SourceExtension)
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}

	if len(inputFiles) == 0 {
		fmt.Println("No .ASC files found in the input directory.")
		return nil
	}

	var cleanCount, findingCount, failCount int

	for _, file := range inputFiles {
		scanFile, err := w2parser.Parse(file)
		if err != nil {
			failCount++
			fmt.Printf("  x %s: %v\n", filepath.Base(file), err)
			continue
		}

		result := validation.Validate(scanFile)
		if len(result.Errors) == 0 {
			cleanCount++
			fmt.Printf("  + %s: %d measurement(s), no findings\n",
				filepath.Base(file), len(scanFile.Measurements))
			continue
		}

		findingCount++
		fmt.Printf("  ! %s: %d error(s), %d warning(s)\n",
			filepath.Base(file), result.ErrorCount, result.WarningCount)
		for _, ve := range result.Errors {
			fmt.Printf("      %s\n", ve.Error())
		}
	}

	fmt.Println("\n=== Validation Complete ===")
	fmt.Printf("Clean:           %d\n", cleanCount)
	fmt.Printf("With findings:   %d\n", findingCount)
	fmt.Printf("Unparseable:     %d\n", failCount)

	if failCount > 0 {
		return fmt.Errorf("%d file(s) could not be parsed", failCount)
	}
	return nil
}
