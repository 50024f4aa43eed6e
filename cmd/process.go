// =============================================================================
// W2CAD to RFA300 Converter - Process Command
// =============================================================================
//
// This file defines the 'process' command, which is the main command for
// converting W2CAD exports to RFA300. It orchestrates the batch pipeline.
//
// COMMAND USAGE:
//   w2rfa process [flags]
//
// FLAGS:
//   --dry-run : Run the full pipeline without writing output files
//   --single  : Process only a single file (specify with --file)
//   --file    : Path to a specific file to process (used with --single)
//   --report  : Write an XLSX batch summary workbook
//
// PROCESSING PIPELINE:
//   1. Load the configuration
//   2. Discover .ASC files beneath the input root
//   3. For each file (concurrently, bounded by max_concurrency):
//      a. Parse the W2CAD file
//      b. Validate the measurements
//      c. Transcode to RFA300
//      d. Write the output file into the mirrored tree
//   4. Write the error log and optional summary report
//   5. Print the summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/converter"
	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/report"
	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/w2parser"
	"github.com/medphyslab/W2CAD-to-RFA-conversion/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun runs the pipeline without writing output files.
var dryRun bool

// singleFile indicates whether to process only a single file.
var singleFile bool

// filePath is the path to a specific file to process (used with --single).
var filePath string

// writeReport enables the XLSX batch summary workbook.
var writeReport bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert W2CAD exports to RFA300 format",
	Long: `The process command scans the input directory tree for W2CAD .ASC exports
and converts each one to an RFA300 ASCII measurement dump in the output tree.

Processing is concurrent, bounded by max_concurrency. Each file is processed
independently, and errors in one file do not affect the processing of others.

On successful processing:
  - The RFA300 file is placed at the mirrored path under the output root
  - The source file stays where it is

On error:
  - The failure is recorded in the error log under the report directory
  - Processing continues for the remaining files`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the process command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Run the full pipeline without writing output files",
	)

	processCmd.Flags().BoolVar(
		&singleFile,
		"single",
		false,
		"Process only a single file (use with --file)",
	)

	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific file to process (used with --single)",
	)

	processCmd.Flags().BoolVar(
		&writeReport,
		"report",
		false,
		"Write an XLSX batch summary workbook to the report directory",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess is the main function that orchestrates the batch pipeline.
func runProcess() error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Println("=== W2CAD to RFA300 Converter ===")
	fmt.Println("Loading configuration...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	fmt.Println("Discovering input files...")

	var inputFiles []string
	if singleFile {
		if filePath == "" {
			return fmt.Errorf("--single requires --file")
		}
		inputFiles = []string{filePath}
	} else {
		inputFiles, err = utils.DiscoverInputFiles(cfg.InputDir, w2parser.SourceExtension)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Println("No .ASC files found in the input directory.")
		return nil
	}

	fmt.Printf("Found %d file(s) to process\n", len(inputFiles))

	// =========================================================================
	// STEP 3: PROCESS FILES CONCURRENTLY
	// =========================================================================
	// Each file conversion is independent of every other, so the fan-out is
	// per file, bounded by a semaphore honoring max_concurrency.

	fmt.Println("Processing files...")

	var wg sync.WaitGroup
	results := make(chan converter.Result, len(inputFiles))
	semaphore := make(chan struct{}, cfg.MaxConcurrency)

	for _, file := range inputFiles {
		wg.Add(1)

		go func(sourcePath string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			conv := converter.New(sourcePath, cfg, logger)
			conv.SetDryRun(dryRun)
			results <- conv.Run()
		}(file)
	}

	// Close the results channel when all goroutines are done.
	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 4: COLLECT RESULTS
	// =========================================================================

	var successCount, errorCount int
	var errors []string
	var collected []converter.Result

	for result := range results {
		collected = append(collected, result)
		if result.Success {
			successCount++
			fmt.Printf("  + %s -> %s\n", filepath.Base(result.FilePath), result.OutputFile)
		} else {
			errorCount++
			errors = append(errors, fmt.Sprintf("%s: %v", result.FilePath, result.Error))
			fmt.Printf("  x %s: %v\n", filepath.Base(result.FilePath), result.Error)
		}
	}

	// =========================================================================
	// STEP 5: ERROR LOG AND SUMMARY REPORT
	// =========================================================================

	runID := utils.ShortRunID()

	if errorCount > 0 && !dryRun {
		logPath, err := utils.WriteErrorLog(cfg.ReportDir, runID, errors)
		if err != nil {
			fmt.Printf("Failed to write error log: %v\n", err)
		} else {
			fmt.Printf("Errors logged to: %s\n", logPath)
		}
	}

	if writeReport && !dryRun {
		reportPath, err := report.WriteSummary(cfg.ReportDir, runID, collected)
		if err != nil {
			fmt.Printf("Failed to write summary report: %v\n", err)
		} else {
			fmt.Printf("Summary report: %s\n", reportPath)
		}
	}

	// =========================================================================
	// STEP 6: PRINT SUMMARY
	// =========================================================================

	elapsed := time.Since(startTime)
	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Total files:     %d\n", len(inputFiles))
	fmt.Printf("Successful:      %d\n", successCount)
	fmt.Printf("Errors:          %d\n", errorCount)
	fmt.Printf("Time elapsed:    %s\n", elapsed)

	return nil
}
