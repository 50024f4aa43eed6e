// =============================================================================
// W2CAD to RFA300 Converter - Converter Module
// =============================================================================
//
// This module contains the per-file conversion pipeline. It orchestrates
// everything that happens to a single W2CAD export, from parsing to the
// written RFA300 file.
//
// CONVERSION PIPELINE:
//   1. Parse the W2CAD file into a ScanFile
//   2. Validate the parsed measurements
//   3. Transcode every measurement into its RFA300 block
//   4. Write the document to the mirrored output path
//
// CONCURRENCY:
//   Each file is processed in its own goroutine by the batch driver. A
//   Converter holds no shared mutable state, so any number of them can run
//   concurrently.
//
// =============================================================================

package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/config"
	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/rfawriter"
	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/types"
	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/validation"
	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/w2parser"
	"github.com/medphyslab/W2CAD-to-RFA-conversion/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated RFA300 file.
	// This is empty if processing failed or the run was a dry run.
	OutputFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed, nil otherwise.
	Error error

	// Measurements summarizes every measurement of the file, for the
	// batch report. Populated as soon as parsing succeeds, so a file
	// that later fails transcoding still reports what it contained.
	Measurements []MeasurementSummary

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// MeasurementSummary is the per-measurement line of the batch report.
type MeasurementSummary struct {
	Number       int
	Energy       string
	BeamType     string
	DetectorType string
	DataType     string
	Axis         string
	Points       int
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// MeasurementsConverted is the number of measurement blocks written.
	MeasurementsConverted int

	// PointsConverted is the total number of dose samples written.
	PointsConverted int

	// ValidationErrors is the number of fatal validation findings.
	ValidationErrors int

	// ValidationWarnings is the number of validation warnings.
	ValidationWarnings int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single W2CAD file to RFA300.
type Converter struct {
	// sourcePath is the path to the input .ASC file.
	sourcePath string

	// cfg is the application configuration.
	cfg *config.MainConfig

	// dryRun skips writing the output file.
	dryRun bool

	// logger receives pipeline diagnostics.
	logger Logger
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - sourcePath: The path to the input W2CAD file.
//   - cfg: The application configuration.
//   - logger: The pipeline logger; nil selects the plain console logger.
func New(sourcePath string, cfg *config.MainConfig, logger Logger) *Converter {
	if logger == nil {
		logger = NewConsoleLogger()
	}
	return &Converter{
		sourcePath: sourcePath,
		cfg:        cfg,
		logger:     logger,
	}
}

// SetDryRun toggles dry-run mode: the full pipeline runs but no output file
// is written.
func (c *Converter) SetDryRun(dryRun bool) {
	c.dryRun = dryRun
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		FilePath: c.sourcePath,
		Success:  false,
	}

	// =========================================================================
	// STEP 1: PARSE THE W2CAD FILE
	// =========================================================================

	c.logger.Info("Processing file: %s", c.sourcePath)

	scanFile, err := w2parser.Parse(c.sourcePath)
	if err != nil {
		result.Error = fmt.Errorf("failed to parse W2CAD file: %w", err)
		return result
	}

	result.Measurements = summarize(scanFile)
	c.logger.Debug("Parsed %d measurement(s), $NUMS declares %d", len(scanFile.Measurements), scanFile.NumScans)

	// =========================================================================
	// STEP 2: VALIDATE
	// =========================================================================

	vres := validation.Validate(scanFile)
	result.Stats.ValidationErrors = vres.ErrorCount
	result.Stats.ValidationWarnings = vres.WarningCount

	for _, ve := range vres.Errors {
		if ve.Severity == validation.SeverityWarning {
			c.logger.Warn("Validation: %s", ve.Error())
		} else {
			c.logger.Error("Validation: %s", ve.Error())
		}
	}

	if !vres.IsValid() && !c.cfg.ContinueOnError {
		result.Error = fmt.Errorf("validation failed with %d error(s)", vres.ErrorCount)
		return result
	}

	// =========================================================================
	// STEP 3: TRANSCODE TO RFA300
	// =========================================================================

	document, err := rfawriter.WriteScanFile(scanFile)
	if err != nil {
		result.Error = fmt.Errorf("failed to transcode to RFA300: %w", err)
		return result
	}

	result.Stats.MeasurementsConverted = len(scanFile.Measurements)
	for _, m := range scanFile.Measurements {
		result.Stats.PointsConverted += len(m.Samples)
	}

	c.logger.Debug("Transcoded %d measurement(s), %d point(s)",
		result.Stats.MeasurementsConverted, result.Stats.PointsConverted)

	// =========================================================================
	// STEP 4: WRITE OUTPUT FILE
	// =========================================================================

	if c.dryRun {
		c.logger.Info("Dry run: skipping write for %s", c.sourcePath)
	} else {
		outputPath, err := c.writeOutput(document)
		if err != nil {
			result.Error = fmt.Errorf("failed to write output: %w", err)
			return result
		}
		result.OutputFile = outputPath
		c.logger.Info("Wrote output to: %s", outputPath)
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// writeOutput writes the RFA300 document to the mirrored output path,
// creating intermediate directories as needed.
func (c *Converter) writeOutput(document string) (string, error) {
	outputPath, err := utils.OutputPath(c.sourcePath, c.cfg.InputDir, c.cfg.OutputDir, c.cfg.OutputSuffix)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(document), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return outputPath, nil
}

// summarize extracts the per-measurement report lines from a parsed file.
func summarize(scanFile *types.ScanFile) []MeasurementSummary {
	summaries := make([]MeasurementSummary, len(scanFile.Measurements))
	for i, m := range scanFile.Measurements {
		summaries[i] = MeasurementSummary{
			Number:       m.MeasurementNumber,
			Energy:       m.Energy,
			BeamType:     m.BeamType,
			DetectorType: m.DetectorType,
			DataType:     m.DataType,
			Axis:         m.Axis,
			Points:       len(m.Samples),
		}
	}
	return summaries
}
