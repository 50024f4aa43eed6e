// =============================================================================
// W2CAD to RFA300 Converter - Batch Report Module
// =============================================================================
//
// This module writes the XLSX summary workbook for a batch run. Physicists
// commissioning a planning system review converted beam data in bulk; the
// workbook gives them one row per file and one row per measurement without
// opening the ASCII dumps.
//
// WORKBOOK LAYOUT:
//   Sheet "Files":        input path, output path, status, counts, error
//   Sheet "Measurements": file, number, energy, beam, detector, data type,
//                         scan axis, points
//
// =============================================================================

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/converter"
)

// Sheet names of the summary workbook.
const (
	filesSheet        = "Files"
	measurementsSheet = "Measurements"
)

// WriteSummary writes the batch summary workbook for a run.
//
// PARAMETERS:
//   - reportDir: The directory the workbook is written to.
//   - runID: The short run identifier embedded in the file name.
//   - results: The per-file conversion results, in processing order.
//
// RETURNS:
//   - The path of the written workbook.
//   - An error if the workbook cannot be built or saved.
func WriteSummary(reportDir, runID string, results []converter.Result) (string, error) {
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := buildFilesSheet(f, results); err != nil {
		return "", err
	}
	if err := buildMeasurementsSheet(f, results); err != nil {
		return "", err
	}

	// The default sheet excelize creates becomes the Files sheet.
	reportPath := filepath.Join(reportDir, fmt.Sprintf("conversion_report_%s.xlsx", runID))
	if err := f.SaveAs(reportPath); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return reportPath, nil
}

// buildFilesSheet fills the per-file sheet.
func buildFilesSheet(f *excelize.File, results []converter.Result) error {
	if err := f.SetSheetName("Sheet1", filesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := []interface{}{
		"Input File", "Output File", "Status", "Measurements", "Points",
		"Validation Errors", "Validation Warnings", "Error",
	}
	if err := f.SetSheetRow(filesSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range results {
		status := "OK"
		errMsg := ""
		if !r.Success {
			status = "FAILED"
			if r.Error != nil {
				errMsg = r.Error.Error()
			}
		}

		row := []interface{}{
			r.FilePath,
			r.OutputFile,
			status,
			r.Stats.MeasurementsConverted,
			r.Stats.PointsConverted,
			r.Stats.ValidationErrors,
			r.Stats.ValidationWarnings,
			errMsg,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(filesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return nil
}

// buildMeasurementsSheet fills the per-measurement sheet.
func buildMeasurementsSheet(f *excelize.File, results []converter.Result) error {
	if _, err := f.NewSheet(measurementsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := []interface{}{
		"Input File", "Measurement", "Energy", "Beam Type", "Detector",
		"Data Type", "Scan Axis", "Points",
	}
	if err := f.SetSheetRow(measurementsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	rowIndex := 2
	for _, r := range results {
		for _, m := range r.Measurements {
			row := []interface{}{
				filepath.Base(r.FilePath),
				m.Number,
				m.Energy,
				m.BeamType,
				m.DetectorType,
				m.DataType,
				m.Axis,
				m.Points,
			}
			cell := fmt.Sprintf("A%d", rowIndex)
			if err := f.SetSheetRow(measurementsSheet, cell, &row); err != nil {
				return fmt.Errorf("failed to write row %d: %w", rowIndex, err)
			}
			rowIndex++
		}
	}

	return nil
}
