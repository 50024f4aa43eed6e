// =============================================================================
// W2CAD to RFA300 Converter - Validation Engine
// =============================================================================
//
// This module validates parsed scan files before transcoding. The original
// export tool trusted its own output; the converter does not, because the
// RFA300 side reads fixed columns and silently misplaces data when counts or
// delimiters are off.
//
// CHECKS:
//   File level:
//     - declared $NUMS count vs. sealed measurement count (warning)
//     - measurement numbers are exactly 1..N in order (error)
//   Measurement level:
//     - %PNTS matches the actual sample count (error)
//     - at least one dose sample (error)
//     - %TYPE / %DETY / %BMTY are members of the supported sets (error)
//     - date carries its two dash delimiters (error)
//     - field size carries its "*" delimiter (error)
//
// ERROR HANDLING:
//   - Errors are collected, not thrown immediately
//   - Each error includes context (measurement number, field, value)
//   - Errors can be warnings (continue processing) or fatal
//
// =============================================================================

package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Severity levels for validation errors.
const (
	SeverityError   = "error"   // fatal unless continue_on_error is set
	SeverityWarning = "warning" // informational, never fails the file
)

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// MeasurementNumber is the measurement the finding applies to,
	// or 0 for file-level findings.
	MeasurementNumber int

	// Field is the name of the field that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	scope := "file"
	if e.MeasurementNumber > 0 {
		scope = fmt.Sprintf("measurement %d", e.MeasurementNumber)
	}
	return fmt.Sprintf("[%s] %s, field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity), scope, e.Field, e.Message, e.Value)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result contains the outcome of validating one scan file.
type Result struct {
	// Errors contains all findings, warnings included, in the order they
	// were detected.
	Errors []*ValidationError

	// ErrorCount is the number of fatal findings.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int
}

// IsValid reports whether the scan file carried no fatal findings.
func (r *Result) IsValid() bool {
	return r.ErrorCount == 0
}

func (r *Result) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityWarning {
		r.WarningCount++
	} else {
		r.ErrorCount++
	}
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validate runs every file-level and measurement-level check over a parsed
// scan file and returns the collected findings.
func Validate(scanFile *types.ScanFile) *Result {
	result := &Result{}

	validateScanCount(scanFile, result)
	validateSequence(scanFile, result)

	for _, m := range scanFile.Measurements {
		validateMeasurement(m, result)
	}

	return result
}

// validateScanCount compares the declared $NUMS count against the number of
// sealed measurements. A mismatch is a warning: the writer keeps emitting
// the declared count, but the discrepancy is worth surfacing.
func validateScanCount(scanFile *types.ScanFile, result *Result) {
	if scanFile.NumScans == types.NumScansUnknown {
		result.add(&ValidationError{
			Severity: SeverityWarning,
			Field:    "num_scans",
			Message:  "no $NUMS directive; measurement count will be used",
		})
		return
	}

	if scanFile.NumScans != len(scanFile.Measurements) {
		result.add(&ValidationError{
			Severity: SeverityWarning,
			Field:    "num_scans",
			Value:    strconv.Itoa(scanFile.NumScans),
			Message:  fmt.Sprintf("$NUMS declares %d measurements, file contains %d", scanFile.NumScans, len(scanFile.Measurements)),
		})
	}
}

// validateSequence checks that measurement numbers are dense and strictly
// increasing: 1, 2, 3, ... in order of appearance.
func validateSequence(scanFile *types.ScanFile, result *Result) {
	for i, m := range scanFile.Measurements {
		if m.MeasurementNumber != i+1 {
			result.add(&ValidationError{
				Severity:          SeverityError,
				MeasurementNumber: m.MeasurementNumber,
				Field:             "measurement_number",
				Value:             strconv.Itoa(m.MeasurementNumber),
				Message:           fmt.Sprintf("expected sequence number %d", i+1),
			})
		}
	}
}

// validateMeasurement runs the measurement-level checks.
func validateMeasurement(m *types.Measurement, result *Result) {
	// Sample presence and declared point count.
	if len(m.Samples) == 0 {
		result.add(&ValidationError{
			Severity:          SeverityError,
			MeasurementNumber: m.MeasurementNumber,
			Field:             "samples",
			Message:           "measurement has no dose samples",
		})
	}

	if m.Points != "" {
		if declared, err := strconv.Atoi(m.Points); err != nil {
			result.add(&ValidationError{
				Severity:          SeverityError,
				MeasurementNumber: m.MeasurementNumber,
				Field:             "points",
				Value:             m.Points,
				Message:           "%PNTS is not an integer",
			})
		} else if declared != len(m.Samples) {
			result.add(&ValidationError{
				Severity:          SeverityError,
				MeasurementNumber: m.MeasurementNumber,
				Field:             "points",
				Value:             m.Points,
				Message:           fmt.Sprintf("%%PNTS declares %d points, measurement has %d samples", declared, len(m.Samples)),
			})
		}
	}

	// Enumerated codes must be members of the supported sets before the
	// transcoder sees them.
	if !isSupportedDataType(m.DataType) {
		result.add(&ValidationError{
			Severity:          SeverityError,
			MeasurementNumber: m.MeasurementNumber,
			Field:             "data_type",
			Value:             m.DataType,
			Message:           "unsupported %TYPE code",
		})
	}

	switch m.DetectorType {
	case types.DetectorIonChamber, types.DetectorSemiconductor:
	default:
		result.add(&ValidationError{
			Severity:          SeverityError,
			MeasurementNumber: m.MeasurementNumber,
			Field:             "detector_type",
			Value:             m.DetectorType,
			Message:           "unsupported %DETY code",
		})
	}

	switch m.BeamType {
	case types.BeamPhoton, types.BeamElectron:
	default:
		result.add(&ValidationError{
			Severity:          SeverityError,
			MeasurementNumber: m.MeasurementNumber,
			Field:             "beam_type",
			Value:             m.BeamType,
			Message:           "unsupported %BMTY code",
		})
	}

	// Structural delimiters the writer depends on.
	if strings.Count(m.Date, "-") != 2 {
		result.add(&ValidationError{
			Severity:          SeverityError,
			MeasurementNumber: m.MeasurementNumber,
			Field:             "date",
			Value:             m.Date,
			Message:           "expected DD-MM-YYYY",
		})
	}

	if strings.Count(m.FieldSize, "*") != 1 {
		result.add(&ValidationError{
			Severity:          SeverityError,
			MeasurementNumber: m.MeasurementNumber,
			Field:             "field_size",
			Value:             m.FieldSize,
			Message:           "expected W*H",
		})
	}

	// Distance fields: photons carry %SSD, electrons substitute %SPD.
	if m.SSD == "" && m.SPD == "" {
		result.add(&ValidationError{
			Severity:          SeverityError,
			MeasurementNumber: m.MeasurementNumber,
			Field:             "ssd",
			Message:           "measurement carries neither %SSD nor %SPD",
		})
	}
}

// isSupportedDataType reports whether the %TYPE code is in the supported
// scan-subtype set. The set matches the writer's translation tables; both
// tables cover exactly these codes.
func isSupportedDataType(dataType string) bool {
	switch dataType {
	case "OPD", "OPP", "WDD", "WDD_SSD80", "WDD_SSD120", "WDP", "WLP",
		"DPR", "BLD", "MeasuredDepthDosesForApplicator",
		"MeasuredDepthDosesForOpenBeam", "MeasuredProfileForOpenBeam":
		return true
	}
	return false
}
