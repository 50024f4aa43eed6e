// =============================================================================
// W2CAD to RFA300 Converter - Error Types
// =============================================================================
//
// Typed errors shared by the reader, the writer and the converter. All four
// kinds are unrecoverable for the single file being processed: they propagate
// to the caller, and no defaults are ever substituted silently. The batch
// driver catches them per file so one bad export never aborts its siblings.
//
// ERROR KINDS:
//   FormatError           - the input does not look like a W2CAD export
//   ParseError            - the tagged-line structure is inconsistent
//   UnsupportedValueError - a recognized but unsupported code reached the
//                           transcoder (e.g. a diamond detector)
//   MalformedRecordError  - a sealed measurement is missing required data
//
// Callers inspect these with errors.As.
//
// =============================================================================

package types

import "fmt"

// =============================================================================
// FORMAT ERROR
// =============================================================================

// FormatError reports input that does not look like the expected W2CAD
// source format: wrong extension, or no energy token discoverable in the
// file name or path.
type FormatError struct {
	// Path is the offending source file path.
	Path string

	// Reason describes what made the file unacceptable.
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error: %s: %s", e.Path, e.Reason)
}

// =============================================================================
// PARSE ERROR
// =============================================================================

// ParseError reports an internally inconsistent tagged-line structure:
// an unclosed measurement block, a malformed key/value line, or a malformed
// sample line.
type ParseError struct {
	// Path is the source file path.
	Path string

	// Line is the 1-based line number where the inconsistency was seen,
	// or 0 when the error is positionless (e.g. truncation at EOF).
	Line int

	// Reason describes the inconsistency.
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Reason)
}

// =============================================================================
// UNSUPPORTED VALUE ERROR
// =============================================================================

// UnsupportedValueError reports a recognized but unsupported enumerated
// value reaching the transcoder, naming the offending field and value so
// batch callers can produce per-file, per-field diagnostics.
type UnsupportedValueError struct {
	// MeasurementNumber identifies the measurement within the source file.
	MeasurementNumber int

	// Field is the measurement field holding the unsupported value,
	// e.g. "detector_type".
	Field string

	// Value is the unsupported code, e.g. "DIA".
	Value string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported value: measurement %d: %s %q is not supported",
		e.MeasurementNumber, e.Field, e.Value)
}

// =============================================================================
// MALFORMED RECORD ERROR
// =============================================================================

// MalformedRecordError reports a measurement that reached transcoding with
// missing or undecodable required data: no samples, no field-size delimiter,
// no date delimiters, or an unparsable numeric field.
type MalformedRecordError struct {
	// MeasurementNumber identifies the measurement within the source file.
	MeasurementNumber int

	// Field is the measurement field that is malformed.
	Field string

	// Reason describes the defect.
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: measurement %d: field %s: %s",
		e.MeasurementNumber, e.Field, e.Reason)
}
