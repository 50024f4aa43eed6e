// =============================================================================
// W2CAD to RFA300 Converter - W2CAD Parser Module
// =============================================================================
//
// This module is responsible for parsing W2CAD .ASC exports from the
// CT-planning beam-data tool. The format is line oriented:
//
//   $NUMS 12              - count directive: declared number of measurements
//   $STOM                 - start of a measurement block
//   %KEY value            - tagged metadata line, exactly one value token
//   <a b c d>             - dose sample: axis1 axis2 axis3 dose
//   $ENOM                 - end of a measurement block
//
// The nominal beam energy never appears in the file body. It is recovered
// from the file name ("6X Open Field.ASC", "18 MeV Applicator.ASC") or,
// failing that, from a numeric-prefix token anywhere in the path.
//
// FEATURES:
//   - Single-pass, line-by-line scan with one mutable "current measurement"
//   - Exact first-token matching of tagged keys (no prefix collisions)
//   - Typed failures: FormatError for non-W2CAD input, ParseError for
//     structural inconsistencies
//   - A block that is opened but never sealed is an error, never silently
//     dropped
//
// =============================================================================

package w2parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/types"
)

// =============================================================================
// FORMAT CONSTANTS
// =============================================================================

// Structural sentinel lines of the W2CAD format.
const (
	numScansDirective  = "$NUMS" // declared measurement count
	startOfMeasurement = "$STOM" // opens a measurement block
	endOfMeasurement   = "$ENOM" // seals a measurement block
)

// SourceExtension is the expected source file extension. The check is
// case-insensitive; the same test is applied by the batch driver and by the
// parser itself.
const SourceExtension = ".asc"

// energyFromName matches the nominal energy in a file name, e.g.
// "6X", "15 MV", "18 MeV".
var energyFromName = regexp.MustCompile(`(\d+)\s*(?:MeV|MV|X)`)

// energyFromPath is the fallback applied to the whole path when the file
// name carries no energy token, e.g. ".../photons/10X/profiles.ASC".
var energyFromPath = regexp.MustCompile(`(\d+)X`)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a W2CAD file and returns the parsed scan file.
//
// PARAMETERS:
//   - filePath: The path to the .ASC export.
//
// RETURNS:
//   - A pointer to the ScanFile holding the declared scan count and the
//     sealed measurements in order of appearance.
//   - A *types.FormatError if the file does not look like a W2CAD export,
//     a *types.ParseError if its block structure is inconsistent, or an
//     I/O error if the file cannot be read.
func Parse(filePath string) (*types.ScanFile, error) {
	if !HasSourceExtension(filePath) {
		return nil, &types.FormatError{
			Path:   filePath,
			Reason: fmt.Sprintf("extension is not %s", SourceExtension),
		}
	}

	energy, err := ExtractEnergy(filePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return parse(file, filePath, energy)
}

// HasSourceExtension reports whether the path carries the W2CAD source
// extension, compared case-insensitively.
func HasSourceExtension(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SourceExtension)
}

// ExtractEnergy recovers the nominal beam energy from a source file path.
//
// The file name is searched first for "<digits> MeV|MV|X"; if that fails the
// whole path is searched for "<digits>X". When neither pattern matches the
// file cannot be attributed to a beam and a *types.FormatError is returned.
func ExtractEnergy(filePath string) (string, error) {
	if m := energyFromName.FindStringSubmatch(filepath.Base(filePath)); m != nil {
		return m[1], nil
	}
	if m := energyFromPath.FindStringSubmatch(filePath); m != nil {
		return m[1], nil
	}
	return "", &types.FormatError{
		Path:   filePath,
		Reason: "no energy token found in file name or path",
	}
}

// parse runs the line loop over an already-opened source.
//
// The loop maintains a single mutable "current measurement" slot. A $STOM
// sentinel allocates it, tagged and sample lines mutate it, and $ENOM seals
// it into the output list. End of input with a still-open measurement is a
// truncated file and fails.
func parse(r io.Reader, filePath, energy string) (*types.ScanFile, error) {
	scanFile := &types.ScanFile{
		SourcePath: filePath,
		NumScans:   types.NumScansUnknown,
	}

	var current *types.Measurement
	measurementCount := 0
	lineNumber := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r\n")

		switch {
		case strings.HasPrefix(line, numScansDirective):
			// Count directive: the declared total is the trailing token.
			fields := strings.Fields(line)
			n, err := strconv.Atoi(fields[len(fields)-1])
			if err != nil {
				return nil, &types.ParseError{
					Path:   filePath,
					Line:   lineNumber,
					Reason: fmt.Sprintf("malformed %s directive: %q", numScansDirective, line),
				}
			}
			scanFile.NumScans = n

		case strings.HasPrefix(line, startOfMeasurement):
			if current != nil {
				return nil, &types.ParseError{
					Path:   filePath,
					Line:   lineNumber,
					Reason: fmt.Sprintf("%s while measurement %d is still open", startOfMeasurement, current.MeasurementNumber),
				}
			}
			measurementCount++
			current = types.NewMeasurement(measurementCount, energy)

		case strings.HasPrefix(line, endOfMeasurement):
			if current == nil {
				return nil, &types.ParseError{
					Path:   filePath,
					Line:   lineNumber,
					Reason: fmt.Sprintf("%s with no open measurement", endOfMeasurement),
				}
			}
			scanFile.Measurements = append(scanFile.Measurements, current)
			current = nil

		case strings.HasPrefix(line, "%"):
			if err := assignTaggedLine(current, line, filePath, lineNumber); err != nil {
				return nil, err
			}

		case strings.HasPrefix(line, "<"):
			if err := appendSampleLine(current, line, filePath, lineNumber); err != nil {
				return nil, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	// End of input with an unsealed measurement means the file was
	// truncated. Reporting it beats returning a partial record list.
	if current != nil {
		return nil, &types.ParseError{
			Path:   filePath,
			Reason: fmt.Sprintf("end of file with measurement %d still open (missing %s)", current.MeasurementNumber, endOfMeasurement),
		}
	}

	return scanFile, nil
}

// =============================================================================
// LINE HANDLERS
// =============================================================================

// assignTaggedLine assigns one "%KEY value" line to the current measurement.
//
// The key is matched by exact comparison of the first whitespace-delimited
// token against the closed key set, never by prefix, so a key that happens
// to be a prefix of another can never collide. Exactly one value token is
// expected. Unrecognized %-keys are skipped, matching the source tool's
// habit of emitting informational tags.
func assignTaggedLine(m *types.Measurement, line, filePath string, lineNumber int) error {
	fields := strings.Fields(line)
	key := fields[0]
	if !isRecognizedKey(key) {
		return nil
	}

	if m == nil {
		return &types.ParseError{
			Path:   filePath,
			Line:   lineNumber,
			Reason: fmt.Sprintf("tagged line %s outside a measurement block", key),
		}
	}

	if len(fields) != 2 {
		return &types.ParseError{
			Path:   filePath,
			Line:   lineNumber,
			Reason: fmt.Sprintf("tagged line %s expects exactly one value token, got %d", key, len(fields)-1),
		}
	}
	value := fields[1]

	// One arm per recognized key. The explicit switch guarantees at
	// compile time that every key maps to a declared field.
	switch key {
	case "%DATE":
		m.Date = value
	case "%VERSION":
		m.Version = value
	case "%DETY":
		m.DetectorType = value
	case "%BMTY":
		m.BeamType = value
	case "%TYPE":
		m.DataType = value
	case "%WDGL":
		m.WedgeName = value
	case "%WDGD":
		m.WedgeDirection = value
	case "%AXIS":
		m.Axis = value
	case "%PNTS":
		m.Points = value
	case "%STEP":
		m.Step = value
	case "%SSD":
		m.SSD = value
	case "%SPD":
		// Electron measurements carry %SPD instead of %SSD.
		m.SPD = value
	case "%FLSZ":
		m.FieldSize = value
	case "%DPTH":
		m.Depth = value
	}

	return nil
}

// isRecognizedKey reports whether the token is one of the tagged keys the
// measurement header carries.
func isRecognizedKey(key string) bool {
	switch key {
	case "%DATE", "%VERSION", "%DETY", "%BMTY", "%TYPE", "%WDGL", "%WDGD",
		"%AXIS", "%PNTS", "%STEP", "%SSD", "%SPD", "%FLSZ", "%DPTH":
		return true
	}
	return false
}

// appendSampleLine appends one "<a b c d>" dose sample to the current
// measurement. The four tokens are kept verbatim in source axis order; the
// lateral axis swap belongs to the RFA300 writer.
func appendSampleLine(m *types.Measurement, line, filePath string, lineNumber int) error {
	if m == nil {
		return &types.ParseError{
			Path:   filePath,
			Line:   lineNumber,
			Reason: "sample line outside a measurement block",
		}
	}

	stripped := strings.TrimFunc(line, func(r rune) bool {
		return r == '<' || r == '>' || r == ' ' || r == '\t'
	})
	tokens := strings.Fields(stripped)
	if len(tokens) != 4 {
		return &types.ParseError{
			Path:   filePath,
			Line:   lineNumber,
			Reason: fmt.Sprintf("sample line expects 4 tokens, got %d: %q", len(tokens), line),
		}
	}

	m.Samples = append(m.Samples, types.Sample{
		Axis1: tokens[0],
		Axis2: tokens[1],
		Axis3: tokens[2],
		Dose:  tokens[3],
	})
	return nil
}
