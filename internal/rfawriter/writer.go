// =============================================================================
// W2CAD to RFA300 Converter - RFA300 Writer Module
// =============================================================================
//
// This module emits the RFA300 ASCII measurement dump (BDS format) for a
// parsed scan file. The layout is fixed and reproduced byte for byte,
// including the tab and space padding of the original dump: dosimetry
// analysis software reads these files with fixed-column assumptions, so the
// whitespace is part of the format.
//
// DOCUMENT SHAPE:
//   :MSR / :SYS file header
//   one block per measurement, in original order, each terminated by :EOM
//   :EOF file footer
//
// Each measurement block consists of a tagged header (%VNR ... %EDS) with
// every derived value substituted, followed by one "=" line per dose sample.
// The two lateral coordinate axes are written in the opposite order to the
// W2CAD source, and every numeric field is reformatted to one decimal place.
//
// No record reordering, filtering, or deduplication occurs: the mapping
// from source measurements to destination blocks is 1:1 and order
// preserving.
//
// =============================================================================

package rfawriter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/types"
)

// =============================================================================
// FILE-LEVEL ASSEMBLY
// =============================================================================

// WriteScanFile produces the full RFA300 document for a parsed scan file:
// file header, every measurement block in original sequence order, and the
// end-of-file sentinel.
//
// PARAMETERS:
//   - scanFile: The parsed W2CAD scan file.
//
// RETURNS:
//   - The RFA300 document text.
//   - The first transcoding error encountered; no partial document is
//     returned in that case.
func WriteScanFile(scanFile *types.ScanFile) (string, error) {
	var sb strings.Builder

	sb.WriteString(FileHeader(scanFile))
	sb.WriteString("\n")

	for _, m := range scanFile.Measurements {
		block, err := TranscodeMeasurement(m)
		if err != nil {
			return "", err
		}
		sb.WriteString(block)
	}

	sb.WriteString("\n")
	sb.WriteString(FileFooter())

	return sb.String(), nil
}

// FileHeader renders the two-line RFA300 file header: the measurement count
// and the fixed system-identifier line. When the source file carried no
// $NUMS directive the actual measurement count is used.
func FileHeader(scanFile *types.ScanFile) string {
	numScans := scanFile.NumScans
	if numScans == types.NumScansUnknown {
		numScans = len(scanFile.Measurements)
	}

	return fmt.Sprintf(":MSR \t%d\t # No. of measurement in file\n", numScans) +
		":SYS BDS 0   # Beam Data Scanner System"
}

// FileFooter renders the RFA300 end-of-file sentinel line.
func FileFooter() string {
	return ":EOF # End of File"
}

// =============================================================================
// RECORD TRANSCODING
// =============================================================================

// TranscodeMeasurement produces the fixed-layout RFA300 text block for one
// sealed measurement: the tagged header with all derived values substituted,
// the data block with one formatted line per sample, and the :EOM sentinel.
//
// RETURNS:
//   - The measurement block text, ending with a newline after :EOM.
//   - A *types.UnsupportedValueError when the data type, detector type or
//     beam type is not in the corresponding supported set, or a
//     *types.MalformedRecordError when required data is missing or
//     undecodable. No partial block is ever returned.
func TranscodeMeasurement(m *types.Measurement) (string, error) {
	scanType, err := lookupScanType(m)
	if err != nil {
		return "", err
	}

	measurementType, err := lookupMeasurementType(m)
	if err != nil {
		return "", err
	}

	detectorType, err := lookupDetectorType(m)
	if err != nil {
		return "", err
	}

	beamType, err := lookupBeamType(m)
	if err != nil {
		return "", err
	}

	date, err := transcodeDate(m)
	if err != nil {
		return "", err
	}

	fieldSize, err := transcodeFieldSize(m)
	if err != nil {
		return "", err
	}

	energy, err := formatNumeric(m, "energy", m.Energy, 1)
	if err != nil {
		return "", err
	}

	ssd, err := transcodeSSD(m)
	if err != nil {
		return "", err
	}
	// %BRD BeamReferenceDist carries the same distance as %SSD.
	brd := ssd

	profileDepth, err := transcodeProfileDepth(m)
	if err != nil {
		return "", err
	}

	if len(m.Samples) == 0 {
		return "", &types.MalformedRecordError{
			MeasurementNumber: m.MeasurementNumber,
			Field:             "samples",
			Reason:            "measurement has no dose samples",
		}
	}

	start, err := transcodeSample(m, 0)
	if err != nil {
		return "", err
	}
	end, err := transcodeSample(m, len(m.Samples)-1)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	// Scan header block.
	sb.WriteString("#\n")
	sb.WriteString("# RFA300 ASCII Measurement Dump ( BDS format )\n")
	sb.WriteString("#\n")
	fmt.Fprintf(&sb, "# Measurement number \t%d\n", m.MeasurementNumber)
	sb.WriteString("#\n")
	sb.WriteString("%VNR 1.0\n")
	sb.WriteString("%MOD \tRAT\n")
	sb.WriteString("%TYP \tSCN\n")
	fmt.Fprintf(&sb, "%%SCN \t%s\n", scanType)
	fmt.Fprintf(&sb, "%%FLD \t%s\n", detectorType)
	fmt.Fprintf(&sb, "%%DAT \t%s\n", date)
	sb.WriteString("%TIM \t12:00:00\n")
	fmt.Fprintf(&sb, "%%FSZ \t%s\n", fieldSize)
	fmt.Fprintf(&sb, "%%BMT \t%s\t   %s\n", beamType, energy)
	fmt.Fprintf(&sb, "%%SSD \t%s\n", ssd)
	sb.WriteString("%BUP \t0\n")
	fmt.Fprintf(&sb, "%%BRD \t%s\n", brd)
	sb.WriteString("%FSH \t1\n")
	sb.WriteString("%ASC \t0\n")
	fmt.Fprintf(&sb, "%%WEG \t%s\n", m.WedgeName)
	sb.WriteString("%GPO \t0\n")
	sb.WriteString("%CPO \t0\n")
	fmt.Fprintf(&sb, "%%MEA \t%s\n", measurementType)
	fmt.Fprintf(&sb, "%%PRD \t%s\n", profileDepth)
	fmt.Fprintf(&sb, "%%PTS \t%s\n", m.Points)
	fmt.Fprintf(&sb, "%%STS \t    %s\t  %s\t   %s # Start Scan values in mm ( X , Y , Z )\n",
		start.x, start.y, start.z)
	fmt.Fprintf(&sb, "%%EDS \t    %s\t   %s\t   %s # End Scan values in mm ( X , Y , Z )\n",
		end.x, end.y, end.z)

	// Scan data block.
	sb.WriteString("#\n")
	sb.WriteString("#\t  X      Y      Z     Dose\n")
	sb.WriteString("#\n")
	for i := range m.Samples {
		p, err := transcodeSample(m, i)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "=\t%s\t%s\t%s\t%s\n", p.x, p.y, p.z, p.dose)
	}
	sb.WriteString(":EOM # End of Measurement\n")

	return sb.String(), nil
}

// =============================================================================
// FIELD TRANSFORMATIONS
// =============================================================================

// transcodeDate permutes the W2CAD DD-MM-YYYY acquisition date into the
// RFA300 MM-DD-YYYY order. No calendar validation is performed, but a value
// without exactly three dash-separated tokens fails.
func transcodeDate(m *types.Measurement) (string, error) {
	parts := strings.Split(m.Date, "-")
	if len(parts) != 3 {
		return "", &types.MalformedRecordError{
			MeasurementNumber: m.MeasurementNumber,
			Field:             "date",
			Reason:            fmt.Sprintf("expected DD-MM-YYYY, got %q", m.Date),
		}
	}
	day, month, year := parts[0], parts[1], parts[2]
	return fmt.Sprintf("%s-%s-%s", month, day, year), nil
}

// transcodeFieldSize splits the W2CAD "W*H" field size and rejoins it with
// a single tab, the RFA300 %FSZ layout. No rounding is applied.
func transcodeFieldSize(m *types.Measurement) (string, error) {
	parts := strings.Split(m.FieldSize, "*")
	if len(parts) != 2 {
		return "", &types.MalformedRecordError{
			MeasurementNumber: m.MeasurementNumber,
			Field:             "field_size",
			Reason:            fmt.Sprintf("expected W*H, got %q", m.FieldSize),
		}
	}
	return parts[0] + "\t" + parts[1], nil
}

// transcodeSSD resolves the RFA300 source-surface distance. Photon
// measurements carry %SSD directly; electron measurements carry %SPD
// instead, which substitutes SSD multiplied by ten. A measurement with
// neither distance cannot be transcoded.
func transcodeSSD(m *types.Measurement) (string, error) {
	if m.SSD != "" {
		return m.SSD, nil
	}

	if m.SPD == "" {
		return "", &types.MalformedRecordError{
			MeasurementNumber: m.MeasurementNumber,
			Field:             "ssd",
			Reason:            "measurement carries neither %SSD nor %SPD",
		}
	}

	spd, err := strconv.ParseFloat(m.SPD, 64)
	if err != nil {
		return "", &types.MalformedRecordError{
			MeasurementNumber: m.MeasurementNumber,
			Field:             "spd",
			Reason:            fmt.Sprintf("not numeric: %q", m.SPD),
		}
	}
	return strconv.FormatFloat(spd*10, 'f', 0, 64), nil
}

// transcodeProfileDepth formats the measurement depth to one decimal place
// and replaces the decimal point with a comma, the RFA300 %PRD locale
// convention.
func transcodeProfileDepth(m *types.Measurement) (string, error) {
	depth, err := formatNumeric(m, "depth", m.Depth, 1)
	if err != nil {
		return "", err
	}
	return strings.Replace(depth, ".", ",", 1), nil
}

// point is one dose sample reformatted for RFA300 output.
type point struct {
	x, y, z, dose string
}

// transcodeSample reformats the sample at the given index. W2CAD stores the
// lateral coordinates as (axis2, axis1); RFA300 wants (axis1, axis2), so the
// first two tokens swap. All four fields are formatted to one decimal place.
func transcodeSample(m *types.Measurement, index int) (point, error) {
	s := m.Samples[index]
	field := fmt.Sprintf("samples[%d]", index)

	// The first source token is the RFA300 Y coordinate, the second is X.
	y, err := formatNumeric(m, field, s.Axis1, 1)
	if err != nil {
		return point{}, err
	}
	x, err := formatNumeric(m, field, s.Axis2, 1)
	if err != nil {
		return point{}, err
	}
	z, err := formatNumeric(m, field, s.Axis3, 1)
	if err != nil {
		return point{}, err
	}
	dose, err := formatNumeric(m, field, s.Dose, 1)
	if err != nil {
		return point{}, err
	}

	return point{x: x, y: y, z: z, dose: dose}, nil
}

// formatNumeric parses a numeric string field and reformats it with a fixed
// number of decimal places. The operation is idempotent: a value already at
// the target precision round-trips unchanged.
func formatNumeric(m *types.Measurement, field, value string, decimals int) (string, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", &types.MalformedRecordError{
			MeasurementNumber: m.MeasurementNumber,
			Field:             field,
			Reason:            fmt.Sprintf("not numeric: %q", value),
		}
	}
	return strconv.FormatFloat(f, 'f', decimals, 64), nil
}
