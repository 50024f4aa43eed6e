// =============================================================================
// W2CAD to RFA300 Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - w2parser
//   - rfawriter
//   - validation
//   - converter
//
// =============================================================================

package types

// =============================================================================
// MEASUREMENT TYPES
// =============================================================================

// W2CAD detector type codes (%DETY).
const (
	DetectorIonChamber    = "CHA" // ionization chamber
	DetectorSemiconductor = "DIO" // semiconductor detector
	DetectorDiamond       = "DIA" // diamond detector (not supported downstream)
)

// W2CAD beam type codes (%BMTY).
const (
	BeamPhoton   = "PHO"
	BeamElectron = "ELE"
)

// Sample is a single dose sample read from a W2CAD data line.
//
// The three coordinates are stored in SOURCE axis order exactly as they
// appear between the angle brackets. The W2CAD format writes the two lateral
// axes in the opposite order to RFA300; the swap happens at transcode time,
// never at read time.
type Sample struct {
	// Axis1 is the first coordinate token of the data line.
	Axis1 string

	// Axis2 is the second coordinate token of the data line.
	Axis2 string

	// Axis3 is the third coordinate token (depth axis).
	Axis3 string

	// Dose is the measured dose value.
	Dose string
}

// Measurement represents a single parsed W2CAD measurement block together
// with its ordered dose samples. Field values are kept as the raw strings
// read from the tagged lines; interpretation and reformatting belong to the
// RFA300 writer.
type Measurement struct {
	// MeasurementNumber is the 1-based order of appearance within the
	// source file. Numbers are dense: 1, 2, 3, ...
	MeasurementNumber int

	// Energy is the nominal beam energy. It is not present in the file
	// body; it is extracted from the source file name (e.g. "6X", "18 MeV").
	Energy string

	// Date is the acquisition date in the source locale, DD-MM-YYYY.
	Date string

	// Version is the W2CAD format version line, informational only.
	Version string

	// DetectorType is the %DETY code: CHA, DIO or DIA.
	DetectorType string

	// BeamType is the %BMTY code: PHO or ELE.
	BeamType string

	// DataType is the %TYPE scan subtype code, e.g. OPD, OPP, WDD,
	// WDD_SSD80, WDP, DPR. It drives two independent translation tables
	// in the RFA300 writer (scan type and measurement type).
	DataType string

	// WedgeName is the %WDGL wedge identifier, "0" when no wedge.
	WedgeName string

	// WedgeDirection is the %WDGD code (L or R), empty for open fields.
	WedgeDirection string

	// Axis is the %AXIS scan axis: X, Y, Z or D (diagonal).
	Axis string

	// Points is the declared number of points (%PNTS), kept as a string.
	Points string

	// Step is the point separation in 1/10 mm (%STEP).
	Step string

	// SSD is the source-surface distance in mm (%SSD). Empty for
	// electron measurements.
	SSD string

	// SPD is the source-patient distance (%SPD), present only for
	// electron measurements where it substitutes SSD multiplied by ten.
	SPD string

	// FieldSize is the field geometry as "W*H" in mm (%FLSZ).
	FieldSize string

	// Depth is the measurement depth in mm (%DPTH), "0" for depth scans.
	Depth string

	// Samples holds the dose samples in acquisition order.
	Samples []Sample
}

// NewMeasurement creates a Measurement with the defaults the W2CAD format
// assumes for omitted tags.
func NewMeasurement(number int, energy string) *Measurement {
	return &Measurement{
		MeasurementNumber: number,
		Energy:            energy,
		WedgeName:         "0",
		Depth:             "0",
	}
}

// =============================================================================
// SCAN FILE
// =============================================================================

// NumScansUnknown marks a scan file whose $NUMS directive was absent.
const NumScansUnknown = -1

// ScanFile is the transient in-memory representation of one parsed W2CAD
// file: the declared scan count plus the sealed measurements in order of
// appearance. It is created by the reader, handed whole to the writer, and
// then discarded.
type ScanFile struct {
	// SourcePath is the path the file was read from.
	SourcePath string

	// NumScans is the total measurement count declared by the $NUMS
	// directive, or NumScansUnknown when the directive was absent.
	NumScans int

	// Measurements contains the sealed measurements in original order.
	Measurements []*Measurement
}
