package rfawriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/types"
)

// photonMeasurement builds the reference open-field depth-dose measurement
// used across the writer tests.
func photonMeasurement() *types.Measurement {
	return &types.Measurement{
		MeasurementNumber: 1,
		Energy:            "6",
		Date:              "25-11-2008",
		Version:           "02",
		DetectorType:      types.DetectorIonChamber,
		BeamType:          types.BeamPhoton,
		DataType:          "OPD",
		WedgeName:         "0",
		Axis:              "Z",
		Points:            "2",
		SSD:               "1000",
		FieldSize:         "100*100",
		Depth:             "0",
		Samples: []types.Sample{
			{Axis1: "0.0", Axis2: "-71.5", Axis3: "30.0", Dose: "100.0"},
			{Axis1: "0.0", Axis2: "71.2", Axis3: "30.1", Dose: "98.5"},
		},
	}
}

func TestWriteScanFileGolden(t *testing.T) {
	scanFile := &types.ScanFile{
		SourcePath:   "6X Open Field.ASC",
		NumScans:     1,
		Measurements: []*types.Measurement{photonMeasurement()},
	}

	got, err := WriteScanFile(scanFile)
	require.NoError(t, err)

	want := strings.Join([]string{
		":MSR \t1\t # No. of measurement in file",
		":SYS BDS 0   # Beam Data Scanner System",
		"#",
		"# RFA300 ASCII Measurement Dump ( BDS format )",
		"#",
		"# Measurement number \t1",
		"#",
		"%VNR 1.0",
		"%MOD \tRAT",
		"%TYP \tSCN",
		"%SCN \tDPT",
		"%FLD \tION",
		"%DAT \t11-25-2008",
		"%TIM \t12:00:00",
		"%FSZ \t100\t100",
		"%BMT \tPHO\t   6.0",
		"%SSD \t1000",
		"%BUP \t0",
		"%BRD \t1000",
		"%FSH \t1",
		"%ASC \t0",
		"%WEG \t0",
		"%GPO \t0",
		"%CPO \t0",
		"%MEA \t1",
		"%PRD \t0,0",
		"%PTS \t2",
		"%STS \t    -71.5\t  0.0\t   30.0 # Start Scan values in mm ( X , Y , Z )",
		"%EDS \t    71.2\t   0.0\t   30.1 # End Scan values in mm ( X , Y , Z )",
		"#",
		"#\t  X      Y      Z     Dose",
		"#",
		"=\t-71.5\t0.0\t30.0\t100.0",
		"=\t71.2\t0.0\t30.1\t98.5",
		":EOM # End of Measurement",
		"",
		":EOF # End of File",
	}, "\n")

	assert.Equal(t, want, got)
}

func TestTranscodeOpenFieldDepthDose(t *testing.T) {
	block, err := TranscodeMeasurement(photonMeasurement())
	require.NoError(t, err)

	assert.Contains(t, block, "%SCN \tDPT")
	assert.Contains(t, block, "%FLD \tION")
	assert.Contains(t, block, "%DAT \t11-25-2008")
	assert.Contains(t, block, "%FSZ \t100\t100")
	assert.Contains(t, block, "%MEA \t1")

	// Axis1/axis2 swap: the source stores (axis2, axis1, axis3, dose).
	assert.Contains(t, block, "=\t-71.5\t0.0\t30.0\t100.0\n")
	assert.Contains(t, block, "=\t71.2\t0.0\t30.1\t98.5\n")
	assert.True(t, strings.HasSuffix(block, ":EOM # End of Measurement\n"))
}

func TestTranscodeAxisSwapIsItsOwnInverse(t *testing.T) {
	m := photonMeasurement()

	block, err := TranscodeMeasurement(m)
	require.NoError(t, err)

	// Read the emitted X/Y back, swap again, and compare with the source
	// sample: two swaps must reproduce the original tuple.
	var dataLine string
	for _, line := range strings.Split(block, "\n") {
		if strings.HasPrefix(line, "=") {
			dataLine = line
			break
		}
	}
	require.NotEmpty(t, dataLine)

	fields := strings.Split(strings.TrimPrefix(dataLine, "=\t"), "\t")
	require.Len(t, fields, 4)

	swappedBack := types.Sample{Axis1: fields[1], Axis2: fields[0], Axis3: fields[2], Dose: fields[3]}
	assert.Equal(t, m.Samples[0], swappedBack)
}

func TestTranscodeDiamondDetectorUnsupported(t *testing.T) {
	m := photonMeasurement()
	m.DetectorType = types.DetectorDiamond

	block, err := TranscodeMeasurement(m)
	assert.Empty(t, block)

	var unsupported *types.UnsupportedValueError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "detector_type", unsupported.Field)
	assert.Equal(t, "DIA", unsupported.Value)
	assert.Equal(t, 1, unsupported.MeasurementNumber)
}

func TestTranscodeUnknownDataTypeUnsupported(t *testing.T) {
	m := photonMeasurement()
	m.DataType = "TPR"

	_, err := TranscodeMeasurement(m)
	var unsupported *types.UnsupportedValueError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "data_type", unsupported.Field)
	assert.Equal(t, "TPR", unsupported.Value)
}

func TestTranscodeUnknownBeamTypeUnsupported(t *testing.T) {
	m := photonMeasurement()
	m.BeamType = "PRO"

	_, err := TranscodeMeasurement(m)
	var unsupported *types.UnsupportedValueError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "beam_type", unsupported.Field)
}

func TestTranscodeElectronSPDSubstitution(t *testing.T) {
	m := photonMeasurement()
	m.BeamType = types.BeamElectron
	m.DataType = "MeasuredDepthDosesForApplicator"
	m.SSD = ""
	m.SPD = "100"

	block, err := TranscodeMeasurement(m)
	require.NoError(t, err)

	// SPD is in cm in the electron exports; SSD and BRD carry it in mm.
	assert.Contains(t, block, "%SSD \t1000\n")
	assert.Contains(t, block, "%BRD \t1000\n")
	assert.Contains(t, block, "%BMT \tELE\t   6.0")
}

func TestTranscodeMissingDistancesFails(t *testing.T) {
	m := photonMeasurement()
	m.SSD = ""
	m.SPD = ""

	_, err := TranscodeMeasurement(m)
	var malformed *types.MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "ssd", malformed.Field)
}

func TestTranscodeEmptySamplesFails(t *testing.T) {
	m := photonMeasurement()
	m.Samples = nil

	_, err := TranscodeMeasurement(m)
	var malformed *types.MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "samples", malformed.Field)
}

func TestTranscodeMalformedDateFails(t *testing.T) {
	m := photonMeasurement()
	m.Date = "25/11/2008"

	_, err := TranscodeMeasurement(m)
	var malformed *types.MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "date", malformed.Field)
}

func TestTranscodeMalformedFieldSizeFails(t *testing.T) {
	m := photonMeasurement()
	m.FieldSize = "100x100"

	_, err := TranscodeMeasurement(m)
	var malformed *types.MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "field_size", malformed.Field)
}

func TestTranscodeWedgeProfileDepth(t *testing.T) {
	m := photonMeasurement()
	m.DataType = "WDP"
	m.Depth = "50"
	m.WedgeName = "30"

	block, err := TranscodeMeasurement(m)
	require.NoError(t, err)

	assert.Contains(t, block, "%SCN \tPRO")
	assert.Contains(t, block, "%MEA \t6")
	assert.Contains(t, block, "%PRD \t50,0")
	assert.Contains(t, block, "%WEG \t30")
}

func TestTranslationTablesAreTotalOverSupportedCodes(t *testing.T) {
	// Every supported data type must map in BOTH tables: a code with a
	// scan type but no measurement type (or vice versa) would fail midway
	// through a block.
	for code := range scanTypeTable {
		_, ok := measurementTypeTable[code]
		assert.True(t, ok, "code %s missing from measurement type table", code)
	}
	for code := range measurementTypeTable {
		_, ok := scanTypeTable[code]
		assert.True(t, ok, "code %s missing from scan type table", code)
	}
}

func TestFormatNumericIsIdempotent(t *testing.T) {
	m := photonMeasurement()

	once, err := formatNumeric(m, "samples[0]", "-71.5", 1)
	require.NoError(t, err)

	twice, err := formatNumeric(m, "samples[0]", once, 1)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, "-71.5", twice)
}

func TestFileHeaderUsesMeasurementCountWhenNumsUnknown(t *testing.T) {
	scanFile := &types.ScanFile{
		NumScans: types.NumScansUnknown,
		Measurements: []*types.Measurement{
			photonMeasurement(),
		},
	}

	header := FileHeader(scanFile)
	assert.Contains(t, header, ":MSR \t1\t")
	assert.Contains(t, header, ":SYS BDS 0   # Beam Data Scanner System")
}

func TestWriteScanFilePreservesOrder(t *testing.T) {
	first := photonMeasurement()
	second := photonMeasurement()
	second.MeasurementNumber = 2
	second.DataType = "OPP"
	second.Depth = "100"

	scanFile := &types.ScanFile{
		NumScans:     2,
		Measurements: []*types.Measurement{first, second},
	}

	doc, err := WriteScanFile(scanFile)
	require.NoError(t, err)

	firstIdx := strings.Index(doc, "# Measurement number \t1")
	secondIdx := strings.Index(doc, "# Measurement number \t2")
	require.GreaterOrEqual(t, firstIdx, 0)
	require.Greater(t, secondIdx, firstIdx)
	assert.Equal(t, 2, strings.Count(doc, ":EOM # End of Measurement"))
	assert.True(t, strings.HasSuffix(doc, ":EOF # End of File"))
}

func TestWriteScanFileFailsWholeFileOnBadRecord(t *testing.T) {
	good := photonMeasurement()
	bad := photonMeasurement()
	bad.MeasurementNumber = 2
	bad.DetectorType = types.DetectorDiamond

	scanFile := &types.ScanFile{
		NumScans:     2,
		Measurements: []*types.Measurement{good, bad},
	}

	doc, err := WriteScanFile(scanFile)
	assert.Empty(t, doc)

	var unsupported *types.UnsupportedValueError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 2, unsupported.MeasurementNumber)
}
