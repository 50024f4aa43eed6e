package w2parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medphyslab/W2CAD-to-RFA-conversion/internal/types"
)

// sampleExport is a well-formed two-measurement W2CAD export.
const sampleExport = `$NUMS 002
$STOM
%VERSION 02
%DATE 25-11-2008
%DETY CHA
%BMTY PHO
%TYPE OPD
%AXIS Z
%PNTS 2
%STEP 010
%SSD 1000
%FLSZ 100*100
%DPTH 0
<0.0 -71.5 30.0 100.0>
<0.0 71.2 30.1 98.5>
$ENOM
$STOM
%VERSION 02
%DATE 25-11-2008
%DETY DIO
%BMTY PHO
%TYPE OPP
%AXIS X
%PNTS 1
%SSD 1000
%FLSZ 100*100
%DPTH 50
<-50.0 0.0 50.0 45.2>
$ENOM
`

// writeExport drops a W2CAD export into a temp directory and returns its path.
func writeExport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseWellFormedFile(t *testing.T) {
	path := writeExport(t, "6X Open Field.ASC", sampleExport)

	scanFile, err := Parse(path)
	require.NoError(t, err)

	want := &types.ScanFile{
		SourcePath: path,
		NumScans:   2,
		Measurements: []*types.Measurement{
			{
				MeasurementNumber: 1,
				Energy:            "6",
				Date:              "25-11-2008",
				Version:           "02",
				DetectorType:      "CHA",
				BeamType:          "PHO",
				DataType:          "OPD",
				WedgeName:         "0",
				Axis:              "Z",
				Points:            "2",
				Step:              "010",
				SSD:               "1000",
				FieldSize:         "100*100",
				Depth:             "0",
				Samples: []types.Sample{
					{Axis1: "0.0", Axis2: "-71.5", Axis3: "30.0", Dose: "100.0"},
					{Axis1: "0.0", Axis2: "71.2", Axis3: "30.1", Dose: "98.5"},
				},
			},
			{
				MeasurementNumber: 2,
				Energy:            "6",
				Date:              "25-11-2008",
				Version:           "02",
				DetectorType:      "DIO",
				BeamType:          "PHO",
				DataType:          "OPP",
				WedgeName:         "0",
				Axis:              "X",
				Points:            "1",
				SSD:               "1000",
				FieldSize:         "100*100",
				Depth:             "50",
				Samples: []types.Sample{
					{Axis1: "-50.0", Axis2: "0.0", Axis3: "50.0", Dose: "45.2"},
				},
			},
		},
	}

	if diff := cmp.Diff(want, scanFile); diff != "" {
		t.Errorf("parsed scan file mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSequenceNumbersAreDense(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("$NUMS 5\n")
	for i := 0; i < 5; i++ {
		sb.WriteString("$STOM\n%TYPE OPD\n<0.0 0.0 0.0 1.0>\n$ENOM\n")
	}
	path := writeExport(t, "10X scans.ASC", sb.String())

	scanFile, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, scanFile.Measurements, 5)
	assert.Equal(t, scanFile.NumScans, len(scanFile.Measurements))

	for i, m := range scanFile.Measurements {
		assert.Equal(t, i+1, m.MeasurementNumber)
	}
}

func TestParseRejectsWrongExtension(t *testing.T) {
	path := writeExport(t, "6X Open Field.txt", sampleExport)

	_, err := Parse(path)
	var formatErr *types.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, path, formatErr.Path)
}

func TestParseAcceptsLowercaseExtension(t *testing.T) {
	path := writeExport(t, "6X Open Field.asc", sampleExport)

	scanFile, err := Parse(path)
	require.NoError(t, err)
	assert.Len(t, scanFile.Measurements, 2)
}

func TestExtractEnergy(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"photon file name", "/data/6X Open Field.ASC", "6", false},
		{"megavolt file name", "/data/15 MV Wedge.ASC", "15", false},
		{"electron file name", "/data/18 MeV Applicator.ASC", "18", false},
		{"energy in path only", "/data/10X/profiles.ASC", "10", false},
		{"no energy anywhere", "/data/profiles.ASC", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractEnergy(tt.path)
			if tt.wantErr {
				var formatErr *types.FormatError
				require.ErrorAs(t, err, &formatErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnclosedBlockFails(t *testing.T) {
	truncated := "$NUMS 1\n$STOM\n%TYPE OPD\n<0.0 0.0 0.0 1.0>\n"
	path := writeExport(t, "6X truncated.ASC", truncated)

	_, err := Parse(path)
	var parseErr *types.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "still open")
}

func TestParseNestedStartFails(t *testing.T) {
	nested := "$STOM\n%TYPE OPD\n$STOM\n"
	path := writeExport(t, "6X nested.ASC", nested)

	_, err := Parse(path)
	var parseErr *types.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Line)
}

func TestParseEndWithoutStartFails(t *testing.T) {
	path := writeExport(t, "6X stray end.ASC", "$ENOM\n")

	_, err := Parse(path)
	var parseErr *types.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseTaggedLineOutsideBlockFails(t *testing.T) {
	path := writeExport(t, "6X stray tag.ASC", "%DATE 25-11-2008\n")

	_, err := Parse(path)
	var parseErr *types.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseTaggedLineWithExtraTokensFails(t *testing.T) {
	bad := "$STOM\n%DATE 25-11-2008 extra\n$ENOM\n"
	path := writeExport(t, "6X bad tag.ASC", bad)

	_, err := Parse(path)
	var parseErr *types.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "exactly one value token")
}

func TestParseMalformedSampleLineFails(t *testing.T) {
	bad := "$STOM\n<0.0 0.0 1.0>\n$ENOM\n"
	path := writeExport(t, "6X bad sample.ASC", bad)

	_, err := Parse(path)
	var parseErr *types.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "4 tokens")
}

func TestParseMalformedNumsDirectiveFails(t *testing.T) {
	path := writeExport(t, "6X bad nums.ASC", "$NUMS twelve\n")

	_, err := Parse(path)
	var parseErr *types.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseSkipsUnrecognizedTags(t *testing.T) {
	content := "$STOM\n%COMNT informational\n%TYPE OPD\n<0.0 0.0 0.0 1.0>\n$ENOM\n"
	path := writeExport(t, "6X unknown tag.ASC", content)

	scanFile, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, scanFile.Measurements, 1)
	assert.Equal(t, "OPD", scanFile.Measurements[0].DataType)
}

func TestParseMissingNumsDirective(t *testing.T) {
	content := "$STOM\n%TYPE OPD\n<0.0 0.0 0.0 1.0>\n$ENOM\n"
	path := writeExport(t, "6X no nums.ASC", content)

	scanFile, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, types.NumScansUnknown, scanFile.NumScans)
	assert.Len(t, scanFile.Measurements, 1)
}

func TestParseElectronSPD(t *testing.T) {
	content := strings.Join([]string{
		"$NUMS 1",
		"$STOM",
		"%DATE 25-11-2008",
		"%DETY CHA",
		"%BMTY ELE",
		"%TYPE MeasuredDepthDosesForApplicator",
		"%PNTS 1",
		"%SPD 100",
		"%FLSZ 100*100",
		"<0.0 0.0 10.0 99.8>",
		"$ENOM",
		"",
	}, "\n")
	path := writeExport(t, "18 MeV Applicator.ASC", content)

	scanFile, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, scanFile.Measurements, 1)

	m := scanFile.Measurements[0]
	assert.Equal(t, "18", m.Energy)
	assert.Empty(t, m.SSD)
	assert.Equal(t, "100", m.SPD)
}

func TestParseCRLFLineEndings(t *testing.T) {
	content := strings.ReplaceAll(sampleExport, "\n", "\r\n")
	path := writeExport(t, "6X crlf.ASC", content)

	scanFile, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, scanFile.Measurements, 2)
	assert.Equal(t, "100.0", scanFile.Measurements[0].Samples[0].Dose)
}

func TestParseErrorsDoNotReturnPartialResults(t *testing.T) {
	truncated := "$NUMS 2\n$STOM\n%TYPE OPD\n<0.0 0.0 0.0 1.0>\n$ENOM\n$STOM\n%TYPE OPP\n"
	path := writeExport(t, "6X partial.ASC", truncated)

	scanFile, err := Parse(path)
	require.Error(t, err)
	assert.Nil(t, scanFile)
	assert.True(t, errors.As(err, new(*types.ParseError)))
}
