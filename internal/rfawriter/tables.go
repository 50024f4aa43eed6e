// =============================================================================
// W2CAD to RFA300 Converter - Translation Tables
// =============================================================================
//
// The W2CAD and RFA300 vocabularies are incompatible; these read-only tables
// bridge them. They are module-level constants in effect: nothing mutates
// them after init, and lookups go through guarded helpers that return a
// typed UnsupportedValueError instead of a zero value on a miss.
//
// Two independent classifications are derived from the same W2CAD %TYPE
// code: the RFA300 scan type (%SCN, geometric) and the RFA300 measurement
// type (%MEA, a finer numeric code). Several distinct source codes map to
// the same destination code in each table.
//
// =============================================================================

package rfawriter

import "github.com/medphyslab/W2CAD-to-RFA-conversion/internal/types"

// scanTypeTable maps the W2CAD %TYPE code to the RFA300 %SCN scan type:
// DPT (depth dose), PRO (profile) or DIA (diagonal).
var scanTypeTable = map[string]string{
	"OPD":        "DPT",
	"OPP":        "PRO",
	"WDD":        "DPT",
	"WDD_SSD80":  "DPT",
	"WDD_SSD120": "DPT",
	"WDP":        "PRO",
	"WLP":        "PRO",
	"DPR":        "DIA",
	"BLD":        "DPT",

	"MeasuredDepthDosesForApplicator": "DPT",
	"MeasuredDepthDosesForOpenBeam":   "DPT",
	"MeasuredProfileForOpenBeam":      "PRO",
}

// measurementTypeTable maps the same W2CAD %TYPE domain to the RFA300 %MEA
// measurement type code: 1 (depth dose), 2 (profile), 5 (wedge depth dose),
// 6 (wedge profile).
var measurementTypeTable = map[string]string{
	"OPD":        "1",
	"OPP":        "2",
	"WDD":        "5",
	"WDD_SSD80":  "5",
	"WDD_SSD120": "5",
	"WDP":        "6",
	"WLP":        "6",
	"BLD":        "1",
	"DPR":        "2",

	"MeasuredProfileForOpenBeam":      "2",
	"MeasuredDepthDosesForApplicator": "1",
	"MeasuredDepthDosesForOpenBeam":   "1",
}

// detectorTypeTable maps the W2CAD %DETY code to the RFA300 %FLD detector
// type. Diamond detectors (DIA) and undefined types are deliberately absent:
// they are not supported downstream and must fail loudly.
var detectorTypeTable = map[string]string{
	types.DetectorIonChamber:    "ION",
	types.DetectorSemiconductor: "SEM",
}

// beamTypeTable passes the W2CAD %BMTY code through for the two supported
// radiation types.
var beamTypeTable = map[string]string{
	types.BeamPhoton:   "PHO",
	types.BeamElectron: "ELE",
}

// =============================================================================
// GUARDED LOOKUPS
// =============================================================================

// lookupScanType resolves the RFA300 scan type for a measurement.
func lookupScanType(m *types.Measurement) (string, error) {
	if v, ok := scanTypeTable[m.DataType]; ok {
		return v, nil
	}
	return "", &types.UnsupportedValueError{
		MeasurementNumber: m.MeasurementNumber,
		Field:             "data_type",
		Value:             m.DataType,
	}
}

// lookupMeasurementType resolves the RFA300 measurement type code for a
// measurement.
func lookupMeasurementType(m *types.Measurement) (string, error) {
	if v, ok := measurementTypeTable[m.DataType]; ok {
		return v, nil
	}
	return "", &types.UnsupportedValueError{
		MeasurementNumber: m.MeasurementNumber,
		Field:             "data_type",
		Value:             m.DataType,
	}
}

// lookupDetectorType resolves the RFA300 detector type for a measurement.
func lookupDetectorType(m *types.Measurement) (string, error) {
	if v, ok := detectorTypeTable[m.DetectorType]; ok {
		return v, nil
	}
	return "", &types.UnsupportedValueError{
		MeasurementNumber: m.MeasurementNumber,
		Field:             "detector_type",
		Value:             m.DetectorType,
	}
}

// lookupBeamType resolves the RFA300 radiation type for a measurement.
func lookupBeamType(m *types.Measurement) (string, error) {
	if v, ok := beamTypeTable[m.BeamType]; ok {
		return v, nil
	}
	return "", &types.UnsupportedValueError{
		MeasurementNumber: m.MeasurementNumber,
		Field:             "beam_type",
		Value:             m.BeamType,
	}
}
