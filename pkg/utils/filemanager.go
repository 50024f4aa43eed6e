// =============================================================================
// W2CAD to RFA300 Converter - File Manager Utility
// =============================================================================
//
// This module provides the file-system glue around the core reader/writer
// pair:
//   - Recursive discovery of W2CAD exports beneath the input root
//   - Output path derivation that mirrors the input directory tree
//   - Error log generation for failed batch runs
//
// The conversion core never touches directories; everything path-shaped
// lives here.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles walks the input root and returns every file whose
// extension matches (case-insensitively) the given extension, in
// deterministic sorted order.
//
// PARAMETERS:
//   - inputDir: The root directory to scan.
//   - extension: The extension to match, e.g. ".asc". Case-insensitive.
//
// RETURNS:
//   - A sorted slice of file paths.
//   - An error if the tree cannot be walked.
func DiscoverInputFiles(inputDir, extension string) ([]string, error) {
	var files []string

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// =============================================================================
// OUTPUT PATH DERIVATION
// =============================================================================

// OutputPath derives the destination path for a source file: the source's
// position relative to the input root is mirrored beneath the output root,
// and the file name becomes the source stem plus the output suffix.
//
// Example with suffix "_rfa.ASC":
//
//	input/photons/6X Open Field.ASC -> output/photons/6X Open Field_rfa.ASC
//
// A source path outside the input root is an error: mirroring would
// otherwise escape the output tree.
func OutputPath(sourcePath, inputDir, outputDir, suffix string) (string, error) {
	rel, err := filepath.Rel(inputDir, sourcePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("source file %s is not beneath input directory %s", sourcePath, inputDir)
	}

	stem := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	return filepath.Join(outputDir, filepath.Dir(rel), stem+suffix), nil
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// WriteErrorLog writes the per-file failure messages of a batch run to a
// uniquely named log file in the report directory.
//
// RETURNS:
//   - The path of the written log.
//   - An error if the log cannot be written.
func WriteErrorLog(reportDir, runID string, messages []string) (string, error) {
	if runID == "" {
		runID = ShortRunID()
	}

	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Conversion errors - run %s - %s\n\n", runID, time.Now().Format(time.RFC3339))
	for _, msg := range messages {
		sb.WriteString(msg)
		sb.WriteString("\n")
	}

	logPath := filepath.Join(reportDir, fmt.Sprintf("errors_%s.log", runID))
	if err := os.WriteFile(logPath, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write error log: %w", err)
	}

	return logPath, nil
}

// ShortRunID returns a short unique identifier for one batch run, used in
// report and error-log file names.
func ShortRunID() string {
	return uuid.New().String()[:8]
}
