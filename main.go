// =============================================================================
// W2CAD to RFA300 Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the W2CAD to RFA300 Converter CLI.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   w2rfa process       - Convert every .ASC export under the input root
//   w2rfa validate      - Parse and validate without writing output
//   w2rfa version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core conversion logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/medphyslab/W2CAD-to-RFA-conversion/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
