// =============================================================================
// EDI Order Translator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the EDI order translator CLI. It hands
// control to the Cobra commands in the cmd package.
//
// USAGE:
//   edi-translator process      - Route every order file in the intake folder
//   edi-translator translate    - Translate one order file into the artifact
//   edi-translator inspect      - Export the pending artifact to XLSX
//   edi-translator version      - Display the application version
//
// ARCHITECTURE:
//   - cmd/        : CLI command definitions (Cobra)
//   - internal/   : Routing, translation, encoding and storage
//   - partners/   : Optional per-partner YAML profiles
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/edi-order-translator/cmd"
)

func main() {
	cmd.Execute()
}
