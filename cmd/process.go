// =============================================================================
// EDI Order Translator - Process Command
// =============================================================================
//
// This file defines the 'process' command, the batch entry point. It routes
// every order file in the intake folder once.
//
// COMMAND USAGE:
//   edi-translator process [flags]
//
// PROCESSING PIPELINE:
//   1. Load the configuration and the partner profiles
//   2. List the intake folder
//   3. Route each file (guard, classify, translate, move, log)
//   4. Print the run report
//
// EXIT STATUS:
//   1 when the intake folder is empty or cannot be scanned. Per-file
//   failures are reported but do not fail the run.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/edi-order-translator/internal/router"
	"github.com/ginjaninja78/edi-order-translator/internal/validation"
	"github.com/spf13/cobra"
)

// showRows prints the skipped rows of each file.
var showRows bool

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Route every order file in the intake folder",
	Long: `The process command scans the intake folder for order files, identifies
the trading partner of each from its header row, and translates it into the
850 exchange artifact.

For each file:
  - If an artifact is already pending, the file is moved to the error folder
  - If the file has one line or less, it stays in the intake folder
  - If the partner is unknown, the file is moved to the processed folder
  - Otherwise the artifact is written and the file is moved to processed;
    a failed translation moves the file to the error folder instead

Every decision is appended to the daily process log.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&showRows,
		"show-rows",
		false,
		"Print the data rows skipped by the translators",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess() error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	report, err := a.router().Run()
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

// printReport writes the per-file outcomes and the totals to stdout.
func printReport(report *router.Report) {
	fmt.Printf("=== EDI Order Translator (run %s) ===\n", report.RunID)

	for _, f := range report.Files {
		line := fmt.Sprintf("  %-12s %s", f.Outcome, f.File)
		if f.Outcome == router.OutcomeTranslated {
			line += fmt.Sprintf(" (%s: %d orders, %d items)", f.Partner, f.Orders, f.Items)
		}
		if f.Err != nil {
			line += fmt.Sprintf(": %v", f.Err)
		}
		fmt.Println(line)

		if len(f.Rejected) > 0 {
			fmt.Printf("      %d row(s) skipped\n", len(f.Rejected))
			if showRows {
				fmt.Print(indent(validation.FormatErrors(f.Rejected)))
			}
		}
	}

	fmt.Println("\n=== Run Complete ===")
	fmt.Println(report.Summary())
	fmt.Printf("Time elapsed: %s\n", report.Finished.Sub(report.Started).Round(time.Millisecond))
}

// indent prefixes every line of s.
func indent(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	return "        " + strings.Join(lines, "\n        ") + "\n"
}
