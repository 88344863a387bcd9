// =============================================================================
// EDI Order Translator - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command. It decodes the pending artifact
// and exports its records to an XLSX workbook for review.
//
// COMMAND USAGE:
//   edi-translator inspect [--xlsx FILE]
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/edi-order-translator/internal/xlsxreport"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// xlsxOut is the workbook path.
var xlsxOut string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Export the pending artifact to an XLSX workbook",
	Long: `The inspect command reads the pending 850 exchange artifact, decodes its
header and detail records, and writes them to the Headers and Details
sheets of an XLSX workbook.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&xlsxOut, "xlsx", "o", "850_EXP.xlsx", "Output workbook path")
}

func runInspect() error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	pending, err := a.writer.Exists()
	if err != nil {
		return err
	}
	if !pending {
		return fmt.Errorf("no artifact pending at %s", a.writer.Path())
	}

	lines, err := a.writer.Read()
	if err != nil {
		return err
	}

	out, err := os.Create(xlsxOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", xlsxOut, err)
	}
	defer out.Close()

	summary, err := xlsxreport.Export(out, lines)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", xlsxOut, err)
	}

	if len(summary.Unrecognized) > 0 {
		logger.Warn("unrecognized artifact lines", zap.Ints("lines", summary.Unrecognized))
	}

	fmt.Printf("%s: %d header(s), %d detail(s) -> %s\n", a.writer.Path(), summary.Headers, summary.Details, xlsxOut)
	return nil
}
