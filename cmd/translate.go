// =============================================================================
// EDI Order Translator - Translate Command
// =============================================================================
//
// This file defines the 'translate' command. It runs one partner translator
// on one file and writes the artifact, without touching the intake folders
// or the process log.
//
// COMMAND USAGE:
//   edi-translator translate [--partner NAME] [--force] FILE
//
// FLAGS:
//   --partner : Translator to use. Default: classify from the header row.
//   --force   : Overwrite a pending artifact.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/edi-order-translator/internal/csvparser"
	"github.com/ginjaninja78/edi-order-translator/internal/storage"
	"github.com/ginjaninja78/edi-order-translator/internal/translator"
	"github.com/ginjaninja78/edi-order-translator/internal/validation"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errArtifactPending is returned when an artifact is pending and --force
// was not given.
var errArtifactPending = errors.New("artifact pending")

var (
	partnerName string
	force       bool
)

var translateCmd = &cobra.Command{
	Use:   "translate FILE",
	Short: "Translate one order file into the exchange artifact",
	Long: `The translate command runs a partner translator on a single order file
and writes the 850 exchange artifact. FILE is a path on the local disk; it
is not moved.

Without --partner the partner is read from the header row, exactly as the
process command does.`,
	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		return runTranslate(args[0])
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&partnerName, "partner", "p", "", "Partner translator (nadro, walmart, chedraui)")
	translateCmd.Flags().BoolVar(&force, "force", false, "Overwrite a pending artifact")
}

func runTranslate(file string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	lines, err := storage.New(afero.NewOsFs()).ReadLines(file)
	if err != nil {
		return err
	}
	order := csvparser.NewOrderFile(file, lines)

	partner := translator.Classify(order.HeaderCode())
	if partnerName != "" {
		if partner, err = translator.ParsePartner(partnerName); err != nil {
			return err
		}
	}
	if partner == translator.Unclassified {
		return fmt.Errorf("%s: header code %q matches no partner", file, order.HeaderCode())
	}

	t, err := a.registry.Lookup(partner)
	if err != nil {
		return err
	}

	pending, err := a.writer.Exists()
	if err != nil {
		return err
	}
	if pending && !force {
		return fmt.Errorf("%s: %w (use --force to overwrite)", a.writer.Path(), errArtifactPending)
	}

	result, err := t.Translate(order.Lines)
	if result != nil && len(result.Rejected) > 0 {
		fmt.Printf("%d row(s) skipped:\n", len(result.Rejected))
		fmt.Print(indent(validation.FormatErrors(result.Rejected)))
	}
	if err != nil {
		return fmt.Errorf("%s: translation failed: %w", file, err)
	}

	if err := a.writer.Write(result.Document); err != nil {
		return err
	}

	logger.Info("artifact written",
		zap.String("file", file),
		zap.Stringer("partner", partner),
		zap.String("artifact", a.writer.Path()),
		zap.Int("orders", result.Orders),
		zap.Int("items", result.Items))

	fmt.Printf("%s: %s order file -> %s (%d orders, %d items, %d records)\n",
		file, partner, a.writer.Path(), result.Orders, result.Items, result.Document.Len())
	return nil
}
