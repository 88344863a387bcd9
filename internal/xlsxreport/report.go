// =============================================================================
// EDI Order Translator - Artifact Inspection Workbook
// =============================================================================
//
// This module decodes a fixed-width artifact back into its columns and
// writes them to an XLSX workbook, so an operator can review a pending
// artifact before the ERP import routine consumes it.
//
// WORKBOOK STRUCTURE:
//   | Sheet   | Rows                                                  |
//   |---------|-------------------------------------------------------|
//   | Headers | one per header record (76 bytes)                      |
//   | Details | one per detail record (352 bytes)                     |
//
//   Row 1 of each sheet holds the column names. Column A is the line number
//   in the artifact. The Details sheet ends with the decoded quantity and
//   unit price as numbers.
//
// Lines that match neither record width are counted and left out.
//
// =============================================================================

package xlsxreport

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/edi-order-translator/internal/fixedwidth"
	"github.com/ginjaninja78/edi-order-translator/internal/translator"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	// HeadersSheet holds the header records.
	HeadersSheet = "Headers"

	// DetailsSheet holds the detail records.
	DetailsSheet = "Details"

	lineColumn          = "line"
	quantityValueColumn = "quantity_value"
	priceValueColumn    = "price_value"
)

// Summary counts what was exported.
type Summary struct {
	Headers int
	Details int

	// Unrecognized lists the 1-based artifact lines that were left out.
	Unrecognized []int
}

// sheet accumulates the rows of one worksheet.
type sheet struct {
	name    string
	layout  fixedwidth.Layout
	columns []string
	rows    [][]interface{}
}

func newSheet(name string, layout fixedwidth.Layout, extra ...string) *sheet {
	columns := []string{lineColumn}
	for _, c := range layout.DataColumns() {
		columns = append(columns, c.Name)
	}
	columns = append(columns, extra...)
	return &sheet{name: name, layout: layout, columns: columns}
}

// =============================================================================
// EXPORT
// =============================================================================

// Export writes the workbook for the given artifact lines.
//
// PARAMETERS:
//   - w:     The destination of the .xlsx content.
//   - lines: The artifact lines, without terminators.
//
// RETURNS:
//   - The export summary.
//   - An error if a line cannot be decoded or the workbook cannot be written.
func Export(w io.Writer, lines []string) (*Summary, error) {
	headers := newSheet(HeadersSheet, translator.HeaderLayout)
	details := newSheet(DetailsSheet, translator.DetailLayout, quantityValueColumn, priceValueColumn)
	summary := &Summary{}

	for i, line := range lines {
		lineNo := i + 1

		layout, ok := translator.LayoutFor(line)
		if !ok {
			summary.Unrecognized = append(summary.Unrecognized, lineNo)
			continue
		}

		values, err := layout.Decode(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if layout.Name == translator.HeaderLayout.Name {
			headers.rows = append(headers.rows, headers.row(lineNo, values))
			summary.Headers++
			continue
		}

		row := details.row(lineNo, values)
		quantity, price, err := detailNumbers(values)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		row = append(row, quantity, price)
		details.rows = append(details.rows, row)
		summary.Details++
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), HeadersSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(DetailsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	for _, s := range []*sheet{headers, details} {
		if err := s.write(f, bold); err != nil {
			return nil, err
		}
	}

	if err := f.Write(w); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return summary, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// row orders decoded values by the sheet columns.
func (s *sheet) row(lineNo int, values map[string]string) []interface{} {
	row := make([]interface{}, 0, len(s.columns))
	row = append(row, lineNo)
	for _, c := range s.layout.DataColumns() {
		row = append(row, values[c.Name])
	}
	return row
}

// write fills one worksheet: a bold title row, then the records.
func (s *sheet) write(f *excelize.File, style int) error {
	title := make([]interface{}, len(s.columns))
	for i, c := range s.columns {
		title[i] = c
	}
	if err := f.SetSheetRow(s.name, "A1", &title); err != nil {
		return fmt.Errorf("%s: failed to write title row: %w", s.name, err)
	}
	if err := f.SetRowStyle(s.name, 1, 1, style); err != nil {
		return fmt.Errorf("%s: failed to style title row: %w", s.name, err)
	}

	for i := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &s.rows[i]); err != nil {
			return fmt.Errorf("%s: failed to write row %d: %w", s.name, i+2, err)
		}
	}
	return nil
}

// detailNumbers decodes the quantity and the 9+5 digit price of a detail.
func detailNumbers(values map[string]string) (float64, float64, error) {
	rawQuantity := values[translator.ColQuantity]
	quantity, err := decimal.NewFromString(rawQuantity)
	if err != nil {
		return 0, 0, fmt.Errorf("quantity %q: %w", rawQuantity, err)
	}

	rawPrice := values[translator.ColPrice]
	if len(rawPrice) != fixedwidth.PriceWidth {
		return 0, 0, fmt.Errorf("price %q: %w", rawPrice, fixedwidth.ErrWidthMismatch)
	}
	price, err := decimal.NewFromString(rawPrice[:fixedwidth.PriceIntegerDigits] + "." + rawPrice[fixedwidth.PriceIntegerDigits:])
	if err != nil {
		return 0, 0, fmt.Errorf("price %q: %w", rawPrice, err)
	}

	return quantity.InexactFloat64(), price.InexactFloat64(), nil
}
