// =============================================================================
// EDI Order Translator - Row Validation
// =============================================================================
//
// This module checks order file data rows before they are aggregated.
// A row that fails a check is reported and skipped; the remaining rows of
// the file are still processed.
//
// CHECKS:
//   - Minimum number of fields
//   - Presence of every numeric column the translator reads
//   - Numeric columns parse as decimals
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/edi-order-translator/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ROW ERRORS
// =============================================================================

// Rule names used in RowError.Rule.
const (
	RuleSplit         = "split"
	RuleMinFields     = "min_fields"
	RuleMissingColumn = "missing_column"
	RuleNumeric       = "numeric"
)

// RowError describes why a data row was skipped.
type RowError struct {
	// Row is the 1-based line number in the file (the header row is 1).
	Row int

	// Column is the 0-based field index, or -1 when the whole row is at fault.
	Column int

	// Rule is the check that failed.
	Rule string

	// Message is a human-readable explanation.
	Message string

	// Value is the offending value or line.
	Value string
}

// Error implements the error interface.
func (e *RowError) Error() string {
	if e.Column >= 0 {
		return fmt.Sprintf("row %d, field %d: %s (value: '%s')", e.Row, e.Column, e.Message, e.Value)
	}
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Message, e.Value)
}

// NewSplitError reports a line that could not be split into fields.
func NewSplitError(row int, line string, err error) *RowError {
	return &RowError{
		Row:     row,
		Column:  -1,
		Rule:    RuleSplit,
		Message: err.Error(),
		Value:   line,
	}
}

// =============================================================================
// ROW RULES
// =============================================================================

// RowRules is the set of checks applied to every data row.
type RowRules struct {
	// MinFields is the smallest acceptable number of fields.
	MinFields int

	// NumericColumns are field indexes that must hold a decimal.
	NumericColumns []int
}

// Numbers holds the parsed numeric columns of a valid row.
type Numbers map[int]decimal.Decimal

// Check validates one row.
//
// PARAMETERS:
//   - row:    The 1-based line number, for reporting.
//   - record: The split fields.
//
// RETURNS:
//   - The parsed numeric columns when the row is valid.
//   - A RowError describing the first failed check otherwise.
func (r RowRules) Check(row int, record types.InputRecord) (Numbers, *RowError) {
	if len(record) < r.MinFields {
		return nil, &RowError{
			Row:     row,
			Column:  -1,
			Rule:    RuleMinFields,
			Message: fmt.Sprintf("line has fewer than %d columns", r.MinFields),
			Value:   strings.Join(record, ","),
		}
	}

	numbers := make(Numbers, len(r.NumericColumns))
	for _, col := range r.NumericColumns {
		if !record.Has(col) {
			return nil, &RowError{
				Row:     row,
				Column:  col,
				Rule:    RuleMissingColumn,
				Message: fmt.Sprintf("line has no column %d", col),
				Value:   strings.Join(record, ","),
			}
		}

		value := strings.TrimSpace(record.Field(col))
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, &RowError{
				Row:     row,
				Column:  col,
				Rule:    RuleNumeric,
				Message: "not a number",
				Value:   record.Field(col),
			}
		}
		numbers[col] = d
	}

	return numbers, nil
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors renders row errors one per line for console output.
func FormatErrors(errs []*RowError) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	for _, e := range errs {
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return b.String()
}
