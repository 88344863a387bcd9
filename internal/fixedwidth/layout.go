package fixedwidth

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORD LAYOUTS
// =============================================================================

// Kind tells the layout how to fit a column value.
type Kind int

const (
	// KindText is truncated and right-padded with spaces.
	KindText Kind = iota

	// KindFiller is always spaces and takes no value.
	KindFiller

	// KindQuantity is a decimal left-padded with zeros.
	KindQuantity

	// KindPrice is a decimal split into integer and fractional digits.
	KindPrice
)

// Column is one field of a record layout.
type Column struct {
	Name  string
	Width int
	Kind  Kind
}

// TextColumn declares a text field.
func TextColumn(name string, width int) Column {
	return Column{Name: name, Width: width, Kind: KindText}
}

// FillerColumn declares an unnamed run of spaces.
func FillerColumn(width int) Column {
	return Column{Width: width, Kind: KindFiller}
}

// QuantityColumn declares a zero-padded quantity field.
func QuantityColumn(name string, width int) Column {
	return Column{Name: name, Width: width, Kind: KindQuantity}
}

// PriceColumn declares the 14 character price field.
func PriceColumn(name string) Column {
	return Column{Name: name, Width: PriceWidth, Kind: KindPrice}
}

// Layout is the ordered list of columns of one record type.
type Layout struct {
	Name    string
	Columns []Column
}

// NewLayout builds a layout from its columns, left to right.
func NewLayout(name string, columns ...Column) Layout {
	return Layout{Name: name, Columns: columns}
}

// Width returns the total record width in bytes.
func (l Layout) Width() int {
	total := 0
	for _, c := range l.Columns {
		total += c.Width
	}
	return total
}

// DataColumns returns the columns that carry a value, skipping fillers.
func (l Layout) DataColumns() []Column {
	cols := make([]Column, 0, len(l.Columns))
	for _, c := range l.Columns {
		if c.Kind != KindFiller {
			cols = append(cols, c)
		}
	}
	return cols
}

// Encode renders one record from named values.
//
// PARAMETERS:
//   - values: Column name -> raw value. Text columns without a value are
//     blank; quantity and price columns without a value are an error.
//
// RETURNS:
//   - The record line (exactly Width() bytes, no terminator).
//   - An error naming the column when a numeric value cannot be encoded.
func (l Layout) Encode(values map[string]string) (string, error) {
	fields := make([]string, 0, len(l.Columns))

	for _, c := range l.Columns {
		switch c.Kind {
		case KindFiller:
			fields = append(fields, Blank(c.Width))

		case KindQuantity:
			q, err := parseDecimal(values[c.Name])
			if err != nil {
				return "", fmt.Errorf("%s column %s: %w", l.Name, c.Name, err)
			}
			encoded, err := FormatQuantity(q, c.Width)
			if err != nil {
				return "", fmt.Errorf("%s column %s: %w", l.Name, c.Name, err)
			}
			fields = append(fields, encoded)

		case KindPrice:
			encoded, err := FormatPrice(values[c.Name])
			if err != nil {
				return "", fmt.Errorf("%s column %s: %w", l.Name, c.Name, err)
			}
			fields = append(fields, encoded)

		default:
			fields = append(fields, Text(values[c.Name], c.Width))
		}
	}

	return EncodeLine(fields...), nil
}

// Decode splits a record line back into the values of its data columns.
// Text values lose their right padding; numeric values are returned as
// written.
func (l Layout) Decode(line string) (map[string]string, error) {
	if len(line) != l.Width() {
		return nil, fmt.Errorf("%s: got %d bytes, want %d: %w", l.Name, len(line), l.Width(), ErrWidthMismatch)
	}

	values := make(map[string]string, len(l.Columns))
	offset := 0
	for _, c := range l.Columns {
		raw := line[offset : offset+c.Width]
		offset += c.Width

		switch c.Kind {
		case KindFiller:
			continue
		case KindText:
			values[c.Name] = strings.TrimRight(raw, " ")
		default:
			values[c.Name] = raw
		}
	}

	return values, nil
}

func parseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, ErrMissingValue
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %q: %w", value, err)
	}
	return d, nil
}
