// =============================================================================
// EDI Order Translator - Fixed-Width Encoder
// =============================================================================
//
// This module builds the padded text fields that make up a record of the
// ERP exchange artifact. Every field occupies an exact number of bytes:
//   - Text fields are truncated when longer and right-padded with spaces.
//   - Quantity fields are left-padded with zeros.
//   - Price fields use a fixed 9+5 digit scheme with no separator.
//   - Filler runs are blocks of spaces that carry no data.
//
// OVERFLOW POLICY:
//   Text fields are truncated. Quantities and price integer parts are never
//   truncated: a value that does not fit returns ErrFieldOverflow so the
//   caller can reject the whole document instead of shipping a wrong number.
//
// =============================================================================

package fixedwidth

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrFieldOverflow is returned when a numeric value needs more digits
	// than its field provides.
	ErrFieldOverflow = errors.New("value exceeds field width")

	// ErrNegativeValue is returned for negative quantities or prices.
	ErrNegativeValue = errors.New("negative value")

	// ErrMissingValue is returned when a numeric column has no value.
	ErrMissingValue = errors.New("missing value")

	// ErrWidthMismatch is returned when a line does not match a layout width.
	ErrWidthMismatch = errors.New("line width does not match layout")
)

// =============================================================================
// FIELD ENCODING
// =============================================================================

// Align selects which side of the field receives the padding.
type Align int

const (
	// AlignLeft keeps the value at the start and pads on the right.
	AlignLeft Align = iota

	// AlignRight keeps the value at the end and pads on the left.
	AlignRight
)

const (
	// QuantityDigits is the width of the aggregated quantity field.
	QuantityDigits = 9

	// PriceIntegerDigits is the zero-padded integer part of a price.
	PriceIntegerDigits = 9

	// PriceFractionDigits is the zero-padded fractional part of a price.
	PriceFractionDigits = 5

	// PriceWidth is the full width of an encoded price.
	PriceWidth = PriceIntegerDigits + PriceFractionDigits
)

// EncodeField returns value fitted to exactly width bytes.
//
// PARAMETERS:
//   - value: The raw value.
//   - width: The field width in bytes.
//   - pad:   The padding byte (' ' for text, '0' for numbers).
//   - align: Which side keeps the value.
//
// RETURNS:
//   - The fixed-length text. Longer values keep their first bytes. The cut
//     never lands inside a multi-byte character; the bytes it gives up are
//     filled with pad so the width stays exact.
func EncodeField(value string, width int, pad byte, align Align) string {
	if width <= 0 {
		return ""
	}

	if len(value) > width {
		cut := width
		for cut > 0 && !utf8.RuneStart(value[cut]) {
			cut--
		}
		value = value[:cut]
	}

	padding := strings.Repeat(string(pad), width-len(value))
	if align == AlignRight {
		return padding + value
	}
	return value + padding
}

// Text encodes a left-aligned, space-padded text field.
func Text(value string, width int) string {
	return EncodeField(value, width, ' ', AlignLeft)
}

// Blank returns a filler run of width spaces.
func Blank(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(" ", width)
}

// EncodeLine concatenates already encoded fields into one record line.
// The line terminator is added when the document is serialized.
func EncodeLine(fields ...string) string {
	return strings.Join(fields, "")
}

// =============================================================================
// NUMERIC FIELDS
// =============================================================================

// FormatQuantity renders an aggregated quantity as a zero-padded field.
//
// The decimal is rendered without trailing zeros, so 12.0 becomes
// "000000012" and 2.5 becomes "0000002.5".
func FormatQuantity(quantity decimal.Decimal, width int) (string, error) {
	if quantity.IsNegative() {
		return "", fmt.Errorf("quantity %s: %w", quantity.String(), ErrNegativeValue)
	}

	s := quantity.String()
	if len(s) > width {
		return "", fmt.Errorf("quantity %s needs %d digits, field has %d: %w", s, len(s), width, ErrFieldOverflow)
	}

	return EncodeField(s, width, '0', AlignRight), nil
}

// FormatPrice encodes a decimal string into the 14 character price field.
//
// PARAMETERS:
//   - value: A non-negative decimal in plain notation ("12.5", "7").
//
// RETURNS:
//   - The integer part zero-padded on the left to 9 digits followed by the
//     first 5 fractional digits zero-padded on the right. A value without a
//     decimal point gets "00000" as its fraction.
//   - ErrFieldOverflow when the integer part has more than 9 digits.
//
// EXAMPLES:
//   "12.5" -> "00000001250000"
//   "7"    -> "00000000700000"
func FormatPrice(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("price: %w", ErrMissingValue)
	}
	if strings.HasPrefix(value, "-") {
		return "", fmt.Errorf("price %s: %w", value, ErrNegativeValue)
	}

	integerPart, fractionPart, hasPoint := strings.Cut(value, ".")
	if !hasPoint {
		fractionPart = ""
	}

	if len(integerPart) > PriceIntegerDigits {
		return "", fmt.Errorf("price %s needs %d integer digits, field has %d: %w",
			value, len(integerPart), PriceIntegerDigits, ErrFieldOverflow)
	}

	if len(fractionPart) > PriceFractionDigits {
		fractionPart = fractionPart[:PriceFractionDigits]
	}

	return EncodeField(integerPart, PriceIntegerDigits, '0', AlignRight) +
		EncodeField(fractionPart, PriceFractionDigits, '0', AlignLeft), nil
}

// Price encodes a decimal price.
func Price(price decimal.Decimal) (string, error) {
	return FormatPrice(price.String())
}
