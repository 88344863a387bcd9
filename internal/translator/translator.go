// =============================================================================
// EDI Order Translator - Partner Translator
// =============================================================================
//
// A translator turns the lines of one partner order file into the records
// of the fixed-width exchange artifact.
//
// TRANSLATION PIPELINE:
//   1. Skip the header row
//   2. Split each data row and validate it (bad rows are skipped)
//   3. quantity = units * multiplier, in decimal arithmetic
//   4. Group by order, then by article; the first row of an article is its
//      representative, later rows only add to its total quantity
//   5. For each order (first-seen order): one header record, then one
//      detail record per article (first-seen order)
//
// The header record takes its values from the first row of the order. The
// detail price is amount / units of the representative row only.
//
// =============================================================================

package translator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/edi-order-translator/internal/csvparser"
	"github.com/ginjaninja78/edi-order-translator/internal/types"
	"github.com/ginjaninja78/edi-order-translator/internal/validation"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoData is returned for files with a header row and nothing else.
	ErrNoData = errors.New("file has no data or only one line")

	// ErrEmptyDocument is returned when no data row survived validation.
	ErrEmptyDocument = errors.New("no valid order lines")

	// ErrZeroUnits is returned when a representative row has zero units,
	// which leaves the unit price undefined.
	ErrZeroUnits = errors.New("units column is zero")

	// ErrNoTranslator is returned for partners without a registered profile.
	ErrNoTranslator = errors.New("no translator registered")
)

// =============================================================================
// CONTRACT
// =============================================================================

// Translator converts the lines of one order file into an output document.
type Translator interface {
	// Partner returns the partner this translator handles.
	Partner() Partner

	// Translate consumes every line of the file, header row included.
	// The returned Translation is non-nil whenever rows were examined, even
	// on error, so callers can report the rejected rows.
	Translate(lines []string) (*Translation, error)
}

// Translation is the result of one Translate call.
type Translation struct {
	// Document holds the encoded records. Nil on error.
	Document *types.OutputDocument

	// Orders is the number of order groups.
	Orders int

	// Items is the number of aggregated articles over all orders.
	Items int

	// Accepted is the number of data rows folded into the document.
	Accepted int

	// Rejected lists the skipped data rows.
	Rejected []*validation.RowError
}

// =============================================================================
// PROFILE TRANSLATOR
// =============================================================================

// ProfileTranslator implements Translator for any partner whose files
// follow the Chedraui row shape, driven by a Profile.
type ProfileTranslator struct {
	profile Profile
	rules   validation.RowRules
}

// NewProfileTranslator creates a translator for a profile.
func NewProfileTranslator(profile Profile) *ProfileTranslator {
	c := profile.Columns
	return &ProfileTranslator{
		profile: profile,
		rules: validation.RowRules{
			MinFields: profile.MinFields,
			// Amount is only read from the representative row, in unitPrice.
			NumericColumns: []int{c.Units, c.Multiplier},
		},
	}
}

// NewChedraui creates the built-in Chedraui translator.
func NewChedraui() *ProfileTranslator {
	return NewProfileTranslator(ChedrauiProfile())
}

// Partner implements Translator.
func (t *ProfileTranslator) Partner() Partner {
	return t.profile.Partner
}

// Profile returns the field map in use.
func (t *ProfileTranslator) Profile() Profile {
	return t.profile
}

// Translate implements Translator.
//
// PARAMETERS:
//   - lines: Every non-empty line of the file; lines[0] is the header row.
//
// RETURNS:
//   - The translation with the encoded document.
//   - ErrNoData for files with one line or less, ErrEmptyDocument when every
//     data row was rejected, ErrZeroUnits or fixedwidth.ErrFieldOverflow
//     when a record cannot be encoded.
func (t *ProfileTranslator) Translate(lines []string) (*Translation, error) {
	if len(lines) <= 1 {
		return nil, ErrNoData
	}

	result := &Translation{}
	orders := t.aggregate(lines[1:], result)

	result.Orders = orders.Len()
	for _, g := range orders.Groups {
		result.Items += len(g.Items)
	}

	if orders.Len() == 0 {
		return result, ErrEmptyDocument
	}

	doc, err := t.encode(orders)
	if err != nil {
		return result, err
	}

	result.Document = doc
	return result, nil
}

// aggregate folds the data rows into order groups in a single pass.
func (t *ProfileTranslator) aggregate(dataLines []string, result *Translation) *types.OrderSet {
	c := t.profile.Columns
	orders := types.NewOrderSet()

	for i, line := range dataLines {
		row := i + 2 // the header row is line 1

		record, err := csvparser.SplitFields(line)
		if err != nil {
			result.Rejected = append(result.Rejected, validation.NewSplitError(row, line, err))
			continue
		}

		numbers, rowErr := t.rules.Check(row, record)
		if rowErr != nil {
			result.Rejected = append(result.Rejected, rowErr)
			continue
		}

		quantity := numbers[c.Units].Mul(numbers[c.Multiplier])
		orders.Group(record.Field(c.Order)).Add(record.Field(c.Article), record, quantity)
		result.Accepted++
	}

	return orders
}

// encode renders the order groups as header and detail records.
func (t *ProfileTranslator) encode(orders *types.OrderSet) (*types.OutputDocument, error) {
	p := t.profile
	doc := &types.OutputDocument{}

	for _, group := range orders.Groups {
		first := group.First().Representative

		header, err := HeaderLayout.Encode(map[string]string{
			ColCustomer:  p.Customer,
			ColOrderID:   group.OrderID,
			ColSubcode:   first.Field(p.Columns.Subcode),
			ColTransType: p.TransType,
			ColTPCode:    p.TPCode,
			ColTrxCode:   p.TrxCode,
		})
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", group.OrderID, err)
		}
		doc.Append(types.RecordHeader, group.OrderID, header)

		for _, item := range group.Items {
			price, err := t.unitPrice(item)
			if err != nil {
				return nil, fmt.Errorf("order %s article %s: %w", group.OrderID, item.ArticleCode, err)
			}

			detail, err := DetailLayout.Encode(map[string]string{
				ColCustomer:      p.Customer,
				ColOrderID:       group.OrderID,
				ColLineTransType: p.LineTransType,
				ColTPCode:        p.TPCode,
				ColZeroBlock:     p.ZeroBlock,
				ColArticle:       item.ArticleCode,
				ColQuantity:      item.TotalQuantity.String(),
				ColUnit:          p.Unit,
				ColPrice:         price.String(),
				ColSubcode2:      item.Representative.Field(p.Columns.Subcode2),
			})
			if err != nil {
				return nil, fmt.Errorf("order %s article %s: %w", group.OrderID, item.ArticleCode, err)
			}
			doc.Append(types.RecordDetail, group.OrderID, detail)
		}
	}

	return doc, nil
}

// unitPrice is amount / units of the representative row.
func (t *ProfileTranslator) unitPrice(item *types.AggregatedItem) (decimal.Decimal, error) {
	c := t.profile.Columns
	rep := item.Representative

	amount, err := decimal.NewFromString(strings.TrimSpace(rep.Field(c.Amount)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", rep.Field(c.Amount), err)
	}
	units, err := decimal.NewFromString(strings.TrimSpace(rep.Field(c.Units)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("units %q: %w", rep.Field(c.Units), err)
	}
	if units.IsZero() {
		return decimal.Zero, ErrZeroUnits
	}

	return amount.Div(units), nil
}
