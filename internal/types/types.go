// =============================================================================
// EDI Order Translator - Shared Types
// =============================================================================
//
// This package contains the data model shared by the translator, the router
// and the reporting modules. Types defined here are used by:
//   - translator (building order groups and documents)
//   - artifact   (writing documents)
//   - xlsxreport (rendering decoded records)
//
// LIFECYCLE:
//   InputRecord    -> consumed immediately into an OrderGroup
//   OrderGroup     -> serialized once into an OutputDocument, then discarded
//   OutputDocument -> written once to the shared artifact
//
// =============================================================================

package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT RECORD
// =============================================================================

// InputRecord is one parsed data line: the fields in their original order.
type InputRecord []string

// Field returns the field at index i, or "" if the record is shorter.
func (r InputRecord) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Has reports whether the record carries a field at index i.
func (r InputRecord) Has(i int) bool {
	return i >= 0 && i < len(r)
}

// =============================================================================
// AGGREGATION TYPES
// =============================================================================

// AggregatedItem accumulates all the lines of one (order, article) pair.
type AggregatedItem struct {
	// ArticleCode is the grouping key within the order.
	ArticleCode string

	// Representative is the first line seen for this pair.
	// Header and price values are always taken from it.
	Representative InputRecord

	// TotalQuantity is the running sum of the per-line quantities.
	TotalQuantity decimal.Decimal

	// Lines is the number of source lines folded into this item.
	Lines int
}

// OrderGroup holds the aggregated articles of one order in first-seen order.
type OrderGroup struct {
	// OrderID is the order identifier shared by every item of the group.
	OrderID string

	// Items are the aggregated articles in insertion order.
	Items []*AggregatedItem

	index map[string]*AggregatedItem
}

// NewOrderGroup creates an empty group for the given order.
func NewOrderGroup(orderID string) *OrderGroup {
	return &OrderGroup{
		OrderID: orderID,
		index:   make(map[string]*AggregatedItem),
	}
}

// Add folds one line into the group. The first line of an article becomes
// its representative; later lines only add to the total quantity.
func (g *OrderGroup) Add(articleCode string, record InputRecord, quantity decimal.Decimal) *AggregatedItem {
	if g.index == nil {
		g.index = make(map[string]*AggregatedItem)
	}

	item, ok := g.index[articleCode]
	if !ok {
		item = &AggregatedItem{
			ArticleCode:    articleCode,
			Representative: record,
			TotalQuantity:  decimal.Zero,
		}
		g.index[articleCode] = item
		g.Items = append(g.Items, item)
	}

	item.TotalQuantity = item.TotalQuantity.Add(quantity)
	item.Lines++

	return item
}

// First returns the first article added to the group, or nil when empty.
func (g *OrderGroup) First() *AggregatedItem {
	if len(g.Items) == 0 {
		return nil
	}
	return g.Items[0]
}

// Item returns the aggregated article for a code.
func (g *OrderGroup) Item(articleCode string) (*AggregatedItem, bool) {
	item, ok := g.index[articleCode]
	return item, ok
}

// OrderSet keeps order groups in the order their first line was seen.
type OrderSet struct {
	Groups []*OrderGroup
	index  map[string]*OrderGroup
}

// NewOrderSet creates an empty set.
func NewOrderSet() *OrderSet {
	return &OrderSet{index: make(map[string]*OrderGroup)}
}

// Group returns the group for an order, creating it on first use.
func (s *OrderSet) Group(orderID string) *OrderGroup {
	if s.index == nil {
		s.index = make(map[string]*OrderGroup)
	}

	group, ok := s.index[orderID]
	if !ok {
		group = NewOrderGroup(orderID)
		s.index[orderID] = group
		s.Groups = append(s.Groups, group)
	}
	return group
}

// Len returns the number of orders in the set.
func (s *OrderSet) Len() int {
	return len(s.Groups)
}

// =============================================================================
// OUTPUT DOCUMENT
// =============================================================================

// RecordKind distinguishes header records from detail records.
type RecordKind string

const (
	// RecordHeader is the single per-order record.
	RecordHeader RecordKind = "header"

	// RecordDetail is the per-article record.
	RecordDetail RecordKind = "detail"
)

// Record is one encoded fixed-width line, without its terminator.
type Record struct {
	Kind    RecordKind
	OrderID string
	Line    string
}

// OutputDocument is the ordered sequence of encoded records.
type OutputDocument struct {
	Records []Record
}

// LineTerminator ends every record in the artifact.
const LineTerminator = "\n"

// Append adds a record at the end of the document.
func (d *OutputDocument) Append(kind RecordKind, orderID, line string) {
	d.Records = append(d.Records, Record{Kind: kind, OrderID: orderID, Line: line})
}

// Len returns the number of records.
func (d *OutputDocument) Len() int {
	return len(d.Records)
}

// Count returns the number of records of the given kind.
func (d *OutputDocument) Count(kind RecordKind) int {
	n := 0
	for _, r := range d.Records {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

// String concatenates every record, each followed by the line terminator.
func (d *OutputDocument) String() string {
	var b strings.Builder
	for _, r := range d.Records {
		b.WriteString(r.Line)
		b.WriteString(LineTerminator)
	}
	return b.String()
}

// Bytes returns the artifact content.
func (d *OutputDocument) Bytes() []byte {
	return []byte(d.String())
}
