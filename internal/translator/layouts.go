package translator

import (
	"github.com/ginjaninja78/edi-order-translator/internal/fixedwidth"
)

// Column names of the record layouts, as returned by Layout.Decode.
const (
	ColCustomer      = "customer"
	ColOrderID       = "order_id"
	ColSubcode       = "subcode"
	ColTransType     = "trans_type"
	ColTPCode        = "tp_code"
	ColTrxCode       = "trx_code"
	ColLineTransType = "line_trans_type"
	ColZeroBlock     = "zero_block"
	ColArticle       = "article_code"
	ColQuantity      = "quantity"
	ColUnit          = "unit"
	ColPrice         = "price"
	ColSubcode2      = "subcode2"
)

// HeaderLayout is the per-order record of the artifact (76 bytes).
var HeaderLayout = fixedwidth.NewLayout("header",
	fixedwidth.TextColumn(ColCustomer, 2),
	fixedwidth.TextColumn(ColOrderID, 22),
	fixedwidth.TextColumn(ColSubcode, 8),
	fixedwidth.FillerColumn(7),
	fixedwidth.TextColumn(ColTransType, 3),
	fixedwidth.FillerColumn(11),
	fixedwidth.TextColumn(ColTPCode, 5),
	fixedwidth.FillerColumn(15),
	fixedwidth.TextColumn(ColTrxCode, 3),
)

// DetailLayout is the per-article record of the artifact (352 bytes).
var DetailLayout = fixedwidth.NewLayout("detail",
	fixedwidth.TextColumn(ColCustomer, 2),
	fixedwidth.TextColumn(ColOrderID, 22),
	fixedwidth.FillerColumn(9),
	fixedwidth.FillerColumn(6),
	fixedwidth.TextColumn(ColLineTransType, 3),
	fixedwidth.FillerColumn(11),
	fixedwidth.TextColumn(ColTPCode, 5),
	fixedwidth.FillerColumn(85),
	fixedwidth.TextColumn(ColZeroBlock, 15),
	fixedwidth.FillerColumn(31),
	fixedwidth.TextColumn(ColArticle, 30),
	fixedwidth.FillerColumn(30),
	fixedwidth.QuantityColumn(ColQuantity, fixedwidth.QuantityDigits),
	fixedwidth.TextColumn(ColUnit, 2),
	fixedwidth.PriceColumn(ColPrice),
	fixedwidth.FillerColumn(2),
	fixedwidth.FillerColumn(68),
	fixedwidth.TextColumn(ColSubcode2, 8),
)

// LayoutFor picks the layout of an artifact line by its width.
func LayoutFor(line string) (fixedwidth.Layout, bool) {
	switch len(line) {
	case HeaderLayout.Width():
		return HeaderLayout, true
	case DetailLayout.Width():
		return DetailLayout, true
	default:
		return fixedwidth.Layout{}, false
	}
}
