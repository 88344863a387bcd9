package translator

import (
	"strings"
	"testing"

	"github.com/ginjaninja78/edi-order-translator/internal/config"
	"github.com/ginjaninja78/edi-order-translator/internal/fixedwidth"
	"github.com/ginjaninja78/edi-order-translator/internal/types"
	"github.com/ginjaninja78/edi-order-translator/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chedrauiHeader = "026850 002,CHEDRAUI,20240105"

// row builds a 15 field Chedraui data row.
func row(order, subcode, subcode2, article, units, amount, multiplier string) string {
	f := make([]string, 15)
	f[0] = order
	f[1] = "X"
	f[2] = subcode
	f[3] = subcode2
	f[5] = article
	f[8] = units
	f[10] = amount
	f[14] = multiplier
	return strings.Join(f, ",")
}

func pad(s string, n int) string {
	return s + strings.Repeat(" ", n-len(s))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		code string
		want Partner
	}{
		{"007850 001", Nadro},
		{"010850 001", Walmart},
		{"026850 002", Chedraui},
		{"026850 001", Unclassified},
		{" 026850 002", Unclassified},
		{"026850 002 ", Unclassified},
		{"", Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.code))
		})
	}
}

func TestPartnerNames(t *testing.T) {
	assert.Equal(t, "Chedraui", Chedraui.String())
	assert.Equal(t, "026850 002", Chedraui.Code())
	assert.Equal(t, "", Unclassified.Code())

	p, err := ParsePartner(" walmart ")
	require.NoError(t, err)
	assert.Equal(t, Walmart, p)

	_, err = ParsePartner("soriana")
	assert.Error(t, err)
}

func TestTranslateExactOutput(t *testing.T) {
	tr := NewChedraui()

	result, err := tr.Translate([]string{
		chedrauiHeader,
		row("ORD1", "SUB1", "S2", "ART1", "2", "25", "6"),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Document)

	wantHeader := "DF" + pad("ORD1", 22) + pad("SUB1", 8) + pad("", 7) +
		"100" + pad("", 11) + "T1250" + pad("", 15) + "850"
	wantDetail := "DF" + pad("ORD1", 22) + pad("", 15) + "300" + pad("", 11) +
		"T1250" + pad("", 85) + pad("00000", 15) + pad("", 31) + pad("ART1", 30) +
		pad("", 30) + "000000012" + "PZ" + "00000001250000" + pad("", 70) + pad("S2", 8)

	require.Len(t, wantHeader, 76)
	require.Len(t, wantDetail, 352)

	assert.Equal(t, wantHeader+"\n"+wantDetail+"\n", result.Document.String())
	assert.Equal(t, 1, result.Orders)
	assert.Equal(t, 1, result.Items)
	assert.Equal(t, 1, result.Accepted)
	assert.Empty(t, result.Rejected)
}

func TestTranslateAggregatesByOrderAndArticle(t *testing.T) {
	tr := NewChedraui()

	result, err := tr.Translate([]string{
		chedrauiHeader,
		row("O1", "S-O1", "A1-2", "A1", "1", "10", "1"),
		row("O1", "S-OTHER", "A2-2", "A2", "2", "30", "1"),
		row("O2", "S-O2", "B1-2", "B1", "5", "5", "2"),
		row("O1", "S-LATE", "LATE", "A1", "3", "99", "1"),
	})
	require.NoError(t, err)

	doc := result.Document
	require.Equal(t, 5, doc.Len())
	assert.Equal(t, 2, doc.Count(types.RecordHeader))
	assert.Equal(t, 3, doc.Count(types.RecordDetail))

	kinds := make([]types.RecordKind, 0, doc.Len())
	orders := make([]string, 0, doc.Len())
	for _, r := range doc.Records {
		kinds = append(kinds, r.Kind)
		orders = append(orders, r.OrderID)
	}
	assert.Equal(t, []types.RecordKind{
		types.RecordHeader, types.RecordDetail, types.RecordDetail,
		types.RecordHeader, types.RecordDetail,
	}, kinds)
	assert.Equal(t, []string{"O1", "O1", "O1", "O2", "O2"}, orders)

	header, err := HeaderLayout.Decode(doc.Records[0].Line)
	require.NoError(t, err)
	assert.Equal(t, "S-O1", header[ColSubcode])

	a1, err := DetailLayout.Decode(doc.Records[1].Line)
	require.NoError(t, err)
	assert.Equal(t, "A1", a1[ColArticle])
	assert.Equal(t, "000000004", a1[ColQuantity])
	assert.Equal(t, "00000001000000", a1[ColPrice], "price comes from the first line of the article")
	assert.Equal(t, "A1-2", a1[ColSubcode2])

	a2, err := DetailLayout.Decode(doc.Records[2].Line)
	require.NoError(t, err)
	assert.Equal(t, "A2", a2[ColArticle])
	assert.Equal(t, "000000002", a2[ColQuantity])
	assert.Equal(t, "00000001500000", a2[ColPrice])

	b1, err := DetailLayout.Decode(doc.Records[4].Line)
	require.NoError(t, err)
	assert.Equal(t, "000000010", b1[ColQuantity])
	assert.Equal(t, "00000000100000", b1[ColPrice])

	assert.Equal(t, 2, result.Orders)
	assert.Equal(t, 3, result.Items)
	assert.Equal(t, 4, result.Accepted)
}

func TestTranslateDecimalQuantities(t *testing.T) {
	result, err := NewChedraui().Translate([]string{
		chedrauiHeader,
		row("O1", "S", "S2", "A1", "1.5", "3", "1"),
		row("O1", "S", "S2", "A1", "1.0", "3", "1"),
	})
	require.NoError(t, err)

	d, err := DetailLayout.Decode(result.Document.Records[1].Line)
	require.NoError(t, err)
	assert.Equal(t, "0000002.5", d[ColQuantity])
	assert.Equal(t, "00000000200000", d[ColPrice])
}

func TestTranslateLaterRowAmountIsIgnored(t *testing.T) {
	result, err := NewChedraui().Translate([]string{
		chedrauiHeader,
		row("O1", "S", "S2", "A1", "2", "20", "1"),
		row("O1", "S", "S2", "A1", "3", "", "1"),
		row("O1", "S", "S2", "A1", "1", "n/a", "2"),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Accepted)
	assert.Empty(t, result.Rejected)

	d, err := DetailLayout.Decode(result.Document.Records[1].Line)
	require.NoError(t, err)
	assert.Equal(t, "000000007", d[ColQuantity])
	assert.Equal(t, "00000001000000", d[ColPrice])
}

func TestTranslateRepresentativeAmountMustBeNumeric(t *testing.T) {
	_, err := NewChedraui().Translate([]string{
		chedrauiHeader,
		row("O1", "S", "S2", "A1", "2", "", "1"),
		row("O1", "S", "S2", "A1", "3", "20", "1"),
	})
	assert.Error(t, err)
}

func TestTranslateSkipsMalformedRows(t *testing.T) {
	result, err := NewChedraui().Translate([]string{
		chedrauiHeader,
		"short,row",
		row("O1", "S", "S2", "A1", "abc", "3", "1"),
		row("O1", "S", "S2", "A1", "2", "4", "1"),
		"O1,X,S,S2,,A1,,,2",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Accepted)
	require.Len(t, result.Rejected, 3)
	assert.Equal(t, 2, result.Rejected[0].Row)
	assert.Equal(t, validation.RuleMinFields, result.Rejected[0].Rule)
	assert.Equal(t, 3, result.Rejected[1].Row)
	assert.Equal(t, validation.RuleNumeric, result.Rejected[1].Rule)
	assert.Equal(t, 5, result.Rejected[2].Row)
	assert.Equal(t, validation.RuleMissingColumn, result.Rejected[2].Rule)

	assert.Equal(t, 2, result.Document.Len())
}

func TestTranslateErrors(t *testing.T) {
	tr := NewChedraui()

	t.Run("no data", func(t *testing.T) {
		_, err := tr.Translate([]string{chedrauiHeader})
		assert.ErrorIs(t, err, ErrNoData)

		_, err = tr.Translate(nil)
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("every row rejected", func(t *testing.T) {
		result, err := tr.Translate([]string{chedrauiHeader, "a,b"})
		assert.ErrorIs(t, err, ErrEmptyDocument)
		require.NotNil(t, result)
		assert.Len(t, result.Rejected, 1)
		assert.Nil(t, result.Document)
	})

	t.Run("zero units", func(t *testing.T) {
		_, err := tr.Translate([]string{chedrauiHeader, row("O1", "S", "S2", "A1", "0", "10", "5")})
		assert.ErrorIs(t, err, ErrZeroUnits)
	})

	t.Run("quantity overflow", func(t *testing.T) {
		_, err := tr.Translate([]string{chedrauiHeader, row("O1", "S", "S2", "A1", "1000000000", "25", "1")})
		assert.ErrorIs(t, err, fixedwidth.ErrFieldOverflow)
	})

	t.Run("price overflow", func(t *testing.T) {
		_, err := tr.Translate([]string{chedrauiHeader, row("O1", "S", "S2", "A1", "1", "1000000000", "1")})
		assert.ErrorIs(t, err, fixedwidth.ErrFieldOverflow)
	})
}

func TestTranslateTruncatesLongText(t *testing.T) {
	long := strings.Repeat("9", 40)

	result, err := NewChedraui().Translate([]string{
		chedrauiHeader,
		row(long, "SUBCODE-TOO-LONG", "S2", long, "1", "1", "1"),
	})
	require.NoError(t, err)

	for _, r := range result.Document.Records {
		layout, ok := LayoutFor(r.Line)
		require.True(t, ok)
		assert.Len(t, r.Line, layout.Width())
	}

	header, err := HeaderLayout.Decode(result.Document.Records[0].Line)
	require.NoError(t, err)
	assert.Equal(t, long[:22], header[ColOrderID])
	assert.Equal(t, "SUBCODE-", header[ColSubcode])
}

func TestProfileFromConfig(t *testing.T) {
	article := 6
	pc := &config.PartnerConfig{
		Partner:  "Walmart",
		Customer: "WM",
		Columns:  config.ColumnConfig{Article: &article},
	}

	p, err := ProfileFromConfig(pc)
	require.NoError(t, err)

	assert.Equal(t, Walmart, p.Partner)
	assert.Equal(t, "WM", p.Customer)
	assert.Equal(t, "T1250", p.TPCode)
	assert.Equal(t, 6, p.Columns.Article)
	assert.Equal(t, 8, p.Columns.Units)

	negative := -1
	_, err = ProfileFromConfig(&config.PartnerConfig{Partner: "nadro", Columns: config.ColumnConfig{Units: &negative}})
	assert.Error(t, err)

	_, err = ProfileFromConfig(&config.PartnerConfig{Partner: "soriana"})
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r, err := NewDefaultRegistry(nil)
	require.NoError(t, err)
	assert.Equal(t, []Partner{Chedraui}, r.Partners())

	tr, err := r.Lookup(Chedraui)
	require.NoError(t, err)
	assert.Equal(t, Chedraui, tr.Partner())

	_, err = r.Lookup(Nadro)
	assert.ErrorIs(t, err, ErrNoTranslator)

	_, err = r.Lookup(Unclassified)
	assert.ErrorIs(t, err, ErrNoTranslator)
}

func TestDefaultRegistryWithProfiles(t *testing.T) {
	r, err := NewDefaultRegistry(map[string]*config.PartnerConfig{
		"walmart":  {Partner: "walmart", Customer: "WM"},
		"chedraui": {Partner: "chedraui", TPCode: "T9999"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Partner{Walmart, Chedraui}, r.Partners())

	tr, err := r.Lookup(Chedraui)
	require.NoError(t, err)
	result, err := tr.Translate([]string{chedrauiHeader, row("O1", "S", "S2", "A1", "1", "1", "1")})
	require.NoError(t, err)

	header, err := HeaderLayout.Decode(result.Document.Records[0].Line)
	require.NoError(t, err)
	assert.Equal(t, "T9999", header[ColTPCode])
	assert.Equal(t, "DF", header[ColCustomer])

	_, err = NewDefaultRegistry(map[string]*config.PartnerConfig{
		"bad": {Partner: "bad", SourceFile: "partners/bad.yaml"},
	})
	assert.ErrorContains(t, err, "partners/bad.yaml")
}
