package translator

import (
	"fmt"

	"github.com/ginjaninja78/edi-order-translator/internal/config"
)

// Columns are the 0-based field indexes a translator reads from a data row.
type Columns struct {
	Order      int
	Subcode    int
	Subcode2   int
	Article    int
	Units      int
	Amount     int
	Multiplier int
}

// Profile is the field map and the constants of one partner.
type Profile struct {
	Partner Partner

	Customer      string
	TransType     string
	LineTransType string
	TPCode        string
	TrxCode       string
	Unit          string
	ZeroBlock     string

	// MinFields is the smallest acceptable number of fields per row.
	MinFields int

	Columns Columns
}

// ChedrauiProfile returns the built-in Chedraui field map.
func ChedrauiProfile() Profile {
	return Profile{
		Partner:       Chedraui,
		Customer:      "DF",
		TransType:     "100",
		LineTransType: "300",
		TPCode:        "T1250",
		TrxCode:       "850",
		Unit:          "PZ",
		ZeroBlock:     "00000",
		MinFields:     6,
		Columns: Columns{
			Order:      0,
			Subcode:    2,
			Subcode2:   3,
			Article:    5,
			Units:      8,
			Amount:     10,
			Multiplier: 14,
		},
	}
}

// Validate rejects profiles the translator cannot run.
func (p Profile) Validate() error {
	if p.Partner == Unclassified {
		return fmt.Errorf("profile has no partner")
	}
	if p.MinFields < 1 {
		return fmt.Errorf("%s: min_fields must be positive", p.Partner)
	}

	indexes := map[string]int{
		"order":      p.Columns.Order,
		"subcode":    p.Columns.Subcode,
		"subcode2":   p.Columns.Subcode2,
		"article":    p.Columns.Article,
		"units":      p.Columns.Units,
		"amount":     p.Columns.Amount,
		"multiplier": p.Columns.Multiplier,
	}
	for name, idx := range indexes {
		if idx < 0 {
			return fmt.Errorf("%s: column %s must not be negative", p.Partner, name)
		}
	}
	return nil
}

// ProfileFromConfig builds a profile from a partner file. Values the file
// leaves out keep their Chedraui defaults.
func ProfileFromConfig(pc *config.PartnerConfig) (Profile, error) {
	partner, err := ParsePartner(pc.Partner)
	if err != nil {
		return Profile{}, err
	}

	p := ChedrauiProfile()
	p.Partner = partner

	overrideString(&p.Customer, pc.Customer)
	overrideString(&p.TransType, pc.TransType)
	overrideString(&p.LineTransType, pc.LineTransType)
	overrideString(&p.TPCode, pc.TPCode)
	overrideString(&p.TrxCode, pc.TrxCode)
	overrideString(&p.Unit, pc.Unit)
	overrideString(&p.ZeroBlock, pc.ZeroBlock)

	if pc.MinFields > 0 {
		p.MinFields = pc.MinFields
	}

	overrideInt(&p.Columns.Order, pc.Columns.Order)
	overrideInt(&p.Columns.Subcode, pc.Columns.Subcode)
	overrideInt(&p.Columns.Subcode2, pc.Columns.Subcode2)
	overrideInt(&p.Columns.Article, pc.Columns.Article)
	overrideInt(&p.Columns.Units, pc.Columns.Units)
	overrideInt(&p.Columns.Amount, pc.Columns.Amount)
	overrideInt(&p.Columns.Multiplier, pc.Columns.Multiplier)

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
