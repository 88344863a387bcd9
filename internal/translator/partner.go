// =============================================================================
// EDI Order Translator - Partners and Classification
// =============================================================================
//
// Every order file starts with a header row whose first field is a literal
// code naming the trading partner that produced it. Classify maps that code
// to one of a closed set of partners.
//
// CLASSIFICATION REGISTRY:
//   | Code         | Partner      |
//   |--------------|--------------|
//   | 007850 001   | Nadro        |
//   | 010850 001   | Walmart      |
//   | 026850 002   | Chedraui     |
//   | (other)      | Unclassified |
//
// Matching is exact: no trimming, no case folding.
//
// =============================================================================

package translator

import (
	"fmt"
	"strings"
)

// Partner is the closed set of trading partners.
type Partner int

const (
	// Unclassified is any file whose header code is not registered.
	Unclassified Partner = iota
	Nadro
	Walmart
	Chedraui
)

var partnerNames = map[Partner]string{
	Unclassified: "Unclassified",
	Nadro:        "Nadro",
	Walmart:      "Walmart",
	Chedraui:     "Chedraui",
}

var partnerCodes = map[string]Partner{
	"007850 001": Nadro,
	"010850 001": Walmart,
	"026850 002": Chedraui,
}

// String returns the partner name.
func (p Partner) String() string {
	if name, ok := partnerNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Partner(%d)", int(p))
}

// Code returns the header code of the partner, or "" for Unclassified.
func (p Partner) Code() string {
	for code, partner := range partnerCodes {
		if partner == p {
			return code
		}
	}
	return ""
}

// Classify returns the partner registered for a header code.
func Classify(code string) Partner {
	if p, ok := partnerCodes[code]; ok {
		return p
	}
	return Unclassified
}

// Partners returns every classifiable partner.
func Partners() []Partner {
	return []Partner{Nadro, Walmart, Chedraui}
}

// ParsePartner resolves a partner name, case-insensitively.
func ParsePartner(name string) (Partner, error) {
	for _, p := range Partners() {
		if strings.EqualFold(strings.TrimSpace(name), p.String()) {
			return p, nil
		}
	}
	return Unclassified, fmt.Errorf("unknown partner %q", name)
}
