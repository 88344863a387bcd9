package translator

import (
	"fmt"
	"sort"

	"github.com/ginjaninja78/edi-order-translator/internal/config"
)

// Registry maps each partner to the translator that handles its files.
type Registry struct {
	translators map[Partner]Translator
}

// NewRegistry creates a registry holding the given translators. A later
// translator for the same partner replaces an earlier one.
func NewRegistry(translators ...Translator) *Registry {
	r := &Registry{translators: make(map[Partner]Translator)}
	for _, t := range translators {
		r.Register(t)
	}
	return r
}

// NewDefaultRegistry returns the built-in Chedraui translator plus one
// translator per partner profile. A profile for Chedraui replaces the
// built-in field map.
//
// PARAMETERS:
//   - configs: Partner profiles as returned by config.LoadPartnerConfigs.
//
// RETURNS:
//   - The registry, or the first profile that fails validation.
func NewDefaultRegistry(configs map[string]*config.PartnerConfig) (*Registry, error) {
	r := NewRegistry(NewChedraui())

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pc := configs[name]
		profile, err := ProfileFromConfig(pc)
		if err != nil {
			return nil, fmt.Errorf("partner profile %s: %w", pc.SourceFile, err)
		}
		r.Register(NewProfileTranslator(profile))
	}

	return r, nil
}

// Register adds or replaces the translator of its partner.
func (r *Registry) Register(t Translator) {
	r.translators[t.Partner()] = t
}

// Lookup returns the translator of a partner.
func (r *Registry) Lookup(p Partner) (Translator, error) {
	t, ok := r.translators[p]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, ErrNoTranslator)
	}
	return t, nil
}

// Partners returns the registered partners in declaration order.
func (r *Registry) Partners() []Partner {
	var out []Partner
	for _, p := range Partners() {
		if _, ok := r.translators[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
