// Package resolver turns a brand key plus free-text evidence into a trusted
// (country, city) origin with a provenance tag, via an ordered fallback
// chain of strategies.
package resolver

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rules holds the keyword tables the heuristic strategies run against. The
// compiled-in defaults match the shipped behavior; a YAML file can extend or
// replace them without a code change.
type Rules struct {
	// CountryKeywords maps a canonical country name to the raw phrases that
	// normalize to it.
	CountryKeywords map[string][]string `yaml:"country_keywords"`
	// NoiseTokens are words that look like a leading brand but never are.
	NoiseTokens []string `yaml:"noise_tokens"`
	// TitleBrands maps a brand fragment found in a product title to a country.
	TitleBrands map[string]string `yaml:"title_brands"`
	// DefaultOrigin is the generic guess when a title matches no known brand:
	// the most common origin in the training population.
	DefaultOrigin string `yaml:"default_origin"`
	// PanelPhrases mark a UI fragment as a shipping/seller panel.
	PanelPhrases []string `yaml:"panel_phrases"`

	noiseSet        map[string]struct{}
	sortedCountries []string
	sortedFragments []string
}

// DefaultRules returns the compiled-in rule set.
func DefaultRules() *Rules {
	r := &Rules{
		CountryKeywords: map[string][]string{
			"UK":          {"united kingdom", "uk", "england", "scotland", "wales"},
			"USA":         {"united states of america", "united states", "usa", "us"},
			"China":       {"china", "prc"},
			"Germany":     {"germany"},
			"France":      {"france"},
			"Italy":       {"italy"},
			"Japan":       {"japan"},
			"Ireland":     {"ireland", "eire"},
			"Netherlands": {"netherlands", "holland"},
			"Canada":      {"canada"},
			"Switzerland": {"switzerland"},
			"Australia":   {"australia"},
			"Sweden":      {"sweden"},
			"Finland":     {"finland"},
			"Mexico":      {"mexico"},
			"Spain":       {"spain"},
			"Poland":      {"poland"},
			"India":       {"india"},
			"South Korea": {"south korea", "korea"},
		},
		NoiseTokens: []string{
			"usb", "type", "plug", "cable", "portable", "wireless",
			"eco", "fast", "led", "bottle", "unknown",
		},
		TitleBrands: map[string]string{
			"huawei": "China",
			"adidas": "Germany",
			"apple":  "USA",
			"sony":   "Japan",
			"dyson":  "UK",
		},
		DefaultOrigin: "China",
		PanelPhrases:  []string{"ships from", "sold by", "dispatches from"},
	}
	r.index()
	return r
}

// LoadRules reads a rule file, filling any omitted section from the
// defaults.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "resolver: read rules %s", path)
	}
	r := &Rules{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, eris.Wrap(err, "resolver: parse rules")
	}

	def := DefaultRules()
	if len(r.CountryKeywords) == 0 {
		r.CountryKeywords = def.CountryKeywords
	}
	if len(r.NoiseTokens) == 0 {
		r.NoiseTokens = def.NoiseTokens
	}
	if len(r.TitleBrands) == 0 {
		r.TitleBrands = def.TitleBrands
	}
	if r.DefaultOrigin == "" {
		r.DefaultOrigin = def.DefaultOrigin
	}
	if len(r.PanelPhrases) == 0 {
		r.PanelPhrases = def.PanelPhrases
	}
	r.index()
	return r, nil
}

// index builds the lookup set and the deterministic iteration orders. Longer
// keywords are tried first so "united kingdom" wins over "uk" inside the
// same phrase.
func (r *Rules) index() {
	r.noiseSet = make(map[string]struct{}, len(r.NoiseTokens))
	for _, tok := range r.NoiseTokens {
		r.noiseSet[tok] = struct{}{}
	}

	r.sortedCountries = make([]string, 0, len(r.CountryKeywords))
	for c := range r.CountryKeywords {
		r.sortedCountries = append(r.sortedCountries, c)
	}
	sort.Strings(r.sortedCountries)

	r.sortedFragments = make([]string, 0, len(r.TitleBrands))
	for f := range r.TitleBrands {
		r.sortedFragments = append(r.sortedFragments, f)
	}
	sort.Strings(r.sortedFragments)
}
