// Package brands is the three-tier brand-origin knowledge base: a hardcoded
// trusted table, an externally curated CSV, and a mutable learned store that
// the resolver writes back to.
package brands

import (
	"github.com/JamieAtGit/shipping-emissions-project/internal/geo"
	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
)

// trustedOrigins is the hardcoded top tier. Entries here can never be
// overridden by curated, learned, or heuristic data.
var trustedOrigins = map[string]string{
	"huel":      "UK",
	"avm":       "Germany",
	"anker":     "China",
	"bosch":     "Germany",
	"philips":   "Netherlands",
	"sony":      "Japan",
	"samsung":   "South Korea",
	"apple":     "USA",
	"lenovo":    "China",
	"asus":      "Taiwan",
	"fender":    "USA",
	"kinetica":  "Ireland",
	"xiaomi":    "China",
	"dyson":     "UK",
	"adidas":    "Germany",
	"nokia":     "Finland",
	"logitech":  "Switzerland",
	"tcl":       "China",
	"tefal":     "France",
	"panasonic": "Japan",
	"microsoft": "USA",
	"nintendo":  "Japan",
}

// Trusted looks up a brand in the hardcoded tier. The city is taken from the
// country's origin hub; countries without a hub inherit the UK hub city.
func Trusted(brandKey string) (model.BrandOriginRecord, bool) {
	country, ok := trustedOrigins[brandKey]
	if !ok {
		return model.BrandOriginRecord{}, false
	}
	return model.BrandOriginRecord{
		BrandKey: brandKey,
		Country:  country,
		City:     geo.OriginHub(country).City,
		Tier:     model.TierTrusted,
	}, true
}

// TrustedBrands returns the brand keys of the hardcoded tier.
func TrustedBrands() []string {
	out := make([]string, 0, len(trustedOrigins))
	for k := range trustedOrigins {
		out = append(out, k)
	}
	return out
}
