package mlscore

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Documented defaults substituted for categories the classifier has never
// seen. Raw unseen values must never reach the scorer.
const (
	DefaultMaterial      = "Other"
	DefaultTransport     = "Land"
	DefaultRecyclability = "Medium"
	DefaultOrigin        = "Other"
)

var titleCaser = cases.Title(language.English)

// FeatureInput is the raw, pre-encoding product description.
type FeatureInput struct {
	Material      string
	WeightKG      float64
	Transport     string
	Recyclability string
	Origin        string
}

// Encoder turns raw feature values into the model's numeric vector using
// the manifest's category sets.
type Encoder struct {
	manifest *Manifest
	indexes  map[string]map[string]int
}

// NewEncoder builds an encoder over a manifest. Category indexes follow
// the training encoder's convention: alphabetical order within a feature.
func NewEncoder(m *Manifest) *Encoder {
	e := &Encoder{manifest: m, indexes: make(map[string]map[string]int, len(m.Categories))}
	for feat, cats := range m.Categories {
		sorted := make([]string, len(cats))
		copy(sorted, cats)
		sort.Strings(sorted)
		idx := make(map[string]int, len(sorted))
		for i, c := range sorted {
			idx[c] = i
		}
		e.indexes[feat] = idx
	}
	return e
}

// NormalizeFeature trims and title-cases a raw value; empty and "unknown"
// collapse to the feature's default.
func NormalizeFeature(value, def string) string {
	clean := titleCaser.String(strings.ToLower(strings.TrimSpace(value)))
	if clean == "" || strings.EqualFold(clean, "unknown") {
		return def
	}
	// Preserve all-caps country codes the caser would mangle.
	switch strings.ToLower(clean) {
	case "uk":
		return "UK"
	case "usa":
		return "USA"
	}
	return clean
}

// safeEncode maps a value to its category index, substituting the default
// for anything outside the trained category set. known is false when the
// substitution happened.
func (e *Encoder) safeEncode(feature, value, def string) (code int, known bool) {
	value = NormalizeFeature(value, def)
	idx := e.indexes[feature]
	if i, ok := idx[value]; ok {
		return i, true
	}
	return idx[def], false
}

// BinWeight buckets a weight into the model's 4-bin ordinal feature.
func BinWeight(weightKG float64) int {
	switch {
	case weightKG < 0.5:
		return 0
	case weightKG < 2:
		return 1
	case weightKG < 10:
		return 2
	default:
		return 3
	}
}

// Encode produces the model's 6-column vector. allKnown is true only when
// every categorical value was inside the trained category set; the
// training log uses it to keep unseen categories out of the training data.
func (e *Encoder) Encode(in FeatureInput) (vec [NumFeatures]float64, allKnown bool) {
	allKnown = true

	code, known := e.safeEncode("material", in.Material, DefaultMaterial)
	vec[FeatMaterial] = float64(code)
	allKnown = allKnown && known

	vec[FeatWeight] = in.WeightKG

	code, known = e.safeEncode("transport", in.Transport, DefaultTransport)
	vec[FeatTransport] = float64(code)
	allKnown = allKnown && known

	code, known = e.safeEncode("recyclability", in.Recyclability, DefaultRecyclability)
	vec[FeatRecyclability] = float64(code)
	allKnown = allKnown && known

	code, known = e.safeEncode("origin", in.Origin, DefaultOrigin)
	vec[FeatOrigin] = float64(code)
	allKnown = allKnown && known

	vec[FeatWeightBin] = float64(BinWeight(in.WeightKG))
	return vec, allKnown
}
