package model

// ProvenanceTier ranks the trust of a brand-origin mapping. Higher tiers are
// never overwritten by lower ones.
type ProvenanceTier string

const (
	TierTrusted ProvenanceTier = "trusted"
	TierCurated ProvenanceTier = "curated"
	TierLearned ProvenanceTier = "learned"
	TierGuessed ProvenanceTier = "guessed"
	TierUnknown ProvenanceTier = "unknown"
)

// Origin source labels. These are finer-grained than the tier: they record
// which resolution strategy actually produced the value.
const (
	SourceTrusted       = "trusted"
	SourceCurated       = "curated"
	SourceLearned       = "learned"
	SourceBlobMatch     = "blob_match"
	SourceTitleGuess    = "title_guess"
	SourceShippingPanel = "shipping_panel"
	SourcePriority      = "priority"
	SourceUnknown       = "unknown"
)

// CountryUnknown is the terminal origin value for unresolvable brands.
const CountryUnknown = "Unknown"

// BrandOriginRecord is a persisted brand -> origin mapping.
type BrandOriginRecord struct {
	BrandKey string         `json:"brand_key"`
	Country  string         `json:"country"`
	City     string         `json:"city"`
	Tier     ProvenanceTier `json:"tier"`
}

// ResolvedOrigin is the outcome of a single origin resolution call.
type ResolvedOrigin struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Source  string `json:"source"`
}

// Tier maps the fine-grained source label onto its provenance tier.
func (r ResolvedOrigin) Tier() ProvenanceTier {
	switch r.Source {
	case SourceTrusted, SourcePriority:
		return TierTrusted
	case SourceCurated:
		return TierCurated
	case SourceLearned:
		return TierLearned
	case SourceBlobMatch, SourceTitleGuess, SourceShippingPanel:
		return TierGuessed
	default:
		return TierUnknown
	}
}

// Known reports whether the origin carries a usable country.
func (r ResolvedOrigin) Known() bool {
	return KnownCountry(r.Country)
}

// KnownCountry reports whether a country value is a real resolution rather
// than one of the placeholder values the pipeline treats as missing.
func KnownCountry(country string) bool {
	switch country {
	case "", CountryUnknown, "Other":
		return false
	}
	return true
}

// UnknownOrigin is the terminal resolution for brands no strategy could place.
func UnknownOrigin() ResolvedOrigin {
	return ResolvedOrigin{Country: CountryUnknown, City: CountryUnknown, Source: SourceUnknown}
}
