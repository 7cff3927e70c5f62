package resolver

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// unitTokenRE matches unit-like tokens ("65w", "100ml") that scrape out of
// listings as a leading word but are never a brand.
var unitTokenRE = regexp.MustCompile(`^\d+[a-z]{0,3}$`)

var titleCaser = cases.Title(language.English)

// NormalizeBrandKey lowercases and trims a raw brand string and strips the
// marketplace boilerplate ("Visit the X Store") around the actual name.
func NormalizeBrandKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.TrimPrefix(key, "visit the")
	key = strings.TrimSuffix(strings.TrimSpace(key), "store")
	return strings.TrimSpace(key)
}

// IsNoiseBrand reports whether a candidate brand word is a generic token
// (stopword, unit, bare number) that must never be passed to the resolver
// as a brand.
func (r *Rules) IsNoiseBrand(candidate string) bool {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	if candidate == "" {
		return true
	}
	if _, ok := r.noiseSet[candidate]; ok {
		return true
	}
	return unitTokenRE.MatchString(candidate)
}

// PickBrandKey chooses the brand key for a resolution call: the normalized
// raw brand when one was scraped, otherwise the first word of the title.
// Noise tokens are rejected; an empty result means the brand is Unknown.
func (r *Rules) PickBrandKey(rawBrand, title string) string {
	if key := NormalizeBrandKey(rawBrand); key != "" && !r.IsNoiseBrand(key) {
		return key
	}
	fields := strings.Fields(strings.ToLower(title))
	if len(fields) == 0 {
		return ""
	}
	if r.IsNoiseBrand(fields[0]) {
		return ""
	}
	return fields[0]
}

// CanonicalCountry normalizes a raw origin phrase through the keyword table:
// "united kingdom" and "england" both canonicalize to UK. Unrecognized
// phrases are title-cased as-is so downstream display stays consistent.
func (r *Rules) CanonicalCountry(raw string) string {
	origin := strings.ToLower(strings.TrimSpace(raw))
	if origin == "" {
		return "Unknown"
	}
	for _, country := range r.sortedCountries {
		for _, kw := range r.CountryKeywords[country] {
			if containsKeyword(origin, kw) {
				return country
			}
		}
	}
	return titleCaser.String(origin)
}

// containsKeyword matches long keywords as substrings and short ones ("uk",
// "us") as whole words, so "austria" never canonicalizes to USA.
func containsKeyword(origin, kw string) bool {
	if len(kw) > 3 {
		return strings.Contains(origin, kw)
	}
	for _, word := range strings.FieldsFunc(origin, func(c rune) bool {
		return !('a' <= c && c <= 'z' || '0' <= c && c <= '9')
	}) {
		if word == kw {
			return true
		}
	}
	return false
}
