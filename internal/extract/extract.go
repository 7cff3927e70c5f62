// Package extract pulls structured evidence fields out of raw listing text:
// weight, dimensions, material, recyclability class, the product identifier
// embedded in a URL, and the marketplace's fulfillment country.
package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	kgRE       = regexp.MustCompile(`([\d.]+)\s?(?:kg|kilogram|kilograms)`)
	gramRE     = regexp.MustCompile(`([\d.]+)\s?g`)
	dimsRE     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s?[x×*]\s?(\d+(?:\.\d+)?)\s?[x×*]\s?(\d+(?:\.\d+)?)(?:\s?cm|centimeters?)`)
	materialRE = regexp.MustCompile(`(?i)(?:material|made of|composition)[\s:]+([a-z\s\-]+)`)

	identifierREs = []*regexp.Regexp{
		regexp.MustCompile(`/dp/([A-Z0-9]{10})`),
		regexp.MustCompile(`/gp/product/([A-Z0-9]{10})`),
		regexp.MustCompile(`/product/([A-Z0-9]{10})`),
		regexp.MustCompile(`/([A-Z0-9]{10})(?:[/?]|$)`),
	}
)

var titleCaser = cases.Title(language.English)

// WeightKG parses a weight statement out of free text and returns it in
// kilograms rounded to 3 decimals. Kilogram units are tried before grams so
// "1.2 kg" never parses as 1.2 g. Returns 0 when no weight is present.
func WeightKG(text string) float64 {
	text = strings.ToLower(text)
	if m := kgRE.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return round3(v)
		}
	}
	if m := gramRE.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return round3(v / 1000)
		}
	}
	return 0
}

// Dimensions finds an "A x B x C cm" triple and returns it in normalized
// form, or "" when the text carries none.
func Dimensions(text string) string {
	m := dimsRE.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s x %s x %s cm", m[1], m[2], m[3])
}

// Material extracts a declared material ("Material: plastic", "made of
// glass") and canonicalizes common spellings; unrecognized materials come
// back title-cased as written.
func Material(text string) string {
	m := materialRE.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return CanonicalMaterial(strings.TrimSpace(m[1]))
}

// CanonicalMaterial folds material spellings onto the canonical set the
// emissions tables are keyed by. "aluminum" and "aluminium" are the same
// material; "corrugated" means cardboard.
func CanonicalMaterial(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return ""
	}
	switch {
	case strings.Contains(lower, "plastic"):
		return "Plastic"
	case strings.Contains(lower, "glass"):
		return "Glass"
	case strings.Contains(lower, "alum"):
		return "Aluminium"
	case strings.Contains(lower, "steel"):
		return "Steel"
	case strings.Contains(lower, "cardboard"), strings.Contains(lower, "corrugated"):
		return "Cardboard"
	case strings.Contains(lower, "paper"):
		return "Paper"
	}
	return titleCaser.String(lower)
}

// Recyclability classifies packaging claims across all text blobs into
// High, Medium, Low or Unknown. Strong claims ("100% recyclable") rank
// above recycled-content claims, which rank above explicit negatives.
func Recyclability(blobs []string) string {
	full := strings.ToLower(strings.Join(blobs, " "))
	switch {
	case containsAny(full, "100% recyclable", "fully recyclable", "recyclable packaging"):
		return "High"
	case containsAny(full, "partially recycled", "made from recycled", "recycled content"):
		return "Medium"
	case containsAny(full, "not recyclable", "non-recyclable", "plastic packaging"):
		return "Low"
	}
	return "Unknown"
}

// Identifier pulls the 10-character product identifier out of a listing
// URL, trying the canonical path shapes before the bare-token fallback.
// Returns "" when the URL carries none.
func Identifier(url string) string {
	for _, re := range identifierREs {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// FulfillmentCountry infers the marketplace's dispatch country from the
// listing URL and the "sold by" panel text. UK is the default when neither
// gives a signal.
func FulfillmentCountry(url, soldByText string) string {
	url = strings.ToLower(url)
	soldByText = strings.ToLower(soldByText)
	switch {
	case strings.Contains(url, "amazon.co.uk"),
		strings.Contains(soldByText, "dispatched from and sold by amazon"):
		return "UK"
	case strings.Contains(url, "amazon.de"),
		strings.Contains(soldByText, "versand durch amazon"):
		return "Germany"
	case strings.Contains(url, "amazon.fr"):
		return "France"
	case strings.Contains(url, "amazon.it"):
		return "Italy"
	case strings.Contains(url, "amazon.com"):
		return "USA"
	}
	return "UK"
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
