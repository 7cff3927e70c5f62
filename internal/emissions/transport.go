// Package emissions computes transport mode, carbon mass and the banded
// eco-score for a shipped product. Two carbon models coexist: the
// distance-weighted path (weight x factor x distance) and the
// material-intensity path (weight x intensity); callers pick one per entry
// point and the outputs are never merged.
package emissions

import (
	"strings"
)

// Transport modes. Truck covers the original's "Land" naming; the override
// parser accepts both.
const (
	ModeTruck = "Truck"
	ModeShip  = "Ship"
	ModeAir   = "Air"
)

// Distance-derived emission factors in kg CO2 per tonne-km.
const (
	factorTruck = 0.12
	factorShip  = 0.02
	factorAir   = 0.5
)

// Explicit-override factors. The override table deliberately differs from
// the distance table for Ship and Truck; an override replaces both the mode
// and the factor.
var overrideFactors = map[string]float64{
	ModeAir:   0.5,
	ModeShip:  0.03,
	ModeTruck: 0.15,
}

// ModeForDistance picks the transport mode from the shipping distance:
// under 1500 km goes by road, under 6000 km by sea, anything farther flies.
// The distance thresholds are the authoritative policy; origin-country
// guessing is not used.
func ModeForDistance(distanceKM float64) (mode string, factor float64) {
	switch {
	case distanceKM < 1500:
		return ModeTruck, factorTruck
	case distanceKM < 6000:
		return ModeShip, factorShip
	default:
		return ModeAir, factorAir
	}
}

// ParseOverride canonicalizes a user-supplied transport override. "Land" is
// accepted as an alias for Truck. ok is false for anything outside the
// recognized set; such input must be ignored, not erred on.
func ParseOverride(raw string) (mode string, factor float64, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "air":
		mode = ModeAir
	case "ship":
		mode = ModeShip
	case "truck", "land":
		mode = ModeTruck
	default:
		return "", 0, false
	}
	return mode, overrideFactors[mode], true
}

// SelectMode resolves the effective transport mode and factor: a valid
// override wins, otherwise the distance thresholds decide.
func SelectMode(distanceKM float64, override string) (mode string, factor float64) {
	if m, f, ok := ParseOverride(override); ok {
		return m, f
	}
	return ModeForDistance(distanceKM)
}
