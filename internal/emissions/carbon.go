package emissions

import "math"

// DefaultWeightKG substitutes for a missing, zero or non-finite weight so
// the carbon models never see a degenerate input.
const DefaultWeightKG = 1.0

// PackagingUplift is the multiplier applied to product weight when the
// estimate should include packaging.
const PackagingUplift = 1.05

// NormalizeWeight floors a scraped weight: anything missing, non-positive
// or non-finite becomes DefaultWeightKG.
func NormalizeWeight(weightKG float64) float64 {
	if math.IsNaN(weightKG) || math.IsInf(weightKG, 0) || weightKG <= 0 {
		return DefaultWeightKG
	}
	return weightKG
}

// DistanceCarbonKG is the distance-weighted carbon model:
// weight x factor x distance in thousands of km, rounded to 2 decimals.
func DistanceCarbonKG(weightKG, factor, distanceKM float64) float64 {
	return round2(weightKG * factor * distanceKM / 1000)
}

// MaterialCarbonKG is the material-intensity carbon model: weight times the
// material's kg-CO2-per-kg intensity, rounded to 2 decimals.
func MaterialCarbonKG(weightKG, intensity float64) float64 {
	return round2(weightKG * intensity)
}

// TreesToOffset converts a carbon mass into the number of tree-years needed
// to absorb it, at 20 kg CO2 per tree, rounded to 1 decimal.
func TreesToOffset(carbonKG float64) float64 {
	return math.Round(carbonKG/20*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
