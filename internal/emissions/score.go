package emissions

import "math"

var validScores = map[string]struct{}{
	"A+": {}, "A": {}, "B": {}, "C": {}, "D": {}, "E": {}, "F": {},
}

var recycleScores = map[string]float64{
	"Low":    2,
	"Medium": 6,
	"High":   10,
}

// BandScore turns the estimate's raw numbers into a letter grade. Four
// sub-scores on a 0-10 scale are averaged: lighter, closer, lower-carbon
// and more recyclable products score higher.
func BandScore(carbonKG, weightKG, distanceKM float64, recyclability string) string {
	carbonScore := math.Max(0, 10-carbonKG*5)
	weightScore := math.Max(0, 10-weightKG*2)
	distanceScore := math.Max(0, 10-distanceKM/1000)
	recycleScore, ok := recycleScores[recyclability]
	if !ok {
		recycleScore = 5
	}

	avg := (carbonScore + weightScore + distanceScore + recycleScore) / 4
	switch {
	case avg >= 9:
		return "A+"
	case avg >= 8:
		return "A"
	case avg >= 6.5:
		return "B"
	case avg >= 5:
		return "C"
	case avg >= 3.5:
		return "D"
	default:
		return "F"
	}
}

// SanitizeScore guards the output boundary: any value outside the valid
// grade set becomes the neutral C.
func SanitizeScore(score string) string {
	if _, ok := validScores[score]; ok {
		return score
	}
	return "C"
}
