package pipeline

import (
	"math"

	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
)

// Classify labels a product record High or Estimated. High requires a known
// origin, a finite positive weight, a dimensions string and a stable
// identifier; anything less is Estimated. High is the sole gate for
// priority-cache admission.
func Classify(p model.Product) model.Confidence {
	switch {
	case p.OriginCountry == "" || p.OriginCountry == model.CountryUnknown:
		return model.ConfidenceEstimated
	case p.RawWeightKG <= 0 || math.IsNaN(p.RawWeightKG) || math.IsInf(p.RawWeightKG, 0):
		return model.ConfidenceEstimated
	case p.DimensionsCM == "":
		return model.ConfidenceEstimated
	case p.Identifier == "":
		return model.ConfidenceEstimated
	}
	return model.ConfidenceHigh
}
