package mlscore

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FallbackLabel is returned with zero confidence when the scorer fails.
const FallbackLabel = "C"

// Scorer is the opaque scoring oracle: a feature vector in, a label and a
// confidence fraction (0..1) out.
type Scorer interface {
	Score(vec [NumFeatures]float64) (label string, confidence float64, err error)
}

// LinearScorer scores with the manifest's exported per-label weight rows:
// softmax over one dot product per label. It stands in for the full model
// where only the manifest is deployed.
type LinearScorer struct {
	manifest *Manifest
}

// NewLinearScorer builds a scorer from a manifest carrying weight rows.
func NewLinearScorer(m *Manifest) (*LinearScorer, error) {
	if len(m.Weights) == 0 {
		return nil, eris.New("mlscore: manifest carries no weights")
	}
	return &LinearScorer{manifest: m}, nil
}

// Score implements Scorer.
func (s *LinearScorer) Score(vec [NumFeatures]float64) (string, float64, error) {
	best := ""
	scores := make(map[string]float64, len(s.manifest.Labels))
	for _, label := range s.manifest.Labels {
		w, ok := s.manifest.Weights[label]
		if !ok {
			continue
		}
		var dot float64
		for i, v := range vec {
			dot += w[i] * v
		}
		scores[label] = dot
		if best == "" || dot > scores[best] {
			best = label
		}
	}
	if best == "" {
		return "", 0, eris.New("mlscore: no scoreable labels")
	}

	// Softmax the dot products for a confidence fraction.
	var sum float64
	for _, v := range scores {
		sum += math.Exp(v - scores[best])
	}
	return best, 1 / sum, nil
}

// Prediction is the classifier-path output: the statistical label, kept
// separate from the banded score and never merged with it.
type Prediction struct {
	Label      string
	Confidence float64
	Encoded    [NumFeatures]float64
	AllKnown   bool
	Impact     map[string]float64
}

// Predict encodes the input and runs the scorer, recovering locally from
// every failure: a scorer error or an untrained label yields the fallback
// label with zero confidence, never an error to the caller.
func Predict(enc *Encoder, scorer Scorer, in FeatureInput) Prediction {
	vec, allKnown := enc.Encode(in)
	p := Prediction{
		Encoded:  vec,
		AllKnown: allKnown,
		Impact:   enc.manifest.impact(vec),
	}

	label, confidence, err := scorer.Score(vec)
	if err != nil {
		zap.L().Warn("mlscore: scorer failed, using fallback label", zap.Error(err))
		p.Label, p.Confidence = FallbackLabel, 0
		return p
	}
	if !enc.manifest.KnownLabel(label) {
		zap.L().Warn("mlscore: scorer returned untrained label", zap.String("label", label))
		p.Label, p.Confidence = FallbackLabel, 0
		return p
	}
	p.Label, p.Confidence = label, confidence
	return p
}

// impact is the per-feature local contribution: encoded value times the
// global importance for that column.
func (m *Manifest) impact(vec [NumFeatures]float64) map[string]float64 {
	if len(m.Importance) != NumFeatures {
		return nil
	}
	out := make(map[string]float64, NumFeatures)
	for i, name := range FeatureNames {
		out[name] = vec[i] * m.Importance[i]
	}
	return out
}
