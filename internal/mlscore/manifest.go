// Package mlscore consumes a trained eco-score classifier: it encodes
// product features into the model's fixed vector layout, scores them
// through an opaque Scorer, and reports per-feature impact. The model
// itself is trained elsewhere; this package only reads its manifest.
package mlscore

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// Feature vector layout, in model column order.
const (
	FeatMaterial = iota
	FeatWeight
	FeatTransport
	FeatRecyclability
	FeatOrigin
	FeatWeightBin
	NumFeatures
)

// FeatureNames are the column names in vector order.
var FeatureNames = [NumFeatures]string{
	"material", "weight", "transport", "recyclability", "origin", "weight_bin",
}

// Manifest describes a trained model: its label classes, the category sets
// each encoder was fitted on, the global feature importances, and the
// per-label weights of the exported linear surrogate.
type Manifest struct {
	Labels     []string             `json:"labels"`
	Categories map[string][]string  `json:"categories"`
	Importance []float64            `json:"feature_importance"`
	Weights    map[string][]float64 `json:"weights"`
}

// LoadManifest reads a model manifest JSON and validates its shape against
// the fixed feature layout.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "mlscore: read manifest %s", path)
	}
	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, eris.Wrapf(err, "mlscore: parse manifest %s", path)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) validate() error {
	if len(m.Labels) == 0 {
		return eris.New("mlscore: manifest has no labels")
	}
	for _, feat := range []string{"material", "transport", "recyclability", "origin"} {
		if len(m.Categories[feat]) == 0 {
			return eris.Errorf("mlscore: manifest missing %s categories", feat)
		}
	}
	if len(m.Importance) != 0 && len(m.Importance) != NumFeatures {
		return eris.Errorf("mlscore: expected %d feature importances, got %d",
			NumFeatures, len(m.Importance))
	}
	for label, w := range m.Weights {
		if len(w) != NumFeatures {
			return eris.Errorf("mlscore: label %s has %d weights, want %d",
				label, len(w), NumFeatures)
		}
	}
	return nil
}

// KnownLabel reports whether the classifier was trained on the label.
func (m *Manifest) KnownLabel(label string) bool {
	for _, l := range m.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// DefaultManifest returns a manifest matching the shipped model: the seven
// letter grades, the training categories, and a flat importance vector.
func DefaultManifest() *Manifest {
	return &Manifest{
		Labels: []string{"A+", "A", "B", "C", "D", "E", "F"},
		Categories: map[string][]string{
			"material": {
				"Aluminium", "Bamboo", "Cardboard", "Glass", "Other",
				"Paper", "Plastic", "Steel",
			},
			"transport":     {"Air", "Land", "Ship"},
			"recyclability": {"High", "Low", "Medium"},
			"origin": {
				"Brazil", "China", "France", "Germany", "India", "Italy",
				"Japan", "Norway", "Other", "Russia", "Singapore", "UK", "USA",
			},
		},
		Importance: []float64{0.3, 0.2, 0.2, 0.15, 0.1, 0.05},
	}
}
