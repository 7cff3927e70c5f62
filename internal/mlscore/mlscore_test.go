package mlscore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFeature(t *testing.T) {
	tests := []struct {
		raw, def, want string
	}{
		{"plastic", "Other", "Plastic"},
		{"  GLASS  ", "Other", "Glass"},
		{"", "Other", "Other"},
		{"unknown", "Medium", "Medium"},
		{"uk", "Other", "UK"},
		{"usa", "Other", "USA"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeFeature(tt.raw, tt.def))
		})
	}
}

func TestBinWeight(t *testing.T) {
	tests := []struct {
		weight float64
		want   int
	}{
		{0, 0}, {0.49, 0}, {0.5, 1}, {1.9, 1}, {2, 2}, {9.99, 2}, {10, 3}, {50, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BinWeight(tt.weight), "weight %v", tt.weight)
	}
}

func TestEncode_KnownCategories(t *testing.T) {
	enc := NewEncoder(DefaultManifest())

	vec, allKnown := enc.Encode(FeatureInput{
		Material:      "Plastic",
		WeightKG:      1.2,
		Transport:     "Ship",
		Recyclability: "High",
		Origin:        "China",
	})
	assert.True(t, allKnown)
	assert.Equal(t, 1.2, vec[FeatWeight])
	assert.Equal(t, float64(1), vec[FeatWeightBin])
	// Alphabetical index within each category set.
	assert.Equal(t, float64(6), vec[FeatMaterial])      // Plastic
	assert.Equal(t, float64(2), vec[FeatTransport])     // Ship
	assert.Equal(t, float64(0), vec[FeatRecyclability]) // High
	assert.Equal(t, float64(1), vec[FeatOrigin])        // China
}

func TestEncode_UnseenCategoryDefaults(t *testing.T) {
	enc := NewEncoder(DefaultManifest())

	vec, allKnown := enc.Encode(FeatureInput{
		Material:      "Vibranium",
		WeightKG:      0.3,
		Transport:     "Land",
		Recyclability: "Medium",
		Origin:        "Narnia",
	})
	assert.False(t, allKnown)
	// Vibranium encodes as Other, Narnia as Other.
	assert.Equal(t, float64(4), vec[FeatMaterial])
	assert.Equal(t, float64(8), vec[FeatOrigin])
}

func TestEncode_UnknownCollapsesToDefault(t *testing.T) {
	enc := NewEncoder(DefaultManifest())

	vec, allKnown := enc.Encode(FeatureInput{
		Material:      "unknown",
		Transport:     "",
		Recyclability: "Unknown",
		Origin:        "",
	})
	// Defaults are trained categories, so the vector still counts as known.
	assert.True(t, allKnown)
	assert.Equal(t, float64(4), vec[FeatMaterial])      // Other
	assert.Equal(t, float64(1), vec[FeatTransport])     // Land
	assert.Equal(t, float64(2), vec[FeatRecyclability]) // Medium
}

type failingScorer struct{}

func (failingScorer) Score([NumFeatures]float64) (string, float64, error) {
	return "", 0, eris.New("model unavailable")
}

type fixedScorer struct {
	label      string
	confidence float64
}

func (s fixedScorer) Score([NumFeatures]float64) (string, float64, error) {
	return s.label, s.confidence, nil
}

func TestPredict_ScorerFailureFallsBack(t *testing.T) {
	enc := NewEncoder(DefaultManifest())

	p := Predict(enc, failingScorer{}, FeatureInput{Material: "Plastic", WeightKG: 1})
	assert.Equal(t, FallbackLabel, p.Label)
	assert.Zero(t, p.Confidence)
	// Encoding and impact still come back usable.
	assert.Equal(t, 1.0, p.Encoded[FeatWeight])
	assert.NotEmpty(t, p.Impact)
}

func TestPredict_UntrainedLabelFallsBack(t *testing.T) {
	enc := NewEncoder(DefaultManifest())

	p := Predict(enc, fixedScorer{label: "Z", confidence: 0.9}, FeatureInput{})
	assert.Equal(t, FallbackLabel, p.Label)
	assert.Zero(t, p.Confidence)
}

func TestPredict_Impact(t *testing.T) {
	enc := NewEncoder(DefaultManifest())

	p := Predict(enc, fixedScorer{label: "B", confidence: 0.72}, FeatureInput{
		Material: "Plastic", WeightKG: 2, Transport: "Air", Recyclability: "Low", Origin: "UK",
	})
	assert.Equal(t, "B", p.Label)
	assert.Equal(t, 0.72, p.Confidence)
	// impact = encoded value x global importance.
	assert.InDelta(t, 6*0.3, p.Impact["material"], 1e-9)
	assert.InDelta(t, 2*0.2, p.Impact["weight"], 1e-9)
}

func TestLinearScorer(t *testing.T) {
	m := DefaultManifest()
	m.Labels = []string{"A", "F"}
	m.Weights = map[string][]float64{
		"A": {0, -1, 0, 0, 0, 0},
		"F": {0, 1, 0, 0, 0, 0},
	}
	s, err := NewLinearScorer(m)
	require.NoError(t, err)

	// Heavy input scores F, light input scores A.
	label, conf, err := s.Score([NumFeatures]float64{0, 5, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "F", label)
	assert.Greater(t, conf, 0.5)
	assert.LessOrEqual(t, conf, 1.0)

	label, _, err = s.Score([NumFeatures]float64{0, -5, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "A", label)
}

func TestNewLinearScorer_NoWeights(t *testing.T) {
	_, err := NewLinearScorer(DefaultManifest())
	assert.Error(t, err)
}

func TestLoadManifest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"labels": ["A", "B", "C"],
			"categories": {
				"material": ["Other", "Plastic"],
				"transport": ["Air", "Land", "Ship"],
				"recyclability": ["High", "Low", "Medium"],
				"origin": ["China", "Other", "UK"]
			},
			"feature_importance": [0.3, 0.2, 0.2, 0.15, 0.1, 0.05]
		}`), 0o644))

		m, err := LoadManifest(path)
		require.NoError(t, err)
		assert.True(t, m.KnownLabel("B"))
		assert.False(t, m.KnownLabel("Z"))
	})

	t.Run("missing categories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"labels": ["A"]}`), 0o644))
		_, err := LoadManifest(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}
