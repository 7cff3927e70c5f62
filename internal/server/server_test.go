package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamieAtGit/shipping-emissions-project/internal/mlscore"
	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
	"github.com/JamieAtGit/shipping-emissions-project/internal/pipeline"
	"github.com/JamieAtGit/shipping-emissions-project/internal/resolver"
	"github.com/JamieAtGit/shipping-emissions-project/internal/store"
)

type stubScorer struct{}

func (stubScorer) Score([mlscore.NumFeatures]float64) (string, float64, error) {
	return "B", 0.8, nil
}

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemory()
	res := resolver.New(resolver.DefaultRules(), nil, st, nil)
	enc := mlscore.NewEncoder(mlscore.DefaultManifest())
	p := pipeline.New(st, res, nil, enc, stubScorer{}, nil)
	return New(p, st, enc, stubScorer{}), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Router(nil), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEstimate(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Router(nil), http.MethodPost, "/estimate", pipeline.Request{
		Title:     "Sony headphones",
		Brand:     "Sony",
		WeightKG:  0.5,
		TextBlobs: []string{"dimensions 20 x 18 x 8 cm"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var product model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "Japan", product.OriginCountry)
	assert.Equal(t, model.SourceTrusted, product.OriginSource)
	assert.Greater(t, product.CarbonKG, 0.0)
	assert.Equal(t, "B", product.EcoScoreML)
}

func TestEstimate_BadRequest(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router(nil)

	rec := doJSON(t, router, http.MethodPost, "/estimate", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/estimate", bytes.NewBufferString("{not json"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredict(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Router(nil), http.MethodPost, "/predict", map[string]any{
		"material":      "Plastic",
		"weight_kg":     1.2,
		"transport":     "Ship",
		"recyclability": "High",
		"origin":        "China",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Label      string    `json:"predicted_label"`
		Confidence float64   `json:"confidence"`
		Encoded    []float64 `json:"encoded_input"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "B", resp.Label)
	assert.Equal(t, 0.8, resp.Confidence)
	assert.Len(t, resp.Encoded, mlscore.NumFeatures)
}

func TestBrands(t *testing.T) {
	s, st := newTestServer(t)
	require.NoError(t, st.UpsertBrandOrigin(context.Background(), model.BrandOriginRecord{
		BrandKey: "huel", Country: "UK", City: "London", Tier: model.TierLearned,
	}))

	rec := doJSON(t, s.Router(nil), http.MethodGet, "/brands", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []model.BrandOriginRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "huel", records[0].BrandKey)
}
