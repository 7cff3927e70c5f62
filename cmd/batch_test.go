package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/JamieAtGit/shipping-emissions-project/internal/pipeline"
	"github.com/JamieAtGit/shipping-emissions-project/internal/resolver"
	"github.com/JamieAtGit/shipping-emissions-project/internal/store"
)

func newBatchPipeline() *pipeline.Pipeline {
	st := store.NewMemory()
	res := resolver.New(resolver.DefaultRules(), nil, st, nil)
	return pipeline.New(st, res, nil, nil, nil, nil)
}

func TestReadBatchRequests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"title":"Sony headphones","brand":"Sony"}

{"title":"Anker charger","brand":"Anker","weight_kg":0.3}
`), 0o644))

	requests, err := readBatchRequests(path, 0)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "Sony headphones", requests[0].Title)
	assert.Equal(t, 0.3, requests[1].WeightKG)

	limited, err := readBatchRequests(path, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestReadBatchRequests_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"ok"}
{not json
`), 0o644))

	_, err := readBatchRequests(path, 0)
	assert.Error(t, err)
}

func TestProcessBatch_PreservesOrder(t *testing.T) {
	p := newBatchPipeline()
	requests := []pipeline.Request{
		{Title: "Sony alpha", Brand: "Sony"},
		{Title: "Anker beta", Brand: "Anker"},
		{Title: "Bosch gamma", Brand: "Bosch"},
	}

	products, err := processBatch(context.Background(), p, requests, 3, rate.Inf)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Sony alpha", products[0].Title)
	assert.Equal(t, "Japan", products[0].OriginCountry)
	assert.Equal(t, "China", products[1].OriginCountry)
	assert.Equal(t, "Germany", products[2].OriginCountry)
}

func TestProcessBatch_Empty(t *testing.T) {
	products, err := processBatch(context.Background(), newBatchPipeline(), nil, 2, rate.Inf)
	require.NoError(t, err)
	assert.Empty(t, products)
}
