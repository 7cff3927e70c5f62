package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
)

var exportRecords = []model.BrandOriginRecord{
	{BrandKey: "huel", Country: "UK", City: "London", Tier: model.TierCurated},
	{BrandKey: "anker", Country: "China", City: "Shanghai", Tier: model.TierLearned},
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brands.csv")
	require.NoError(t, exportCSV(path, exportRecords))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"brand", "hq_country", "hq_city", "tier"}, rows[0])
	assert.Equal(t, []string{"huel", "UK", "London", "curated"}, rows[1])
	assert.Equal(t, []string{"anker", "China", "Shanghai", "learned"}, rows[2])
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brands.xlsx")
	priority := []model.Product{
		{Identifier: "B0TEST12345", Title: "Sony speaker", OriginCountry: "Japan", CarbonKG: 1.25, EcoScore: "B"},
	}
	require.NoError(t, exportXLSX(path, exportRecords, priority))

	wb, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 2)

	origins := wb.Sheets[0]
	assert.Equal(t, "Brand Origins", origins.Name)
	require.Len(t, origins.Rows, 3)
	assert.Equal(t, "huel", origins.Rows[1].Cells[0].String())
	assert.Equal(t, "UK", origins.Rows[1].Cells[1].String())

	products := wb.Sheets[1]
	assert.Equal(t, "Priority Products", products.Name)
	require.Len(t, products.Rows, 2)
	assert.Equal(t, "B0TEST12345", products.Rows[1].Cells[0].String())
	assert.Equal(t, "1.25", products.Rows[1].Cells[3].String())
}

func TestExportXLSX_NoPrioritySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brands.xlsx")
	require.NoError(t, exportXLSX(path, exportRecords, nil))

	wb, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	assert.Len(t, wb.Sheets, 1)
}
