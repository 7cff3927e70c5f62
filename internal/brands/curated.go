package brands

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
)

// CuratedTable is the read-only middle tier, loaded once at startup from an
// externally maintained CSV with columns brand, hq_country, hq_city.
type CuratedTable struct {
	records map[string]model.BrandOriginRecord
}

// LoadCurated reads the curated CSV. A missing file is not an error: the
// resolver degrades to the remaining tiers, matching the original behavior
// when brand_origins.csv is absent.
func LoadCurated(path string) (*CuratedTable, error) {
	t := &CuratedTable{records: make(map[string]model.BrandOriginRecord)}
	if path == "" {
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("brands: curated table not found, using heuristic tiers only",
				zap.String("path", path))
			return t, nil
		}
		return nil, eris.Wrapf(err, "brands: open curated table %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "brands: read curated header")
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, required := range []string{"brand", "hq_country", "hq_city"} {
		if _, ok := col[required]; !ok {
			return nil, eris.Errorf("brands: curated table missing column %q", required)
		}
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "brands: read curated row")
		}
		key := strings.ToLower(strings.TrimSpace(row[col["brand"]]))
		if key == "" {
			continue
		}
		t.records[key] = model.BrandOriginRecord{
			BrandKey: key,
			Country:  strings.TrimSpace(row[col["hq_country"]]),
			City:     strings.TrimSpace(row[col["hq_city"]]),
			Tier:     model.TierCurated,
		}
	}

	zap.L().Info("brands: curated table loaded",
		zap.String("path", path),
		zap.Int("brands", len(t.records)))
	return t, nil
}

// Lookup returns the curated record for a brand key.
func (t *CuratedTable) Lookup(brandKey string) (model.BrandOriginRecord, bool) {
	rec, ok := t.records[brandKey]
	return rec, ok
}

// Len returns the number of curated brands.
func (t *CuratedTable) Len() int { return len(t.records) }

// Brands returns all curated brand keys.
func (t *CuratedTable) Brands() []string {
	out := make([]string, 0, len(t.records))
	for k := range t.records {
		out = append(out, k)
	}
	return out
}
