package emissions

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultIntensity is the kg-CO2-per-kg used for materials not present in
// the intensity table.
const DefaultIntensity = 2.0

// defaultIntensities is the compiled-in fallback table, keyed lowercase.
var defaultIntensities = map[string]float64{
	"plastic":   3.5,
	"glass":     1.2,
	"aluminium": 9.0,
	"steel":     2.0,
	"paper":     1.1,
	"cardboard": 0.8,
}

// IntensityTable maps a material to its production carbon intensity.
type IntensityTable struct {
	byMaterial map[string]float64
}

// DefaultIntensities returns the compiled-in material table.
func DefaultIntensities() *IntensityTable {
	m := make(map[string]float64, len(defaultIntensities))
	for k, v := range defaultIntensities {
		m[k] = v
	}
	return &IntensityTable{byMaterial: m}
}

// LoadIntensities reads a "material,co2_per_kg" CSV. A missing file is not
// an error: the compiled-in table is returned so the estimator keeps
// working with defaults.
func LoadIntensities(path string) (*IntensityTable, error) {
	if path == "" {
		return DefaultIntensities(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("emissions: material intensity file missing, using defaults",
				zap.String("path", path))
			return DefaultIntensities(), nil
		}
		return nil, eris.Wrapf(err, "emissions: open intensity table %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "emissions: parse intensity table %s", path)
	}

	t := &IntensityTable{byMaterial: make(map[string]float64, len(rows))}
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		material := strings.ToLower(strings.TrimSpace(row[0]))
		if i == 0 && material == "material" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "emissions: intensity table row %d", i+1)
		}
		t.byMaterial[material] = v
	}
	return t, nil
}

// Intensity returns the material's kg-CO2-per-kg, or DefaultIntensity for
// unknown materials. Lookup is case-insensitive.
func (t *IntensityTable) Intensity(material string) float64 {
	if v, ok := t.byMaterial[strings.ToLower(strings.TrimSpace(material))]; ok {
		return v
	}
	return DefaultIntensity
}

// Len reports the number of materials in the table.
func (t *IntensityTable) Len() int { return len(t.byMaterial) }
