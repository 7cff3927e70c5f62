package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightKG(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"plain kg", "Item weight: 1.2 kg", 1.2},
		{"kilograms word", "weighs 2 kilograms", 2},
		{"kg before grams", "1.5 kg (1500 g)", 1.5},
		{"grams converted", "Net weight 750 g", 0.75},
		{"grams rounded", "weight 333 g", 0.333},
		{"no unit", "a very heavy product", 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WeightKG(tt.text), 1e-9)
		})
	}
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"lower x", "Package dimensions 10 x 20 x 5 cm", "10 x 20 x 5 cm"},
		{"multiply sign", "30×15×2.5 cm box", "30 x 15 x 2.5 cm"},
		{"star separator", "12*8*4 cm", "12 x 8 x 4 cm"},
		{"no unit", "10 x 20 x 5 inches", ""},
		{"missing axis", "10 x 20 cm", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dimensions(tt.text))
		})
	}
}

func TestMaterial(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labelled", "Material: plastic", "Plastic"},
		{"made of", "durable bottle made of glass", "Glass"},
		{"composition", "Composition: recycled aluminum", "Aluminium"},
		{"unrecognized kept", "Material: bamboo", "Bamboo"},
		{"absent", "a nice product", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Material(tt.text))
		})
	}
}

func TestCanonicalMaterial(t *testing.T) {
	tests := []struct{ raw, want string }{
		{"aluminum", "Aluminium"},
		{"Aluminium alloy", "Aluminium"},
		{"stainless steel", "Steel"},
		{"corrugated board", "Cardboard"},
		{"paper", "Paper"},
		{"hard plastics", "Plastic"},
		{"bamboo", "Bamboo"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalMaterial(tt.raw))
		})
	}
}

func TestRecyclability(t *testing.T) {
	tests := []struct {
		name  string
		blobs []string
		want  string
	}{
		{"high claim", []string{"ships in 100% recyclable packaging"}, "High"},
		{"medium claim", []string{"case made from recycled materials"}, "Medium"},
		{"low claim", []string{"arrives in plastic packaging"}, "Low"},
		{"high outranks low", []string{"plastic packaging", "fully recyclable"}, "High"},
		{"no claim", []string{"just a product"}, "Unknown"},
		{"empty", nil, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recyclability(tt.blobs))
		})
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"dp path", "https://www.amazon.co.uk/dp/B0C2L7T4DN?th=1", "B0C2L7T4DN"},
		{"gp product path", "https://www.amazon.de/gp/product/B07XYZ1234", "B07XYZ1234"},
		{"product path", "https://shop.example.com/product/A1B2C3D4E5", "A1B2C3D4E5"},
		{"bare token", "https://www.amazon.com/Anker-Charger/B08L5TNJHG/ref=sr_1_3", "B08L5TNJHG"},
		{"none", "https://www.amazon.co.uk/s?k=charger", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Identifier(tt.url))
		})
	}
}

func TestFulfillmentCountry(t *testing.T) {
	tests := []struct {
		name, url, soldBy, want string
	}{
		{"uk domain", "https://www.amazon.co.uk/dp/B0C2L7T4DN", "", "UK"},
		{"de domain", "https://www.amazon.de/dp/B0C2L7T4DN", "", "Germany"},
		{"fr domain", "https://www.amazon.fr/dp/B0C2L7T4DN", "", "France"},
		{"it domain", "https://www.amazon.it/dp/B0C2L7T4DN", "", "Italy"},
		{"com domain", "https://www.amazon.com/dp/B0C2L7T4DN", "", "USA"},
		{"sold-by text uk", "https://example.com", "Dispatched from and sold by Amazon", "UK"},
		{"sold-by text de", "https://example.com", "Versand durch Amazon", "Germany"},
		{"default", "https://example.com/p/123", "", "UK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FulfillmentCountry(tt.url, tt.soldBy))
		})
	}
}
