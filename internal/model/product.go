package model

// Evidence is the raw, per-request input handed to the resolver by the
// scraping layer. It is transient and never persisted.
type Evidence struct {
	Identifier string   `json:"identifier,omitempty"` // stable product id (ASIN)
	BrandKey   string   `json:"brand_key"`
	Title      string   `json:"title"`
	TextBlobs  []string `json:"text_blobs,omitempty"`  // spec bullets, detail rows, description
	PanelTexts []string `json:"panel_texts,omitempty"` // "Ships from / Sold by" UI fragments
	OriginHint string   `json:"origin_hint,omitempty"` // declared origin, if the page stated one
	URL        string   `json:"url,omitempty"`
}

// Confidence classifies how complete a product record is.
type Confidence string

const (
	ConfidenceHigh      Confidence = "High"
	ConfidenceEstimated Confidence = "Estimated"
)

// Product is the final record produced by the pipeline for one piece of
// evidence. It carries both the banded eco-score and the model label as
// separate, never-reconciled outputs.
type Product struct {
	Identifier      string     `json:"identifier,omitempty"`
	Title           string     `json:"title"`
	Brand           string     `json:"brand"`
	OriginCountry   string     `json:"origin_country"`
	OriginCity      string     `json:"origin_city"`
	OriginSource    string     `json:"origin_source"`
	DistanceKM      float64    `json:"distance_km"`     // origin hub -> destination
	HubDistanceKM   float64    `json:"hub_distance_km"` // domestic hub -> destination
	RawWeightKG     float64    `json:"raw_weight_kg"`
	WeightKG        float64    `json:"weight_kg"` // after packaging uplift
	DimensionsCM    string     `json:"dimensions_cm,omitempty"`
	Material        string     `json:"material,omitempty"`
	Recyclability   string     `json:"recyclability,omitempty"`
	TransportMode   string     `json:"transport_mode"`
	CarbonKG        float64    `json:"carbon_kg"`
	MaterialCO2KG   float64    `json:"material_co2_kg,omitempty"`
	EcoScore        string     `json:"eco_score"`
	EcoScoreML      string     `json:"eco_score_ml"`
	MLConfidence    float64    `json:"ml_confidence"`
	TreesToOffset   float64    `json:"trees_to_offset"`
	Confidence      Confidence `json:"confidence"`
}
