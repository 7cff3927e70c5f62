// Package pipeline orchestrates one product estimate end to end: priority
// cache, origin resolution, distances, transport, both carbon models, both
// eco-scores and the learning side-effects.
package pipeline

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/JamieAtGit/shipping-emissions-project/internal/emissions"
	"github.com/JamieAtGit/shipping-emissions-project/internal/extract"
	"github.com/JamieAtGit/shipping-emissions-project/internal/geo"
	"github.com/JamieAtGit/shipping-emissions-project/internal/mlscore"
	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
	"github.com/JamieAtGit/shipping-emissions-project/internal/resolver"
	"github.com/JamieAtGit/shipping-emissions-project/internal/store"
)

// LatLon is a geocoded destination point.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Request is everything the caller knows about one product. Empty fields
// are filled from the text evidence where possible.
type Request struct {
	URL        string   `json:"url,omitempty"`
	Identifier string   `json:"identifier,omitempty"`
	Title      string   `json:"title"`
	Brand      string   `json:"brand,omitempty"`
	TextBlobs  []string `json:"text_blobs,omitempty"`
	PanelTexts []string `json:"panel_texts,omitempty"`
	OriginHint string   `json:"origin_hint,omitempty"`

	WeightKG      float64 `json:"weight_kg,omitempty"`
	DimensionsCM  string  `json:"dimensions_cm,omitempty"`
	Material      string  `json:"material,omitempty"`
	Recyclability string  `json:"recyclability,omitempty"`

	TransportOverride string  `json:"transport_override,omitempty"`
	IncludePackaging  bool    `json:"include_packaging,omitempty"`
	Destination       *LatLon `json:"destination,omitempty"`
}

// Pipeline wires the resolver, the stores and the scorers together. One
// instance serves many requests.
type Pipeline struct {
	store       store.Store
	resolver    *resolver.Resolver
	intensities *emissions.IntensityTable
	encoder     *mlscore.Encoder
	scorer      mlscore.Scorer
	trainLog    *TrainingLog
}

// New builds a pipeline. scorer and trainLog may be nil: the ML label then
// falls back and the training log is skipped.
func New(st store.Store, res *resolver.Resolver, intensities *emissions.IntensityTable,
	encoder *mlscore.Encoder, scorer mlscore.Scorer, trainLog *TrainingLog) *Pipeline {
	if intensities == nil {
		intensities = emissions.DefaultIntensities()
	}
	return &Pipeline{
		store:       st,
		resolver:    res,
		intensities: intensities,
		encoder:     encoder,
		scorer:      scorer,
		trainLog:    trainLog,
	}
}

// Estimate produces the full product record for one request. It never
// fails: every degraded input has a documented default, and side-effect
// errors (cache admission, training log) only cost the side-effect.
func (p *Pipeline) Estimate(ctx context.Context, req Request) model.Product {
	identifier := req.Identifier
	if identifier == "" {
		identifier = extract.Identifier(req.URL)
	}
	log := zap.L().With(zap.String("identifier", identifier), zap.String("title", req.Title))

	// Priority cache first: a High-confidence record from a previous call
	// always wins over anything this call could compute.
	if identifier != "" && p.store != nil {
		cached, err := p.store.GetPriorityProduct(ctx, identifier)
		if err != nil {
			log.Warn("pipeline: priority cache lookup failed", zap.Error(err))
		} else if cached != nil {
			log.Debug("pipeline: priority cache hit")
			return *cached
		}
	}

	joined := strings.Join(req.TextBlobs, " ")
	panelText := strings.Join(req.PanelTexts, " ")

	origin := p.resolver.Resolve(ctx, model.Evidence{
		Identifier: identifier,
		BrandKey:   p.resolver.Rules().PickBrandKey(req.Brand, req.Title),
		Title:      req.Title,
		TextBlobs:  req.TextBlobs,
		PanelTexts: req.PanelTexts,
		OriginHint: req.OriginHint,
		URL:        req.URL,
	})

	rawWeight := req.WeightKG
	if rawWeight <= 0 {
		rawWeight = extract.WeightKG(joined)
	}
	weight := emissions.NormalizeWeight(rawWeight)
	if req.IncludePackaging {
		weight = round2(weight * emissions.PackagingUplift)
	}

	dims := req.DimensionsCM
	if dims == "" {
		dims = extract.Dimensions(joined)
	}
	material := extract.CanonicalMaterial(req.Material)
	if material == "" {
		material = extract.Material(joined)
	}
	recyclability := req.Recyclability
	if recyclability == "" {
		recyclability = extract.Recyclability(req.TextBlobs)
	}

	originHub := geo.OriginHub(origin.Country)
	fulfillmentHub := geo.FulfillmentHub(extract.FulfillmentCountry(req.URL, panelText))
	var distance, hubDistance float64
	if req.Destination != nil {
		distance = geo.DistanceToPointKM(originHub, req.Destination.Lat, req.Destination.Lon)
		hubDistance = geo.DistanceToPointKM(fulfillmentHub, req.Destination.Lat, req.Destination.Lon)
	} else {
		distance = geo.DistanceKM(originHub, geo.UKHub)
		hubDistance = geo.DistanceKM(fulfillmentHub, geo.UKHub)
	}

	mode, factor := emissions.SelectMode(distance, req.TransportOverride)
	carbon := emissions.DistanceCarbonKG(weight, factor, distance)
	var materialCO2 float64
	if material != "" {
		materialCO2 = emissions.MaterialCarbonKG(weight, p.intensities.Intensity(material))
	}
	ecoScore := emissions.SanitizeScore(emissions.BandScore(carbon, weight, distance, recyclability))

	product := model.Product{
		Identifier:    identifier,
		Title:         req.Title,
		Brand:         req.Brand,
		OriginCountry: origin.Country,
		OriginCity:    origin.City,
		OriginSource:  origin.Source,
		DistanceKM:    distance,
		HubDistanceKM: hubDistance,
		RawWeightKG:   rawWeight,
		WeightKG:      weight,
		DimensionsCM:  dims,
		Material:      material,
		Recyclability: recyclability,
		TransportMode: mode,
		CarbonKG:      carbon,
		MaterialCO2KG: materialCO2,
		EcoScore:      ecoScore,
		TreesToOffset: emissions.TreesToOffset(carbon),
	}

	allKnown := p.scoreML(&product)
	product.Confidence = Classify(product)

	if product.Confidence == model.ConfidenceHigh && p.store != nil {
		if err := p.store.PutPriorityProduct(ctx, product); err != nil {
			log.Warn("pipeline: priority cache admission failed", zap.Error(err))
		}
	}
	if allKnown && p.trainLog != nil {
		if err := p.trainLog.Append(product); err != nil {
			log.Warn("pipeline: training log append failed", zap.Error(err))
		}
	}

	log.Info("pipeline: estimate complete",
		zap.String("origin", product.OriginCountry),
		zap.String("source", product.OriginSource),
		zap.String("transport", product.TransportMode),
		zap.Float64("carbon_kg", product.CarbonKG),
		zap.String("eco_score", product.EcoScore),
		zap.String("confidence", string(product.Confidence)))
	return product
}

// scoreML runs the statistical classifier path and reports whether every
// encoded category was inside the trained sets.
func (p *Pipeline) scoreML(product *model.Product) bool {
	if p.encoder == nil || p.scorer == nil {
		product.EcoScoreML = mlscore.FallbackLabel
		return false
	}
	transport := product.TransportMode
	if transport == emissions.ModeTruck {
		transport = "Land" // the model was trained on Land, not Truck
	}
	pred := mlscore.Predict(p.encoder, p.scorer, mlscore.FeatureInput{
		Material:      product.Material,
		WeightKG:      product.WeightKG,
		Transport:     transport,
		Recyclability: product.Recyclability,
		Origin:        product.OriginCountry,
	})
	product.EcoScoreML = pred.Label
	product.MLConfidence = math.Round(pred.Confidence*1000) / 10
	return pred.AllKnown
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
