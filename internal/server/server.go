// Package server exposes the estimation pipeline over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/JamieAtGit/shipping-emissions-project/internal/mlscore"
	"github.com/JamieAtGit/shipping-emissions-project/internal/pipeline"
	"github.com/JamieAtGit/shipping-emissions-project/internal/store"
)

// Server holds the handler dependencies.
type Server struct {
	pipeline *pipeline.Pipeline
	store    store.Store
	encoder  *mlscore.Encoder
	scorer   mlscore.Scorer
}

// New builds a Server. encoder and scorer may be nil; /predict then answers
// with the fallback label.
func New(p *pipeline.Pipeline, st store.Store, encoder *mlscore.Encoder, scorer mlscore.Scorer) *Server {
	return &Server{pipeline: p, store: st, encoder: encoder, scorer: scorer}
}

// Router assembles the chi route tree.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Post("/estimate", s.handleEstimate)
	r.Post("/predict", s.handlePredict)
	r.Get("/brands", s.handleBrands)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" && req.URL == "" {
		writeError(w, http.StatusBadRequest, "title or url is required")
		return
	}
	product := s.pipeline.Estimate(r.Context(), req)
	writeJSON(w, http.StatusOK, product)
}

// predictRequest is the raw feature payload for the classifier-only path.
type predictRequest struct {
	Material      string  `json:"material"`
	WeightKG      float64 `json:"weight_kg"`
	Transport     string  `json:"transport"`
	Recyclability string  `json:"recyclability"`
	Origin        string  `json:"origin"`
}

type predictResponse struct {
	Label         string             `json:"predicted_label"`
	Confidence    float64            `json:"confidence"`
	Encoded       []float64          `json:"encoded_input"`
	FeatureImpact map[string]float64 `json:"feature_impact,omitempty"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if s.encoder == nil || s.scorer == nil {
		writeJSON(w, http.StatusOK, predictResponse{Label: mlscore.FallbackLabel})
		return
	}
	pred := mlscore.Predict(s.encoder, s.scorer, mlscore.FeatureInput{
		Material:      req.Material,
		WeightKG:      req.WeightKG,
		Transport:     req.Transport,
		Recyclability: req.Recyclability,
		Origin:        req.Origin,
	})
	writeJSON(w, http.StatusOK, predictResponse{
		Label:         pred.Label,
		Confidence:    pred.Confidence,
		Encoded:       pred.Encoded[:],
		FeatureImpact: pred.Impact,
	})
}

func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListBrandOrigins(r.Context())
	if err != nil {
		zap.L().Error("server: list brand origins failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
