package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/JamieAtGit/shipping-emissions-project/internal/brands"
	"github.com/JamieAtGit/shipping-emissions-project/internal/emissions"
	"github.com/JamieAtGit/shipping-emissions-project/internal/mlscore"
	"github.com/JamieAtGit/shipping-emissions-project/internal/pipeline"
	"github.com/JamieAtGit/shipping-emissions-project/internal/resolver"
	"github.com/JamieAtGit/shipping-emissions-project/internal/store"
)

// pipelineEnv holds the initialized store, resolver and pipeline shared by
// the estimate/batch/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Resolver *resolver.Resolver
	Pipeline *pipeline.Pipeline
	Encoder  *mlscore.Encoder
	Scorer   mlscore.Scorer
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline opens the store and data files and assembles the pipeline.
// Every data file is optional: missing inputs degrade to compiled-in
// defaults rather than failing startup. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st := store.Open(ctx, store.Config{
		Driver:      cfg.Store.Driver,
		DatabaseURL: cfg.Store.DatabaseURL,
	})

	rules, err := resolver.LoadRules(cfg.Data.RulesFile)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	curated, err := brands.LoadCurated(cfg.Data.CuratedCSV)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	var audit *brands.AuditLog
	if cfg.Data.AuditLog != "" {
		audit, err = brands.NewAuditLog(cfg.Data.AuditLog)
		if err != nil {
			zap.L().Warn("audit log unavailable, unresolved brands will not be recorded",
				zap.String("path", cfg.Data.AuditLog), zap.Error(err))
			audit = nil
		}
	}

	intensities, err := emissions.LoadIntensities(cfg.Data.IntensityCSV)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	manifest := mlscore.DefaultManifest()
	if cfg.Data.ModelManifest != "" {
		m, err := mlscore.LoadManifest(cfg.Data.ModelManifest)
		if err != nil {
			zap.L().Warn("model manifest unavailable, using compiled-in manifest",
				zap.String("path", cfg.Data.ModelManifest), zap.Error(err))
		} else {
			manifest = m
		}
	}
	encoder := mlscore.NewEncoder(manifest)
	var scorer mlscore.Scorer
	if s, err := mlscore.NewLinearScorer(manifest); err != nil {
		zap.L().Warn("classifier weights missing, predictions will use the fallback label",
			zap.Error(err))
	} else {
		scorer = s
	}

	var trainLog *pipeline.TrainingLog
	if cfg.Data.TrainingLog != "" {
		trainLog, err = pipeline.NewTrainingLog(cfg.Data.TrainingLog)
		if err != nil {
			zap.L().Warn("training log unavailable", zap.Error(err))
			trainLog = nil
		}
	}

	res := resolver.New(rules, curated, st, audit)
	return &pipelineEnv{
		Store:    st,
		Resolver: res,
		Pipeline: pipeline.New(st, res, intensities, encoder, scorer, trainLog),
		Encoder:  encoder,
		Scorer:   scorer,
	}, nil
}

// destination returns the configured destination point, or nil for the
// default domestic hub.
func destination() *pipeline.LatLon {
	if cfg.Pipeline.DestinationLat == 0 && cfg.Pipeline.DestinationLon == 0 {
		return nil
	}
	return &pipeline.LatLon{Lat: cfg.Pipeline.DestinationLat, Lon: cfg.Pipeline.DestinationLon}
}
