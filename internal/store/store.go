// Package store persists the learned brand-origin cache and the priority
// product cache. All write paths are transactional so a crash mid-write can
// never corrupt the persisted state.
package store

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
)

// Store is the persistence interface for the resolution pipeline. Lookups
// return (nil, nil) when no record exists.
type Store interface {
	// Learned brand origins
	GetBrandOrigin(ctx context.Context, brandKey string) (*model.BrandOriginRecord, error)
	UpsertBrandOrigin(ctx context.Context, rec model.BrandOriginRecord) error
	ListBrandOrigins(ctx context.Context) ([]model.BrandOriginRecord, error)
	DeleteBrandOrigin(ctx context.Context, brandKey string) error

	// Priority products: high-confidence records keyed by identifier,
	// consulted before any resolution.
	GetPriorityProduct(ctx context.Context, identifier string) (*model.Product, error)
	PutPriorityProduct(ctx context.Context, p model.Product) error
	ListPriorityProducts(ctx context.Context) ([]model.Product, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// Open creates the configured store. If the persistent backend cannot be
// opened or migrated, it degrades to an empty in-memory store instead of
// failing the pipeline: the trusted and curated tiers still function and
// only learning durability is lost.
func Open(ctx context.Context, cfg Config) Store {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		s, err = NewSQLite(cfg.DatabaseURL)
	}
	if err == nil {
		if err = s.Migrate(ctx); err != nil {
			_ = s.Close()
		}
	}
	if err != nil {
		zap.L().Warn("store: persistent backend unavailable, degrading to in-memory cache",
			zap.String("driver", cfg.Driver),
			zap.Error(err))
		return NewMemory()
	}
	return s
}

// skipBrandUpsert rejects writes that would persist a non-answer. A brand
// that already resolved to a real country must never be reverted to unknown.
func skipBrandUpsert(rec model.BrandOriginRecord) bool {
	return rec.BrandKey == "" ||
		rec.Country == "" ||
		strings.EqualFold(rec.Country, model.CountryUnknown)
}
