package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies the
// same interface, which is what the unit tests run against.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS brand_origins (
	brand_key  TEXT PRIMARY KEY,
	country    TEXT NOT NULL,
	city       TEXT NOT NULL DEFAULT 'Unknown',
	tier       TEXT NOT NULL DEFAULT 'learned',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS priority_products (
	identifier TEXT PRIMARY KEY,
	product    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_brand_origins_country ON brand_origins(country);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetBrandOrigin(ctx context.Context, brandKey string) (*model.BrandOriginRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT brand_key, country, city, tier FROM brand_origins WHERE brand_key = $1`,
		brandKey,
	)
	var rec model.BrandOriginRecord
	err := row.Scan(&rec.BrandKey, &rec.Country, &rec.City, &rec.Tier)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get brand origin %s", brandKey)
	}
	return &rec, nil
}

func (s *PostgresStore) UpsertBrandOrigin(ctx context.Context, rec model.BrandOriginRecord) error {
	if skipBrandUpsert(rec) {
		return nil
	}
	if rec.City == "" {
		rec.City = model.CountryUnknown
	}
	if rec.Tier == "" {
		rec.Tier = model.TierLearned
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO brand_origins (brand_key, country, city, tier, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (brand_key) DO UPDATE SET
		   country = excluded.country,
		   city = excluded.city,
		   tier = excluded.tier,
		   updated_at = now()
		 WHERE brand_origins.country <> excluded.country`,
		rec.BrandKey, rec.Country, rec.City, string(rec.Tier),
	)
	return eris.Wrapf(err, "postgres: upsert brand origin %s", rec.BrandKey)
}

func (s *PostgresStore) ListBrandOrigins(ctx context.Context) ([]model.BrandOriginRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT brand_key, country, city, tier FROM brand_origins ORDER BY brand_key`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list brand origins")
	}
	defer rows.Close()

	var out []model.BrandOriginRecord
	for rows.Next() {
		var rec model.BrandOriginRecord
		if err := rows.Scan(&rec.BrandKey, &rec.Country, &rec.City, &rec.Tier); err != nil {
			return nil, eris.Wrap(err, "postgres: scan brand origin")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate brand origins")
}

func (s *PostgresStore) DeleteBrandOrigin(ctx context.Context, brandKey string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM brand_origins WHERE brand_key = $1`, brandKey,
	)
	return eris.Wrapf(err, "postgres: delete brand origin %s", brandKey)
}

func (s *PostgresStore) GetPriorityProduct(ctx context.Context, identifier string) (*model.Product, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT product FROM priority_products WHERE identifier = $1`, identifier,
	)
	var raw []byte
	err := row.Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get priority product %s", identifier)
	}
	var p model.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal priority product")
	}
	return &p, nil
}

func (s *PostgresStore) PutPriorityProduct(ctx context.Context, p model.Product) error {
	if p.Identifier == "" {
		return eris.New("postgres: priority product missing identifier")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal priority product")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO priority_products (identifier, product, created_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (identifier) DO NOTHING`,
		p.Identifier, raw,
	)
	return eris.Wrapf(err, "postgres: put priority product %s", p.Identifier)
}

func (s *PostgresStore) ListPriorityProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT product FROM priority_products ORDER BY identifier`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list priority products")
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, eris.Wrap(err, "postgres: scan priority product")
		}
		var p model.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal priority product")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate priority products")
}
