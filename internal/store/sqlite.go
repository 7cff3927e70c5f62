package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode so concurrent readers never observe a partial write.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "ecotrace.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS brand_origins (
	brand_key  TEXT PRIMARY KEY,
	country    TEXT NOT NULL,
	city       TEXT NOT NULL DEFAULT 'Unknown',
	tier       TEXT NOT NULL DEFAULT 'learned',
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS priority_products (
	identifier TEXT PRIMARY KEY,
	product    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_brand_origins_country ON brand_origins(country);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetBrandOrigin(ctx context.Context, brandKey string) (*model.BrandOriginRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT brand_key, country, city, tier FROM brand_origins WHERE brand_key = ?`,
		brandKey,
	)
	var rec model.BrandOriginRecord
	err := row.Scan(&rec.BrandKey, &rec.Country, &rec.City, &rec.Tier)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get brand origin %s", brandKey)
	}
	return &rec, nil
}

// UpsertBrandOrigin writes a learned mapping. The write is a no-op when the
// stored country already matches, which keeps repeated resolutions of the
// same brand from churning the cache.
func (s *SQLiteStore) UpsertBrandOrigin(ctx context.Context, rec model.BrandOriginRecord) error {
	if skipBrandUpsert(rec) {
		return nil
	}
	if rec.City == "" {
		rec.City = model.CountryUnknown
	}
	if rec.Tier == "" {
		rec.Tier = model.TierLearned
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO brand_origins (brand_key, country, city, tier, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(brand_key) DO UPDATE SET
		   country = excluded.country,
		   city = excluded.city,
		   tier = excluded.tier,
		   updated_at = excluded.updated_at
		 WHERE brand_origins.country <> excluded.country`,
		rec.BrandKey, rec.Country, rec.City, string(rec.Tier), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert brand origin %s", rec.BrandKey)
}

func (s *SQLiteStore) ListBrandOrigins(ctx context.Context) ([]model.BrandOriginRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT brand_key, country, city, tier FROM brand_origins ORDER BY brand_key`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list brand origins")
	}
	defer rows.Close()

	var out []model.BrandOriginRecord
	for rows.Next() {
		var rec model.BrandOriginRecord
		if err := rows.Scan(&rec.BrandKey, &rec.Country, &rec.City, &rec.Tier); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan brand origin")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate brand origins")
}

func (s *SQLiteStore) DeleteBrandOrigin(ctx context.Context, brandKey string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM brand_origins WHERE brand_key = ?`, brandKey,
	)
	return eris.Wrapf(err, "sqlite: delete brand origin %s", brandKey)
}

func (s *SQLiteStore) GetPriorityProduct(ctx context.Context, identifier string) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT product FROM priority_products WHERE identifier = ?`, identifier,
	)
	var raw string
	err := row.Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get priority product %s", identifier)
	}
	var p model.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal priority product")
	}
	return &p, nil
}

// PutPriorityProduct admits a product to the priority cache. An existing
// record is never replaced: once locked, a high-confidence answer stays.
func (s *SQLiteStore) PutPriorityProduct(ctx context.Context, p model.Product) error {
	if p.Identifier == "" {
		return eris.New("sqlite: priority product missing identifier")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal priority product")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO priority_products (identifier, product, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(identifier) DO NOTHING`,
		p.Identifier, string(raw), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: put priority product %s", p.Identifier)
}

func (s *SQLiteStore) ListPriorityProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product FROM priority_products ORDER BY identifier`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list priority products")
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan priority product")
		}
		var p model.Product
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal priority product")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate priority products")
}
