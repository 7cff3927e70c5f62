package resolver

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/JamieAtGit/shipping-emissions-project/internal/brands"
	"github.com/JamieAtGit/shipping-emissions-project/internal/geo"
	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
	"github.com/JamieAtGit/shipping-emissions-project/internal/store"
)

// Strategy is one tier of the fallback chain. Resolve returns nil when the
// tier has no answer for the given evidence; the first non-nil result wins.
type Strategy struct {
	Name    string
	Resolve func(ctx context.Context, ev model.Evidence) *model.ResolvedOrigin
}

// Resolver evaluates the strategy chain in fixed priority order and owns the
// learning side-effects: heuristic hits are persisted to the learned store,
// unresolvable brands go to the audit log.
type Resolver struct {
	rules   *Rules
	curated *brands.CuratedTable
	store   store.Store
	audit   *brands.AuditLog
	chain   []Strategy
}

// New builds a resolver over the three-tier knowledge base. curated and
// audit may be nil; those tiers then no-op.
func New(rules *Rules, curated *brands.CuratedTable, st store.Store, audit *brands.AuditLog) *Resolver {
	r := &Resolver{rules: rules, curated: curated, store: st, audit: audit}
	r.chain = []Strategy{
		{Name: "trusted", Resolve: r.resolveTrusted},
		{Name: "stored", Resolve: r.resolveStored},
		{Name: "text_blobs", Resolve: r.resolveBlobs},
		{Name: "title", Resolve: r.resolveTitle},
		{Name: "shipping_panel", Resolve: r.resolvePanel},
	}
	return r
}

// Rules exposes the active rule set (the pipeline shares it for brand-key
// selection).
func (r *Resolver) Rules() *Rules { return r.rules }

// Resolve runs the chain for one piece of evidence. It never fails: a brand
// no strategy can place resolves to the terminal Unknown origin and is
// recorded in the audit log. Store failures only cost the learning
// side-effect, never the result.
func (r *Resolver) Resolve(ctx context.Context, ev model.Evidence) model.ResolvedOrigin {
	ev.BrandKey = NormalizeBrandKey(ev.BrandKey)
	if r.rules.IsNoiseBrand(ev.BrandKey) {
		ev.BrandKey = ""
	}

	for _, s := range r.chain {
		res := s.Resolve(ctx, ev)
		if res == nil {
			continue
		}
		if res.Tier() == model.TierGuessed {
			r.learn(ctx, ev.BrandKey, *res)
		}
		zap.L().Debug("resolver: origin resolved",
			zap.String("brand", ev.BrandKey),
			zap.String("strategy", s.Name),
			zap.String("country", res.Country),
			zap.String("source", res.Source))
		return *res
	}

	if ev.BrandKey != "" && r.audit != nil {
		if err := r.audit.Record(ev.BrandKey); err != nil {
			zap.L().Warn("resolver: audit log write failed",
				zap.String("brand", ev.BrandKey),
				zap.Error(err))
		}
	}
	return model.UnknownOrigin()
}

// learn persists a heuristic resolution so future lookups short-circuit at
// the stored tier. Write failures are non-fatal.
func (r *Resolver) learn(ctx context.Context, brandKey string, res model.ResolvedOrigin) {
	if brandKey == "" || r.store == nil {
		return
	}
	err := r.store.UpsertBrandOrigin(ctx, model.BrandOriginRecord{
		BrandKey: brandKey,
		Country:  res.Country,
		City:     res.City,
		Tier:     model.TierLearned,
	})
	if err != nil {
		zap.L().Warn("resolver: learned origin not persisted",
			zap.String("brand", brandKey),
			zap.Error(err))
		return
	}
	zap.L().Info("resolver: learned brand origin",
		zap.String("brand", brandKey),
		zap.String("country", res.Country),
		zap.String("source", res.Source))
}

// resolveTrusted is tier 1: the hardcoded map. A hit here can never be
// overridden by any lower tier in the same call.
func (r *Resolver) resolveTrusted(_ context.Context, ev model.Evidence) *model.ResolvedOrigin {
	if ev.BrandKey == "" {
		return nil
	}
	rec, ok := brands.Trusted(ev.BrandKey)
	if !ok {
		return nil
	}
	return &model.ResolvedOrigin{Country: rec.Country, City: rec.City, Source: model.SourceTrusted}
}

// resolveStored is tier 2: the curated table, then the learned cache.
func (r *Resolver) resolveStored(ctx context.Context, ev model.Evidence) *model.ResolvedOrigin {
	if ev.BrandKey == "" {
		return nil
	}
	if r.curated != nil {
		if rec, ok := r.curated.Lookup(ev.BrandKey); ok {
			return &model.ResolvedOrigin{Country: rec.Country, City: rec.City, Source: model.SourceCurated}
		}
	}
	if r.store == nil {
		return nil
	}
	rec, err := r.store.GetBrandOrigin(ctx, ev.BrandKey)
	if err != nil {
		zap.L().Warn("resolver: learned store lookup failed",
			zap.String("brand", ev.BrandKey),
			zap.Error(err))
		return nil
	}
	if rec == nil {
		return nil
	}
	return &model.ResolvedOrigin{Country: rec.Country, City: rec.City, Source: model.SourceLearned}
}

// originBlobRE extracts the origin phrase from "made in X" style statements.
var originBlobRE = regexp.MustCompile(`(?i)(?:country of origin|made in|manufactured in|manufacturer(?:ed)?\s+in)[:\s]+([a-zA-Z][a-zA-Z\s,]*)`)

// blobGateKeywords cheaply filter blobs before the regex runs.
var blobGateKeywords = []string{"country of origin", "made in", "manufactured in", "manufacturer"}

// resolveBlobs is tier 3: scan text blobs in order for an explicit origin
// statement; the first matching blob wins. The declared hint, when present,
// is treated as the first blob.
func (r *Resolver) resolveBlobs(_ context.Context, ev model.Evidence) *model.ResolvedOrigin {
	blobs := ev.TextBlobs
	if ev.OriginHint != "" {
		blobs = append([]string{"country of origin: " + ev.OriginHint}, blobs...)
	}
	for _, blob := range blobs {
		lower := strings.ToLower(blob)
		if !containsAny(lower, blobGateKeywords...) {
			continue
		}
		m := originBlobRE.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(m[1])
		switch raw {
		case "", "no", "not specified", "unknown":
			continue
		}
		country := r.rules.CanonicalCountry(raw)
		return &model.ResolvedOrigin{
			Country: country,
			City:    geo.OriginCity(country),
			Source:  model.SourceBlobMatch,
		}
	}
	return nil
}

// resolveTitle is tier 4: recognize a known brand fragment in the title, or
// fall back to the generic default origin. It only abstains when there is no
// title at all.
func (r *Resolver) resolveTitle(_ context.Context, ev model.Evidence) *model.ResolvedOrigin {
	title := strings.ToLower(ev.Title)
	if strings.TrimSpace(title) == "" {
		return nil
	}
	country := r.rules.DefaultOrigin
	for _, fragment := range r.rules.sortedFragments {
		if strings.Contains(title, fragment) {
			country = r.rules.TitleBrands[fragment]
			break
		}
	}
	return &model.ResolvedOrigin{
		Country: country,
		City:    geo.OriginCity(country),
		Source:  model.SourceTitleGuess,
	}
}

// resolvePanel is tier 5: scan "Ships from / Sold by" UI fragments for a
// country keyword.
func (r *Resolver) resolvePanel(_ context.Context, ev model.Evidence) *model.ResolvedOrigin {
	for _, text := range ev.PanelTexts {
		lower := strings.ToLower(text)
		if !containsAny(lower, r.rules.PanelPhrases...) {
			continue
		}
		for _, country := range r.rules.sortedCountries {
			for _, kw := range r.rules.CountryKeywords[country] {
				if containsKeyword(lower, kw) {
					return &model.ResolvedOrigin{
						Country: country,
						City:    geo.OriginCity(country),
						Source:  model.SourceShippingPanel,
					}
				}
			}
		}
	}
	return nil
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
