package recommend

import (
	"context"
	"log"
	"sort"

	"jewelry-assistant-be/pkg/assistant/preference"
	"jewelry-assistant-be/pkg/store"
)

// Tier labels recorded on each recommendation event.
const (
	TierSemantic  = "semantic"
	TierAttribute = "attribute"
	TierBrowse    = "browse"
)

// Filter is the structured part of a hybrid vector query.
type Filter struct {
	Category *string
	Metal    *string
	MaxPrice *float64
}

// VectorSearcher is the external vector-index collaborator. Implementations
// return products with Similarity populated in [0,1].
type VectorSearcher interface {
	Search(ctx context.Context, query string, filter Filter, limit int) ([]store.Product, error)
}

// CatalogSource provides the full product catalog for attribute-filter and
// broad-browse scans.
type CatalogSource interface {
	Products(ctx context.Context) ([]store.Product, error)
}

// Config holds the ranking policy knobs. The defaults are documented policy,
// not derived constants; tune via configuration.
type Config struct {
	MinSimilarity    float64 // Tier 1 cutoff
	MinAcceptable    int     // below this, Tier 1 falls through to Tier 2
	SimilarityWeight float64 // base weight of similarity in the blended score
	AttributeBonus   float64 // per exact attribute match, blended score capped at 1.0
	SearchLimit      int     // candidates pulled from the vector index
}

func DefaultConfig() Config {
	return Config{
		MinSimilarity:    0.5,
		MinAcceptable:    3,
		SimilarityWeight: 0.7,
		AttributeBonus:   0.1,
		SearchLimit:      20,
	}
}

// Result is a ranked recommendation set plus the tier that produced it. An
// empty product list is a normal outcome, not an error.
type Result struct {
	Products []store.Product
	Tier     string
}

// Engine runs the tiered retrieval pipeline: semantic+structured hybrid
// search, attribute-filter fallback, broad category browse.
type Engine struct {
	searcher VectorSearcher
	catalog  CatalogSource
	cfg      Config
	logger   *log.Logger
}

func NewEngine(searcher VectorSearcher, catalog CatalogSource, cfg Config, logger *log.Logger) *Engine {
	return &Engine{
		searcher: searcher,
		catalog:  catalog,
		cfg:      cfg,
		logger:   logger,
	}
}

// Recommend returns up to topN ranked products for the given preference set.
// genericShowAll routes straight to the browse tier, which ignores every slot
// except category and is exempt from the budget ceiling.
func (e *Engine) Recommend(ctx context.Context, prefs preference.Preferences, genericShowAll bool, topN int) (*Result, error) {
	if topN <= 0 {
		topN = 5
	}

	if genericShowAll && prefs.Category != nil {
		return e.browse(ctx, *prefs.Category, topN)
	}

	if result := e.semantic(ctx, prefs, topN); result != nil {
		return result, nil
	}

	return e.attribute(ctx, prefs, topN)
}

// semantic runs Tier 1. A nil return means "fall through to Tier 2".
func (e *Engine) semantic(ctx context.Context, prefs preference.Preferences, topN int) *Result {
	query := prefs.QueryText()
	if query == "" || e.searcher == nil {
		return nil
	}

	candidates, err := e.searcher.Search(ctx, query, filterFrom(prefs), e.cfg.SearchLimit)
	if err != nil {
		e.logger.Printf("[RECOMMEND] vector search failed, falling back to attribute tier: %v", err)
		return nil
	}

	ranked := make([]store.Product, 0, len(candidates))
	for _, p := range candidates {
		if p.Similarity < e.cfg.MinSimilarity {
			continue
		}
		// The structured filter already applies the budget ceiling; keep the
		// invariant even against a sloppy searcher.
		if prefs.BudgetMax != nil && p.Price > *prefs.BudgetMax {
			continue
		}
		p.MatchScore = e.blendedScore(p, prefs)
		ranked = append(ranked, p)
	}

	if len(ranked) < e.cfg.MinAcceptable {
		e.logger.Printf("[RECOMMEND] semantic tier returned %d (< %d), falling back", len(ranked), e.cfg.MinAcceptable)
		return nil
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MatchScore != ranked[j].MatchScore {
			return ranked[i].MatchScore > ranked[j].MatchScore
		}
		return ranked[i].Price < ranked[j].Price
	})

	return &Result{Products: truncate(ranked, topN), Tier: TierSemantic}
}

// blendedScore mixes similarity with exact attribute matches, capped at 1.0.
func (e *Engine) blendedScore(p store.Product, prefs preference.Preferences) float64 {
	score := p.Similarity * e.cfg.SimilarityWeight
	if prefs.Category != nil && equalFold(p.Category, *prefs.Category) {
		score += e.cfg.AttributeBonus
	}
	if prefs.Occasion != nil && containsFold(p.OccasionTags, *prefs.Occasion) {
		score += e.cfg.AttributeBonus
	}
	if prefs.Recipient != nil && containsFold(p.RecipientTags, *prefs.Recipient) {
		score += e.cfg.AttributeBonus
	}
	if prefs.Style != nil && containsFold(p.StyleTags, *prefs.Style) {
		score += e.cfg.AttributeBonus
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// attribute runs Tier 2: a deterministic point-system scan over the catalog.
func (e *Engine) attribute(ctx context.Context, prefs preference.Preferences, topN int) (*Result, error) {
	products, err := e.catalog.Products(ctx)
	if err != nil {
		return &Result{Tier: TierAttribute}, err
	}

	scored := make([]store.Product, 0, len(products))
	for _, p := range products {
		if prefs.BudgetMax != nil && p.Price > *prefs.BudgetMax {
			continue
		}
		if prefs.Category != nil && !equalFold(p.Category, *prefs.Category) {
			continue
		}
		score := matchScore(p, prefs)
		if score <= 0 {
			continue
		}
		p.MatchScore = score
		scored = append(scored, p)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].MatchScore != scored[j].MatchScore {
			return scored[i].MatchScore > scored[j].MatchScore
		}
		return scored[i].Price < scored[j].Price
	})

	e.logger.Printf("[RECOMMEND] attribute tier matched %d products", len(scored))
	return &Result{Products: truncate(scored, topN), Tier: TierAttribute}, nil
}

// browse runs Tier 3: everything in the category, cheapest first, all other
// slots and the budget ceiling deliberately ignored.
func (e *Engine) browse(ctx context.Context, category string, topN int) (*Result, error) {
	products, err := e.catalog.Products(ctx)
	if err != nil {
		return &Result{Tier: TierBrowse}, err
	}

	matches := make([]store.Product, 0, len(products))
	for _, p := range products {
		if equalFold(p.Category, category) {
			matches = append(matches, p)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Price < matches[j].Price
	})

	e.logger.Printf("[RECOMMEND] browse tier found %d products in category %q", len(matches), category)
	return &Result{Products: truncate(matches, topN), Tier: TierBrowse}, nil
}

func filterFrom(prefs preference.Preferences) Filter {
	return Filter{
		Category: prefs.Category,
		Metal:    prefs.Metal,
		MaxPrice: prefs.BudgetMax,
	}
}

func truncate(products []store.Product, n int) []store.Product {
	if len(products) > n {
		return products[:n]
	}
	return products
}
