package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"crosssell-service/internal/models"
	"crosssell-service/internal/util"

	"go.uber.org/zap"
)

// randomSampleCap is the legacy hard limit on the random sort path. It
// applies regardless of the requested page size or the group cap.
const randomSampleCap = 3

// CandidateSource pulls a group's rule-engine candidates for a trigger
// product and orders them per the group's configured strategy.
type CandidateSource struct {
	links   CandidateLinkSource
	metrics MetricProvider
	logger  *zap.Logger
}

// NewCandidateSource creates a new candidate source
func NewCandidateSource(links CandidateLinkSource, metrics MetricProvider) *CandidateSource {
	return &CandidateSource{
		links:   links,
		metrics: metrics,
		logger:  util.GetLogger(),
	}
}

// Fetch returns up to pageSize candidates for the group, sorted per the
// group's strategy with an ascending-id tiebreak. The trigger product
// and configurable types are excluded at the link source. An empty
// candidate set is a valid result, not an error.
func (cs *CandidateSource) Fetch(ctx context.Context, group *models.Group, trigger *models.Product, pageSize int) ([]models.Product, error) {
	start := time.Now()
	defer func() {
		util.CandidateFetchLatency.Observe(time.Since(start).Seconds())
	}()

	candidates, err := cs.links.GetGroupCandidates(ctx, group.ID, trigger.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates for group %d: %w", group.ID, err)
	}
	if len(candidates) == 0 {
		return []models.Product{}, nil
	}

	sorting := group.Sorting
	if metric, ok := models.PopularitySorts[sorting]; ok {
		scores, err := cs.metrics.GetMetricScores(ctx, metric, productIDs(candidates))
		if err != nil {
			cs.logger.Warn("Popularity metric unavailable, falling back to random",
				zap.String("metric", metric),
				zap.Error(err))
			util.SortFallbacksTotal.Inc()
			sorting = models.SortByNone
		} else {
			sortByScore(candidates, scores)
		}
	}

	switch sorting {
	case models.SortByName:
		sortCandidates(candidates, func(a, b models.Product) bool { return a.Name < b.Name })
	case models.SortByPriceAsc:
		sortCandidates(candidates, func(a, b models.Product) bool { return a.Price < b.Price })
	case models.SortByPriceDesc:
		sortCandidates(candidates, func(a, b models.Product) bool { return a.Price > b.Price })
	case models.SortByNewest:
		sortCandidates(candidates, func(a, b models.Product) bool { return a.CreatedAt.After(b.CreatedAt) })
	case models.SortByNone:
		return cs.randomSample(group, trigger, candidates), nil
	}

	if pageSize > 0 && len(candidates) > pageSize {
		candidates = candidates[:pageSize]
	}

	return candidates, nil
}

// randomSample draws the legacy capped random sample. The generator is
// seeded from (group, trigger) so repeated fetches over one catalog
// snapshot return the same order.
func (cs *CandidateSource) randomSample(group *models.Group, trigger *models.Product, candidates []models.Product) []models.Product {
	sorted := make([]models.Product, len(candidates))
	copy(sorted, candidates)
	sortCandidates(sorted, func(a, b models.Product) bool { return a.ID < b.ID })

	rng := rand.New(rand.NewSource(group.ID<<20 ^ trigger.ID))
	rng.Shuffle(len(sorted), func(i, j int) {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	})

	if len(sorted) > randomSampleCap {
		sorted = sorted[:randomSampleCap]
	}
	return sorted
}

// sortCandidates sorts with the given primary comparison and the
// ascending entity-id tiebreak shared by every strategy.
func sortCandidates(products []models.Product, less func(a, b models.Product) bool) {
	sort.SliceStable(products, func(i, j int) bool {
		if less(products[i], products[j]) {
			return true
		}
		if less(products[j], products[i]) {
			return false
		}
		return products[i].ID < products[j].ID
	})
}

// sortByScore orders descending by metric score. Products missing from
// the feed score zero and sink to the tail.
func sortByScore(products []models.Product, scores map[int64]float64) {
	sortCandidates(products, func(a, b models.Product) bool {
		return scores[a.ID] > scores[b.ID]
	})
}

func productIDs(products []models.Product) []int64 {
	ids := make([]int64, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	return ids
}
