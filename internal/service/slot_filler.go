package service

import (
	"context"

	"crosssell-service/internal/models"
	"crosssell-service/internal/util"

	"go.uber.org/zap"
)

// maxShiftIterations bounds the group walk against a misbehaving group
// source that never terminates the sequence.
const maxShiftIterations = 30

// SlotFiller is the retrieval engine: it walks the placement's rule
// groups in rank order, pulls candidates per group, filters and
// deduplicates them, and accumulates results up to the configured
// maximum. Each group contributes its cap to a running total so an
// under-filled group passes its unused capacity to later groups.
type SlotFiller struct {
	sequencer  *GroupSequencer
	candidates *CandidateSource
	catalog    CatalogSource
	placement  string
	logger     *zap.Logger
}

// NewSlotFiller creates a new slot filler for a placement
func NewSlotFiller(sequencer *GroupSequencer, candidates *CandidateSource, catalog CatalogSource, placement string) *SlotFiller {
	return &SlotFiller{
		sequencer:  sequencer,
		candidates: candidates,
		catalog:    catalog,
		placement:  placement,
		logger:     util.GetLogger(),
	}
}

// Fill returns the ordered, deduplicated, in-stock recommendation set
// for the trigger product. A nil trigger or disabled settings yield an
// empty result without touching any collaborator. Transient candidate
// or parent-lookup failures skip the affected group or candidate and
// retrieval continues.
func (f *SlotFiller) Fill(ctx context.Context, trigger *models.Product, settings *models.RetrievalSettings) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "SlotFiller.Fill")
	defer span.End()

	if trigger == nil || settings == nil || !settings.Enabled {
		util.RetrievalsEmptyTotal.WithLabelValues("disabled_or_no_trigger").Inc()
		return []models.Product{}, nil
	}
	if settings.MaxTotal <= 0 {
		util.RetrievalsEmptyTotal.WithLabelValues("zero_max").Inc()
		return []models.Product{}, nil
	}

	util.RetrievalsTotal.Inc()

	result := make([]models.Product, 0, settings.MaxTotal)
	seen := make(map[int64]struct{})
	shift := 0
	runningCap := 0

	for len(result) < settings.MaxTotal && shift < maxShiftIterations {
		group, err := f.sequencer.Next(ctx, trigger.ID, f.placement, shift)
		if err != nil {
			f.logger.Error("Group lookup failed, stopping retrieval",
				zap.Int("shift", shift),
				zap.Error(err))
			break
		}
		if group == nil {
			break
		}

		util.GroupsWalkedTotal.Inc()
		runningCap += group.MaxProducts
		effectiveCap := settings.MaxTotal
		if runningCap < effectiveCap {
			effectiveCap = runningCap
		}

		candidates, err := f.candidates.Fetch(ctx, group, trigger, group.MaxProducts)
		if err != nil {
			f.logger.Warn("Candidate fetch failed, skipping group",
				zap.Int64("group_id", group.ID),
				zap.Error(err))
			shift++
			continue
		}

		for _, candidate := range candidates {
			if f.shouldSkip(ctx, candidate, seen) {
				continue
			}

			result = append(result, candidate)
			seen[candidate.ID] = struct{}{}

			if len(result) == effectiveCap {
				break
			}
		}

		if len(result) >= settings.MaxTotal {
			break
		}
		if !settings.ContinueToNextGroup {
			break
		}
		shift++
	}

	if len(result) == 0 {
		util.RetrievalsEmptyTotal.WithLabelValues("no_candidates").Inc()
	}
	util.ProductsReturned.Observe(float64(len(result)))

	return result, nil
}

// shouldSkip applies the stock, parent-stock and duplicate filters. A
// failed parent lookup rejects the candidate rather than aborting the
// whole retrieval.
func (f *SlotFiller) shouldSkip(ctx context.Context, candidate models.Product, seen map[int64]struct{}) bool {
	if !candidate.InStock {
		util.CandidatesSkippedTotal.WithLabelValues("out_of_stock").Inc()
		return true
	}

	parent, err := f.catalog.GetConfigurableParent(ctx, candidate.ID)
	if err != nil {
		f.logger.Warn("Parent lookup failed, skipping candidate",
			zap.Int64("product_id", candidate.ID),
			zap.Error(err))
		util.CandidatesSkippedTotal.WithLabelValues("parent_lookup_failed").Inc()
		return true
	}
	if parent != nil && !parent.InStock {
		util.CandidatesSkippedTotal.WithLabelValues("parent_out_of_stock").Inc()
		return true
	}

	if _, dup := seen[candidate.ID]; dup {
		util.CandidatesSkippedTotal.WithLabelValues("duplicate").Inc()
		return true
	}

	return false
}
