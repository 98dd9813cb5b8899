package widget

import (
	"context"
	"reflect"

	"crosssell-service/internal/models"
	"crosssell-service/internal/util"

	"go.uber.org/zap"
)

// Carousel is the rendering widget driven by the reconciler. Init and
// Destroy must be idempotent and safe to call with no mounted
// container.
type Carousel interface {
	Init(items []models.RelatedItem)
	Destroy()
	Refresh()
}

// RelatedItemsWidget reconciles incoming related-items payloads against
// the last rendered set and drives the carousel lifecycle. All state
// belongs to a single event loop; reactions are synchronous, so no two
// renders overlap.
type RelatedItemsWidget struct {
	carousel Carousel
	baseline []models.RelatedItem
	rendered bool
	logger   *zap.Logger
}

// New creates a widget in the empty state
func New(carousel Carousel) *RelatedItemsWidget {
	return &RelatedItemsWidget{
		carousel: carousel,
		logger:   util.Named("widget"),
	}
}

// Run consumes payloads from the update stream until the context ends.
// Each payload is fully applied before the next one is read.
func (w *RelatedItemsWidget) Run(ctx context.Context, updates <-chan models.RelatedItemsBlock) {
	for {
		select {
		case <-ctx.Done():
			return
		case block, ok := <-updates:
			if !ok {
				return
			}
			w.Apply(block)
		}
	}
}

// Apply reacts to one cart-summary change. An unchanged item list is a
// no-op. A changed non-empty list replaces the rendered set and resets
// the carousel. A changed empty list keeps the previous baseline so a
// transient empty payload never flickers the panel away.
func (w *RelatedItemsWidget) Apply(block models.RelatedItemsBlock) {
	incoming := block.Items

	if w.rendered && reflect.DeepEqual(incoming, w.baseline) {
		return
	}

	if len(incoming) == 0 {
		w.logger.Debug("Empty related-items payload, keeping rendered set",
			zap.Int("baseline", len(w.baseline)))
		return
	}

	w.carousel.Destroy()
	w.baseline = incoming
	w.rendered = true
	w.carousel.Init(incoming)
}

// Refresh re-lays-out the carousel, for viewport or visibility changes
func (w *RelatedItemsWidget) Refresh() {
	w.carousel.Refresh()
}

// Rendered returns the currently rendered item set
func (w *RelatedItemsWidget) Rendered() []models.RelatedItem {
	return w.baseline
}
