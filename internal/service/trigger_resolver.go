package service

import (
	"context"
	"fmt"

	"crosssell-service/internal/models"
	"crosssell-service/internal/util"

	"go.uber.org/zap"
)

// TriggerResolver picks the cart product that seeds recommendations:
// the most recently added line matching the requested kind. A line with
// a parent reference is a variant purchase (simple kind), a line
// without one is a standalone purchase (configurable kind).
type TriggerResolver struct {
	lines   CartLineSource
	catalog CatalogSource
	logger  *zap.Logger
}

// NewTriggerResolver creates a new trigger resolver
func NewTriggerResolver(lines CartLineSource, catalog CatalogSource) *TriggerResolver {
	return &TriggerResolver{
		lines:   lines,
		catalog: catalog,
		logger:  util.GetLogger(),
	}
}

// TriggerMemo caches trigger lookups for one invocation context. It is
// created per request and discarded with it, so nothing leaks across
// requests.
type TriggerMemo struct {
	byKind map[string]*models.Product
	lines  []models.CartLine
	loaded bool
}

// NewTriggerMemo creates an empty per-invocation memo
func NewTriggerMemo() *TriggerMemo {
	return &TriggerMemo{byKind: make(map[string]*models.Product)}
}

// Resolve returns the last-added cart product of the given kind, or
// (nil, nil) when no line matches. Results are memoized per kind so a
// request asking for both kinds scans the cart once.
func (r *TriggerResolver) Resolve(ctx context.Context, cartID int64, kind string, memo *TriggerMemo) (*models.Product, error) {
	if memo == nil {
		memo = NewTriggerMemo()
	}

	if product, ok := memo.byKind[kind]; ok {
		return product, nil
	}

	if !memo.loaded {
		lines, err := r.lines.GetCartLines(ctx, cartID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cart lines: %w", err)
		}
		memo.lines = lines
		memo.loaded = true
	}

	for _, line := range memo.lines {
		if !matchesKind(line, kind) {
			continue
		}

		product, err := r.catalog.GetProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to load trigger product %d: %w", line.ProductID, err)
		}

		memo.byKind[kind] = product
		return product, nil
	}

	r.logger.Debug("No trigger product in cart",
		zap.Int64("cart_id", cartID),
		zap.String("kind", kind))

	memo.byKind[kind] = nil
	return nil, nil
}

func matchesKind(line models.CartLine, kind string) bool {
	switch kind {
	case models.TriggerKindSimple:
		return line.ParentLineRef != nil
	case models.TriggerKindConfigurable:
		return line.ParentLineRef == nil
	default:
		return false
	}
}
