package service

import (
	"context"

	"crosssell-service/internal/models"
)

// Collaborator contracts for the retrieval core. The Postgres store
// satisfies the catalog/rule/settings contracts and the Redis client
// satisfies MetricProvider; tests substitute fakes.

// CartLineSource yields a cart's lines ordered most-recent-first.
type CartLineSource interface {
	GetCartLines(ctx context.Context, cartID int64) ([]models.CartLine, error)
}

// CatalogSource exposes the product lookups the core needs.
type CatalogSource interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetConfigurableParent(ctx context.Context, childID int64) (*models.Product, error)
	GetConfigurableOptions(ctx context.Context, productID int64) ([]models.ConfigurableOption, error)
}

// GroupSource resolves the group ranked at a position for a placement.
type GroupSource interface {
	GetGroupByPlacementAndPosition(ctx context.Context, placement string, shift int) (*models.Group, error)
}

// CandidateLinkSource returns the rule engine's candidate set for a
// group, configurable types and the excluded product already filtered.
type CandidateLinkSource interface {
	GetGroupCandidates(ctx context.Context, groupID, excludeProductID int64) ([]models.Product, error)
}

// MetricProvider serves popularity scores. An error means the metric
// feed is unavailable, which is a defined sort fallback, not a failure.
type MetricProvider interface {
	GetMetricScores(ctx context.Context, metric string, productIDs []int64) (map[int64]float64, error)
}

// SettingsSource resolves merchant retrieval settings per store scope.
// A nil result means the scope has no explicit settings.
type SettingsSource interface {
	GetRetrievalSettings(ctx context.Context, storeScope string) (*models.RetrievalSettings, error)
}

// PriceFormatter renders a minor-unit amount for display.
type PriceFormatter interface {
	FormatPrice(amount int64) string
}
