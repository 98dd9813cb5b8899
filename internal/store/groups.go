package store

import (
	"context"
	"database/sql"

	"crosssell-service/internal/models"
)

// GetGroupByPlacementAndPosition returns the group ranked at position
// shift (0-based) for a placement, or nil past the end of the sequence.
func (s *Store) GetGroupByPlacementAndPosition(ctx context.Context, placement string, shift int) (*models.Group, error) {
	var group models.Group
	err := s.db.GetContext(ctx, &group, `
		SELECT id, placement, position, max_products, sorting
		FROM crosssell_groups
		WHERE placement = $1
		ORDER BY position ASC, id ASC
		OFFSET $2
		LIMIT 1`, placement, shift)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetGroupCandidates returns the rule engine's candidate products for a
// group, configurable types excluded and the trigger filtered out.
// Ordering beyond the id tiebreak is applied by the caller.
func (s *Store) GetGroupCandidates(ctx context.Context, groupID, excludeProductID int64) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, `
		SELECT p.* FROM products p
		JOIN group_product_links l ON l.product_id = p.id
		WHERE l.group_id = $1
		  AND p.type_id <> $2
		  AND p.id <> $3
		ORDER BY p.id ASC`, groupID, models.ProductTypeConfigurable, excludeProductID)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetRetrievalSettings returns the merchant settings for a store scope,
// or nil when the scope has no settings row.
func (s *Store) GetRetrievalSettings(ctx context.Context, storeScope string) (*models.RetrievalSettings, error) {
	var settings models.RetrievalSettings
	err := s.db.GetContext(ctx, &settings, `
		SELECT enabled, title, max_products, continue_groups
		FROM crosssell_settings
		WHERE store_scope = $1`, storeScope)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
