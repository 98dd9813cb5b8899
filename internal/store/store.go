package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"crosssell-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// GetConfigurableParent resolves the configurable parent of a simple
// product. A product with no parent link is a valid miss and yields
// (nil, nil).
func (s *Store) GetConfigurableParent(ctx context.Context, childID int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, `
		SELECT p.* FROM products p
		JOIN product_parent_links l ON l.parent_id = p.id
		WHERE l.child_id = $1
		ORDER BY p.id
		LIMIT 1`, childID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetConfigurableOptions retrieves the selectable attribute values of a
// configurable product
func (s *Store) GetConfigurableOptions(ctx context.Context, productID int64) ([]models.ConfigurableOption, error) {
	var options []models.ConfigurableOption
	err := s.db.SelectContext(ctx, &options, `
		SELECT product_id, child_sku, attribute_code, label
		FROM configurable_options
		WHERE product_id = $1
		ORDER BY attribute_code`, productID)
	return options, err
}

// GetCartLines retrieves a cart's lines ordered most-recent-first
func (s *Store) GetCartLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := s.db.SelectContext(ctx, &lines, `
		SELECT * FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at DESC, id DESC`, cartID)
	return lines, err
}
