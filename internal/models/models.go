package models

import "time"

// Placement identifies the storefront slot a group is bound to.
const (
	PlacementMinicart = "minicart"
	PlacementProduct  = "product"
	PlacementCart     = "cart"
)

// Trigger kinds for the last-added-product lookup.
const (
	TriggerKindSimple       = "simple"
	TriggerKindConfigurable = "configurable"
)

// Product type ids.
const (
	ProductTypeSimple       = "simple"
	ProductTypeConfigurable = "configurable"
)

// Sort strategies for a recommendation group.
const (
	SortByName         = "name"
	SortByPriceAsc     = "price_asc"
	SortByPriceDesc    = "price_desc"
	SortByNewest       = "newest"
	SortByBestsellers  = "bestsellers"
	SortByMostViewed   = "most_viewed"
	SortByReviewsCount = "reviews_count"
	SortByTopRated     = "top_rated"
	SortByNone         = "none"
)

// PopularitySorts maps a popularity-family strategy to the metric key
// served by the metric provider.
var PopularitySorts = map[string]string{
	SortByBestsellers:  "bestsellers",
	SortByMostViewed:   "most_viewed",
	SortByReviewsCount: "reviews_count",
	SortByTopRated:     "top_rated",
}

// Product is a read-only catalog view for one request.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	SKU         string    `db:"sku" json:"sku"`
	TypeID      string    `db:"type_id" json:"type_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       int64     `db:"price" json:"price"`
	FinalPrice  int64     `db:"final_price" json:"final_price"`
	Thumbnail   string    `db:"thumbnail" json:"thumbnail"`
	Color       string    `db:"color" json:"color"`
	InStock     bool      `db:"in_stock" json:"in_stock"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CartLine is one quote item, ordered most-recent-first by the cart
// line source. A non-nil ParentLineRef marks a variant purchase.
type CartLine struct {
	ID            int64     `db:"id" json:"id"`
	CartID        int64     `db:"cart_id" json:"cart_id"`
	ProductID     int64     `db:"product_id" json:"product_id"`
	ParentLineRef *int64    `db:"parent_line_ref" json:"parent_line_ref,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Group is a merchant-configured recommendation rule bundle.
type Group struct {
	ID          int64  `db:"id" json:"id"`
	Placement   string `db:"placement" json:"placement"`
	Position    int    `db:"position" json:"position"`
	MaxProducts int    `db:"max_products" json:"max_products"`
	Sorting     string `db:"sorting" json:"sorting"`
}

// RetrievalSettings are the effective merchant settings for one call.
type RetrievalSettings struct {
	Enabled             bool   `db:"enabled" json:"enabled"`
	Title               string `db:"title" json:"title"`
	MaxTotal            int    `db:"max_products" json:"max_products"`
	ContinueToNextGroup bool   `db:"continue_groups" json:"continue_groups"`
}

// ConfigurableOption is one selectable attribute value of a
// configurable product, keyed by the child sku it belongs to.
type ConfigurableOption struct {
	ProductID     int64  `db:"product_id" json:"product_id"`
	ChildSKU      string `db:"child_sku" json:"child_sku"`
	AttributeCode string `db:"attribute_code" json:"attribute_code"`
	Label         string `db:"label" json:"label"`
}

// RelatedItem is the wire record for one recommended product.
type RelatedItem struct {
	Name        string              `json:"name"`
	Option      []map[string]string `json:"option"`
	Description string              `json:"description"`
	OldPrice    string              `json:"old_price"`
	Price       string              `json:"price"`
	Image       string              `json:"image"`
	Color       string              `json:"color"`
}

// RelatedItemsBlock is the related_items section of the cart summary.
type RelatedItemsBlock struct {
	Items      []RelatedItem `json:"items"`
	Title      string        `json:"title"`
	MaxProduct int           `json:"max_product"`
}

// CartSummary is the customer-data payload the minicart consumes. The
// augmenter only ever adds the related_items key.
type CartSummary map[string]interface{}
