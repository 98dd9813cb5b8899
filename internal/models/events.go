package models

import "time"

// Event types
const (
	EventTypeCartItemAdded         = "CartItemAdded"
	EventTypeCartItemRemoved       = "CartItemRemoved"
	EventTypeRelatedItemsRefreshed = "RelatedItemsRefreshed"
)

// BaseEvent contains common event fields
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemAddedEvent is published when a product lands in a cart
type CartItemAddedEvent struct {
	BaseEvent
	CartID        int64  `json:"cart_id"`
	ProductID     int64  `json:"product_id"`
	ParentLineRef *int64 `json:"parent_line_ref,omitempty"`
	Quantity      int    `json:"quantity"`
}

// CartItemRemovedEvent is published when a line leaves a cart
type CartItemRemovedEvent struct {
	BaseEvent
	CartID    int64 `json:"cart_id"`
	ProductID int64 `json:"product_id"`
}

// RelatedItemsRefreshedEvent signals that the cached related-items
// payload for a cart was recomputed
type RelatedItemsRefreshedEvent struct {
	BaseEvent
	CartID    int64 `json:"cart_id"`
	ItemCount int   `json:"item_count"`
}
