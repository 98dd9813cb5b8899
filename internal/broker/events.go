package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"crosssell-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishRelatedItemsRefreshed publishes a RelatedItemsRefreshed event
func (ep *EventPublisher) PublishRelatedItemsRefreshed(ctx context.Context, event *models.RelatedItemsRefreshedEvent) error {
	key := fmt.Sprintf("cart-%d", event.CartID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming cart events to registered callbacks
type EventHandler struct {
	onCartItemAdded   func(context.Context, *models.CartItemAddedEvent) error
	onCartItemRemoved func(context.Context, *models.CartItemRemovedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnCartItemAdded registers a handler for CartItemAdded events
func (eh *EventHandler) OnCartItemAdded(handler func(context.Context, *models.CartItemAddedEvent) error) {
	eh.onCartItemAdded = handler
}

// OnCartItemRemoved registers a handler for CartItemRemoved events
func (eh *EventHandler) OnCartItemRemoved(handler func(context.Context, *models.CartItemRemovedEvent) error) {
	eh.onCartItemRemoved = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeCartItemAdded:
		if eh.onCartItemAdded != nil {
			var event models.CartItemAddedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CartItemAdded event: %w", err)
			}
			return eh.onCartItemAdded(ctx, &event)
		}

	case models.EventTypeCartItemRemoved:
		if eh.onCartItemRemoved != nil {
			var event models.CartItemRemovedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CartItemRemoved event: %w", err)
			}
			return eh.onCartItemRemoved(ctx, &event)
		}
	}

	return nil
}
