package worker

import (
	"context"
	"time"

	"crosssell-service/internal/broker"
	"crosssell-service/internal/models"
	"crosssell-service/internal/redisclient"
	"crosssell-service/internal/service"
	"crosssell-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CrosssellWorker reacts to cart mutation events: it recomputes the
// related-items payload for the affected cart, warms the payload cache
// and announces the refresh.
type CrosssellWorker struct {
	consumer   *broker.Consumer
	augmenter  *service.SectionDataAugmenter
	cache      *redisclient.Client
	publisher  *broker.EventPublisher
	storeScope string
	cacheTTL   time.Duration
	logger     *zap.Logger
	stopped    chan struct{}
}

// NewCrosssellWorker creates a new cross-sell worker
func NewCrosssellWorker(
	consumer *broker.Consumer,
	augmenter *service.SectionDataAugmenter,
	cache *redisclient.Client,
	publisher *broker.EventPublisher,
	storeScope string,
	cacheTTL time.Duration,
) *CrosssellWorker {
	return &CrosssellWorker{
		consumer:   consumer,
		augmenter:  augmenter,
		cache:      cache,
		publisher:  publisher,
		storeScope: storeScope,
		cacheTTL:   cacheTTL,
		logger:     util.Named("worker"),
		stopped:    make(chan struct{}),
	}
}

// Start consumes cart events until the context is cancelled
func (w *CrosssellWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting cross-sell worker")

	handler := broker.NewEventHandler()
	handler.OnCartItemAdded(func(ctx context.Context, event *models.CartItemAddedEvent) error {
		return w.refreshCart(ctx, event.CartID)
	})
	handler.OnCartItemRemoved(func(ctx context.Context, event *models.CartItemRemovedEvent) error {
		return w.refreshCart(ctx, event.CartID)
	})

	err := w.consumer.StartConsuming(ctx, handler.HandleMessage)
	close(w.stopped)
	return err
}

// Stop closes the consumer and waits for the loop to exit
func (w *CrosssellWorker) Stop() {
	if err := w.consumer.Close(); err != nil {
		w.logger.Error("Failed to close consumer", zap.Error(err))
	}
	<-w.stopped
}

// refreshCart recomputes and caches the related-items block for a cart.
// Failures are logged and the stale cache entry is dropped so the next
// read falls through to a fresh computation.
func (w *CrosssellWorker) refreshCart(ctx context.Context, cartID int64) error {
	block, err := w.augmenter.RelatedItems(ctx, cartID, w.storeScope)
	if err != nil {
		w.logger.Warn("Failed to recompute related items, invalidating cache",
			zap.Int64("cart_id", cartID),
			zap.Error(err))
		return w.cache.InvalidateRelatedItems(ctx, cartID)
	}

	if err := w.cache.CacheRelatedItems(ctx, cartID, block, w.cacheTTL); err != nil {
		w.logger.Error("Failed to cache related items",
			zap.Int64("cart_id", cartID),
			zap.Error(err))
	}

	event := &models.RelatedItemsRefreshedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeRelatedItemsRefreshed,
			Timestamp: time.Now(),
		},
		CartID:    cartID,
		ItemCount: len(block.Items),
	}

	if err := w.publisher.PublishRelatedItemsRefreshed(ctx, event); err != nil {
		w.logger.Error("Failed to publish RelatedItemsRefreshed event", zap.Error(err))
	}

	return nil
}
