package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"crosssell-service/internal/models"
	"crosssell-service/internal/redisclient"
	"crosssell-service/internal/service"
	"crosssell-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	augmenter *service.SectionDataAugmenter
	cache     *redisclient.Client
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(augmenter *service.SectionDataAugmenter, cache *redisclient.Client, cacheTTL time.Duration) *Handler {
	return &Handler{
		augmenter: augmenter,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/carts/:id/summary", h.augmentSummary)
		v1.GET("/carts/:id/related-items", h.getRelatedItems)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// augmentSummary takes the upstream cart-summary payload and returns it
// with the related_items block attached. The summary comes back as-is
// when the block cannot be built.
func (h *Handler) augmentSummary(c *gin.Context) {
	cartID, ok := h.cartID(c)
	if !ok {
		return
	}

	var summary models.CartSummary
	if err := c.ShouldBindJSON(&summary); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid cart summary body",
			"details": err.Error(),
		})
		return
	}

	scope := c.DefaultQuery("store", "default")
	augmented := h.augmenter.Augment(c.Request.Context(), cartID, scope, summary)

	c.JSON(http.StatusOK, augmented)
}

// getRelatedItems serves the related_items block for a cart, reading
// through the worker-warmed cache.
func (h *Handler) getRelatedItems(c *gin.Context) {
	cartID, ok := h.cartID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if cached, err := h.cache.GetCachedRelatedItems(ctx, cartID); err == nil && cached != nil {
		util.PayloadCacheHitsTotal.WithLabelValues("hit").Inc()

		var block models.RelatedItemsBlock
		if err := json.Unmarshal(cached, &block); err == nil {
			c.JSON(http.StatusOK, block)
			return
		}
		h.logger.Warn("Dropping undecodable cached payload", zap.Int64("cart_id", cartID))
	}
	util.PayloadCacheHitsTotal.WithLabelValues("miss").Inc()

	scope := c.DefaultQuery("store", "default")
	block, err := h.augmenter.RelatedItems(ctx, cartID, scope)
	if err != nil {
		// Degrade to an empty block, mirroring the summary path: the
		// shopper never sees a recommendation error.
		h.logger.Error("Failed to compute related items",
			zap.Int64("cart_id", cartID),
			zap.Error(err))
		util.AugmentationFailuresTotal.Inc()
		c.JSON(http.StatusOK, models.RelatedItemsBlock{Items: []models.RelatedItem{}})
		return
	}

	if err := h.cache.CacheRelatedItems(ctx, cartID, block, h.cacheTTL); err != nil {
		h.logger.Warn("Failed to cache related items", zap.Error(err))
	}

	c.JSON(http.StatusOK, block)
}

func (h *Handler) cartID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	cartID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cart ID",
		})
		return 0, false
	}
	return cartID, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
