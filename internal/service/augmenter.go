package service

import (
	"context"
	"fmt"

	"crosssell-service/internal/models"
	"crosssell-service/internal/util"

	"go.uber.org/zap"
)

// SectionDataAugmenter adds the related_items block to a cart-summary
// payload. Any failure while building the block degrades to the
// unmodified summary: a broken recommendation feature must never break
// cart rendering.
type SectionDataAugmenter struct {
	resolver   *TriggerResolver
	filler     *SlotFiller
	settings   SettingsSource
	catalog    CatalogSource
	formatter  PriceFormatter
	validators ValidatorChain
	defaults   models.RetrievalSettings
	logger     *zap.Logger
}

// NewSectionDataAugmenter creates a new section data augmenter.
// defaults are the retrieval settings used when a store scope has no
// settings row.
func NewSectionDataAugmenter(
	resolver *TriggerResolver,
	filler *SlotFiller,
	settings SettingsSource,
	catalog CatalogSource,
	formatter PriceFormatter,
	validators ValidatorChain,
	defaults models.RetrievalSettings,
) *SectionDataAugmenter {
	return &SectionDataAugmenter{
		resolver:   resolver,
		filler:     filler,
		settings:   settings,
		catalog:    catalog,
		formatter:  formatter,
		validators: validators,
		defaults:   defaults,
		logger:     util.GetLogger(),
	}
}

// Augment returns the summary with the related_items block attached,
// or the summary unmodified when the block cannot be built.
func (a *SectionDataAugmenter) Augment(ctx context.Context, cartID int64, storeScope string, summary models.CartSummary) models.CartSummary {
	ctx, span := util.StartSpan(ctx, "SectionDataAugmenter.Augment")
	defer span.End()

	block, err := a.RelatedItems(ctx, cartID, storeScope)
	if err != nil {
		util.AugmentationFailuresTotal.Inc()
		a.logger.Error("Failed to build related items, returning summary unmodified",
			zap.Int64("cart_id", cartID),
			zap.Error(err))
		return summary
	}

	augmented := make(models.CartSummary, len(summary)+1)
	for k, v := range summary {
		augmented[k] = v
	}
	augmented["related_items"] = block

	return augmented
}

// RelatedItems computes the related_items block for a cart. The block
// carries empty items when the feature is disabled or the cart holds no
// trigger product.
func (a *SectionDataAugmenter) RelatedItems(ctx context.Context, cartID int64, storeScope string) (*models.RelatedItemsBlock, error) {
	settings, err := a.effectiveSettings(ctx, storeScope)
	if err != nil {
		return nil, err
	}

	block := &models.RelatedItemsBlock{
		Items:      []models.RelatedItem{},
		Title:      settings.Title,
		MaxProduct: settings.MaxTotal,
	}

	if !settings.Enabled {
		return block, nil
	}

	memo := NewTriggerMemo()
	trigger, err := a.resolver.Resolve(ctx, cartID, models.TriggerKindSimple, memo)
	if err != nil {
		return nil, err
	}

	products, err := a.filler.Fill(ctx, trigger, settings)
	if err != nil {
		return nil, err
	}

	for _, product := range products {
		item, err := a.buildItem(ctx, product)
		if err != nil {
			return nil, err
		}
		block.Items = append(block.Items, item)
	}

	return block, nil
}

func (a *SectionDataAugmenter) effectiveSettings(ctx context.Context, storeScope string) (*models.RetrievalSettings, error) {
	settings, err := a.settings.GetRetrievalSettings(ctx, storeScope)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve retrieval settings: %w", err)
	}
	if settings == nil {
		fallback := a.defaults
		return &fallback, nil
	}
	return settings, nil
}

func (a *SectionDataAugmenter) buildItem(ctx context.Context, product models.Product) (models.RelatedItem, error) {
	options, err := a.buildOptions(ctx, product)
	if err != nil {
		return models.RelatedItem{}, err
	}

	return models.RelatedItem{
		Name:        product.Name,
		Option:      options,
		Description: product.Description,
		OldPrice:    a.formatter.FormatPrice(product.Price),
		Price:       a.formatter.FormatPrice(product.FinalPrice),
		Image:       product.Thumbnail,
		Color:       product.Color,
	}, nil
}

// buildOptions resolves the candidate's configurable parent and emits
// the selected option of each attribute the validator chain accepts. A
// candidate without a parent has no options.
func (a *SectionDataAugmenter) buildOptions(ctx context.Context, product models.Product) ([]map[string]string, error) {
	parent, err := a.catalog.GetConfigurableParent(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve parent of product %d: %w", product.ID, err)
	}
	if parent == nil {
		return []map[string]string{}, nil
	}

	options, err := a.catalog.GetConfigurableOptions(ctx, parent.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load options of product %d: %w", parent.ID, err)
	}

	selected := make([]map[string]string, 0, len(options))
	for _, option := range options {
		if option.ChildSKU != product.SKU {
			continue
		}
		if !a.validators.Accepts(option) {
			continue
		}
		selected = append(selected, map[string]string{option.AttributeCode: option.Label})
	}

	return selected, nil
}
