package service

import (
	"context"
	"errors"
	"testing"

	"crosssell-service/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejectAttribute struct{ code string }

func (r rejectAttribute) Accepts(option models.ConfigurableOption) bool {
	return option.AttributeCode != r.code
}

// augmenterFixture wires a full retrieval pipeline over fakes: one cart
// with a variant line, one group with one candidate that has a
// configurable parent carrying selectable options.
func augmenterFixture(settings *fakeSettings, validators ValidatorChain) (*SectionDataAugmenter, *fakeCatalog) {
	lines := &fakeCartLines{lines: []models.CartLine{
		{ID: 2, CartID: 1, ProductID: 40, ParentLineRef: ref(1)},
		{ID: 1, CartID: 1, ProductID: 41, ParentLineRef: nil},
	}}

	catalog := newFakeCatalog()
	trigger := inStock(40, "trigger-variant", 500)
	catalog.add(trigger)

	candidate := inStock(50, "Recommended Tee", 1999)
	candidate.FinalPrice = 1499
	candidate.Description = "A tee"
	candidate.Thumbnail = "tee.jpg"
	candidate.Color = "red"
	catalog.add(candidate)

	parent := inStock(200, "Recommended Tee Parent", 1999)
	parent.TypeID = models.ProductTypeConfigurable
	catalog.add(parent)
	catalog.link(50, 200)
	catalog.options = []models.ConfigurableOption{
		{ProductID: 200, ChildSKU: "SKU-50", AttributeCode: "color", Label: "Red"},
		{ProductID: 200, ChildSKU: "SKU-50", AttributeCode: "size", Label: "M"},
		{ProductID: 200, ChildSKU: "SKU-51", AttributeCode: "color", Label: "Blue"},
	}

	groups := &fakeGroups{groups: []models.Group{
		{ID: 1, Placement: models.PlacementMinicart, Position: 0, MaxProducts: 3, Sorting: models.SortByName},
	}}
	links := newFakeLinks()
	links.byGroup[1] = []models.Product{candidate}

	resolver := NewTriggerResolver(lines, catalog)
	sequencer := NewGroupSequencer(groups)
	candidates := NewCandidateSource(links, &fakeMetrics{})
	filler := NewSlotFiller(sequencer, candidates, catalog, models.PlacementMinicart)

	defaults := models.RetrievalSettings{Enabled: true, Title: "Defaults", MaxTotal: 4, ContinueToNextGroup: true}

	return NewSectionDataAugmenter(
		resolver, filler, settings, catalog,
		NewCurrencyFormatter("$"), validators, defaults,
	), catalog
}

func TestAugmentAddsRelatedItemsBlock(t *testing.T) {
	settings := &fakeSettings{settings: &models.RetrievalSettings{
		Enabled: true, Title: "You may also like", MaxTotal: 4, ContinueToNextGroup: true,
	}}
	augmenter, _ := augmenterFixture(settings, ValidatorChain{NonEmptyLabelValidator{}})

	summary := models.CartSummary{"subtotal": "$5.00"}
	augmented := augmenter.Augment(context.Background(), 1, "default", summary)

	require.Contains(t, augmented, "related_items")
	block := augmented["related_items"].(*models.RelatedItemsBlock)

	assert.Equal(t, "You may also like", block.Title)
	assert.Equal(t, 4, block.MaxProduct)
	require.Len(t, block.Items, 1)

	item := block.Items[0]
	assert.Equal(t, "Recommended Tee", item.Name)
	assert.Equal(t, "$19.99", item.OldPrice)
	assert.Equal(t, "$14.99", item.Price)
	assert.Equal(t, "tee.jpg", item.Image)
	assert.Equal(t, "red", item.Color)
	assert.Equal(t, []map[string]string{{"color": "Red"}, {"size": "M"}}, item.Option)

	// The input summary itself is untouched.
	assert.NotContains(t, summary, "related_items")
	assert.Equal(t, "$5.00", augmented["subtotal"])
}

func TestAugmentValidatorVetoesAttribute(t *testing.T) {
	settings := &fakeSettings{settings: &models.RetrievalSettings{
		Enabled: true, Title: "t", MaxTotal: 4, ContinueToNextGroup: true,
	}}
	augmenter, _ := augmenterFixture(settings, ValidatorChain{
		NonEmptyLabelValidator{},
		rejectAttribute{code: "size"},
	})

	augmented := augmenter.Augment(context.Background(), 1, "default", models.CartSummary{})
	block := augmented["related_items"].(*models.RelatedItemsBlock)

	require.Len(t, block.Items, 1)
	assert.Equal(t, []map[string]string{{"color": "Red"}}, block.Items[0].Option)
}

func TestAugmentDisabledYieldsEmptyItems(t *testing.T) {
	settings := &fakeSettings{settings: &models.RetrievalSettings{
		Enabled: false, Title: "Hidden", MaxTotal: 4,
	}}
	augmenter, _ := augmenterFixture(settings, nil)

	augmented := augmenter.Augment(context.Background(), 1, "default", models.CartSummary{})
	block := augmented["related_items"].(*models.RelatedItemsBlock)

	assert.Empty(t, block.Items)
	assert.Equal(t, "Hidden", block.Title)
	assert.Equal(t, 4, block.MaxProduct)
}

func TestAugmentFallsBackToDefaultSettings(t *testing.T) {
	// No settings row for the scope: the configured defaults apply.
	augmenter, _ := augmenterFixture(&fakeSettings{settings: nil}, nil)

	augmented := augmenter.Augment(context.Background(), 1, "default", models.CartSummary{})
	block := augmented["related_items"].(*models.RelatedItemsBlock)

	assert.Equal(t, "Defaults", block.Title)
	require.Len(t, block.Items, 1)
}

func TestAugmentFailureReturnsSummaryUnmodified(t *testing.T) {
	settings := &fakeSettings{err: errors.New("settings store down")}
	augmenter, _ := augmenterFixture(settings, nil)

	summary := models.CartSummary{"subtotal": "$5.00", "items_qty": 2}
	augmented := augmenter.Augment(context.Background(), 1, "default", summary)

	assert.NotContains(t, augmented, "related_items")
	assert.Empty(t, cmp.Diff(summary, augmented))
}

func TestAugmentNoTriggerYieldsEmptyItems(t *testing.T) {
	settings := &fakeSettings{settings: &models.RetrievalSettings{
		Enabled: true, Title: "t", MaxTotal: 4, ContinueToNextGroup: true,
	}}
	augmenter, _ := augmenterFixture(settings, nil)

	// Cart 2 has no lines at all.
	lines := &fakeCartLines{}
	augmenter.resolver = NewTriggerResolver(lines, newFakeCatalog())

	augmented := augmenter.Augment(context.Background(), 2, "default", models.CartSummary{})
	block := augmented["related_items"].(*models.RelatedItemsBlock)

	assert.Empty(t, block.Items)
}
