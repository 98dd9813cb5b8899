package widget

import (
	"context"
	"testing"
	"time"

	"crosssell-service/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCarousel struct {
	inits     int
	destroys  int
	refreshes int
	current   []models.RelatedItem
}

func (f *fakeCarousel) Init(items []models.RelatedItem) {
	f.inits++
	f.current = items
}

func (f *fakeCarousel) Destroy() {
	f.destroys++
	f.current = nil
}

func (f *fakeCarousel) Refresh() {
	f.refreshes++
}

func block(names ...string) models.RelatedItemsBlock {
	items := make([]models.RelatedItem, len(names))
	for i, name := range names {
		items[i] = models.RelatedItem{Name: name, Price: "$1.00"}
	}
	return models.RelatedItemsBlock{Items: items, Title: "t", MaxProduct: 4}
}

func TestApplyRendersFirstPayload(t *testing.T) {
	carousel := &fakeCarousel{}
	w := New(carousel)

	w.Apply(block("a", "b"))

	assert.Equal(t, 1, carousel.inits)
	assert.Equal(t, 1, carousel.destroys, "reset precedes every rebuild")
	assert.Len(t, w.Rendered(), 2)
}

func TestApplyIdenticalPayloadIsNoOp(t *testing.T) {
	carousel := &fakeCarousel{}
	w := New(carousel)

	w.Apply(block("a", "b"))
	w.Apply(block("a", "b"))

	assert.Equal(t, 1, carousel.inits, "identical payload must not reinit the carousel")
	assert.Equal(t, 1, carousel.destroys)
}

func TestApplyEmptyPayloadKeepsBaseline(t *testing.T) {
	carousel := &fakeCarousel{}
	w := New(carousel)

	w.Apply(block("a", "b"))
	w.Apply(block())

	assert.Empty(t, cmp.Diff(block("a", "b").Items, w.Rendered()))
	assert.Equal(t, 1, carousel.inits)
	assert.Equal(t, 1, carousel.destroys)
}

func TestApplyChangedPayloadResetsCarousel(t *testing.T) {
	carousel := &fakeCarousel{}
	w := New(carousel)

	w.Apply(block("a", "b"))
	w.Apply(block("c"))

	assert.Equal(t, 2, carousel.inits)
	assert.Equal(t, 2, carousel.destroys)
	assert.Empty(t, cmp.Diff(block("c").Items, w.Rendered()))
}

func TestApplyOrderChangeIsARealChange(t *testing.T) {
	carousel := &fakeCarousel{}
	w := New(carousel)

	w.Apply(block("a", "b"))
	w.Apply(block("b", "a"))

	assert.Equal(t, 2, carousel.inits, "diff is order-sensitive")
}

func TestApplyEmptyOnEmptyStaysEmpty(t *testing.T) {
	carousel := &fakeCarousel{}
	w := New(carousel)

	w.Apply(block())

	assert.Equal(t, 0, carousel.inits)
	assert.Equal(t, 0, carousel.destroys)
	assert.Empty(t, w.Rendered())
}

func TestRefreshDelegatesToCarousel(t *testing.T) {
	carousel := &fakeCarousel{}
	w := New(carousel)

	w.Refresh()
	w.Refresh()

	assert.Equal(t, 2, carousel.refreshes)
}

func TestRunProcessesUpdatesInOrder(t *testing.T) {
	carousel := &fakeCarousel{}
	w := New(carousel)

	updates := make(chan models.RelatedItemsBlock, 3)
	updates <- block("a")
	updates <- block("a")
	updates <- block("b")
	close(updates)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx, updates)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("widget loop did not drain the update stream")
	}

	require.Equal(t, 2, carousel.inits)
	assert.Empty(t, cmp.Diff(block("b").Items, w.Rendered()))
}
