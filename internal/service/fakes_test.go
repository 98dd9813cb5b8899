package service

import (
	"context"
	"fmt"

	"crosssell-service/internal/models"
)

// In-memory collaborator fakes shared by the service tests.

type fakeCartLines struct {
	lines []models.CartLine
	calls int
}

func (f *fakeCartLines) GetCartLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	f.calls++
	return f.lines, nil
}

type fakeCatalog struct {
	products    map[int64]models.Product
	parents     map[int64]int64
	options     []models.ConfigurableOption
	parentErrOn map[int64]bool
	parentCalls int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products:    make(map[int64]models.Product),
		parents:     make(map[int64]int64),
		parentErrOn: make(map[int64]bool),
	}
}

func (f *fakeCatalog) add(p models.Product) *fakeCatalog {
	f.products[p.ID] = p
	return f
}

func (f *fakeCatalog) link(childID, parentID int64) *fakeCatalog {
	f.parents[childID] = parentID
	return f
}

func (f *fakeCatalog) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product not found: %d", id)
	}
	return &p, nil
}

func (f *fakeCatalog) GetConfigurableParent(ctx context.Context, childID int64) (*models.Product, error) {
	f.parentCalls++
	if f.parentErrOn[childID] {
		return nil, fmt.Errorf("parent lookup failed for %d", childID)
	}
	parentID, ok := f.parents[childID]
	if !ok {
		return nil, nil
	}
	return f.GetProductByID(ctx, parentID)
}

func (f *fakeCatalog) GetConfigurableOptions(ctx context.Context, productID int64) ([]models.ConfigurableOption, error) {
	var options []models.ConfigurableOption
	for _, o := range f.options {
		if o.ProductID == productID {
			options = append(options, o)
		}
	}
	return options, nil
}

type fakeGroups struct {
	groups []models.Group
	calls  int
}

func (f *fakeGroups) GetGroupByPlacementAndPosition(ctx context.Context, placement string, shift int) (*models.Group, error) {
	f.calls++
	idx := 0
	for i := range f.groups {
		if f.groups[i].Placement != placement {
			continue
		}
		if idx == shift {
			g := f.groups[i]
			return &g, nil
		}
		idx++
	}
	return nil, nil
}

// endlessGroups never exhausts its sequence, for the iteration guard.
type endlessGroups struct {
	calls int
}

func (f *endlessGroups) GetGroupByPlacementAndPosition(ctx context.Context, placement string, shift int) (*models.Group, error) {
	f.calls++
	return &models.Group{ID: int64(shift + 1), Placement: placement, Position: shift, MaxProducts: 2, Sorting: models.SortByName}, nil
}

type fakeLinks struct {
	byGroup map[int64][]models.Product
	errOn   map[int64]bool
	calls   int
}

func newFakeLinks() *fakeLinks {
	return &fakeLinks{
		byGroup: make(map[int64][]models.Product),
		errOn:   make(map[int64]bool),
	}
}

func (f *fakeLinks) GetGroupCandidates(ctx context.Context, groupID, excludeProductID int64) ([]models.Product, error) {
	f.calls++
	if f.errOn[groupID] {
		return nil, fmt.Errorf("candidate query failed for group %d", groupID)
	}
	var out []models.Product
	for _, p := range f.byGroup[groupID] {
		if p.ID == excludeProductID || p.TypeID == models.ProductTypeConfigurable {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeMetrics struct {
	scores    map[string]map[int64]float64
	available bool
	calls     int
}

func (f *fakeMetrics) GetMetricScores(ctx context.Context, metric string, productIDs []int64) (map[int64]float64, error) {
	f.calls++
	if !f.available {
		return nil, fmt.Errorf("metric %s not populated", metric)
	}
	out := make(map[int64]float64)
	for _, id := range productIDs {
		if score, ok := f.scores[metric][id]; ok {
			out[id] = score
		}
	}
	return out, nil
}

type fakeSettings struct {
	settings *models.RetrievalSettings
	err      error
}

func (f *fakeSettings) GetRetrievalSettings(ctx context.Context, storeScope string) (*models.RetrievalSettings, error) {
	return f.settings, f.err
}

func inStock(id int64, name string, price int64) models.Product {
	return models.Product{
		ID:         id,
		SKU:        fmt.Sprintf("SKU-%d", id),
		TypeID:     models.ProductTypeSimple,
		Name:       name,
		Price:      price,
		FinalPrice: price,
		InStock:    true,
	}
}

func outOfStock(id int64, name string, price int64) models.Product {
	p := inStock(id, name, price)
	p.InStock = false
	return p
}
