package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/filter"
	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/testutil"
	"github.com/Skotchmaster/catalog/internal/transport"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string    { return &v }

func newCatalog(t *testing.T) (*CatalogService, *recordingPublisher, *fakeIndex) {
	t.Helper()
	pub := &recordingPublisher{}
	ix := newFakeIndex()
	return &CatalogService{Repo: repo.New(testutil.OpenDB(t)), Events: pub, Index: ix}, pub, ix
}

func create(t *testing.T, s *CatalogService, name string, price float64) *models.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), transport.CreateProductRequest{
		Name: name, Description: name + " description", Price: fptr(price),
	})
	require.NoError(t, err)
	return p
}

func TestBuildQuery(t *testing.T) {
	q := BuildQuery(filter.Filters{
		"name":           "wid",
		"min_price":      "10",
		"max_price":      "abc",
		"sort_by":        "price",
		"sort_direction": "DESC",
	})
	assert.Equal(t, "wid", q.Name)
	require.NotNil(t, q.MinPrice)
	assert.Equal(t, 10.0, *q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Equal(t, "price", q.SortBy)
	assert.Equal(t, "desc", q.SortDirection)

	q = BuildQuery(filter.Filters{"sort_by": "foo", "sort_direction": "asc"})
	assert.Empty(t, q.SortBy)

	q = BuildQuery(filter.Filters{"sort_by": "name", "sort_direction": "sideways"})
	assert.Empty(t, q.SortBy)

	q = BuildQuery(filter.Filters{"min_price": ""})
	assert.Nil(t, q.MinPrice)
}

func TestListProducts_EmptyIsNotAnError(t *testing.T) {
	s, _, _ := newCatalog(t)

	page, err := s.ListProducts(context.Background(), filter.Filters{}, 1, 15)
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Zero(t, page.Meta.Total)
}

func TestListProducts_PriceRangeAndMeta(t *testing.T) {
	s, _, _ := newCatalog(t)
	for _, price := range []float64{5, 10, 15, 20, 25} {
		create(t, s, "item", price)
	}

	page, err := s.ListProducts(context.Background(), filter.Filters{"min_price": "10", "max_price": "20"}, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	for _, p := range page.Products {
		assert.GreaterOrEqual(t, p.Price, 10.0)
		assert.LessOrEqual(t, p.Price, 20.0)
	}
	assert.EqualValues(t, 3, page.Meta.Total)
	assert.EqualValues(t, 2, page.Meta.TotalPages)
	assert.False(t, page.Meta.HasPrev)
	assert.True(t, page.Meta.HasNext)
}

func TestListProducts_InvalidSortFallsBackToID(t *testing.T) {
	s, _, _ := newCatalog(t)
	a := create(t, s, "zeta", 3)
	b := create(t, s, "alpha", 1)

	page, err := s.ListProducts(context.Background(), filter.FromQuery(map[string][]string{"sort_by": {"foo"}}), 1, 15)
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, a.ID, page.Products[0].ID)
	assert.Equal(t, b.ID, page.Products[1].ID)
}

func TestCreateProduct_PublishesAndIndexes(t *testing.T) {
	s, pub, ix := newCatalog(t)

	p := create(t, s, "Widget", 9.99)

	got, err := s.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, 9.99, got.Price)

	require.Len(t, pub.sent, 1)
	assert.Equal(t, events.ProductTopic, pub.sent[0].topic)
	ev := pub.sent[0].event.(events.ProductEvent)
	assert.Equal(t, events.ProductCreated, ev.Type)
	assert.Equal(t, p.ID, ev.ProductID)
	assert.Equal(t, "Widget", ix.indexed[p.ID])
}

func TestCreateProduct_SideEffectFailuresDoNotFail(t *testing.T) {
	s, pub, ix := newCatalog(t)
	pub.err = assert.AnError
	ix.fail = true

	p := create(t, s, "Widget", 1)
	assert.NotZero(t, p.ID)
}

func TestCreateProduct_RejectsNegativePrice(t *testing.T) {
	s, _, _ := newCatalog(t)

	_, err := s.CreateProduct(context.Background(), transport.CreateProductRequest{Name: "x", Description: "y", Price: fptr(-1)})
	require.ErrorIs(t, err, ErrValidation)
}

func TestGetProduct_NotFound(t *testing.T) {
	s, _, _ := newCatalog(t)

	_, err := s.GetProduct(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProduct_Unchanged(t *testing.T) {
	s, pub, _ := newCatalog(t)
	ctx := context.Background()
	p := create(t, s, "Widget", 9.99)
	before := p.UpdatedAt
	pub.sent = nil

	time.Sleep(10 * time.Millisecond)
	res, err := s.UpdateProduct(ctx, p, transport.ProductUpdate{
		Name: sptr("Widget"), Description: sptr(p.Description), Price: fptr(9.99),
	})
	require.NoError(t, err)
	assert.Equal(t, Unchanged, res.Status)
	assert.Nil(t, res.Product)
	assert.Empty(t, pub.sent)

	stored, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, before, stored.UpdatedAt, time.Millisecond)
}

func TestUpdateProduct_EmptyPatchIsUnchanged(t *testing.T) {
	s, _, _ := newCatalog(t)
	p := create(t, s, "Widget", 9.99)

	res, err := s.UpdateProduct(context.Background(), p, transport.ProductUpdate{})
	require.NoError(t, err)
	assert.Equal(t, Unchanged, res.Status)
}

func TestUpdateProduct_ChangedPrice(t *testing.T) {
	s, pub, ix := newCatalog(t)
	ctx := context.Background()
	p := create(t, s, "Widget", 9.99)
	pub.sent = nil

	res, err := s.UpdateProduct(ctx, p, transport.ProductUpdate{Price: fptr(12.5)})
	require.NoError(t, err)
	assert.Equal(t, Updated, res.Status)
	assert.Equal(t, 12.5, res.Product.Price)

	stored, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.5, stored.Price)
	assert.Equal(t, "Widget", stored.Name)

	require.Len(t, pub.sent, 1)
	assert.Equal(t, events.ProductUpdated, pub.sent[0].event.(events.ProductEvent).Type)
	assert.Equal(t, "Widget", ix.indexed[p.ID])
}

func TestDeleteProduct(t *testing.T) {
	s, pub, ix := newCatalog(t)
	ctx := context.Background()
	p := create(t, s, "Widget", 1)
	pub.sent = nil

	require.NoError(t, s.DeleteProduct(ctx, p))
	_, err := s.GetProduct(ctx, p.ID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []uint{p.ID}, ix.deleted)
	require.Len(t, pub.sent, 1)
	assert.Equal(t, events.ProductDeleted, pub.sent[0].event.(events.ProductEvent).Type)

	require.ErrorIs(t, s.DeleteProduct(ctx, p), ErrNotFound)
}

func TestSearch(t *testing.T) {
	s, _, ix := newCatalog(t)
	ctx := context.Background()
	a := create(t, s, "alpha", 1)
	b := create(t, s, "beta", 2)
	ix.hits = []uint{b.ID, a.ID}

	res, err := s.Search(ctx, "a", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	require.Len(t, res.Products, 2)
	assert.Equal(t, "beta", res.Products[0].Name)

	_, err = s.Search(ctx, "  ", 1, 10)
	require.ErrorIs(t, err, ErrValidation)
}

func TestSearch_Disabled(t *testing.T) {
	s := &CatalogService{Repo: repo.New(testutil.OpenDB(t))}

	assert.False(t, s.SearchEnabled())
	_, err := s.Search(context.Background(), "a", 1, 10)
	require.ErrorIs(t, err, ErrSearchDisabled)
}
