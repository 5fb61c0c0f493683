package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/filter"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/transport"
	"github.com/Skotchmaster/catalog/internal/util"
)

// ProductIndex keeps a full text index of products in sync.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Index  ProductIndex
}

type Page struct {
	Products []transport.ProductResource
	Meta     transport.PageMeta
}

type SearchResult struct {
	Products []transport.ProductResource
	Total    int64
}

type UpdateStatus int

const (
	Updated UpdateStatus = iota + 1
	Unchanged
)

// UpdateResult tells whether an update changed the product. Product is set
// only for Updated.
type UpdateResult struct {
	Status  UpdateStatus
	Product *models.Product
}

var (
	sortableColumns = map[string]bool{"name": true, "price": true}
	sortDirections  = map[string]bool{"asc": true, "desc": true}
)

// BuildQuery turns request filters into a repository query. Values that do
// not parse, and sort settings outside the allowed set, are dropped.
func BuildQuery(f filter.Filters) repo.ProductQuery {
	var q repo.ProductQuery

	if v, ok := f.Get(filter.Name); ok {
		q.Name = v
	}
	q.MinPrice = parsePrice(f, filter.MinPrice)
	q.MaxPrice = parsePrice(f, filter.MaxPrice)

	if by, ok := f.Get(filter.SortBy); ok {
		dir := strings.ToLower(f[filter.SortDirection])
		if sortableColumns[by] && sortDirections[dir] {
			q.SortBy = by
			q.SortDirection = dir
		}
	}
	return q
}

func parsePrice(f filter.Filters, key string) *float64 {
	v, ok := f.Get(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil
	}
	return &p
}

func (s *CatalogService) ListProducts(ctx context.Context, f filter.Filters, page, size int) (*Page, error) {
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	total, items, err := s.Repo.ListProducts(ctx, BuildQuery(f), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &Page{
		Products: transport.NewProductResources(items),
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: util.TotalPages(total, limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Price == nil || *req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	}

	p := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.publish(ctx, events.ProductCreated, p)
	s.index(ctx, p)
	return p, nil
}

// UpdateProduct applies the supplied fields to p. When none of them differs
// from the stored value nothing is written and Unchanged is returned.
func (s *CatalogService) UpdateProduct(ctx context.Context, p *models.Product, upd transport.ProductUpdate) (UpdateResult, error) {
	if upd.Price != nil && *upd.Price < 0 {
		return UpdateResult{}, fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	}

	changed := false
	if upd.Name != nil && *upd.Name != p.Name {
		p.Name = *upd.Name
		changed = true
	}
	if upd.Description != nil && *upd.Description != p.Description {
		p.Description = *upd.Description
		changed = true
	}
	if upd.Price != nil && *upd.Price != p.Price {
		p.Price = *upd.Price
		changed = true
	}
	if !changed {
		return UpdateResult{Status: Unchanged}, nil
	}

	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return UpdateResult{}, fmt.Errorf("update product: %w", err)
	}

	s.publish(ctx, events.ProductUpdated, p)
	s.index(ctx, p)
	return UpdateResult{Status: Updated, Product: p}, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, p *models.Product) error {
	if err := s.Repo.DeleteProduct(ctx, p.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d: %w", p.ID, ErrNotFound)
		}
		return fmt.Errorf("delete product: %w", err)
	}

	s.publish(ctx, events.ProductDeleted, p)
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, p.ID); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "op", "delete", "product_id", p.ID, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) SearchEnabled() bool {
	return s.Index != nil
}

func (s *CatalogService) Search(ctx context.Context, query string, page, size int) (*SearchResult, error) {
	if s.Index == nil {
		return nil, ErrSearchDisabled
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q is required", ErrValidation)
	}

	offset, limit := util.Calculate(page, size)
	total, ids, err := s.Index.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	items, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load search hits: %w", err)
	}

	return &SearchResult{Products: transport.NewProductResources(items), Total: total}, nil
}

func (s *CatalogService) publish(ctx context.Context, typ string, p *models.Product) {
	if s.Events == nil {
		return
	}
	ev := events.ProductEvent{
		Type:      typ,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		At:        time.Now().UTC(),
	}
	key := strconv.FormatUint(uint64(p.ID), 10)
	if err := s.Events.PublishEvent(ctx, events.ProductTopic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "type", typ, "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "op", "index", "product_id", p.ID, "error", err)
	}
}
