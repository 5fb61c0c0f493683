package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/filter"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/transport"
	"github.com/Skotchmaster/catalog/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

// loadProduct resolves the :id path parameter. Ids that are not positive
// integers are reported as not found.
func (h *CatalogHTTP) loadProduct(c echo.Context) (*models.Product, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("product id %q: %w", c.Param("id"), service.ErrNotFound)
	}
	return h.Svc.GetProduct(c.Request().Context(), uint(id))
}

// ListProducts godoc
// @Summary  List products
// @Tags     products
// @Produce  json
// @Param    name            query string false "case-insensitive name substring"
// @Param    min_price       query number false "minimum price, inclusive"
// @Param    max_price       query number false "maximum price, inclusive"
// @Param    sort_by         query string false "name or price"
// @Param    sort_direction  query string false "asc or desc"
// @Param    page            query int    false "page number"
// @Param    size            query int    false "page size"
// @Success  200 {object} ProductListResponse
// @Failure  404 {object} MessageResponse
// @Router   /products [get]
func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	f := filter.FromQuery(c.QueryParams())
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.ListProducts(ctx, f, page, size)
	if err != nil {
		l.Error("list_products_error", "status", 500, "reason", "cannot query products", "error", err)
		return err
	}

	if len(res.Products) == 0 {
		l.Info("list_products_empty", "filters", f)
		return c.JSON(http.StatusNotFound, echo.Map{
			"message": "No products found",
			"status":  http.StatusNotFound,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"products": res.Products,
		"meta":     res.Meta,
		"status":   http.StatusOK,
	})
}

// GetProduct godoc
// @Summary  Show a product
// @Tags     products
// @Produce  json
// @Param    id  path int true "product id"
// @Success  200 {object} ProductDetailResponse
// @Failure  404 {object} MessageResponse
// @Router   /products/{id} [get]
func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "product.get")

	product, err := h.loadProduct(c)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_error", "status", 404, "reason", "product not found", "id", c.Param("id"))
		}
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"data": transport.NewProductDetailResource(product)})
}

// CreateProduct godoc
// @Summary  Create a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    body body transport.CreateProductRequest true "product"
// @Success  201 {object} ProductWriteResponse
// @Failure  422 {object} ValidationResponse
// @Failure  500 {object} FailureResponse
// @Router   /products [post]
func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 422, "reason", "invalid body", "error", err)
		return errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("product_create_error", "status", 422, "reason", "validation failed", "error", err)
		return err
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		l.Error("product_create_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError,
			failure("Product creation failed", err, http.StatusInternalServerError))
	}

	l.Info("product_create_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"product": transport.NewProductResource(product),
		"message": "Product created successfully",
		"status":  http.StatusCreated,
	})
}

// ReplaceProduct godoc
// @Summary  Replace a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    id   path int                              true "product id"
// @Param    body body transport.ReplaceProductRequest true "product"
// @Success  200 {object} ProductWriteResponse
// @Failure  404 {object} MessageResponse
// @Failure  422 {object} ValidationResponse
// @Failure  500 {object} FailureResponse
// @Router   /products/{id} [put]
func (h *CatalogHTTP) ReplaceProduct(c echo.Context) error {
	var req transport.ReplaceProductRequest
	return h.update(c, "product.replace", &req, func() transport.ProductUpdate { return req.Update() })
}

// PatchProduct godoc
// @Summary  Partially update a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    id   path int                            true "product id"
// @Param    body body transport.PatchProductRequest true "fields to change"
// @Success  200 {object} ProductWriteResponse
// @Failure  404 {object} MessageResponse
// @Failure  422 {object} ValidationResponse
// @Failure  500 {object} FailureResponse
// @Router   /products/{id} [patch]
func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	var req transport.PatchProductRequest
	return h.update(c, "product.patch", &req, func() transport.ProductUpdate { return req.Update() })
}

func (h *CatalogHTTP) update(c echo.Context, name string, req any, toUpdate func() transport.ProductUpdate) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	product, err := h.loadProduct(c)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("product_update_error", "status", 404, "reason", "product not found", "id", c.Param("id"))
		}
		return err
	}

	if err := c.Bind(req); err != nil {
		l.Warn("product_update_error", "status", 422, "reason", "invalid body", "error", err)
		return errInvalidBody
	}
	if err := c.Validate(req); err != nil {
		l.Warn("product_update_error", "status", 422, "reason", "validation failed", "error", err)
		return err
	}

	res, err := h.Svc.UpdateProduct(ctx, product, toUpdate())
	if err != nil {
		l.Error("product_update_error", "status", 500, "reason", "cannot update product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError,
			failure("Product update failed", err, http.StatusInternalServerError))
	}

	if res.Status == service.Unchanged {
		l.Info("product_update_unchanged", "product_id", product.ID)
		return c.JSON(http.StatusOK, echo.Map{
			"message": "No changes detected in the product data",
			"status":  http.StatusOK,
		})
	}

	l.Info("product_update_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"product": transport.NewProductResource(res.Product),
		"message": "Product updated successfully",
		"status":  http.StatusOK,
	})
}

// DeleteProduct godoc
// @Summary  Delete a product
// @Tags     products
// @Produce  json
// @Param    id  path int true "product id"
// @Success  200 {object} StatusMessageResponse
// @Failure  404 {object} MessageResponse
// @Failure  500 {object} FailureResponse
// @Router   /products/{id} [delete]
func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	product, err := h.loadProduct(c)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("product_delete_error", "status", 404, "reason", "product not found", "id", c.Param("id"))
		}
		return err
	}

	if err := h.Svc.DeleteProduct(ctx, product); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return err
		}
		l.Error("product_delete_error", "status", 500, "reason", "cannot delete product from db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError,
			failure("Product deletion failed", err, http.StatusInternalServerError))
	}

	l.Info("product_delete_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted successfully",
		"status":  http.StatusOK,
	})
}

// SearchProducts godoc
// @Summary  Full text product search
// @Tags     products
// @Produce  json
// @Param    q     query string true  "search text"
// @Param    page  query int    false "page number"
// @Param    size  query int    false "page size"
// @Success  200 {object} ProductSearchResponse
// @Failure  422 {object} ValidationResponse
// @Router   /products/search [get]
func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	var req transport.SearchRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_search_error", "status", 422, "reason", "invalid query", "error", err)
		return errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("product_search_error", "status", 422, "reason", "validation failed", "error", err)
		return err
	}

	res, err := h.Svc.Search(ctx, req.Query, req.Page, req.Size)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return FieldError("q", "The q field is required.")
		}
		l.Error("product_search_error", "status", 500, "reason", "search failed", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"products": res.Products,
		"total":    res.Total,
		"status":   http.StatusOK,
	})
}
