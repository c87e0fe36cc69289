package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/response"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.list")

	products, err := h.Svc.List(ctx)
	if err != nil {
		return failWith(c, l, "list_products_error", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return response.OK(c, products)
}

func (h *CatalogHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.get")

	product, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return failWith(c, l, "get_product_error", err)
	}
	return response.OK(c, product)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.search")

	var q transport.SearchQuery
	if err := c.Bind(&q); err != nil {
		return badBody(c, l, "search_error", err)
	}

	offset, limit := search.Page(q.Page, q.Size)
	res, err := h.Svc.Search(ctx, q.Q, offset, limit)
	if err != nil {
		return failWith(c, l, "search_error", err)
	}
	if res.Products == nil {
		res.Products = []models.Product{}
	}
	return response.OK(c, res)
}
