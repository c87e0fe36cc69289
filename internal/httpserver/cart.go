package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/response"
)

type CartHTTP struct {
	Svc      *service.CartService
	Checkout *service.CheckoutService
	ID       *Identity
}

func items(rows []models.CartItem) []models.CartItem {
	if rows == nil {
		return []models.CartItem{}
	}
	return rows
}

func (h *CartHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "add_cart_error", err)
	}
	user, err := h.ID.Owner(c, req.Username)
	if err != nil {
		return failWith(c, l, "add_cart_error", err)
	}

	item, err := h.Svc.Add(ctx, user.Username, req.ProductID, req.QuantityOr(1))
	if err != nil {
		return failWith(c, l, "add_cart_error", err)
	}
	l.Info("item added to cart", "product_id", item.ProductID, "quantity", item.Quantity)
	return response.OK(c, item)
}

func (h *CartHTTP) Check(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.check")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "check_cart_error", err)
	}
	user, err := h.ID.Owner(c, req.Username)
	if err != nil {
		return failWith(c, l, "check_cart_error", err)
	}

	rows, err := h.Svc.Check(ctx, user.Username, req.ProductID)
	if err != nil {
		return failWith(c, l, "check_cart_error", err)
	}
	return response.OK(c, items(rows))
}

func (h *CartHTTP) Display(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.display")

	var req transport.OwnerRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "display_cart_error", err)
	}
	user, err := h.ID.Owner(c, req.Username)
	if err != nil {
		return failWith(c, l, "display_cart_error", err)
	}

	rows, err := h.Svc.List(ctx, user.Username)
	if err != nil {
		return failWith(c, l, "display_cart_error", err)
	}
	return response.OK(c, items(rows))
}

func (h *CartHTTP) Increment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.increment")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "increment_cart_error", err)
	}
	user, err := h.ID.Owner(c, req.Username)
	if err != nil {
		return failWith(c, l, "increment_cart_error", err)
	}

	item, err := h.Svc.Increment(ctx, user.Username, req.ProductID)
	if err != nil {
		return failWith(c, l, "increment_cart_error", err)
	}
	return response.OK(c, item)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "update_quantity_error", err)
	}
	if req.Quantity == nil {
		l.Warn("update_quantity_error", "status", 400, "reason", "quantity missing")
		return response.Error(c, http.StatusBadRequest, "quantity is required")
	}
	user, err := h.ID.Owner(c, req.Username)
	if err != nil {
		return failWith(c, l, "update_quantity_error", err)
	}

	item, err := h.Svc.UpdateQuantity(ctx, user.Username, req.ProductID, req.Quantity.Int())
	if err != nil {
		return failWith(c, l, "update_quantity_error", err)
	}
	return response.OK(c, item)
}

func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "remove_cart_error", err)
	}
	user, err := h.ID.Owner(c, req.Username)
	if err != nil {
		return failWith(c, l, "remove_cart_error", err)
	}

	n, err := h.Svc.Remove(ctx, user.Username, req.ProductID)
	if err != nil {
		return failWith(c, l, "remove_cart_error", err)
	}
	return response.OK(c, transport.DeletedResponse{DeletedCount: n})
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	var req transport.OwnerRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "clear_cart_error", err)
	}
	user, err := h.ID.Owner(c, req.Username)
	if err != nil {
		return failWith(c, l, "clear_cart_error", err)
	}

	n, err := h.Svc.Clear(ctx, user.Username)
	if err != nil {
		return failWith(c, l, "clear_cart_error", err)
	}
	l.Info("cart cleared", "deleted", n)
	return response.OK(c, transport.DeletedResponse{DeletedCount: n})
}

// Pay answers {clientSecret} on success, outside the usual envelope.
func (h *CartHTTP) Pay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.pay")

	var req transport.OwnerRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "pay_error", err)
	}
	user, err := h.ID.Owner(c, req.Username)
	if err != nil {
		return failWith(c, l, "pay_error", err)
	}

	intent, err := h.Checkout.Checkout(ctx, user.Username)
	if err != nil {
		return failWith(c, l, "pay_error", err)
	}
	return c.JSON(http.StatusOK, transport.CheckoutResponse{ClientSecret: intent.ClientSecret})
}
