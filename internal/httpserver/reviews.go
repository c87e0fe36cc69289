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

type ReviewHTTP struct {
	Svc *service.ReviewService
	ID  *Identity
}

func (h *ReviewHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews.add")

	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "add_review_error", err)
	}
	if req.Stars == nil {
		l.Warn("add_review_error", "status", 400, "reason", "stars missing")
		return response.Error(c, http.StatusBadRequest, "stars is required")
	}
	user, err := h.ID.Owner(c, req.Username)
	if err != nil {
		return failWith(c, l, "add_review_error", err)
	}

	review, err := h.Svc.Add(ctx, user.Username, service.NewReview{
		ProductID:   req.ProductID,
		Stars:       float64(*req.Stars),
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		return failWith(c, l, "add_review_error", err)
	}
	return response.OK(c, review)
}

func (h *ReviewHTTP) ListByProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews.list")

	reviews, err := h.Svc.ListByProduct(ctx, c.Param("id"))
	if err != nil {
		return failWith(c, l, "list_reviews_error", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return response.OK(c, reviews)
}

func (h *ReviewHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews.delete")

	user, err := h.ID.Current(c)
	if err != nil {
		return failWith(c, l, "delete_review_error", err)
	}

	review, err := h.Svc.Delete(ctx, user.Username, c.Param("id"))
	if err != nil {
		return failWith(c, l, "delete_review_error", err)
	}
	return response.OK(c, review)
}
