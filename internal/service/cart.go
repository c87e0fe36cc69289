package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	MinQuantity = 1
	MaxQuantity = 99
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func parseProductID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, newError(ErrValidation, "invalid product id")
	}
	return id, nil
}

func validateQuantity(q int) error {
	if q < MinQuantity || q > MaxQuantity {
		return newError(ErrValidation, "quantity must be an integer between %d and %d", MinQuantity, MaxQuantity)
	}
	return nil
}

// Add puts quantity units of a product in the user's cart. Name, image
// and price are copied from the catalog at this moment. Adding a product
// that is already in the cart raises its quantity, capped at MaxQuantity.
func (h *CartService) Add(ctx context.Context, username, rawProductID string, quantity int) (*models.CartItem, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add")

	productID, err := parseProductID(rawProductID)
	if err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	product, err := h.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "product not found")
		}
		return nil, err
	}

	item, err := h.Repo.AddCartItem(ctx, &models.CartItem{
		Username:  username,
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.Image,
		Price:     product.Price,
		Quantity:  quantity,
	}, MaxQuantity)
	if err != nil {
		l.Error("add_cart_error", "status", 500, "error", err)
		return nil, err
	}
	return item, nil
}

func (h *CartService) Check(ctx context.Context, username, rawProductID string) ([]models.CartItem, error) {
	productID, err := parseProductID(rawProductID)
	if err != nil {
		return nil, err
	}
	return h.Repo.FindCartItem(ctx, username, productID)
}

func (h *CartService) List(ctx context.Context, username string) ([]models.CartItem, error) {
	return h.Repo.ListCart(ctx, username)
}

// Increment returns nil without error when the product is not in the cart.
func (h *CartService) Increment(ctx context.Context, username, rawProductID string) (*models.CartItem, error) {
	productID, err := parseProductID(rawProductID)
	if err != nil {
		return nil, err
	}
	item, err := h.Repo.IncrementCartItem(ctx, username, productID, MaxQuantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

// UpdateQuantity returns nil without error when the product is not in the
// cart.
func (h *CartService) UpdateQuantity(ctx context.Context, username, rawProductID string, quantity int) (*models.CartItem, error) {
	productID, err := parseProductID(rawProductID)
	if err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	item, err := h.Repo.SetCartItemQuantity(ctx, username, productID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func (h *CartService) Remove(ctx context.Context, username, rawProductID string) (int64, error) {
	productID, err := parseProductID(rawProductID)
	if err != nil {
		return 0, err
	}
	return h.Repo.DeleteCartItem(ctx, username, productID)
}

func (h *CartService) Clear(ctx context.Context, username string) (int64, error) {
	n, err := h.Repo.ClearCart(ctx, username)
	if err != nil {
		return 0, err
	}
	publish(ctx, h.Events, events.TopicCart, username, events.CartCleared, map[string]any{
		"username":     username,
		"deletedCount": n,
	})
	return n, nil
}
