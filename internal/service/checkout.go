package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type PaymentProcessor interface {
	CreateIntent(ctx context.Context, req payment.ChargeRequest) (*payment.Intent, error)
}

type CheckoutService struct {
	Repo     *repo.GormRepo
	Payments PaymentProcessor
	Currency string
	Events   events.Publisher
}

// CartTotal sums price times quantity exactly and rounds the sum once to
// cents, half away from zero.
func CartTotal(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum.Round(2)
}

// MinorUnits converts a two-decimal amount to cents.
func MinorUnits(total decimal.Decimal) int64 {
	return total.Round(2).Shift(2).IntPart()
}

// idempotencyKey is stable for an unchanged cart, so a retried checkout
// maps to the same payment intent.
func idempotencyKey(username, currency string, amount int64, items []models.CartItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s:%d:%s", it.ProductID, it.Quantity, it.Price.String()))
	}
	sort.Strings(lines)

	h := sha256.New()
	fmt.Fprintf(h, "%s\n%s\n%d\n", username, currency, amount)
	h.Write([]byte(strings.Join(lines, "\n")))
	return "checkout-" + hex.EncodeToString(h.Sum(nil))
}

// Checkout prices the user's cart on the server and opens a payment intent
// for it. The cart is left untouched; the client clears it once the
// payment is confirmed.
func (h *CheckoutService) Checkout(ctx context.Context, username string) (*payment.Intent, error) {
	l := logging.FromContext(ctx).With("svc", "checkout", "username", username)

	items, err := h.Repo.ListCart(ctx, username)
	if err != nil {
		l.Error("checkout_error", "status", 500, "reason", "cannot load cart", "error", err)
		return nil, err
	}
	if len(items) == 0 {
		return nil, newError(ErrValidation, "cart is empty")
	}

	total := CartTotal(items)
	amount := MinorUnits(total)
	key := idempotencyKey(username, h.Currency, amount, items)

	intent, err := h.Payments.CreateIntent(ctx, payment.ChargeRequest{
		Amount:         amount,
		Currency:       h.Currency,
		IdempotencyKey: key,
		Metadata: map[string]string{
			"username": username,
			"total":    total.StringFixed(2),
		},
	})
	if err != nil {
		l.Error("checkout_error", "status", 500, "reason", "payment processor", "amount", amount, "error", err)
		return nil, err
	}

	l.Info("checkout_created", "amount", amount, "currency", h.Currency, "intent", intent.ID)
	publish(ctx, h.Events, events.TopicCheckout, username, events.CheckoutCreated, map[string]any{
		"username":        username,
		"amount":          amount,
		"currency":        h.Currency,
		"paymentIntentId": intent.ID,
		"items":           len(items),
	})
	return intent, nil
}
