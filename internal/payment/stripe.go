package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type ChargeRequest struct {
	// Amount is in the currency's minor unit.
	Amount         int64
	Currency       string
	IdempotencyKey string
	Metadata       map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
}

// Error carries the processor's own message so it can be passed to the
// caller verbatim.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Err }

type StripeProcessor struct {
	api *client.API
}

func NewStripe(secretKey string) *StripeProcessor {
	return NewStripeWithBackends(secretKey, nil)
}

// NewStripeWithBackends lets callers point the client at another API base.
func NewStripeWithBackends(secretKey string, backends *stripe.Backends) *StripeProcessor {
	return &StripeProcessor{api: client.New(secretKey, backends)}
}

func (s *StripeProcessor) CreateIntent(ctx context.Context, req ChargeRequest) (*Intent, error) {
	if req.Amount <= 0 {
		return nil, &Error{Msg: fmt.Sprintf("invalid amount %d", req.Amount)}
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.Msg != "" {
			return nil, &Error{Msg: se.Msg, Err: err}
		}
		return nil, &Error{Msg: err.Error(), Err: err}
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
