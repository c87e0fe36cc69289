package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	ID       string `json:"id"`
	Username string `json:"username"`
}

type VerifyResponse struct {
	Status bool `json:"status"`
}

// CartRequest is the body of every /cart call. Username is optional and,
// when present, must be the authenticated user.
type CartRequest struct {
	Username  string    `json:"username"`
	ProductID string    `json:"productId"`
	Quantity  *Quantity `json:"quantity"`
}

// QuantityOr returns the requested quantity or def when none was sent.
func (r CartRequest) QuantityOr(def int) int {
	if r.Quantity == nil {
		return def
	}
	return r.Quantity.Int()
}

type OwnerRequest struct {
	Username string `json:"username"`
}

type ReviewRequest struct {
	Username    string  `json:"username"`
	ProductID   string  `json:"productId"`
	Stars       *Number `json:"stars"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

type CheckoutResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type DeletedResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

type SearchQuery struct {
	Q    string `query:"q"`
	Page int    `query:"page"`
	Size int    `query:"size"`
}

// Number accepts a JSON number or a string holding one. Form controls in
// the web client send their values as strings.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%q is not a number", string(b))
	}
	*n = Number(f)
	return nil
}

// Quantity is any Number. Whether it is a usable cart quantity is left
// to the cart rules, so a fraction gets the same answer as a zero.
type Quantity Number

func (q *Quantity) UnmarshalJSON(b []byte) error {
	var n Number
	if err := n.UnmarshalJSON(b); err != nil {
		return err
	}
	*q = Quantity(n)
	return nil
}

// Int returns the whole quantity, or 0 for a fraction or a value out of
// int32 range.
func (q Quantity) Int() int {
	f := float64(q)
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(f)
}
