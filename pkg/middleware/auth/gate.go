package authmw

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/response"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	HeaderName = "auth-token"

	CtxUserID  = "user_id"
	CtxTokenID = "token_id"
	CtxClaims  = "token_claims"

	MsgNoToken      = "No authentication token was found"
	MsgInvalidToken = "Invalid authentication token"
)

type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Gate authorizes a request from the auth-token header. Every rejection
// writes its response and returns; the next handler only runs once the
// token is verified and not revoked.
type Gate struct {
	Tokens  *tokens.Service
	Revoked RevocationChecker
}

func NewGate(ts *tokens.Service, revoked RevocationChecker) *Gate {
	return &Gate{Tokens: ts, Revoked: revoked}
}

func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "auth.gate")

		raw := c.Request().Header.Get(HeaderName)
		if raw == "" {
			l.Warn("auth_rejected", "status", 401, "reason", "no token")
			return response.Error(c, http.StatusUnauthorized, MsgNoToken)
		}

		claims, err := g.Tokens.Parse(raw)
		if err != nil {
			l.Warn("auth_rejected", "status", 401, "reason", "invalid token", "error", err)
			return response.Error(c, http.StatusUnauthorized, MsgInvalidToken)
		}

		if g.Revoked != nil {
			revoked, err := g.Revoked.IsTokenRevoked(ctx, claims.ID)
			if err != nil {
				l.Error("auth_error", "status", 500, "reason", "revocation lookup failed", "error", err)
				return response.Error(c, http.StatusInternalServerError, err.Error())
			}
			if revoked {
				l.Warn("auth_rejected", "status", 401, "reason", "revoked token")
				return response.Error(c, http.StatusUnauthorized, MsgInvalidToken)
			}
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxTokenID, claims.ID)
		c.Set(CtxClaims, claims)
		return next(c)
	}
}

// Check reports whether raw is a valid, unrevoked token without touching
// the response.
func (g *Gate) Check(ctx context.Context, raw string) (bool, error) {
	claims, err := g.Tokens.Parse(raw)
	if err != nil {
		return false, nil
	}
	if g.Revoked == nil {
		return true, nil
	}
	revoked, err := g.Revoked.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return false, err
	}
	return !revoked, nil
}

func UserID(c echo.Context) string {
	s, _ := c.Get(CtxUserID).(string)
	return s
}

func Claims(c echo.Context) *tokens.Claims {
	cl, _ := c.Get(CtxClaims).(*tokens.Claims)
	return cl
}
