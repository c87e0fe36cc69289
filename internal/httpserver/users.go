package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/response"
)

type UserHTTP struct {
	Svc  *service.AuthService
	Gate *authmw.Gate
	ID   *Identity
}

func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.register")

	var req transport.Credentials
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "register_error", err)
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		return failWith(c, l, "register_error", err)
	}

	l.Info("user_registered", "user_id", user.ID)
	return response.Created(c, fmt.Sprintf("User %s has been created", user.Username), user)
}

func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.login")

	var req transport.Credentials
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return failWith(c, l, "login_error", err)
	}

	l.Info("login_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Token:    res.Token,
		ID:       res.User.ID.String(),
		Username: res.User.Username,
	})
}

// VerifyJWT answers {status} for the token in the auth-token header. A
// missing or bad token is status false, not an error.
func (h *UserHTTP) VerifyJWT(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.verify")

	raw := c.Request().Header.Get(authmw.HeaderName)
	if raw == "" {
		return c.JSON(http.StatusOK, transport.VerifyResponse{Status: false})
	}

	ok, err := h.Gate.Check(ctx, raw)
	if err != nil {
		l.Error("verify_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": false, "error": err.Error()})
	}
	return c.JSON(http.StatusOK, transport.VerifyResponse{Status: ok})
}

func (h *UserHTTP) GetUserInfo(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "users.info")

	user, err := h.ID.Current(c)
	if err != nil {
		return failWith(c, l, "user_info_error", err)
	}
	return response.OK(c, []models.User{*user})
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.delete")

	user, err := h.Svc.DeleteUser(ctx, authmw.UserID(c))
	if err != nil {
		return failWith(c, l, "delete_user_error", err)
	}
	if user != nil {
		l.Info("user_deleted", "user_id", user.ID)
	}
	return response.OK(c, user)
}

func (h *UserHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.logout")

	if err := h.Svc.LogOut(ctx, authmw.Claims(c)); err != nil {
		return failWith(c, l, "logout_error", err)
	}
	l.Info("logout_successful", "user_id", authmw.UserID(c))
	return c.JSON(http.StatusOK, response.Envelope{Success: true, Message: "logged out"})
}
