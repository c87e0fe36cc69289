package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

// Identity turns the verified token subject into the user record. Cart and
// review calls act on behalf of this user only.
type Identity struct {
	Users *service.AuthService
}

func (i *Identity) Current(c echo.Context) (*models.User, error) {
	return i.Users.CurrentUser(c.Request().Context(), authmw.UserID(c))
}

// Owner is Current plus a check that a username sent by the client names
// the same user. An empty claimed name is accepted.
func (i *Identity) Owner(c echo.Context, claimed string) (*models.User, error) {
	u, err := i.Current(c)
	if err != nil {
		return nil, err
	}
	if claimed != "" && claimed != u.Username {
		return nil, &service.Error{Kind: service.ErrForbidden, Msg: "username does not match the authenticated user"}
	}
	return u, nil
}
