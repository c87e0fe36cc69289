package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
	"github.com/Skotchmaster/storefront/pkg/response"
)

type Deps struct {
	Users   *UserHTTP
	Catalog *CatalogHTTP
	Cart    *CartHTTP
	Reviews *ReviewHTTP
	Gate    *authmw.Gate

	// Ready reports whether the backing store is reachable.
	Ready func(ctx context.Context) error
	// StaticDir holds the web client build. Unmatched GETs get its
	// index.html when set.
	StaticDir string
}

// New builds the echo instance with the middleware stack and routes.
func New(l *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.RequestID(),
		loggingmw.RequestLogger(l, "/health/live", "/health/ready"),
		middleware.Recover(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, authmw.HeaderName},
		}),
	)

	if d.StaticDir != "" {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  d.StaticDir,
			HTML5: true,
			Skipper: func(c echo.Context) bool {
				m := c.Request().Method
				return m != http.MethodGet && m != http.MethodHead
			},
		}))
	}

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return response.Error(c, http.StatusServiceUnavailable, err.Error())
			}
		}
		return c.NoContent(http.StatusOK)
	})

	auth := d.Gate.RequireAuth

	users := e.Group("/users")
	users.POST("/register", d.Users.Register)
	users.POST("/login", d.Users.Login)
	users.POST("/verifyJWT", d.Users.VerifyJWT)
	users.GET("/getUserInfo", d.Users.GetUserInfo, auth)
	users.DELETE("/delete", d.Users.Delete, auth)
	users.POST("/logout", d.Users.LogOut, auth)

	// auth goes on each route so unmatched paths under these prefixes
	// still fall through to the web client.
	products := e.Group("/products")
	products.GET("", d.Catalog.List, auth)
	products.GET("/search", d.Catalog.Search, auth)
	products.GET("/:id", d.Catalog.Get, auth)

	cart := e.Group("/cart")
	cart.POST("/add", d.Cart.Add, auth)
	cart.POST("/check", d.Cart.Check, auth)
	cart.POST("/display", d.Cart.Display, auth)
	cart.POST("/increment", d.Cart.Increment, auth)
	cart.POST("/update-quantity", d.Cart.UpdateQuantity, auth)
	cart.DELETE("/delete", d.Cart.Remove, auth)
	cart.DELETE("/deleteAll", d.Cart.Clear, auth)
	cart.POST("/pay", d.Cart.Pay, auth)

	reviews := e.Group("/reviews")
	reviews.POST("/add", d.Reviews.Add, auth)
	reviews.GET("/:id", d.Reviews.ListByProduct, auth)
	reviews.DELETE("/:id", d.Reviews.Delete, auth)
}
