package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/mockshop/internal/middleware"
	loggingmw "github.com/Skotchmaster/mockshop/pkg/middleware/logging"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CartHandler    *CartHTTP
	UsersHandler   *UsersHTTP
	PaymentHandler *PaymentHTTP
	Guard          *middleware.BearerAuth
	// Ready backs /health/ready; nil means always ready.
	Ready func(ctx context.Context) error
}

// New returns an echo instance with the shared middleware chain and every
// route registered.
func New(logger *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready").SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	e.POST("/signup", d.AuthHandler.Signup)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout, d.Guard.RequireAuth)

	api := e.Group("/api", d.Guard.RequireAuth)
	api.POST("/cart", d.CartHandler.AddToCart)
	api.GET("/cart", d.CartHandler.GetCart)
	api.DELETE("/cart", d.CartHandler.ClearCart)
	api.PUT("/cart/:productId", d.CartHandler.UpdateQuantity)
	api.DELETE("/cart/:productId", d.CartHandler.RemoveFromCart)
	api.GET("/users/:userId", d.UsersHandler.GetUser)
	api.DELETE("/users/:userId", d.UsersHandler.DeleteUser)

	e.POST("/create-payment-intent", d.PaymentHandler.CreatePaymentIntent)
}
