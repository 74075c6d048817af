package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/mockshop/internal/middleware"
	"github.com/Skotchmaster/mockshop/internal/service"
	"github.com/Skotchmaster/mockshop/internal/transport"
	"github.com/Skotchmaster/mockshop/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func userID(c echo.Context) (string, error) {
	id, ok := c.Get(middleware.ContextUserIDKey).(string)
	if !ok || id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgTokenMissing)
	}
	return id, nil
}

func productIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "productId must be an integer")
	}
	return id, nil
}

func cartError(err error) error {
	if errors.Is(err, service.ErrValidation) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidBody)
	}

	entries, err := h.Svc.AddItem(ctx, uid, service.AddItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Title:     req.Title,
		Price:     req.Price,
		Image:     req.Image,
	})
	if err != nil {
		l.Warn("add_to_cart_error", "error", err)
		return cartError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	uid, err := userID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.GetCart(ctx, uid)
	if err != nil {
		logging.FromContext(ctx).Error("get_cart_error", "status", 500, "error", err)
		return cartError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidBody)
	}

	items, err := h.Svc.UpdateQuantity(ctx, uid, productID, req.Quantity)
	if err != nil {
		return cartError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	uid, err := userID(c)
	if err != nil {
		return err
	}
	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.RemoveItem(ctx, uid, productID)
	if err != nil {
		return cartError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	uid, err := userID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.ClearCart(ctx, uid); err != nil {
		return cartError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
