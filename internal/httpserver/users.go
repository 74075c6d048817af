package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/mockshop/internal/service"
	"github.com/Skotchmaster/mockshop/internal/transport"
	"github.com/Skotchmaster/mockshop/pkg/logging"
)

type UsersHTTP struct {
	Svc *service.UserService
}

func (h *UsersHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()

	view, err := h.Svc.Get(ctx, c.Param("userId"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		logging.FromContext(ctx).Error("get_user_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	return c.JSON(http.StatusOK, transport.UserResponse{
		ID:       view.User.ID,
		Username: view.User.Username,
		Email:    view.User.Email,
		Name:     view.User.Name,
		Cart:     view.Cart,
	})
}

func (h *UsersHTTP) DeleteUser(c echo.Context) error {
	if err := h.Svc.Delete(c.Request().Context(), c.Param("userId")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}
