package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/mockshop/internal/middleware"
	"github.com/Skotchmaster/mockshop/internal/service"
	"github.com/Skotchmaster/mockshop/internal/transport"
	"github.com/Skotchmaster/mockshop/pkg/logging"
)

const (
	MsgInvalidBody        = "invalid body"
	MsgUserExists         = "Username or email already exists"
	MsgInvalidCredentials = "Invalid username or password"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidBody)
	}

	_, err := h.Svc.Signup(ctx, service.SignupInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		l.Warn("signup_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusBadRequest, MsgUserExists)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: "User created successfully"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidBody)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidCredentials)
		}
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	l.Info("login_successful", "user_id", res.UserID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Token:    res.Token,
		ID:       res.UserID,
		Username: res.Username,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgTokenMissing)
	}

	if err := h.Svc.Logout(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	l.Info("successful_logout")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "logged out"})
}
