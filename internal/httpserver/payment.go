package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/mockshop/internal/payment"
	"github.com/Skotchmaster/mockshop/internal/transport"
	"github.com/Skotchmaster/mockshop/pkg/logging"
)

type PaymentHTTP struct {
	Bridge *payment.Bridge
}

func (h *PaymentHTTP) CreatePaymentIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment_intent")

	var req transport.PaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("payment_intent_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidBody)
	}

	secret, err := h.Bridge.CreatePaymentIntent(ctx, req.Items)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, payment.ErrProcessor.Error()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, transport.PaymentIntentResponse{ClientSecret: secret})
}
