package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/devserver/service"
	"github.com/Skotchmaster/storefront/internal/devserver/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get("user_id").(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}
	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}
	return userID, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	userID, err := h.GetID(c)
	if err != nil {
		l.Warn("get_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, transport.CartResponse{Cart: transport.FromProducts(items)})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	return h.change(c, "add.cart", "added to cart", h.Svc.AddToCart)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	return h.change(c, "remove.cart", "removed from cart", h.Svc.RemoveFromCart)
}

func (h *CartHTTP) change(c echo.Context, name, done string, op func(ctx context.Context, userID, productID uuid.UUID) error) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	userID, err := h.GetID(c)
	if err != nil {
		l.Warn("cart_change_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_change_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		l.Warn("cart_change_error", "status", 400, "reason", "productId not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "productId required")
	}

	if err := op(ctx, userID, productID); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("cart_change_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			l.Error("cart_change_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": done})
}
