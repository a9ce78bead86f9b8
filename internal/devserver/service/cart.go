package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/devserver/events"
	"github.com/Skotchmaster/storefront/internal/devserver/models"
	"github.com/Skotchmaster/storefront/internal/devserver/repo"
	"github.com/google/uuid"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (h *CartService) GetCart(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	return h.Repo.GetCart(ctx, userID)
}

func (h *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return fmt.Errorf("productId must be not nil: %w", ErrValidation)
	}
	if _, err := h.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return err
	}

	added, err := h.Repo.AddToCart(ctx, userID, productID)
	if err != nil {
		return err
	}
	if added {
		publish(ctx, h.Events, events.TopicCart, userID.String(), events.CartEvent{
			Type: "cart_item_added", UserID: userID.String(), ProductID: productID.String(),
		})
	}
	return nil
}

func (h *CartService) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return fmt.Errorf("productId must be not nil: %w", ErrValidation)
	}
	if err := h.Repo.RemoveFromCart(ctx, userID, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("product not in cart: %w", ErrNotFound)
		}
		return err
	}

	publish(ctx, h.Events, events.TopicCart, userID.String(), events.CartEvent{
		Type: "cart_item_removed", UserID: userID.String(), ProductID: productID.String(),
	})
	return nil
}
