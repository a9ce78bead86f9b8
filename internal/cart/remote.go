package cart

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

// Remote is the server-side cart. It only tracks membership; quantities never
// leave the client.
type Remote interface {
	GetCart(ctx context.Context, token string) ([]models.Product, error)
	AddToCart(ctx context.Context, token, productID string) error
	RemoveFromCart(ctx context.Context, token, productID string) error
}

type HTTPRemote struct {
	API *apiclient.Client
}

type cartResponse struct {
	Cart []models.Product `json:"cart"`
}

type productRequest struct {
	ProductID string `json:"productId"`
}

func (r *HTTPRemote) GetCart(ctx context.Context, token string) ([]models.Product, error) {
	var resp cartResponse
	if err := r.API.Do(ctx, http.MethodGet, "/cart", token, nil, &resp); err != nil {
		return nil, apiclient.WithMessage(err, "Error loading cart")
	}
	return resp.Cart, nil
}

func (r *HTTPRemote) AddToCart(ctx context.Context, token, productID string) error {
	if err := r.API.Do(ctx, http.MethodPost, "/cart/add", token, productRequest{ProductID: productID}, nil); err != nil {
		return apiclient.WithMessage(err, "Error adding to cart")
	}
	return nil
}

func (r *HTTPRemote) RemoveFromCart(ctx context.Context, token, productID string) error {
	if err := r.API.Do(ctx, http.MethodPost, "/cart/remove", token, productRequest{ProductID: productID}, nil); err != nil {
		return apiclient.WithMessage(err, "Error removing from cart")
	}
	return nil
}
