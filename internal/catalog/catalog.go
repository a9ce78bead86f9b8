package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// TokenSource hands out the current credential, empty when logged out.
type TokenSource interface {
	Token() string
}

// Client talks to the product endpoints. It keeps no state between calls.
type Client struct {
	API    *apiclient.Client
	Tokens TokenSource
}

func New(api *apiclient.Client, tokens TokenSource) *Client {
	return &Client{API: api, Tokens: tokens}
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.list_products")

	var products []models.Product
	if err := c.API.Do(ctx, http.MethodGet, "/products", "", nil, &products); err != nil {
		err = asServerError(err)
		l.Warn("list_products_failed", "reason", apiclient.Message(err), "error", err)
		return nil, apiclient.WithMessage(err, "Error loading products")
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, fields models.ProductFields) (*models.Product, error) {
	var out models.Product
	if err := c.credentialed(ctx, "catalog.create_product", http.MethodPost, "/products/createProduct", fields, &out); err != nil {
		return nil, apiclient.WithMessage(err, "Error creating product")
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error) {
	var out models.Product
	if err := c.credentialed(ctx, "catalog.update_product", http.MethodPut, "/products/"+url.PathEscape(id), fields, &out); err != nil {
		return nil, apiclient.WithMessage(err, "Error updating product")
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if err := c.credentialed(ctx, "catalog.delete_product", http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil); err != nil {
		return apiclient.WithMessage(err, "Error deleting product")
	}
	return nil
}

func (c *Client) credentialed(ctx context.Context, svc, method, path string, body, out any) error {
	l := logging.FromContext(ctx).With("svc", svc)

	token := c.Tokens.Token()
	if token == "" {
		l.Warn("request_skipped", "status", 401, "reason", "no token")
		return apiclient.NoCredential()
	}
	if err := c.API.Do(ctx, method, path, token, body, out); err != nil {
		l.Warn("request_failed", "reason", apiclient.Message(err), "error", err)
		return err
	}
	l.Info("request_successful")
	return nil
}

// asServerError folds every non-transport failure of the public listing into
// ErrServer, keeping the payload message.
func asServerError(err error) error {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) || apiErr.Kind == apiclient.ErrNetwork || apiErr.Kind == apiclient.ErrServer {
		return err
	}
	cp := *apiErr
	cp.Kind = apiclient.ErrServer
	cp.Message = apiErr.Detail
	return &cp
}
