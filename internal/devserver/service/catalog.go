package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Skotchmaster/storefront/internal/devserver/events"
	"github.com/Skotchmaster/storefront/internal/devserver/models"
	"github.com/Skotchmaster/storefront/internal/devserver/repo"
	"github.com/Skotchmaster/storefront/internal/devserver/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/google/uuid"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func validateProduct(req transport.ProductRequest) (transport.ProductRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" {
		return req, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if req.Description == "" {
		return req, fmt.Errorf("description is required: %w", ErrValidation)
	}
	if req.Price == nil {
		return req, fmt.Errorf("price is required: %w", ErrValidation)
	}
	if *req.Price < 0 || math.IsNaN(*req.Price) || math.IsInf(*req.Price, 0) {
		return req, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	return req, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest, createdBy string) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	req, err := validateProduct(req)
	if err != nil {
		return nil, err
	}
	prod := models.Product{
		Name:           req.Name,
		Description:    req.Description,
		Price:          *req.Price,
		CreatedByEmail: createdBy,
	}
	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		l.Error("create_product_failed", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicProducts, prod.ID.String(), events.ProductEvent{
		Type: "product_created", ProductID: prod.ID.String(), Name: prod.Name, Price: prod.Price, By: createdBy,
	})
	return &prod, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.ProductRequest, by string) (*models.Product, error) {
	req, err := validateProduct(req)
	if err != nil {
		return nil, err
	}
	prod, err := s.Repo.UpdateProduct(ctx, id, req.Name, req.Description, *req.Price)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicProducts, prod.ID.String(), events.ProductEvent{
		Type: "product_updated", ProductID: prod.ID.String(), Name: prod.Name, Price: prod.Price, By: by,
	})
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID, by string) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return err
	}

	publish(ctx, s.Events, events.TopicProducts, id.String(), events.ProductEvent{
		Type: "product_deleted", ProductID: id.String(), By: by,
	})
	return nil
}
