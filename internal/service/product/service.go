package product

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/internal/repository"
	apperrors "github.com/tacmedikal/fieldtrack-api/pkg/errors"
)

// Service manages the product catalog. Reads are open to every user; writes
// are admin only.
type Service struct {
	products repository.ProductRepository
}

func NewService(products repository.ProductRepository) *Service {
	return &Service{products: products}
}

func (s *Service) Create(ctx context.Context, sess *model.Session, req *model.CreateProductRequest) (*model.Product, error) {
	if !sess.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}

	now := time.Now()
	product := &model.Product{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Active:      true,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("product", err)
	}
	return product, nil
}

func (s *Service) Update(ctx context.Context, sess *model.Session, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	if !sess.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}

	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("product", err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *Service) Delete(ctx context.Context, sess *model.Session, id uuid.UUID) error {
	if !sess.IsAdmin() {
		return apperrors.Forbidden("admin access required", nil)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// List returns catalog items. Non-admins only see active products.
func (s *Service) List(ctx context.Context, sess *model.Session, category string) ([]*model.Product, error) {
	products, err := s.products.List(ctx, category, !sess.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
