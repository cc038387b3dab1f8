package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/repositories"
	"github.com/ida-management/backoffice/internal/search"
)

// ProductServiceDeps bundles collaborators for the product service.
type ProductServiceDeps struct {
	Products    repositories.ProductRepository
	Clock       func() time.Time
	IDGenerator func() string
	Logger      *zap.Logger
}

type productService struct {
	products repositories.ProductRepository
	clock    func() time.Time
	newID    func() string
	logger   *zap.Logger
}

// NewProductService wires dependencies into a concrete ProductService.
func NewProductService(deps ProductServiceDeps) (ProductService, error) {
	if deps.Products == nil {
		return nil, errors.New("product service: product repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &productService{
		products: deps.Products,
		clock:    func() time.Time { return clock().UTC() },
		newID:    idGen,
		logger:   logger,
	}, nil
}

func (s *productService) ListProducts(ctx context.Context, term string) ([]*domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return search.Filter(products, term,
		func(p *domain.Product) string { return p.SKU },
		func(p *domain.Product) string { return p.Name },
	), nil
}

func (s *productService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, cmd UpsertProductCommand) (*domain.Product, error) {
	if err := validateProductCommand(cmd); err != nil {
		return nil, err
	}

	now := s.clock()
	product := &domain.Product{
		ID:         "prod-" + strings.ToLower(s.newID()),
		SKU:        strings.ToUpper(strings.TrimSpace(cmd.SKU)),
		Name:       strings.TrimSpace(cmd.Name),
		Type:       cmd.Type,
		PriceMinor: cmd.PriceMinor,
		Currency:   strings.ToUpper(strings.TrimSpace(cmd.Currency)),
		Active:     cmd.Active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.products.Insert(ctx, product); err != nil {
		return nil, mapRepositoryError(err)
	}
	s.logger.Info("product created", zap.String("product_id", product.ID), zap.String("sku", product.SKU))
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID string, cmd UpsertProductCommand) (*domain.Product, error) {
	if err := validateProductCommand(cmd); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.SKU = strings.ToUpper(strings.TrimSpace(cmd.SKU))
	product.Name = strings.TrimSpace(cmd.Name)
	product.Type = cmd.Type
	product.PriceMinor = cmd.PriceMinor
	product.Currency = strings.ToUpper(strings.TrimSpace(cmd.Currency))
	product.Active = cmd.Active
	product.UpdatedAt = s.clock()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, mapRepositoryError(err)
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if err := s.products.Delete(ctx, productID); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

func validateProductCommand(cmd UpsertProductCommand) error {
	if strings.TrimSpace(cmd.SKU) == "" {
		return fmt.Errorf("%w: product sku is required", ErrInvalidInput)
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	switch cmd.Type {
	case domain.ProductTypeDigital, domain.ProductTypePrintAndDigital:
	default:
		return fmt.Errorf("%w: unknown product type %q", ErrInvalidInput, cmd.Type)
	}
	if cmd.PriceMinor < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	if strings.TrimSpace(cmd.Currency) == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidInput)
	}
	return nil
}
