package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neomorfeo/tenantpos/internal/domain"
	"github.com/neomorfeo/tenantpos/internal/logging"
)

// ProductInput describes a catalog item being added.
type ProductInput struct {
	Barcode    string
	Name       string
	PriceCents int64
	Stock      int
}

// CatalogService serves tenant-scoped product reads and writes. Store calls
// only ever receive a Scope built from the caller's resolved context.
type CatalogService struct {
	access   *AccessService
	products domain.ProductRepository
	logger   logging.LoggerInterface
}

// NewCatalogService creates a catalog service.
func NewCatalogService(access *AccessService, products domain.ProductRepository, logger logging.LoggerInterface) *CatalogService {
	return &CatalogService{access: access, products: products, logger: logger}
}

// FindByBarcode returns the caller's in-stock product with the barcode, or
// nil when there is none. Blank parameters are rejected before any store
// access. A tenant the caller does not belong to is reported as
// domain.ErrUnauthorized, never as a missing product.
func (s *CatalogService) FindByBarcode(ctx context.Context, actor domain.Principal, tenantID, barcode string) (*domain.Product, error) {
	tenantID = strings.TrimSpace(tenantID)
	barcode = strings.TrimSpace(barcode)
	if tenantID == "" {
		return nil, &domain.ValidationError{Field: "tenantId", Reason: "must not be blank"}
	}
	if barcode == "" {
		return nil, &domain.ValidationError{Field: "barcode", Reason: "must not be blank"}
	}

	access, err := s.authorize(ctx, actor, tenantID, domain.AnyOf(domain.RoleAdmin, domain.RoleCashier))
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindInStockByBarcode(ctx, access.Context.Scope(), barcode)
	if err != nil {
		return nil, fmt.Errorf("finding product: %w", err)
	}
	return product, nil
}

// List returns the caller's products.
func (s *CatalogService) List(ctx context.Context, actor domain.Principal, hint string, filter domain.ProductFilter) ([]domain.Product, error) {
	access, err := s.authorize(ctx, actor, hint, domain.AnyOf(domain.RoleAdmin, domain.RoleCashier))
	if err != nil {
		return nil, err
	}
	return s.products.List(ctx, access.Context.Scope(), filter)
}

// Create adds a product to the caller's tenant. Only admins may write.
func (s *CatalogService) Create(ctx context.Context, actor domain.Principal, hint string, in ProductInput) (domain.Product, error) {
	if strings.TrimSpace(in.Barcode) == "" {
		return domain.Product{}, &domain.ValidationError{Field: "barcode", Reason: "must not be blank"}
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.Product{}, &domain.ValidationError{Field: "name", Reason: "must not be blank"}
	}

	access, err := s.authorize(ctx, actor, hint, domain.AnyOf(domain.RoleAdmin))
	if err != nil {
		return domain.Product{}, err
	}

	id, err := generateID()
	if err != nil {
		return domain.Product{}, fmt.Errorf("generating product id: %w", err)
	}

	product := domain.Product{
		ID:         id,
		TenantID:   access.Context.TenantID,
		Barcode:    strings.TrimSpace(in.Barcode),
		Name:       in.Name,
		PriceCents: in.PriceCents,
		Stock:      in.Stock,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.products.Create(ctx, access.Context.Scope(), product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (s *CatalogService) authorize(ctx context.Context, actor domain.Principal, tenantID string, req domain.Requirement) (Access, error) {
	access, err := s.access.Authorize(ctx, actor, tenantID, req)
	if err != nil {
		if tenantID != "" && errors.Is(err, domain.ErrNoMembership) {
			return Access{}, domain.ErrUnauthorized
		}
		return Access{}, err
	}
	return access, nil
}
