package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/tenantpos/internal/app"
	"github.com/neomorfeo/tenantpos/internal/domain"
)

// ProductResponse is the API representation of a catalog item.
type ProductResponse struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenantId"`
	Barcode    string `json:"barcode"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Stock      int    `json:"stock"`
	CreatedAt  string `json:"createdAt"`
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		TenantID:   p.TenantID,
		Barcode:    p.Barcode,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
		CreatedAt:  formatTime(p.CreatedAt),
	}
}

// Both parameters are optional at the schema level so that a missing value
// gets the same 400 as a blank one.
type BarcodeInput struct {
	Auth
	Tenant  string `query:"tenantId" required:"false" doc:"Tenant the lookup is scoped to"`
	Barcode string `query:"barcode" required:"false" doc:"Scanned barcode"`
}

type BarcodeOutput struct {
	Body struct {
		Product *ProductResponse `json:"product" doc:"Matching in-stock product, or null"`
	}
}

type ListProductsInput struct {
	Auth
	InStock bool `query:"inStock" required:"false" doc:"Only products with stock"`
	Limit   int  `query:"limit" required:"false" default:"100" minimum:"1" maximum:"500"`
	Offset  int  `query:"offset" required:"false" default:"0" minimum:"0"`
}

type ListProductsOutput struct {
	Body []ProductResponse
}

type CreateProductInput struct {
	Auth
	Body struct {
		Barcode    string `json:"barcode" minLength:"1" maxLength:"64"`
		Name       string `json:"name" minLength:"1" maxLength:"255"`
		PriceCents int64  `json:"priceCents" minimum:"0"`
		Stock      int    `json:"stock" minimum:"0"`
	}
}

type ProductOutput struct {
	Body ProductResponse
}

func (h *Handler) registerCatalog(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "product-by-barcode",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/by-barcode",
		Summary:     "Look up an in-stock product by barcode",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *BarcodeInput) (*BarcodeOutput, error) {
		actor, err := h.principal(ctx, input.Auth)
		if err != nil {
			return nil, h.toHumaError(err)
		}
		product, err := h.catalog.FindByBarcode(ctx, actor, input.Tenant, input.Barcode)
		if err != nil {
			return nil, h.toHumaError(err)
		}

		out := &BarcodeOutput{}
		if product != nil {
			resp := toProductResponse(*product)
			out.Body.Product = &resp
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List the caller's products",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *ListProductsInput) (*ListProductsOutput, error) {
		actor, err := h.principal(ctx, input.Auth)
		if err != nil {
			return nil, h.toHumaError(err)
		}
		products, err := h.catalog.List(ctx, actor, input.TenantID, domain.ProductFilter{
			InStockOnly: input.InStock,
			Limit:       input.Limit,
			Offset:      input.Offset,
		})
		if err != nil {
			return nil, h.toHumaError(err)
		}

		resp := make([]ProductResponse, len(products))
		for i, p := range products {
			resp[i] = toProductResponse(p)
		}
		return &ListProductsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-product",
		Method:        http.MethodPost,
		Path:          "/api/v1/products",
		Summary:       "Add a product to the caller's catalog",
		Tags:          []string{"Catalog"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateProductInput) (*ProductOutput, error) {
		actor, err := h.principal(ctx, input.Auth)
		if err != nil {
			return nil, h.toHumaError(err)
		}
		product, err := h.catalog.Create(ctx, actor, input.TenantID, app.ProductInput{
			Barcode:    input.Body.Barcode,
			Name:       input.Body.Name,
			PriceCents: input.Body.PriceCents,
			Stock:      input.Body.Stock,
		})
		if err != nil {
			return nil, h.toHumaError(err)
		}
		return &ProductOutput{Body: toProductResponse(product)}, nil
	})
}
