package domain

import "time"

// Product is a tenant-owned catalog item looked up at the register.
type Product struct {
	ID         string
	TenantID   string
	Barcode    string
	Name       string
	PriceCents int64
	Stock      int
	CreatedAt  time.Time
}

// InStock reports whether the product can be sold.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductFilter holds optional criteria for listing products.
type ProductFilter struct {
	InStockOnly bool
	Limit       int
	Offset      int
}
