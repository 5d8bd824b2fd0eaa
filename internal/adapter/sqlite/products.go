package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

var _ domain.ProductRepository = (*ProductRepository)(nil)

var productColumns = []string{"id", "tenant_id", "barcode", "name", "price_cents", "stock", "created_at"}

// ProductRepository implements domain.ProductRepository using SQLite.
// Every statement goes through scoped, so none can run without a tenant.
type ProductRepository struct {
	sb sq.StatementBuilderType
}

// Create stores the product under the scope's tenant, whatever TenantID it carries.
func (r *ProductRepository) Create(ctx context.Context, scope domain.Scope, p domain.Product) error {
	if scope.IsZero() {
		return domain.ErrUnscoped
	}

	_, err := r.sb.Insert("products").
		Columns(productColumns...).
		Values(p.ID, scope.TenantID(), p.Barcode, p.Name, p.PriceCents, p.Stock, formatTime(p.CreatedAt)).
		ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.BarcodeConflictError{Barcode: p.Barcode}
		}
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

func (r *ProductRepository) FindInStockByBarcode(ctx context.Context, scope domain.Scope, barcode string) (*domain.Product, error) {
	where, err := scoped(scope, "tenant_id", sq.Eq{"barcode": barcode}, sq.Gt{"stock": 0})
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(r.sb.Select(productColumns...).
		From("products").
		Where(where).
		Limit(1).
		QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, scope domain.Scope, filter domain.ProductFilter) ([]domain.Product, error) {
	var preds []sq.Sqlizer
	if filter.InStockOnly {
		preds = append(preds, sq.Gt{"stock": 0})
	}
	where, err := scoped(scope, "tenant_id", preds...)
	if err != nil {
		return nil, err
	}

	query := r.sb.Select(productColumns...).
		From("products").
		Where(where).
		OrderBy("name", "barcode")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit)).Offset(uint64(max(filter.Offset, 0)))
	}

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

// scanProduct returns sql.ErrNoRows unwrapped so callers can treat absence as empty.
func scanProduct(row sq.RowScanner) (domain.Product, error) {
	var p domain.Product
	var createdAt string

	if err := row.Scan(&p.ID, &p.TenantID, &p.Barcode, &p.Name, &p.PriceCents, &p.Stock, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, err
		}
		return domain.Product{}, fmt.Errorf("scanning product: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}
