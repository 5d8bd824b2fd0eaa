package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

var _ domain.TenantRepository = (*TenantRepository)(nil)

var tenantColumns = []string{"id", "name", "slug", "status", "plan", "created_at", "updated_at"}

// TenantRepository implements domain.TenantRepository using SQLite.
type TenantRepository struct {
	sb sq.StatementBuilderType
}

func (r *TenantRepository) Create(ctx context.Context, t domain.Tenant) error {
	_, err := r.sb.Insert("tenants").
		Columns(tenantColumns...).
		Values(t.ID, t.Name, t.Slug, string(t.Status), t.Plan, formatTime(t.CreatedAt), formatTime(t.UpdatedAt)).
		ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.SlugConflictError{Slug: t.Slug}
		}
		return fmt.Errorf("inserting tenant: %w", err)
	}
	return nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (domain.Tenant, error) {
	return scanTenant(r.sb.Select(tenantColumns...).
		From("tenants").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx))
}

func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (domain.Tenant, error) {
	return scanTenant(r.sb.Select(tenantColumns...).
		From("tenants").
		Where(sq.Eq{"slug": slug}).
		QueryRowContext(ctx))
}

func (r *TenantRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Tenant, error) {
	query := r.sb.Select(tenantColumns...).
		From("tenants").
		OrderBy("created_at DESC")

	if filter.Status != nil {
		query = query.Where(sq.Eq{"status": string(*filter.Status)})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			// SQLite only accepts OFFSET after LIMIT.
			query = query.Limit(uint64(1<<63 - 1))
		}
		query = query.Offset(uint64(filter.Offset))
	}

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}

	return tenants, rows.Err()
}

func (r *TenantRepository) Update(ctx context.Context, t domain.Tenant) error {
	result, err := r.sb.Update("tenants").
		SetMap(map[string]any{
			"name":       t.Name,
			"slug":       t.Slug,
			"status":     string(t.Status),
			"plan":       t.Plan,
			"updated_at": formatTime(time.Now()),
		}).
		Where(sq.Eq{"id": t.ID}).
		ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.SlugConflictError{Slug: t.Slug}
		}
		return fmt.Errorf("updating tenant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrTenantNotFound
	}

	return nil
}

// scanTenant scans one tenant from a *sql.Row or *sql.Rows.
func scanTenant(row sq.RowScanner) (domain.Tenant, error) {
	var t domain.Tenant
	var status, createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.Name, &t.Slug, &status, &t.Plan, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Tenant{}, domain.ErrTenantNotFound
		}
		return domain.Tenant{}, fmt.Errorf("scanning tenant: %w", err)
	}

	t.Status = domain.Status(status)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)

	return t, nil
}
