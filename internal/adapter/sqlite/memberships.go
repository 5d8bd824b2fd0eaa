package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

var _ domain.MembershipRepository = (*MembershipRepository)(nil)

// MembershipRepository implements domain.MembershipRepository using SQLite.
type MembershipRepository struct {
	sb sq.StatementBuilderType
}

func (r *MembershipRepository) Create(ctx context.Context, m domain.Membership) error {
	_, err := r.sb.Insert("memberships").
		Columns("id", "principal_id", "tenant_id", "role", "created_at").
		Values(m.ID, m.PrincipalID, m.TenantID, string(m.Role), formatTime(m.CreatedAt)).
		ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.MembershipConflictError{PrincipalID: m.PrincipalID, TenantID: m.TenantID}
		}
		if isForeignKeyViolation(err) {
			return domain.ErrTenantNotFound
		}
		return fmt.Errorf("inserting membership: %w", err)
	}
	return nil
}

func (r *MembershipRepository) Delete(ctx context.Context, tenantID, principalID string) error {
	result, err := r.sb.Delete("memberships").
		Where(sq.Eq{"tenant_id": tenantID, "principal_id": principalID}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("deleting membership: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}

// ListByPrincipal orders by creation time, then by rowid for identical timestamps.
func (r *MembershipRepository) ListByPrincipal(ctx context.Context, principalID string) ([]domain.Membership, error) {
	rows, err := r.sb.Select("id", "principal_id", "tenant_id", "role", "created_at").
		From("memberships").
		Where(sq.Eq{"principal_id": principalID}).
		OrderBy("created_at", "rowid").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	defer rows.Close()

	var out []domain.Membership
	for rows.Next() {
		var m domain.Membership
		var role, createdAt string
		if err := rows.Scan(&m.ID, &m.PrincipalID, &m.TenantID, &role, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning membership: %w", err)
		}
		m.Role = domain.Role(role)
		m.CreatedAt = parseTime(createdAt)
		out = append(out, m)
	}

	return out, rows.Err()
}

func (r *MembershipRepository) ListMembers(ctx context.Context, tenantID string) ([]domain.Member, error) {
	rows, err := r.sb.Select("p.id", "p.email", "p.display_name", "p.created_at", "m.role", "m.created_at").
		From("memberships m").
		Join("principals p ON p.id = m.principal_id").
		Where(sq.Eq{"m.tenant_id": tenantID}).
		OrderBy("m.created_at", "m.rowid").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var mb domain.Member
		var role, principalCreated, joined string
		if err := rows.Scan(&mb.Principal.ID, &mb.Principal.Email, &mb.Principal.DisplayName, &principalCreated, &role, &joined); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		mb.Principal.CreatedAt = parseTime(principalCreated)
		mb.Role = domain.Role(role)
		mb.JoinedAt = parseTime(joined)
		out = append(out, mb)
	}

	return out, rows.Err()
}
