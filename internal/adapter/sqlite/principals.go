package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

var _ domain.PrincipalRepository = (*PrincipalRepository)(nil)

// PrincipalRepository implements domain.PrincipalRepository using SQLite.
type PrincipalRepository struct {
	sb sq.StatementBuilderType
}

// Register inserts the principal when its id is unknown. A principal that
// already exists is left untouched; its profile only comes from the
// identity provider.
func (r *PrincipalRepository) Register(ctx context.Context, p domain.Principal) error {
	_, err := r.sb.Insert("principals").
		Columns("id", "email", "display_name", "created_at").
		Values(p.ID, p.Email, p.DisplayName, formatTime(p.CreatedAt)).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("registering principal: %w", err)
	}
	return nil
}

func (r *PrincipalRepository) GetByID(ctx context.Context, id string) (domain.Principal, error) {
	var p domain.Principal
	var createdAt string

	err := r.sb.Select("id", "email", "display_name", "created_at").
		From("principals").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx).
		Scan(&p.ID, &p.Email, &p.DisplayName, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Principal{}, domain.ErrPrincipalNotFound
		}
		return domain.Principal{}, fmt.Errorf("scanning principal: %w", err)
	}

	p.CreatedAt = parseTime(createdAt)
	return p, nil
}
