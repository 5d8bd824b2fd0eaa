package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"

	"github.com/neomorfeo/tenantpos/internal/domain"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations exposes the embedded goose migrations.
func Migrations() embed.FS {
	return migrations
}

// Store bundles the SQLite-backed repositories over one connection.
type Store struct {
	db *sql.DB

	Tenants     *TenantRepository
	Principals  *PrincipalRepository
	Memberships *MembershipRepository
	Products    *ProductRepository
}

// New opens a SQLite database, runs migrations, and returns a ready store.
func New(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys (off by default in SQLite).
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return NewFromDB(db)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready store.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB) (*Store, error) {
	if err := Migrate(context.Background(), db, "up"); err != nil {
		return nil, err
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question).RunWith(db)

	return &Store{
		db:          db,
		Tenants:     &TenantRepository{sb: builder},
		Principals:  &PrincipalRepository{sb: builder},
		Memberships: &MembershipRepository{sb: builder},
		Products:    &ProductRepository{sb: builder},
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for use by other adapters (e.g., river).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate runs the goose command ("up", "down" or "status") against db.
func Migrate(ctx context.Context, db *sql.DB, command string) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, "migrations")
	case "down":
		err = goose.DownContext(ctx, db, "migrations")
	case "status":
		err = goose.StatusContext(ctx, db, "migrations")
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("running migrations %s: %w", command, err)
	}

	return nil
}

// Fixed-width so lexical order matches time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

// scoped conjoins the tenant predicate with the caller's filters. An unbound
// scope is rejected so no statement can run without it.
func scoped(scope domain.Scope, column string, preds ...sq.Sqlizer) (sq.And, error) {
	if scope.IsZero() {
		return nil, domain.ErrUnscoped
	}
	return append(sq.And{sq.Eq{column: scope.TenantID()}}, preds...), nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation checks if a SQLite error is a FOREIGN KEY constraint violation.
func isForeignKeyViolation(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
