package otel

import (
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
}

// OpenDB opens a SQLite database with OpenTelemetry instrumentation.
// Every statement issued by the store and the job queue gets a span, and
// the pool statistics are exported as metrics.
func OpenDB(dataSourceName string) (*sql.DB, error) {
	db, err := otelsql.Open("sqlite", dataSourceName,
		otelsql.WithAttributes(semconv.DBSystemSqlite),
	)
	if err != nil {
		return nil, fmt.Errorf("opening instrumented database: %w", err)
	}

	// One connection shared by the store and River avoids SQLITE_BUSY and
	// keeps :memory: databases intact.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying %q: %w", p, err)
		}
	}

	if _, err := otelsql.RegisterDBStatsMetrics(db,
		otelsql.WithAttributes(semconv.DBSystemSqlite),
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registering db stats metrics: %w", err)
	}

	return db, nil
}
