package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riversqlite"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/neomorfeo/tenantpos/internal/domain"
	"github.com/neomorfeo/tenantpos/internal/logging"
)

// QueueNotices is the queue notice jobs are inserted into.
const QueueNotices = "notices"

// Setup runs River's own migrations and returns a client with the notice
// worker registered. The caller starts and stops the client.
func Setup(ctx context.Context, db *sql.DB, notifier domain.Notifier, logger logging.LoggerInterface, maxWorkers int) (*Client, error) {
	driver := riversqlite.New(db)

	// River's tables are versioned separately from the goose migrations.
	migrator, err := rivermigrate.New(driver, nil)
	if err != nil {
		return nil, fmt.Errorf("creating river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return nil, fmt.Errorf("running river migrations: %w", err)
	}

	if maxWorkers < 1 {
		maxWorkers = 1
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewNoticeWorker(notifier, logger))

	client, err := river.NewClient(driver, &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
			QueueNotices:       {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		return nil, fmt.Errorf("creating river client: %w", err)
	}

	return client, nil
}
