package river

import (
	"context"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/tenantpos/internal/domain"
	"github.com/neomorfeo/tenantpos/internal/logging"
)

// NoticeWorker hands queued notices to the configured notifier. A
// delivery error fails the job and River retries it.
type NoticeWorker struct {
	river.WorkerDefaults[NoticeJobArgs]

	notifier domain.Notifier
	logger   logging.LoggerInterface
}

func NewNoticeWorker(notifier domain.Notifier, logger logging.LoggerInterface) *NoticeWorker {
	return &NoticeWorker{notifier: notifier, logger: logger}
}

func (w *NoticeWorker) Work(ctx context.Context, job *river.Job[NoticeJobArgs]) error {
	notice := job.Args.notice()
	if len(notice.Recipients) == 0 {
		w.logger.Debugf("notice %s for tenant %s has no recipients, skipping", notice.Kind, notice.Tenant.ID)
		return nil
	}

	if err := w.notifier.Notify(ctx, notice); err != nil {
		w.logger.Warnf("delivering notice %s for tenant %s (job %d, attempt %d): %v",
			notice.Kind, notice.Tenant.ID, job.ID, job.Attempt, err)
		return fmt.Errorf("delivering notice: %w", err)
	}

	w.logger.Infof("delivered notice %s for tenant %s to %d recipients",
		notice.Kind, notice.Tenant.ID, len(notice.Recipients))
	return nil
}
