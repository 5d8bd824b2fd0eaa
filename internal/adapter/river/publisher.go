package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

var _ domain.EventPublisher = (*Publisher)(nil)

// NoticeJobArgs is the queued form of a domain.Notice. It snapshots the
// tenant at publish time so the worker never reads the store.
type NoticeJobArgs struct {
	Notice     string   `json:"notice"`
	TenantID   string   `json:"tenant_id"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	Status     string   `json:"status"`
	Plan       string   `json:"plan"`
	Recipients []string `json:"recipients"`
	Role       string   `json:"role,omitempty"`
}

// Kind returns the job type used by River's job routing.
func (NoticeJobArgs) Kind() string { return "notice.published" }

// InsertOpts sends notices to their own queue so bulk mail can't starve
// other jobs.
func (NoticeJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: QueueNotices, MaxAttempts: 5}
}

func noticeArgs(n domain.Notice) NoticeJobArgs {
	return NoticeJobArgs{
		Notice:     string(n.Kind),
		TenantID:   n.Tenant.ID,
		Name:       n.Tenant.Name,
		Slug:       n.Tenant.Slug,
		Status:     string(n.Tenant.Status),
		Plan:       n.Tenant.Plan,
		Recipients: n.Recipients,
		Role:       string(n.Role),
	}
}

func (a NoticeJobArgs) notice() domain.Notice {
	return domain.Notice{
		Kind: domain.NoticeKind(a.Notice),
		Tenant: domain.Tenant{
			ID:     a.TenantID,
			Name:   a.Name,
			Slug:   a.Slug,
			Status: domain.Status(a.Status),
			Plan:   a.Plan,
		},
		Recipients: a.Recipients,
		Role:       domain.Role(a.Role),
	}
}

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues the notice for asynchronous delivery.
func (p *Publisher) Publish(ctx context.Context, notice domain.Notice) error {
	if _, err := p.client.Insert(ctx, noticeArgs(notice), nil); err != nil {
		return fmt.Errorf("enqueuing notice job: %w", err)
	}
	return nil
}
