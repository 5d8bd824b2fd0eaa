// Package mail delivers tenant notices by email.
package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/neomorfeo/tenantpos/internal/domain"
	"github.com/neomorfeo/tenantpos/internal/logging"
)

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends one message per notice to all its recipients.
type SMTPNotifier struct {
	cfg Config
}

var _ domain.Notifier = (*SMTPNotifier)(nil)

func NewSMTPNotifier(cfg Config) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) Notify(ctx context.Context, notice domain.Notice) error {
	msg, err := n.compose(notice)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(n.cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(n.cfg.Username),
			gomail.WithPassword(n.cfg.Password),
		)
	}

	client, err := gomail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) compose(notice domain.Notice) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat("TenantPOS", n.cfg.From); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(notice.Recipients...); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	subject, body := render(notice)
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}

func render(n domain.Notice) (subject, body string) {
	name := n.Tenant.Name
	switch n.Kind {
	case domain.NoticeTenantCreated:
		subject = fmt.Sprintf("%s is ready", name)
		body = fmt.Sprintf("The tenant %s (%s) has been created on the %s plan.", name, n.Tenant.Slug, n.Tenant.Plan)
	case domain.NoticeTenantActivated:
		subject = fmt.Sprintf("%s has been reactivated", name)
		body = fmt.Sprintf("Access to %s has been restored. Cashiers and admins can sign in again.", name)
	case domain.NoticeTenantDeactivated:
		subject = fmt.Sprintf("%s has been suspended", name)
		body = fmt.Sprintf("Access to %s is suspended. Requests from its members are refused until it is reactivated.", name)
	case domain.NoticeMemberAdded:
		subject = fmt.Sprintf("You have been added to %s", name)
		body = fmt.Sprintf("You now have the %s role in %s.", n.Role, name)
	default:
		subject = fmt.Sprintf("Update for %s", name)
		body = string(n.Kind)
	}
	return subject, body + "\n"
}

// LogNotifier writes notices to the log instead of sending them. It is
// used when no SMTP host is configured.
type LogNotifier struct {
	logger logging.LoggerInterface
}

var _ domain.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger logging.LoggerInterface) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, notice domain.Notice) error {
	subject, _ := render(notice)
	n.logger.Infof("notice %s for tenant %s to %s: %s",
		notice.Kind, notice.Tenant.ID, strings.Join(notice.Recipients, ", "), subject)
	return nil
}
