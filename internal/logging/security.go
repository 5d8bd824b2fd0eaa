package logging

import "go.uber.org/zap"

var _ SecurityLoggerInterface = (*SecurityLogger)(nil)

// SecurityLogger emits audit events with a stable event name.
type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) AuthnFailure(reason string) {
	s.l.Warn("authentication failed", zap.String("event", "authn_failure"), zap.String("reason", reason))
}

func (s *SecurityLogger) AuthzFailure(subject, resource string) {
	s.l.Warn("authorization denied",
		zap.String("event", "authz_failure"),
		zap.String("subject", subject),
		zap.String("resource", resource),
	)
}

func (s *SecurityLogger) TenantBlocked(subject, tenantID string) {
	s.l.Warn("tenant inactive",
		zap.String("event", "tenant_blocked"),
		zap.String("subject", subject),
		zap.String("tenant_id", tenantID),
	)
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("system startup", zap.String("event", "sys_startup"))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("system shutdown", zap.String("event", "sys_shutdown"))
}
