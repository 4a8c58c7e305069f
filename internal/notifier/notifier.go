package notifier

import (
	"context"

	"kafka-governance/internal/model"

	"go.uber.org/zap"
)

// Notifier delivers a drift report to a tenant's administrators. Outbound
// mail delivery lives outside this service; the default implementation
// records the report in the service log.
type Notifier interface {
	NotifyAdmins(ctx context.Context, tenant *model.Tenant, subject, body string) error
}

// LogNotifier writes reports to the structured log
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyAdmins(_ context.Context, tenant *model.Tenant, subject, body string) error {
	n.log.Info("admin notification",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("admin_email", tenant.AdminEmail),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
