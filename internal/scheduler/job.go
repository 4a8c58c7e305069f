package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kafka-governance/internal/model"
	"kafka-governance/internal/notifier"
	"kafka-governance/prometheus"

	"go.uber.org/zap"
)

// ConfigStore is the slice of the system-of-record the job needs
type ConfigStore interface {
	Tenants() ([]model.Tenant, error)
	EnvironmentsForTenant(tenantID uint) ([]model.Environment, error)
}

// Reconciler runs a reconciliation-mode diff for one environment
type Reconciler interface {
	ReconTopicsScheduled(tenantID, environmentID uint) ([]model.DiffEntry, error)
}

// Job is the scheduled drift-notification loop: per tenant, per online
// environment, it runs the engine in reconciliation mode and mails the
// tenant's administrators one report when drift was found.
type Job struct {
	store    ConfigStore
	recon    Reconciler
	notifier notifier.Notifier
	locker   Locker
	interval time.Duration
	log      *zap.Logger
}

func NewJob(store ConfigStore, recon Reconciler, notify notifier.Notifier, locker Locker, interval time.Duration, log *zap.Logger) *Job {
	return &Job{
		store:    store,
		recon:    recon,
		notifier: notify,
		locker:   locker,
		interval: interval,
		log:      log,
	}
}

// Run executes the job every interval until the context is cancelled
func (j *Job) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.log.Info("drift notification scheduler started", zap.Duration("interval", j.interval))
	for {
		select {
		case <-ctx.Done():
			j.log.Info("drift notification scheduler stopped")
			return
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil {
				j.log.Error("scheduled reconciliation run failed", zap.Error(err))
			}
		}
	}
}

// RunOnce executes one run under the cross-instance lock. When another
// instance holds the lock the run is skipped, not queued.
func (j *Job) RunOnce(ctx context.Context) error {
	release, acquired, err := j.locker.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire scheduler lock: %w", err)
	}
	if !acquired {
		j.log.Info("scheduled run skipped, lock held by another instance")
		prometheus.RecordScheduledRunSkipped()
		return nil
	}
	defer release()
	prometheus.RecordScheduledRun()

	tenants, err := j.store.Tenants()
	if err != nil {
		return fmt.Errorf("read tenants: %w", err)
	}

	for _, tenant := range tenants {
		report, drifted := j.reportForTenant(tenant)
		if !drifted {
			continue
		}
		subject := "Reconciliation of topics for tenant : " + tenant.Name
		if err := j.notifier.NotifyAdmins(ctx, &tenant, subject, report); err != nil {
			j.log.Error("notify tenant admins",
				zap.Uint("tenant_id", tenant.ID),
				zap.Error(err))
		}
	}

	return nil
}

// reportForTenant builds the tenant-level report: one text block per online
// environment with drift. Environment failures are logged and skipped; they
// do not abort the tenant's other environments.
func (j *Job) reportForTenant(tenant model.Tenant) (string, bool) {
	envs, err := j.store.EnvironmentsForTenant(tenant.ID)
	if err != nil {
		j.log.Error("read tenant environments",
			zap.Uint("tenant_id", tenant.ID),
			zap.Error(err))
		return "", false
	}

	var report strings.Builder
	drifted := false

	for _, env := range envs {
		if env.Status != model.EnvStatusOnline {
			continue
		}

		entries, err := j.recon.ReconTopicsScheduled(tenant.ID, env.ID)
		if err != nil {
			j.log.Error("scheduled reconciliation for environment failed",
				zap.Uint("tenant_id", tenant.ID),
				zap.Uint("environment_id", env.ID),
				zap.Error(err))
			continue
		}
		if len(entries) == 0 {
			continue
		}

		if !drifted {
			fmt.Fprintf(&report, "Tenant : %s\n", tenant.Name)
			drifted = true
		}
		fmt.Fprintf(&report, "Topic differences in %s environment !!\n\n", env.Name)

		added, deleted := 0, 0
		for _, entry := range entries {
			switch entry.Remarks {
			case model.RemarkAdded:
				added++
				fmt.Fprintf(&report, "Topic %s added on Kafka cluster %s\n", entry.TopicName, env.Name)
			case model.RemarkDeleted:
				deleted++
				fmt.Fprintf(&report, "Topic : %s deleted in catalog environment %s\n", entry.TopicName, env.Name)
			}
		}
		report.WriteString("\n------------------------------------------------------------------\n\n")

		prometheus.RecordDriftEntries(tenant.Name, env.Name, model.RemarkAdded, added)
		prometheus.RecordDriftEntries(tenant.Name, env.Name, model.RemarkDeleted, deleted)
	}

	return report.String(), drifted
}
