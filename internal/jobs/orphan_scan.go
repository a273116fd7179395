// File: internal/jobs/orphan_scan.go
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"readrocket_backend/internal/common"
	"readrocket_backend/internal/config"
	"readrocket_backend/internal/identity"
	"readrocket_backend/internal/profile"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OrphanScanJob periodically walks provider identities and reports the
// ones that have no profile document. Registration creates the
// credential first and the profile second with no rollback, so a failed
// second step leaves an orphaned identity; this job surfaces those for
// operator reconciliation. It never deletes anything.
type OrphanScanJob struct {
	identities    identity.Verifier
	profiles      profile.Repository
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewOrphanScanJob creates a new OrphanScanJob.
func NewOrphanScanJob(
	identities identity.Verifier,
	profiles profile.Repository,
	logger *zap.Logger,
	cfg *config.Config,
) *OrphanScanJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &OrphanScanJob{
		identities:    identities,
		profiles:      profiles,
		logger:        logger.Named("OrphanScanJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *OrphanScanJob) SetupAndStart() error {
	jobSpec := j.cfg.OrphanScanJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Orphan scan schedule not defined (ORPHAN_SCAN_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule orphan scan job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Orphan scan job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *OrphanScanJob) runJob() {
	j.logger.Info("Starting orphan scan run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	orphans, scanned, err := j.Scan(ctx)
	if err != nil {
		j.logger.Error("Orphan scan run failed", zap.Error(err))
		return
	}
	j.logger.Info("Orphan scan run completed",
		zap.Int("identities_scanned", scanned),
		zap.Int("orphans_found", len(orphans)),
	)
}

// Scan checks up to the configured number of provider identities for a
// matching profile document and returns the orphaned ones.
func (j *OrphanScanJob) Scan(ctx context.Context) ([]identity.Identity, int, error) {
	max := j.cfg.OrphanScanMaxUsers
	if max <= 0 {
		max = 1000
	}

	identities, err := j.identities.ListIdentities(ctx, max)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list provider identities: %w", err)
	}

	var orphans []identity.Identity
	for _, ident := range identities {
		if ctx.Err() != nil {
			return orphans, len(identities), ctx.Err()
		}
		_, err := j.profiles.Get(ctx, ident.UID)
		if err == nil {
			continue
		}
		if errors.Is(err, common.ErrNotFound) {
			j.logger.Warn("Orphaned identity: credential exists but profile is missing",
				zap.String("userID", ident.UID),
				zap.String("email", ident.Email),
			)
			orphans = append(orphans, ident)
			continue
		}
		j.logger.Error("Profile lookup failed during orphan scan",
			zap.String("userID", ident.UID), zap.Error(err))
	}
	return orphans, len(identities), nil
}

// Stop gracefully stops the cron scheduler.
func (j *OrphanScanJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping orphan scan scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Orphan scan scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Orphan scan scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
