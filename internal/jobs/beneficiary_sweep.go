// File: internal/jobs/beneficiary_sweep.go
package jobs

import (
	"context"
	"time"

	"legacyvault/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OrphanSweeper deletes beneficiaries whose asset no longer exists.
type OrphanSweeper interface {
	DeleteOrphanBeneficiaries(ctx context.Context) (int64, error)
}

// BeneficiarySweepJob removes beneficiaries left behind when a database does
// not enforce the asset cascade (sqlite without foreign keys, manual edits).
type BeneficiarySweepJob struct {
	sweeper       OrphanSweeper
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
	runTimeout    time.Duration
}

// NewBeneficiarySweepJob creates a new BeneficiarySweepJob.
func NewBeneficiarySweepJob(sweeper OrphanSweeper, logger *zap.Logger, cfg *config.Config) *BeneficiarySweepJob {
	cronLog := NewCronLogger(logger.Named("cron"))
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.SkipIfStillRunning(cronLog)),
	)

	return &BeneficiarySweepJob{
		sweeper:       sweeper,
		logger:        logger.Named("BeneficiarySweepJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
		runTimeout:    5 * time.Minute,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *BeneficiarySweepJob) SetupAndStart() error {
	jobSpec := j.cfg.BeneficiarySweepJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Beneficiary sweep schedule not defined (BENEFICIARY_SWEEP_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule beneficiary sweep job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Beneficiary sweep job scheduled", zap.String("spec", jobSpec), zap.Int("jobID", int(jobID)))
	j.cronScheduler.Start()
	return nil
}

// RunOnce performs a single sweep and reports how many rows were removed.
func (j *BeneficiarySweepJob) RunOnce(ctx context.Context) (int64, error) {
	return j.sweeper.DeleteOrphanBeneficiaries(ctx)
}

func (j *BeneficiarySweepJob) runJob() {
	j.logger.Info("Starting beneficiary sweep run...")
	ctx, cancel := context.WithTimeout(context.Background(), j.runTimeout)
	defer cancel()

	removed, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.Error("Beneficiary sweep run failed", zap.Error(err))
		return
	}
	j.logger.Info("Beneficiary sweep run completed", zap.Int64("beneficiaries_removed", removed))
}

// Stop gracefully stops the cron scheduler.
func (j *BeneficiarySweepJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping beneficiary sweep scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Beneficiary sweep scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Beneficiary sweep scheduler stop timed out.")
	}
}
