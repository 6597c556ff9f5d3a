package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/nurulloasawear/order-app/pkg/logger"
)

// ArtifactSweeper removes stored manifests older than the cutoff.
type ArtifactSweeper interface {
	SweepOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// ArtifactSweepJob deletes rendered manifests past their retention window.
type ArtifactSweepJob struct {
	store     ArtifactSweeper
	retention time.Duration
	logg      *logger.Logger
}

// NewArtifactSweepJob builds the sweep job.
func NewArtifactSweepJob(store ArtifactSweeper, retention time.Duration, logg *logger.Logger) (*ArtifactSweepJob, error) {
	if store == nil {
		return nil, fmt.Errorf("artifact store required")
	}
	if retention <= 0 {
		return nil, fmt.Errorf("retention must be positive")
	}
	return &ArtifactSweepJob{store: store, retention: retention, logg: logg}, nil
}

// Name identifies the job in logs and metrics.
func (j *ArtifactSweepJob) Name() string { return "artifact_sweep" }

// Run removes artifacts older than the retention window.
func (j *ArtifactSweepJob) Run(ctx context.Context) error {
	removed, err := j.store.SweepOlderThan(ctx, j.retention)
	if err != nil {
		return fmt.Errorf("sweeping artifacts: %w", err)
	}
	if j.logg != nil && removed > 0 {
		logCtx := j.logg.WithField(ctx, "removed", removed)
		j.logg.Info(logCtx, "artifact sweep removed stale files")
	}
	return nil
}
