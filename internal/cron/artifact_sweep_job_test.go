package cron

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type stubSweeper struct {
	removed int
	err     error
	lastAge time.Duration
}

func (s *stubSweeper) SweepOlderThan(_ context.Context, age time.Duration) (int, error) {
	s.lastAge = age
	return s.removed, s.err
}

func TestArtifactSweepJobRunsWithRetention(t *testing.T) {
	sweeper := &stubSweeper{removed: 3}
	job, err := NewArtifactSweepJob(sweeper, 72*time.Hour, nil)
	if err != nil {
		t.Fatalf("NewArtifactSweepJob failed: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sweeper.lastAge != 72*time.Hour {
		t.Fatalf("expected 72h cutoff, got %v", sweeper.lastAge)
	}
}

func TestArtifactSweepJobPropagatesErrors(t *testing.T) {
	sweeper := &stubSweeper{err: fmt.Errorf("disk error")}
	job, err := NewArtifactSweepJob(sweeper, time.Hour, nil)
	if err != nil {
		t.Fatalf("NewArtifactSweepJob failed: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected sweep error to propagate")
	}
}

func TestArtifactSweepJobValidatesInputs(t *testing.T) {
	if _, err := NewArtifactSweepJob(nil, time.Hour, nil); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewArtifactSweepJob(&stubSweeper{}, 0, nil); err == nil {
		t.Fatal("expected error for zero retention")
	}
}
