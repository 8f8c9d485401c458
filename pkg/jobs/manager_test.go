package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/betcatalog/core/pkg/logger"
)

type mockJob struct {
	name        string
	schedule    string
	executeFunc func(ctx context.Context) error
	runs        atomic.Int32
}

func (m *mockJob) Execute(ctx context.Context) error {
	m.runs.Add(1)
	if m.executeFunc != nil {
		return m.executeFunc(ctx)
	}
	return nil
}

func (m *mockJob) Name() string { return m.name }

func (m *mockJob) Schedule() string { return m.schedule }

func TestRegisterJob(t *testing.T) {
	tests := []struct {
		name    string
		job     Job
		wantErr bool
	}{
		{
			name: "catalog sync schedule",
			job:  &mockJob{name: "catalog_sync", schedule: "0 */6 * * *"},
		},
		{
			name: "interval schedule",
			job:  &mockJob{name: "odds_refresh", schedule: "@every 1h"},
		},
		{
			name:    "nil job",
			job:     nil,
			wantErr: true,
		},
		{
			name:    "malformed schedule",
			job:     &mockJob{name: "broken", schedule: "whenever"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewJobManager().RegisterJob(tt.job)
			if (err != nil) != tt.wantErr {
				t.Errorf("RegisterJob() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetJobsReturnsCopy(t *testing.T) {
	manager := NewJobManager()
	if len(manager.GetJobs()) != 0 {
		t.Fatalf("expected no jobs on a fresh manager")
	}

	if err := manager.RegisterJob(&mockJob{name: "catalog_sync", schedule: "0 */6 * * *"}); err != nil {
		t.Fatalf("RegisterJob() error = %v", err)
	}

	jobs := manager.GetJobs()
	if len(jobs) != 1 || jobs[0].Name() != "catalog_sync" {
		t.Fatalf("jobs = %v", jobs)
	}

	// Mutating the returned slice must not touch the manager's state.
	jobs[0] = nil
	if got := manager.GetJobs(); got[0] == nil || got[0].Name() != "catalog_sync" {
		t.Error("GetJobs() exposed internal state")
	}
}

func TestStartStop(t *testing.T) {
	manager := NewJobManager()
	manager.Start()

	done := make(chan struct{})
	go func() {
		manager.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop() took too long")
	}
}

func TestJobExecutionCarriesScopedLogger(t *testing.T) {
	manager := NewJobManager()

	scoped := make(chan bool, 1)
	job := &mockJob{
		name:     "catalog_sync",
		schedule: "@every 100ms",
		executeFunc: func(ctx context.Context) error {
			select {
			case scoped <- ctx.Value(logger.LoggerKey) != nil:
			default:
			}
			return nil
		},
	}

	if err := manager.RegisterJob(job); err != nil {
		t.Fatalf("RegisterJob() error = %v", err)
	}

	manager.Start()
	defer manager.Stop()

	select {
	case ok := <-scoped:
		if !ok {
			t.Error("execution context has no scoped logger")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job never executed")
	}
}

func TestJobErrorDoesNotStopScheduling(t *testing.T) {
	manager := NewJobManager()

	job := &mockJob{
		name:     "odds_refresh",
		schedule: "@every 100ms",
		executeFunc: func(ctx context.Context) error {
			return errors.New("provider down")
		},
	}

	if err := manager.RegisterJob(job); err != nil {
		t.Fatalf("RegisterJob() error = %v", err)
	}

	manager.Start()
	defer manager.Stop()

	deadline := time.After(2 * time.Second)
	for job.runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("job ran %d times, want repeat runs despite errors", job.runs.Load())
		case <-time.After(50 * time.Millisecond):
		}
	}
}
