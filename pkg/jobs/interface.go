package jobs

import "context"

// Job is one schedulable unit of work, such as the periodic catalog sync
// against the odds provider.
type Job interface {
	// Execute runs one iteration. The context carries a scoped logger and
	// the execution deadline.
	Execute(ctx context.Context) error

	// Name identifies the job in logs.
	Name() string

	// Schedule returns the cron expression the job runs on, either
	// five-field ("0 */6 * * *") or interval ("@every 1h") form.
	Schedule() string
}

// JobManager schedules registered jobs and runs them until stopped.
type JobManager interface {
	RegisterJob(job Job) error
	Start()
	Stop()
	GetJobs() []Job
}
