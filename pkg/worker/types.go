package worker

import "time"

// Status is the lifecycle state of a pool.
type Status string

const (
	// StatusIdle means started with nothing queued or running.
	StatusIdle Status = "idle"

	// StatusProcessing means tasks are queued or running.
	StatusProcessing Status = "processing"

	// StatusShuttingDown means the context was cancelled while tasks still run.
	StatusShuttingDown Status = "shutting_down"

	// StatusStopped means not started, or cancelled with no task running.
	StatusStopped Status = "stopped"
)

// Stats is a snapshot of pool counters.
type Stats struct {
	ActiveWorkers  int
	QueuedTasks    int
	CompletedTasks int
	FailedTasks    int
	Status         Status
	Uptime         time.Duration
}
