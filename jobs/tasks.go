package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportsWarmup pre-populates the report cache.
	TaskReportsWarmup = "reports:warmup"
)

// ReportsWarmupPayload selects what the warmup fetches. Empty Endpoints means
// every endpoint without parameters; Refresh drops cached payloads first.
type ReportsWarmupPayload struct {
	Endpoints []string `json:"endpoints,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"`
}

// NewReportsWarmupTask constructs an Asynq task.
func NewReportsWarmupTask(payload ReportsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data, asynq.Queue(QueueDefault)), nil
}
