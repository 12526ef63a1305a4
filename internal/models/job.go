package models

import "time"

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job is one unit of background work the client polls for.
// Completed and failed are terminal; a job never leaves them.
type Job struct {
	ID          string         `json:"job_id"`
	Type        string         `json:"job_type"`
	Owner       string         `json:"owner"`
	Status      JobStatus      `json:"status"`
	Data        map[string]any `json:"data"`
	Result      any            `json:"result"`
	Error       string         `json:"error,omitempty"`
	Progress    int            `json:"progress"`
	CreatedAt   time.Time      `json:"created_at"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}
