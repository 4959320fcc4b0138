package domain

import "time"

type ScheduledWorkflow struct {
	ID                string
	RunningInstanceID string
	WorkflowName      string
	CronExpression    string
	NextRunAt         *time.Time
	CreatedAt         time.Time
}

// ScheduleRequest carries the caller-supplied fields for a new schedule.
// Exactly one of CronExpression or RunAt is expected; the service validates.
type ScheduleRequest struct {
	WorkflowName      string
	RunningInstanceID string
	CronExpression    string
	RunAt             *time.Time
}
