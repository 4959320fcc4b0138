package store

import "time"

// ScheduledWorkflow is one persisted schedule row. A running instance may own
// several rows, so RunningInstanceID is not unique.
type ScheduledWorkflow struct {
	ID                string
	RunningInstanceID string
	WorkflowName      string
	CronExpression    *string
	NextRunAt         *time.Time
	CreatedAt         time.Time
}
