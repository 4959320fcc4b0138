package api

import "time"

type ScheduledWorkflow struct {
	ID                string     `json:"id"`
	RunningInstanceID string     `json:"runningInstanceId"`
	WorkflowName      string     `json:"workflowName"`
	Cron              string     `json:"cron,omitempty"`
	NextRunAt         *time.Time `json:"nextRunAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type ScheduleWorkflowRequest struct {
	WorkflowName      string     `json:"workflowName"`
	RunningInstanceID string     `json:"runningInstanceId"`
	Cron              string     `json:"cron,omitempty"`
	RunAt             *time.Time `json:"runAt,omitempty"`
}
