package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/taskhive/scheduler/pkg/models/api"
)

// SchedulesClient talks to the scheduler HTTP API. The CLI is its only
// consumer today.
type SchedulesClient interface {
	Schedule(ctx context.Context, req api.ScheduleWorkflowRequest) (*api.ScheduledWorkflow, error)
	List(ctx context.Context, instanceID string) ([]api.ScheduledWorkflow, error)
	Get(ctx context.Context, id string) (*api.ScheduledWorkflow, error)
	Cancel(ctx context.Context, instanceID string) (string, error)
}

type schedulesClient struct {
	http *resty.Client
}

func NewSchedulesClient(baseURL string) SchedulesClient {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	return &schedulesClient{http: httpClient}
}

func (c *schedulesClient) Schedule(
	ctx context.Context,
	req api.ScheduleWorkflowRequest,
) (*api.ScheduledWorkflow, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/scheduleWorkflow")
	if err != nil {
		return nil, fmt.Errorf("schedule workflow request: %w", err)
	}

	envelope, err := decodeEnvelope[api.ScheduledWorkflow](resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("schedule workflow: %s", envelope.Message)
	}
	return envelope.Data, nil
}

func (c *schedulesClient) List(ctx context.Context, instanceID string) ([]api.ScheduledWorkflow, error) {
	req := c.http.R().SetContext(ctx)
	if instanceID != "" {
		req.SetQueryParam("instanceId", instanceID)
	}

	resp, err := req.Get("/scheduledWorkflows")
	if err != nil {
		return nil, fmt.Errorf("list scheduled workflows request: %w", err)
	}

	envelope, err := decodeEnvelope[[]api.ScheduledWorkflow](resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("list scheduled workflows: %s", envelope.Message)
	}
	if envelope.Data == nil {
		return []api.ScheduledWorkflow{}, nil
	}
	return *envelope.Data, nil
}

func (c *schedulesClient) Get(ctx context.Context, id string) (*api.ScheduledWorkflow, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/scheduledWorkflows/%s", id))
	if err != nil {
		return nil, fmt.Errorf("get scheduled workflow request: %w", err)
	}

	envelope, err := decodeEnvelope[api.ScheduledWorkflow](resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("get scheduled workflow: %s", envelope.Message)
	}
	return envelope.Data, nil
}

// Cancel returns the server's envelope message on success.
func (c *schedulesClient) Cancel(ctx context.Context, instanceID string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("instanceId", instanceID).
		Delete("/cancelScheduledWorkflow")
	if err != nil {
		return "", fmt.Errorf("cancel scheduled workflow request: %w", err)
	}

	envelope, err := decodeEnvelope[string](resp)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("cancel scheduled workflow: %s", envelope.Message)
	}
	return envelope.Message, nil
}

// The envelope shape is identical for success and error branches, so the body
// is decoded once regardless of status.
func decodeEnvelope[T any](resp *resty.Response) (*api.Response[T], error) {
	var envelope api.Response[T]
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &envelope, nil
}
