package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/taskhive/scheduler/pkg/models/domain"
	"github.com/taskhive/scheduler/pkg/models/store"
	schedulestore "github.com/taskhive/scheduler/pkg/store/duckdb/schedule"
)

// ErrNotFound is returned when no scheduled workflow matches the given id.
var ErrNotFound = errors.New("scheduled workflow not found")

// ErrInvalidRequest covers caller mistakes in Schedule: missing fields or a
// cron expression the parser rejects.
var ErrInvalidRequest = errors.New("invalid schedule request")

// Standard 5-field cron expressions (minute hour dom month dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Service is the capability handlers are constructed with. Cancellation only
// needs the lookup/delete pair; the rest manages the schedule lifecycle.
type Service interface {
	FindByRunningInstanceID(ctx context.Context, instanceID string) ([]domain.ScheduledWorkflow, error)
	DeleteByID(ctx context.Context, id string) error
	Schedule(ctx context.Context, req domain.ScheduleRequest) (*domain.ScheduledWorkflow, error)
	List(ctx context.Context) ([]domain.ScheduledWorkflow, error)
	Get(ctx context.Context, id string) (*domain.ScheduledWorkflow, error)
}

type defaultService struct {
	store schedulestore.Store
	now   func() time.Time
}

func NewService(store schedulestore.Store) Service {
	return &defaultService{
		store: store,
		now:   time.Now,
	}
}

func (s *defaultService) FindByRunningInstanceID(
	ctx context.Context,
	instanceID string,
) ([]domain.ScheduledWorkflow, error) {
	records, err := s.store.FindByRunningInstanceID(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	return toDomain(records), nil
}

func (s *defaultService) DeleteByID(ctx context.Context, id string) error {
	return s.store.DeleteByID(ctx, id)
}

func (s *defaultService) Schedule(
	ctx context.Context,
	req domain.ScheduleRequest,
) (*domain.ScheduledWorkflow, error) {
	if req.WorkflowName == "" {
		return nil, fmt.Errorf("%w: workflowName is required", ErrInvalidRequest)
	}
	if req.RunningInstanceID == "" {
		return nil, fmt.Errorf("%w: runningInstanceId is required", ErrInvalidRequest)
	}

	record := &store.ScheduledWorkflow{
		ID:                uuid.NewString(),
		RunningInstanceID: req.RunningInstanceID,
		WorkflowName:      req.WorkflowName,
		CreatedAt:         s.now().UTC(),
	}

	switch {
	case req.CronExpression != "":
		sched, err := cronParser.Parse(req.CronExpression)
		if err != nil {
			return nil, fmt.Errorf("%w: parse cron expression %q: %v", ErrInvalidRequest, req.CronExpression, err)
		}
		expr := req.CronExpression
		next := sched.Next(s.now().UTC())
		record.CronExpression = &expr
		record.NextRunAt = &next
	case req.RunAt != nil:
		runAt := req.RunAt.UTC()
		record.NextRunAt = &runAt
	default:
		return nil, fmt.Errorf("%w: either cron or runAt is required", ErrInvalidRequest)
	}

	if err := s.store.Create(ctx, record); err != nil {
		return nil, err
	}

	sw := toDomainOne(record)
	return &sw, nil
}

func (s *defaultService) List(ctx context.Context) ([]domain.ScheduledWorkflow, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return toDomain(records), nil
}

func (s *defaultService) Get(ctx context.Context, id string) (*domain.ScheduledWorkflow, error) {
	record, err := s.store.Get(ctx, id)
	if errors.Is(err, schedulestore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	sw := toDomainOne(record)
	return &sw, nil
}

func toDomainOne(record *store.ScheduledWorkflow) domain.ScheduledWorkflow {
	sw := domain.ScheduledWorkflow{
		ID:                record.ID,
		RunningInstanceID: record.RunningInstanceID,
		WorkflowName:      record.WorkflowName,
		NextRunAt:         record.NextRunAt,
		CreatedAt:         record.CreatedAt,
	}
	if record.CronExpression != nil {
		sw.CronExpression = *record.CronExpression
	}
	return sw
}

func toDomain(records []*store.ScheduledWorkflow) []domain.ScheduledWorkflow {
	result := make([]domain.ScheduledWorkflow, 0, len(records))
	for _, record := range records {
		result = append(result, toDomainOne(record))
	}
	return result
}
