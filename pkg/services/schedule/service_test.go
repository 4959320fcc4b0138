package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/scheduler/pkg/models/domain"
	"github.com/taskhive/scheduler/pkg/models/store"
	schedulestore "github.com/taskhive/scheduler/pkg/store/duckdb/schedule"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, sw *store.ScheduledWorkflow) error {
	args := m.Called(ctx, sw)
	return args.Error(0)
}

func (m *mockStore) Get(ctx context.Context, id string) (*store.ScheduledWorkflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ScheduledWorkflow), args.Error(1)
}

func (m *mockStore) List(ctx context.Context) ([]*store.ScheduledWorkflow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*store.ScheduledWorkflow), args.Error(1)
}

func (m *mockStore) FindByRunningInstanceID(
	ctx context.Context,
	instanceID string,
) ([]*store.ScheduledWorkflow, error) {
	args := m.Called(ctx, instanceID)
	return args.Get(0).([]*store.ScheduledWorkflow), args.Error(1)
}

func (m *mockStore) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_Schedule(t *testing.T) {
	ctx := context.Background()
	frozen := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	newService := func(st *mockStore) *defaultService {
		return &defaultService{store: st, now: func() time.Time { return frozen }}
	}

	t.Run("cron schedule assigns id and next run", func(t *testing.T) {
		st := new(mockStore)
		var created *store.ScheduledWorkflow
		st.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*store.ScheduledWorkflow)
			}).
			Return(nil)

		svc := newService(st)
		sw, err := svc.Schedule(ctx, domain.ScheduleRequest{
			WorkflowName:      "nightly-report",
			RunningInstanceID: "wf-42",
			CronExpression:    "0 3 * * *",
		})
		require.NoError(t, err)

		_, err = uuid.Parse(sw.ID)
		assert.NoError(t, err, "id should be a store-assigned uuid")
		assert.Equal(t, "wf-42", sw.RunningInstanceID)
		assert.Equal(t, "0 3 * * *", sw.CronExpression)
		require.NotNil(t, sw.NextRunAt)
		assert.Equal(t, time.Date(2025, 8, 2, 3, 0, 0, 0, time.UTC), *sw.NextRunAt)

		require.NotNil(t, created)
		assert.Equal(t, sw.ID, created.ID)
		st.AssertExpectations(t)
	})

	t.Run("one-shot schedule uses runAt", func(t *testing.T) {
		st := new(mockStore)
		st.On("Create", mock.Anything, mock.Anything).Return(nil)

		runAt := frozen.Add(2 * time.Hour)
		svc := newService(st)
		sw, err := svc.Schedule(ctx, domain.ScheduleRequest{
			WorkflowName:      "one-shot",
			RunningInstanceID: "wf-7",
			RunAt:             &runAt,
		})
		require.NoError(t, err)
		require.NotNil(t, sw.NextRunAt)
		assert.Equal(t, runAt, *sw.NextRunAt)
		assert.Empty(t, sw.CronExpression)
	})

	t.Run("invalid cron", func(t *testing.T) {
		svc := newService(new(mockStore))
		_, err := svc.Schedule(ctx, domain.ScheduleRequest{
			WorkflowName:      "broken",
			RunningInstanceID: "wf-1",
			CronExpression:    "not a cron",
		})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := newService(new(mockStore))

		_, err := svc.Schedule(ctx, domain.ScheduleRequest{RunningInstanceID: "wf-1", CronExpression: "* * * * *"})
		assert.ErrorIs(t, err, ErrInvalidRequest)

		_, err = svc.Schedule(ctx, domain.ScheduleRequest{WorkflowName: "x", CronExpression: "* * * * *"})
		assert.ErrorIs(t, err, ErrInvalidRequest)

		_, err = svc.Schedule(ctx, domain.ScheduleRequest{WorkflowName: "x", RunningInstanceID: "wf-1"})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestService_FindByRunningInstanceID(t *testing.T) {
	ctx := context.Background()
	st := new(mockStore)
	cron := "0 3 * * *"
	st.On("FindByRunningInstanceID", mock.Anything, "wf-42").Return([]*store.ScheduledWorkflow{
		{ID: "1", RunningInstanceID: "wf-42", WorkflowName: "a", CronExpression: &cron},
		{ID: "2", RunningInstanceID: "wf-42", WorkflowName: "b"},
	}, nil)

	svc := NewService(st)
	matches, err := svc.FindByRunningInstanceID(ctx, "wf-42")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "0 3 * * *", matches[0].CronExpression)
	assert.Empty(t, matches[1].CronExpression)
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("maps store not found", func(t *testing.T) {
		st := new(mockStore)
		st.On("Get", mock.Anything, "missing").Return(nil, schedulestore.ErrNotFound)

		svc := NewService(st)
		_, err := svc.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("returns record", func(t *testing.T) {
		st := new(mockStore)
		st.On("Get", mock.Anything, "1").Return(&store.ScheduledWorkflow{
			ID: "1", RunningInstanceID: "wf-42", WorkflowName: "a",
		}, nil)

		svc := NewService(st)
		sw, err := svc.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "wf-42", sw.RunningInstanceID)
	})
}

func TestService_DeleteByID(t *testing.T) {
	st := new(mockStore)
	st.On("DeleteByID", mock.Anything, "1").Return(nil)

	svc := NewService(st)
	require.NoError(t, svc.DeleteByID(context.Background(), "1"))
	st.AssertExpectations(t)
}
