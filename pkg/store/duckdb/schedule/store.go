package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskhive/scheduler/pkg/models/store"
	"github.com/taskhive/scheduler/pkg/store/duckdb"
)

// ErrNotFound is returned by Get when no row matches the given id.
var ErrNotFound = errors.New("scheduled workflow not found")

type Store interface {
	Create(ctx context.Context, sw *store.ScheduledWorkflow) error
	Get(ctx context.Context, id string) (*store.ScheduledWorkflow, error)
	List(ctx context.Context) ([]*store.ScheduledWorkflow, error)
	FindByRunningInstanceID(ctx context.Context, instanceID string) ([]*store.ScheduledWorkflow, error)
	DeleteByID(ctx context.Context, id string) error
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

const scheduleColumns = `id, running_instance_id, workflow_name, cron_expression, next_run_at, created_at`

func (s *defaultStore) Create(ctx context.Context, sw *store.ScheduledWorkflow) error {
	query := `
		INSERT INTO scheduled_workflows (
			id, running_instance_id, workflow_name, cron_expression, next_run_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`

	// go-duckdb does not bind *string/*time.Time directly; wrap the nullable
	// fields in sql.Null* so nil becomes NULL.
	var cron sql.NullString
	if sw.CronExpression != nil {
		cron = sql.NullString{String: *sw.CronExpression, Valid: true}
	}
	var nextRun sql.NullTime
	if sw.NextRunAt != nil {
		nextRun = sql.NullTime{Time: *sw.NextRunAt, Valid: true}
	}

	tx := duckdb.GetTransaction(ctx)
	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, query,
			sw.ID, sw.RunningInstanceID, sw.WorkflowName, cron, nextRun, sw.CreatedAt)
	} else {
		_, err = tx.ExecContext(ctx, query,
			sw.ID, sw.RunningInstanceID, sw.WorkflowName, cron, nextRun, sw.CreatedAt)
	}
	if err != nil {
		return fmt.Errorf("insert scheduled workflow: %w", err)
	}
	return nil
}

func (s *defaultStore) Get(ctx context.Context, id string) (*store.ScheduledWorkflow, error) {
	query := fmt.Sprintf(`SELECT %s FROM scheduled_workflows WHERE id = ?`, scheduleColumns)

	row := s.db.QueryRowContext(ctx, query, id)
	sw, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scheduled workflow: %w", err)
	}
	return sw, nil
}

func (s *defaultStore) List(ctx context.Context) ([]*store.ScheduledWorkflow, error) {
	query := fmt.Sprintf(`SELECT %s FROM scheduled_workflows ORDER BY created_at`, scheduleColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list scheduled workflows: %w", err)
	}
	defer rows.Close()
	return scanScheduleRows(rows)
}

func (s *defaultStore) FindByRunningInstanceID(
	ctx context.Context,
	instanceID string,
) ([]*store.ScheduledWorkflow, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM scheduled_workflows WHERE running_instance_id = ? ORDER BY created_at`,
		scheduleColumns,
	)

	rows, err := s.db.QueryContext(ctx, query, instanceID)
	if err != nil {
		return nil, fmt.Errorf("find scheduled workflows by instance id: %w", err)
	}
	defer rows.Close()
	return scanScheduleRows(rows)
}

// DeleteByID removes the row with the given id. Deleting an id that no longer
// exists affects zero rows and is not an error.
func (s *defaultStore) DeleteByID(ctx context.Context, id string) error {
	query := `DELETE FROM scheduled_workflows WHERE id = ?`

	tx := duckdb.GetTransaction(ctx)
	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, query, id)
	} else {
		_, err = tx.ExecContext(ctx, query, id)
	}
	if err != nil {
		return fmt.Errorf("delete scheduled workflow: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*store.ScheduledWorkflow, error) {
	var (
		sw      store.ScheduledWorkflow
		cron    sql.NullString
		nextRun sql.NullTime
	)
	err := row.Scan(&sw.ID, &sw.RunningInstanceID, &sw.WorkflowName, &cron, &nextRun, &sw.CreatedAt)
	if err != nil {
		return nil, err
	}
	if cron.Valid {
		c := cron.String
		sw.CronExpression = &c
	}
	if nextRun.Valid {
		t := nextRun.Time
		sw.NextRunAt = &t
	}
	return &sw, nil
}

func scanScheduleRows(rows *sql.Rows) ([]*store.ScheduledWorkflow, error) {
	records := make([]*store.ScheduledWorkflow, 0)
	for rows.Next() {
		sw, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled workflow: %w", err)
		}
		records = append(records, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
