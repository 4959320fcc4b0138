package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const ScheduledWorkflowsSchema = `
	CREATE TABLE IF NOT EXISTS scheduled_workflows (
		id VARCHAR PRIMARY KEY,
		running_instance_id VARCHAR NOT NULL,
		workflow_name VARCHAR NOT NULL,
		cron_expression VARCHAR NULL,
		next_run_at TIMESTAMP NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

// running_instance_id is deliberately non-unique: one running instance may
// own several schedule rows.
const RunningInstanceIndex = `
	CREATE INDEX IF NOT EXISTS idx_scheduled_workflows_instance
	ON scheduled_workflows (running_instance_id);
`

var bootQueries = []string{
	ScheduledWorkflowsSchema,
	RunningInstanceIndex,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
