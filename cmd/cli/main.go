package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskhive/scheduler/pkg/models/api"
	"github.com/taskhive/scheduler/pkg/store/client"
)

var serverAddr string

func main() {
	rootCmd := &cobra.Command{
		Use:   "schedulectl",
		Short: "Manage scheduled workflows over the scheduler HTTP API",
	}

	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "http://localhost:8080",
		"Base URL of the scheduler API")

	rootCmd.AddCommand(scheduleCmd(), listCmd(), cancelCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func scheduleCmd() *cobra.Command {
	var (
		workflowName string
		instanceID   string
		cronExpr     string
		runAt        string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule a workflow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := api.ScheduleWorkflowRequest{
				WorkflowName:      workflowName,
				RunningInstanceID: instanceID,
				Cron:              cronExpr,
			}
			if runAt != "" {
				t, err := time.Parse(time.RFC3339, runAt)
				if err != nil {
					return fmt.Errorf("invalid --run-at, expected RFC3339: %w", err)
				}
				req.RunAt = &t
			}

			sw, err := client.NewSchedulesClient(serverAddr).Schedule(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Scheduled %s (id %s", sw.WorkflowName, sw.ID)
			if sw.NextRunAt != nil {
				fmt.Printf(", next run %s", sw.NextRunAt.Format(time.RFC3339))
			}
			fmt.Println(")")
			return nil
		},
	}

	cmd.Flags().StringVar(&workflowName, "workflow", "", "Workflow name (required)")
	cmd.Flags().StringVar(&instanceID, "instance", "", "Running instance id (required)")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression for recurring schedules")
	cmd.Flags().StringVar(&runAt, "run-at", "", "RFC3339 timestamp for one-shot schedules")

	return cmd
}

func listCmd() *cobra.Command {
	var instanceID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled workflows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			scheduled, err := client.NewSchedulesClient(serverAddr).List(cmd.Context(), instanceID)
			if err != nil {
				return err
			}
			if len(scheduled) == 0 {
				fmt.Println("No scheduled workflows")
				return nil
			}
			for _, sw := range scheduled {
				next := "-"
				if sw.NextRunAt != nil {
					next = sw.NextRunAt.Format(time.RFC3339)
				}
				fmt.Printf("%s\t%s\tinstance=%s\tnext=%s\n", sw.ID, sw.WorkflowName, sw.RunningInstanceID, next)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "Filter by running instance id")

	return cmd
}

func cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <instance-id>",
		Short: "Cancel every schedule tied to a running instance id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := client.NewSchedulesClient(serverAddr).Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(message)
			return nil
		},
	}
}
