package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/adlens/adlens/jobs"
)

var (
	warmupRefresh   bool
	warmupEndpoints []string
	scheduledLimit  int
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Queue and inspect background jobs",
}

var jobsTriggerCmd = &cobra.Command{
	Use:   "trigger <task>",
	Short: "Enqueue a background job",
	Long:  "Enqueue a background job. The only task is " + jobs.TaskReportsWarmup + ".",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli := newJobsCLI(redisAddr)
		defer cli.Close()
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		info, err := cli.Trigger(ctx, args[0], jobs.ReportsWarmupPayload{
			Endpoints: warmupEndpoints,
			Refresh:   warmupRefresh,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s queued as %s on %s\n", colorGreen.Sprint("ok"), info.Type, info.ID, info.Queue)
		return nil
	},
}

var jobsInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show queue depth and scheduled tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli := newJobsCLI(redisAddr)
		defer cli.Close()
		stats, err := cli.InspectQueue()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		writeQueueStats(out, stats)
		scheduled, err := cli.ListScheduled(scheduledLimit)
		if err != nil {
			return err
		}
		for _, task := range scheduled {
			fmt.Fprintf(out, "  %s %s at %s\n", task.ID, task.Type, task.NextProcessAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	jobsTriggerCmd.Flags().BoolVar(&warmupRefresh, "refresh", false, "drop cached reports before fetching")
	jobsTriggerCmd.Flags().StringSliceVar(&warmupEndpoints, "endpoint", nil, "limit the warmup to these endpoints")
	jobsInspectCmd.Flags().IntVar(&scheduledLimit, "limit", 10, "number of scheduled tasks to list")
	jobsCmd.AddCommand(jobsTriggerCmd, jobsInspectCmd)
}

// jobsCLI wraps the queue client and inspector.
type jobsCLI struct {
	client    *jobs.Client
	inspector *asynq.Inspector
}

func newJobsCLI(addr string) *jobsCLI {
	opts := asynq.RedisClientOpt{Addr: addr}
	client, _ := jobs.NewClient(opts)
	return &jobsCLI{client: client, inspector: asynq.NewInspector(opts)}
}

// Close releases underlying resources.
func (c *jobsCLI) Close() error {
	var errs []error
	if c.inspector != nil {
		errs = append(errs, c.inspector.Close())
	}
	if c.client != nil {
		errs = append(errs, c.client.Close())
	}
	return errors.Join(errs...)
}

// Trigger enqueues a supported job by name.
func (c *jobsCLI) Trigger(ctx context.Context, name string, payload jobs.ReportsWarmupPayload) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	switch name {
	case jobs.TaskReportsWarmup:
		return c.client.EnqueueReportsWarmup(ctx, payload)
	default:
		return nil, fmt.Errorf("jobs cli: unsupported job %s", name)
	}
}

// queueStats summarises the current queue state.
type queueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
}

// InspectQueue reports the metrics of the default queue.
func (c *jobsCLI) InspectQueue() (queueStats, error) {
	if c == nil || c.inspector == nil {
		return queueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return queueStats{}, err
	}
	stats := queueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
	}
	return stats, nil
}

// ListScheduled returns the next scheduled tasks.
func (c *jobsCLI) ListScheduled(size int) ([]*asynq.TaskInfo, error) {
	if c == nil || c.inspector == nil {
		return nil, errors.New("jobs cli: inspector not configured")
	}
	if size <= 0 {
		size = 10
	}
	return c.inspector.ListScheduledTasks(jobs.QueueDefault, asynq.PageSize(size), asynq.Page(1))
}

func writeQueueStats(w io.Writer, s queueStats) {
	fmt.Fprintln(w, colorBold.Sprint("queue "+s.Queue))
	fmt.Fprintf(w, "  pending   %d\n", s.Pending)
	fmt.Fprintf(w, "  active    %d\n", s.Active)
	fmt.Fprintf(w, "  scheduled %d\n", s.Scheduled)
	retry := fmt.Sprintf("%d", s.Retry)
	if s.Retry > 0 {
		retry = colorRed.Sprint(retry)
	}
	fmt.Fprintf(w, "  retry     %s\n", retry)
}
