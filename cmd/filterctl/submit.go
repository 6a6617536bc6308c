package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-filter-engine/internal/queue"
)

func newSubmitCommand(opts *rootOptions) *cobra.Command {
	var (
		filter    string
		rawParams []string
		rescale   bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit INPUT OUTPUT",
		Short: "Run one filter on a remote worker through the Redis job stream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(rawParams)
			if err != nil {
				return err
			}

			input, err := opts.loadInput(cmd, args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			q, err := queue.NewRedisQueue(ctx, opts.cfg.Redis)
			if err != nil {
				return err
			}
			defer q.Close()

			job := queue.NewJob(fmt.Sprintf("%s-%d", filter, time.Now().UnixNano()), filter, params, input)
			msgID, err := q.AddJob(ctx, job)
			if err != nil {
				return fmt.Errorf("enqueue job: %w", err)
			}
			log := opts.logger.WithFields(logrus.Fields{"job_id": job.ID, "message_id": msgID})
			log.Info("Job submitted")

			// Result entries are added after the job entry on the same server,
			// so their IDs sort after msgID.
			res, err := waitForResult(ctx, q, log, job.ID, msgID)
			if err != nil {
				return err
			}
			output, err := res.Grid()
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"worker_id":  res.WorkerID,
				"process_ms": res.ProcessMS,
			}).Info("Job completed")

			return opts.saveOutput(cmd, output, args[1], rescale)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&filter, "filter", "f", "gaussian", "Algorithm name")
	flags.StringArrayVarP(&rawParams, "param", "p", nil, "Parameter override as key=value, repeatable")
	flags.BoolVar(&rescale, "rescale", false, "Stretch output to [0,255] instead of clamping")
	flags.DurationVar(&timeout, "timeout", time.Minute, "How long to wait for a worker")
	return cmd
}

type resultReader interface {
	ReadResult(ctx context.Context, lastID string) (string, *queue.Result, error)
}

// waitForResult reads results after the given entry until one for jobID
// arrives. Undecodable entries belong to nobody we can tell, so they are skipped.
func waitForResult(ctx context.Context, q resultReader, log logrus.FieldLogger, jobID, after string) (*queue.Result, error) {
	lastID := after
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("waiting for job %s: %w", jobID, err)
		}
		id, res, err := q.ReadResult(ctx, lastID)
		if errors.Is(err, queue.ErrMalformedMessage) {
			log.WithError(err).WithField("message_id", id).Warn("Skipping undecodable result")
			lastID = id
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			return nil, err
		}
		lastID = id
		if res != nil && res.JobID == jobID {
			return res, nil
		}
	}
}
