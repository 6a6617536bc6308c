// Job processor consuming filter jobs from the queue
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"image-filter-engine/internal/algorithms"
	"image-filter-engine/internal/config"
	"image-filter-engine/internal/grid"
	"image-filter-engine/internal/queue"
)

// Queue is the part of queue.RedisQueue the pool depends on
type Queue interface {
	ReadJob(ctx context.Context, consumer string) (*queue.Message, error)
	AckJob(ctx context.Context, id string) error
	ClaimStaleJobs(ctx context.Context, consumer string, count int) ([]*queue.Message, error)
	PublishResult(ctx context.Context, res *queue.Result) (string, error)
}

type Pool struct {
	queue         Queue
	cfg           *config.Config
	logger        logrus.FieldLogger
	workerID      string
	numWorkers    int
	claimInterval time.Duration

	processed atomic.Int64
	failed    atomic.Int64
}

func NewPool(q Queue, cfg *config.Config, logger logrus.FieldLogger, workerID string, numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		queue:         q,
		cfg:           cfg,
		logger:        logger.WithField("worker_id", workerID),
		workerID:      workerID,
		numWorkers:    numWorkers,
		claimInterval: 30 * time.Second,
	}
}

// Processed and Failed count jobs acknowledged so far
func (p *Pool) Processed() int64 { return p.processed.Load() }
func (p *Pool) Failed() int64    { return p.failed.Load() }

// Run blocks until ctx is cancelled.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for i := 0; i < p.numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, id)
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.retryMonitor(ctx)
	}()

	p.logger.WithField("workers", p.numWorkers).Info("WORKER: started")
	wg.Wait()
	p.logger.WithFields(logrus.Fields{
		"processed": p.Processed(),
		"failed":    p.Failed(),
	}).Info("WORKER: stopped")
}

func (p *Pool) worker(ctx context.Context, id int) {
	consumer := fmt.Sprintf("%s-worker-%d", p.workerID, id)
	log := p.logger.WithField("consumer", consumer)

	for ctx.Err() == nil {
		msg, err := p.queue.ReadJob(ctx, consumer)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Warn("WORKER: read failed")
			if msg == nil {
				sleep(ctx, time.Second)
				continue
			}
		}
		if msg == nil {
			continue
		}
		p.handle(ctx, log, msg)
	}
}

// handle publishes a result for msg and acks it. Undecodable messages are
// acked without a result since nobody can be waiting on them.
func (p *Pool) handle(ctx context.Context, log logrus.FieldLogger, msg *queue.Message) {
	if msg.Job == nil {
		log.WithField("message_id", msg.ID).Warn("WORKER: dropping undecodable job")
		p.ack(ctx, log, msg.ID)
		p.failed.Add(1)
		return
	}

	res := p.Process(msg.Job)
	if _, err := p.queue.PublishResult(ctx, res); err != nil {
		// Left pending so the retry monitor can claim it.
		log.WithError(err).WithField("job_id", msg.Job.ID).Error("WORKER: publish failed")
		return
	}
	p.ack(ctx, log, msg.ID)

	if res.Error != "" {
		p.failed.Add(1)
		log.WithFields(logrus.Fields{"job_id": res.JobID, "error": res.Error}).Warn("WORKER: job failed")
		return
	}
	if n := p.processed.Add(1); n%100 == 0 {
		log.WithField("processed", n).Info("WORKER: progress")
	}
}

func (p *Pool) ack(ctx context.Context, log logrus.FieldLogger, id string) {
	if err := p.queue.AckJob(ctx, id); err != nil {
		log.WithError(err).WithField("message_id", id).Error("WORKER: ack failed")
	}
}

// Process runs one job. Failures are reported in the result.
func (p *Pool) Process(job *queue.Job) *queue.Result {
	start := time.Now()
	res := &queue.Result{JobID: job.ID, WorkerID: p.workerID}

	out, err := p.apply(job)
	res.ProcessMS = float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Width, res.Height = out.Width, out.Height
	res.Pixels = make([]float64, 0, out.Width*out.Height)
	for y := 0; y < out.Height; y++ {
		res.Pixels = append(res.Pixels, out.Row(y)...)
	}
	return res
}

func (p *Pool) apply(job *queue.Job) (*grid.Grid, error) {
	input, err := job.Grid()
	if err != nil {
		return nil, err
	}
	params := p.cfg.Params(job.Algorithm, job.Params)
	return algorithms.Apply(job.Algorithm, input, params, algorithms.WithWorkers(p.cfg.Workers))
}

func (p *Pool) retryMonitor(ctx context.Context) {
	ticker := time.NewTicker(p.claimInterval)
	defer ticker.Stop()

	consumer := fmt.Sprintf("%s-retry-monitor", p.workerID)
	log := p.logger.WithField("consumer", consumer)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msgs, err := p.queue.ClaimStaleJobs(ctx, consumer, 50)
			if err != nil {
				if ctx.Err() == nil {
					log.WithError(err).Warn("WORKER: claim failed")
				}
				continue
			}
			if len(msgs) > 0 {
				log.WithField("claimed", len(msgs)).Info("WORKER: retrying stale jobs")
			}
			for _, msg := range msgs {
				p.handle(ctx, log, msg)
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
