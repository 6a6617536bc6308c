// Redis Streams transport for filter jobs and their results
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"image-filter-engine/internal/config"
)

// Message pairs a stream entry ID with its decoded job
type Message struct {
	ID  string
	Job *Job
}

type RedisQueue struct {
	client *redis.Client
	cfg    config.RedisConfig
}

func NewRedisQueue(ctx context.Context, cfg config.RedisConfig) (*RedisQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  cfg.Block + 3*time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisQueue{client: client, cfg: cfg}, nil
}

func (r *RedisQueue) Close() error {
	return r.client.Close()
}

// EnsureGroups creates the worker consumer group, and the streams if missing
func (r *RedisQueue) EnsureGroups(ctx context.Context) error {
	err := r.client.XGroupCreateMkStream(ctx, r.cfg.JobsStream, r.cfg.Group, "0").Err()
	if err != nil && !isBusyGroup(err) {
		return fmt.Errorf("create group %s: %w", r.cfg.Group, err)
	}
	return nil
}

func (r *RedisQueue) AddJob(ctx context.Context, job *Job) (string, error) {
	return r.add(ctx, r.cfg.JobsStream, job)
}

func (r *RedisQueue) PublishResult(ctx context.Context, res *Result) (string, error) {
	return r.add(ctx, r.cfg.ResultsStream, res)
}

func (r *RedisQueue) add(ctx context.Context, stream string, v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{"data": b},
	}).Result()
}

// ReadJob blocks up to the configured duration for a new job. It returns a
// nil message when nothing arrived.
func (r *RedisQueue) ReadJob(ctx context.Context, consumer string) (*Message, error) {
	streams, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    r.cfg.Group,
		Consumer: consumer,
		Streams:  []string{r.cfg.JobsStream, ">"},
		Count:    1,
		Block:    r.cfg.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, nil
	}

	msg := streams[0].Messages[0]
	job, err := decode[Job](msg.Values)
	if err != nil {
		return &Message{ID: msg.ID}, fmt.Errorf("decode job %s: %w", msg.ID, err)
	}
	return &Message{ID: msg.ID, Job: job}, nil
}

func (r *RedisQueue) AckJob(ctx context.Context, id string) error {
	return r.client.XAck(ctx, r.cfg.JobsStream, r.cfg.Group, id).Err()
}

// ClaimStaleJobs takes over jobs another consumer read but never acknowledged
func (r *RedisQueue) ClaimStaleJobs(ctx context.Context, consumer string, count int) ([]*Message, error) {
	msgs, _, err := r.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   r.cfg.JobsStream,
		Group:    r.cfg.Group,
		Consumer: consumer,
		MinIdle:  r.cfg.ClaimIdle,
		Start:    "0-0",
		Count:    int64(count),
	}).Result()
	if err != nil {
		return nil, err
	}

	claimed := make([]*Message, 0, len(msgs))
	for _, msg := range msgs {
		job, err := decode[Job](msg.Values)
		if err != nil {
			claimed = append(claimed, &Message{ID: msg.ID})
			continue
		}
		claimed = append(claimed, &Message{ID: msg.ID, Job: job})
	}
	return claimed, nil
}

// ReadResult reads the next result after lastID ("0" for the beginning,
// "$" for only new entries). It returns nil when nothing arrived in time.
// An undecodable entry yields its ID with an ErrMalformedMessage error.
func (r *RedisQueue) ReadResult(ctx context.Context, lastID string) (string, *Result, error) {
	streams, err := r.client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{r.cfg.ResultsStream, lastID},
		Count:   1,
		Block:   r.cfg.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return lastID, nil, nil
	}
	if err != nil {
		return lastID, nil, err
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return lastID, nil, nil
	}

	msg := streams[0].Messages[0]
	res, err := decode[Result](msg.Values)
	if err != nil {
		return msg.ID, nil, fmt.Errorf("decode result %s: %w", msg.ID, err)
	}
	return msg.ID, res, nil
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}
