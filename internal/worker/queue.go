package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

const (
	QueueBookingEmail     = "jobs:booking_email"
	QueueStatementArchive = "jobs:statement_archive"

	JobBookingEmail     = "booking_email"
	JobStatementArchive = "statement_archive"
)

// Job is the envelope pushed to every queue.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type StatementJob struct {
	SettlementID uint `json:"settlement_id"`
}

func NewRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// Queue pushes jobs to Redis lists; the pool pops them with BRPOP.
type Queue struct {
	rdb *redis.Client
}

func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// BookingConfirmed implements notify.Notifier by deferring delivery to a worker.
func (q *Queue) BookingConfirmed(ctx context.Context, n notify.BookingNotice) error {
	return q.enqueue(ctx, QueueBookingEmail, JobBookingEmail, n)
}

func (q *Queue) EnqueueStatementArchive(ctx context.Context, settlementID uint) error {
	return q.enqueue(ctx, QueueStatementArchive, JobStatementArchive, StatementJob{SettlementID: settlementID})
}

func (q *Queue) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	encoded, err := encodeJob(jobType, payload)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, queue, encoded).Err()
}

func encodeJob(jobType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Job{Type: jobType, Payload: data})
}

var _ notify.Notifier = (*Queue)(nil)
