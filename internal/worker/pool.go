package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/settings"
)

type BookingSender interface {
	SendBooking(ctx context.Context, clinic string, n notify.BookingNotice) error
}

type StatementArchiver interface {
	ArchiveStatement(ctx context.Context, settlementID uint) error
}

// Pool consumes the job queues. Nil collaborators make the matching jobs
// no-ops so a partially configured deployment still drains its queues.
type Pool struct {
	rdb      *redis.Client
	mailer   BookingSender
	archiver StatementArchiver
	settings settings.Reader

	wg sync.WaitGroup
}

func NewPool(
	rdb *redis.Client,
	mailer BookingSender,
	archiver StatementArchiver,
	settingsReader settings.Reader,
) *Pool {
	return &Pool{
		rdb:      rdb,
		mailer:   mailer,
		archiver: archiver,
		settings: settingsReader,
	}
}

// Start launches n workers that stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, n int) {
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Int("workers", n).Msg("worker pool started")
}

// Wait blocks until every worker has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	queues := []string{QueueBookingEmail, QueueStatementArchive}

	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}

		result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
		if err != nil {
			if err != redis.Nil && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("queue pop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		if err := p.Process(ctx, []byte(result[1])); err != nil {
			log.Error().Err(err).Str("queue", result[0]).Int("worker", id).Msg("job failed")
		}
	}
}

// Process runs one encoded job.
func (p *Pool) Process(ctx context.Context, raw []byte) error {
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("decode job: %w", err)
	}

	switch job.Type {
	case JobBookingEmail:
		var n notify.BookingNotice
		if err := json.Unmarshal(job.Payload, &n); err != nil {
			return fmt.Errorf("decode %s: %w", job.Type, err)
		}
		if p.mailer == nil || n.PatientEmail == "" {
			return nil
		}
		clinic := "Consultorio"
		if p.settings != nil {
			clinic = p.settings.String(ctx, settings.KeyClinicName, clinic)
		}
		if err := p.mailer.SendBooking(ctx, clinic, n); err != nil {
			return err
		}
		log.Info().Uint("appointment_id", n.AppointmentID).Msg("booking email sent")

	case JobStatementArchive:
		var sj StatementJob
		if err := json.Unmarshal(job.Payload, &sj); err != nil {
			return fmt.Errorf("decode %s: %w", job.Type, err)
		}
		if p.archiver == nil {
			return nil
		}
		if err := p.archiver.ArchiveStatement(ctx, sj.SettlementID); err != nil {
			return err
		}
		log.Info().Uint("settlement_id", sj.SettlementID).Msg("statement archived")

	default:
		return fmt.Errorf("unknown job type %q", job.Type)
	}
	return nil
}
