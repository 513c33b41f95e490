// Package publish schedules order publication, immediately or after a
// rule-configured delay.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/SKR-SG/ASP/internal/domains/job"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// Action performs the actual publication of one order. The engine binds
// this after construction, the two sides reference each other.
type Action func(ctx context.Context, platform, externalNo string) error

// JobProducer enqueues a job on the sync queue.
type JobProducer interface {
	Publish(queue string, data []byte, ttl, delay uint32) error
}

// Scheduler routes publications: zero delay runs inline, a positive delay
// becomes a broker-held delayed job that survives worker restarts.
type Scheduler struct {
	producer JobProducer
	queue    string
	jobTTL   time.Duration
	action   Action
	logger   logger.Logger
}

// NewScheduler creates a scheduler. Call SetAction before Schedule.
func NewScheduler(producer JobProducer, queue string, jobTTL time.Duration, log logger.Logger) *Scheduler {
	return &Scheduler{
		producer: producer,
		queue:    queue,
		jobTTL:   jobTTL,
		logger:   log,
	}
}

// SetAction binds the publish action.
func (s *Scheduler) SetAction(action Action) {
	s.action = action
}

// Schedule publishes the order now or enqueues it delayMinutes into the
// future. The delayed path re-checks order existence at fire time, so a
// stale job is harmless.
func (s *Scheduler) Schedule(ctx context.Context, platform, externalNo string, delayMinutes int) error {
	if delayMinutes <= 0 {
		if s.action == nil {
			return fmt.Errorf("publish action not bound")
		}
		return s.action(ctx, platform, externalNo)
	}

	data, err := job.NewPublish(platform, externalNo).Encode()
	if err != nil {
		return fmt.Errorf("encode publish job: %w", err)
	}

	delay := uint32(delayMinutes * 60)
	if err := s.producer.Publish(s.queue, data, uint32(s.jobTTL.Seconds()), delay); err != nil {
		return fmt.Errorf("enqueue publish job: %w", err)
	}

	s.logger.Infof(ctx, "[Scheduler] Publish scheduled: external_no=%s, delay=%dm", externalNo, delayMinutes)
	return nil
}
