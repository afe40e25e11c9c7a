package scheduler

import (
	"context"
	"time"

	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

// IntervalScheduler triggers the job once at start and then on a fixed
// interval. Scheduling stays an injectable trigger: the ingestion core never
// knows whether it runs from here, from cron, or by hand.
type IntervalScheduler struct {
	interval time.Duration
	stop     chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds a scheduler; intervals below a minute are
// clamped to protect provider API quotas.
func NewIntervalScheduler(interval time.Duration) *IntervalScheduler {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &IntervalScheduler{interval: interval}
}

// Start begins ticking in a background goroutine.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (s *IntervalScheduler) Stop(context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
