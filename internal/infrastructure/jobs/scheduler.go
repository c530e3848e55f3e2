package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// IdleEvictor drops client instances that have not been seen for ttl.
type IdleEvictor interface {
	EvictIdle(ttl time.Duration) int
}

// Scheduler runs the gateway's housekeeping on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	registry IdleEvictor
	idleTTL  time.Duration
	spec     string
	log      zerolog.Logger
}

// NewScheduler evicts idle instances according to spec, a six-field cron
// expression (seconds first), e.g. "0 */5 * * * *".
func NewScheduler(registry IdleEvictor, spec string, idleTTL time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		registry: registry,
		idleTTL:  idleTTL,
		spec:     spec,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.registry == nil || s.idleTTL <= 0 {
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.evictIdle); err != nil {
		return fmt.Errorf("schedule idle eviction %q: %w", s.spec, err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running job, up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) evictIdle() {
	if n := s.registry.EvictIdle(s.idleTTL); n > 0 {
		s.log.Info().Int("evicted", n).Dur("idle_ttl", s.idleTTL).Msg("evicted idle client instances")
	}
}
