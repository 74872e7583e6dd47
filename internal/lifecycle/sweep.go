package lifecycle

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Sweeper periodically re-evaluates every live auction. It is the safety
// net behind the per-auction timers: a timer lost to a crash or a failed
// transition is picked up on the next sweep.
type Sweeper struct {
	engine    *Engine
	scheduler gocron.Scheduler
	interval  time.Duration
}

func NewSweeper(engine *Engine, interval time.Duration) (*Sweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Sweeper{
		engine:    engine,
		scheduler: scheduler,
		interval:  interval,
	}, nil
}

// Start schedules the periodic inactivity evaluation.
func (s *Sweeper) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(
			func() {
				ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
				defer cancel()

				if err := s.engine.EvaluateInactivity(ctx); err != nil {
					log.Err(err).Msg("inactivity sweep failed")
				}
			},
		),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down and waits for a running sweep to finish.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}
