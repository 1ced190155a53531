package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RunPeriodically triggers the scheduler every interval until ctx is done.
// It stands in for an external cron hitting /api/automation/run.
func RunPeriodically(ctx context.Context, scheduler Scheduler, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := scheduler.Run(ctx)
			if err != nil {
				log.Error().Err(err).Msg("scheduled run failed")
				continue
			}
			log.Info().
				Str("state", string(result.State)).
				Int("generated", result.Generated).
				Int("attempted", result.Attempted).
				Msg("scheduled run finished")
		}
	}
}
