package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger routes robfig/cron logs to zap
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	zap.L().Sugar().Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	zap.L().Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

// ScheduleSweep runs s on the given cron spec (e.g. "@daily" or "0 3 * * *").
// A run is skipped while the previous one is still going. Stop the returned
// cron to detach it
func ScheduleSweep(spec string, s *Sweeper) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger{}),
		cron.SkipIfStillRunning(cronLogger{}),
	))

	_, err := c.AddFunc(spec, func() {
		if _, err := s.Sweep(context.Background(), time.Now()); err != nil {
			zap.L().Error("Scheduled cleanup failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q, %w", spec, err)
	}

	c.Start()

	zap.L().Debug("Pending application cleanup attached", zap.String("schedule", spec))

	return c, nil
}
