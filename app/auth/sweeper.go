package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// StartSweeper schedules the removal of expired sessions. The returned
// scheduler is running; stop it on shutdown.
func StartSweeper(schedule string, sessions SessionPurger) (*cron.Cron, error) {
	sched := cron.New(cron.WithParser(cronParser))
	_, err := sched.AddFunc(schedule, func() {
		SweepSessions(context.Background(), sessions)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "schedule session sweep %q", schedule)
	}
	sched.Start()
	return sched, nil
}

// SweepSessions purges sessions that are already expired.
func SweepSessions(ctx context.Context, sessions SessionPurger) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	n, err := sessions.PurgeExpiredSessions(ctx, time.Now())
	if err != nil {
		zap.L().Error("sweep sessions", zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("expired sessions removed", zap.Int64("count", n))
	}
}
