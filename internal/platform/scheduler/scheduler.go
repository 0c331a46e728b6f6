// Package scheduler runs the periodic maintenance jobs of the server.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const purgeTimeout = 30 * time.Second

// ExpiredSessionDeleter is implemented by every session store.
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// PurgeExpiredSessions deletes expired session records once.
func PurgeExpiredSessions(ctx context.Context, store ExpiredSessionDeleter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, purgeTimeout)
	defer cancel()

	n, err := store.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	return n, nil
}

// New returns a started cron that purges expired sessions on spec.
// Call Stop on the result during shutdown.
func New(ctx context.Context, spec string, store ExpiredSessionDeleter) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		n, err := PurgeExpiredSessions(ctx, store)
		if err != nil {
			slog.Error("session purge failed", "error", err)
			return
		}
		if n > 0 {
			slog.Info("expired sessions purged", "count", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
