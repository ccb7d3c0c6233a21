package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/dhima/dbutils/internal/logging"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pinger is implemented by anything holding a connection worth keeping warm.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Keepalive pings a connection on a cron schedule so the server does not
// drop it for being idle. A failed ping is logged; nothing is reopened.
type Keepalive struct {
	cron    *cron.Cron
	pinger  Pinger
	logger  logging.Logger
	timeout time.Duration
}

// NewKeepalive schedules pings of p using spec, e.g. "@every 5m".
func NewKeepalive(spec string, p Pinger, logger logging.Logger) (*Keepalive, error) {
	k := &Keepalive{
		cron:    cron.New(),
		pinger:  p,
		logger:  logger.With(zap.String("component", "keepalive")),
		timeout: 10 * time.Second,
	}
	if _, err := k.cron.AddFunc(spec, k.tick); err != nil {
		return nil, fmt.Errorf("invalid keepalive spec %q: %w", spec, err)
	}
	return k, nil
}

// Start runs the schedule in the background.
func (k *Keepalive) Start() {
	k.cron.Start()
	k.logger.Info("keepalive started", zap.Int("jobs", len(k.cron.Entries())))
}

// Stop halts the schedule and waits for a running ping to finish.
func (k *Keepalive) Stop() {
	<-k.cron.Stop().Done()
}

func (k *Keepalive) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	start := time.Now()
	if err := k.pinger.Ping(ctx); err != nil {
		k.logger.Error("keepalive ping failed", zap.Error(err))
		return
	}
	k.logger.Debug("keepalive ping", zap.Duration("duration", time.Since(start)))
}
