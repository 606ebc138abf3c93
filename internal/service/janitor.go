package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"rift-rewind/internal/config"
	"rift-rewind/internal/constants"
	"rift-rewind/internal/metrics"
	"rift-rewind/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SessionJanitor periodically deletes expired sessions.
type SessionJanitor struct {
	sessions *repository.SessionRepository
	interval time.Duration
	logger   zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	g      *errgroup.Group
}

func NewSessionJanitor(sessions *repository.SessionRepository, cfg *config.Config, logger zerolog.Logger) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		interval: cfg.SessionPurgeInterval,
		logger:   logger.With().Str("component", "janitor").Logger(),
	}
}

func (j *SessionJanitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return j.loop(ctx)
	})
	j.cancel = cancel
	j.g = g

	j.logger.Info().Dur("interval", j.interval).Msg("session janitor started")
}

func (j *SessionJanitor) Stop() error {
	j.mu.Lock()
	cancel, g := j.cancel, j.g
	j.cancel, j.g = nil, nil
	j.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	j.logger.Info().Msg("session janitor stopped")
	return nil
}

// Sweep purges once and reports how many sessions went away.
func (j *SessionJanitor) Sweep(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	n, err := j.sessions.PurgeExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	metrics.SessionsPurgedTotal.Add(float64(n))
	return n, nil
}

func (j *SessionJanitor) loop(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil && ctx.Err() == nil {
				j.logger.Warn().Err(err).Msg("session purge failed")
			}
		}
	}
}
