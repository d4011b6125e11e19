package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"speech-coach/internal/repository"
)

// TokenSweeper periodically purges refresh-token rows that outlived the
// freshness window. The refresh gate already deletes stale rows eagerly on
// first use, so the sweeper is a backstop for sessions that simply go quiet.
type TokenSweeper struct {
	tokens   repository.RefreshTokenRepository
	window   time.Duration
	interval time.Duration
	logger   *logrus.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTokenSweeper(tokens repository.RefreshTokenRepository, window, interval time.Duration, logger *logrus.Logger) *TokenSweeper {
	if window <= 0 {
		window = time.Hour
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &TokenSweeper{
		tokens:   tokens,
		window:   window,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the sweep loop. It runs until the context is cancelled or
// Shutdown is called.
func (s *TokenSweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Infof("token sweeper started, interval %s, window %s", s.interval, s.window)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, err := s.PurgeExpired(ctx)
				if err != nil {
					s.logger.Warnf("purge expired refresh tokens: %v", err)
					continue
				}
				if purged > 0 {
					s.logger.Infof("purged %d expired refresh tokens", purged)
				}
			}
		}
	}()
}

// Shutdown stops the loop and waits for an in-flight sweep to finish.
func (s *TokenSweeper) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("token sweeper stopped")
}

// PurgeExpired deletes every refresh-token row older than the freshness
// window and reports how many went. Running it with nothing to purge is a
// no-op.
func (s *TokenSweeper) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.window)
	return s.tokens.DeleteOlderThan(ctx, cutoff)
}
