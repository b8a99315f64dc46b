// internal/notify/sweeper.go
package notify

import (
	"context"
	"sync"
	"time"

	"recruit-admin/internal/common/logger"
	"recruit-admin/internal/experience"
)

// RenewableSource lists the probation periods currently inside their
// renewal window. internal/experience.Engine satisfies it.
type RenewableSource interface {
	ListRenewable(ctx context.Context) ([]experience.View, error)
}

// Sweeper periodically scans for periods whose renewal window just opened
// and emails the team once per period.
type Sweeper struct {
	source   RenewableSource
	notifier *Notifier
	interval time.Duration
	log      logger.Logger

	mu       sync.Mutex
	notified map[string]bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(source RenewableSource, notifier *Notifier, interval time.Duration, log logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		source:   source,
		notifier: notifier,
		interval: interval,
		log:      log.WithFields(map[string]interface{}{"component": "renewal_sweeper"}),
		notified: make(map[string]bool),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background sweep loop. One initial sweep runs
// immediately so restarts do not wait a full interval.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		s.sweep(ctx)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close stops the sweep loop and waits for it to exit.
func (s *Sweeper) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *Sweeper) sweep(ctx context.Context) {
	views, err := s.source.ListRenewable(ctx)
	if err != nil {
		s.log.WithError(err).Warn("renewal sweep failed", nil)
		return
	}
	for _, v := range views {
		s.mu.Lock()
		already := s.notified[v.ID]
		if !already {
			s.notified[v.ID] = true
		}
		s.mu.Unlock()
		if already {
			continue
		}
		s.notifier.RenewalWindowOpen(ctx, v.Nome, v.Vaga, v.DaysRemaining, v.ID)
	}
}
