// Package sweeper runs the periodic completion pass in the background.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"stayhub/internal/usecase/commands"
)

type Sweeper struct {
	completion commands.CompletionCommands
	interval   time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func New(completion commands.CompletionCommands, interval time.Duration) *Sweeper {
	return &Sweeper{
		completion: completion,
		interval:   interval,
	}
}

// Start launches the sweep loop. A pass runs immediately so restarts do not
// delay overdue transitions by a full interval.
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
}

// Stop signals the loop and waits for an in-flight pass to finish.
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	started := time.Now()
	report := s.completion.Sweep(ctx)
	slog.Info("completion sweep finished",
		"completed", report.Completed,
		"expired", report.Expired,
		"failed", report.Failed,
		"duration", time.Since(started),
	)
}
