// Package scheduler re-invokes the sync job on a fixed wall-clock
// interval. Runs never overlap: a tick that fires while the previous
// run is still going is skipped.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

type Job func(ctx context.Context) error

type Scheduler struct {
	interval time.Duration
	job      Job
	onError  func(error)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	busy    atomic.Bool
}

func New(interval time.Duration, job Job, onError func(error)) *Scheduler {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	return &Scheduler{
		interval: interval,
		job:      job,
		onError:  onError,
	}
}

// RunNow executes the job synchronously, honoring the overlap guard.
func (s *Scheduler) RunNow(ctx context.Context) error {
	if !s.busy.CompareAndSwap(false, true) {
		fmt.Println("[SCHEDULER] Run already in progress — skipping")
		return nil
	}
	defer s.busy.Store(false)
	return s.job(ctx)
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		fmt.Println("[SCHEDULER] Already running")
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.RunNow(ctx); err != nil {
					fmt.Printf("[SCHEDULER] Run failed: %v\n", err)
					if s.onError != nil {
						s.onError(err)
					}
				}
			}
		}
	}()

	fmt.Printf("[SCHEDULER] Started (every %s)\n", s.interval)
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stopCh)
	s.running = false
	fmt.Println("[SCHEDULER] Stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
