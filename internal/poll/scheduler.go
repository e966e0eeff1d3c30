// Package poll runs the reconciliation loops that approximate real-time
// consistency without a push channel. Every periodic fetch in the client is
// registered here so teardown and visibility gating live in one place.
package poll

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Gate reports whether the owning view is visible. A hidden gate skips the
// tick entirely; the loop does not catch up on becoming visible again.
type Gate func() bool

// Always is the gate for loops with no visibility constraint.
func Always() bool { return true }

type registration struct {
	stop context.CancelFunc
}

type Scheduler struct {
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
	loops  map[string]*registration
	wg     sync.WaitGroup
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
		loops:  make(map[string]*registration),
	}
}

// Register starts a loop that runs task every interval while visible reports
// true. Registering a name again replaces the existing loop. The returned
// cancel stops the loop and is safe to call more than once. The first run
// happens one interval after registration: views that need fresh data on
// mount fetch explicitly before registering.
func (s *Scheduler) Register(name string, interval time.Duration, visible Gate, task func(ctx context.Context)) (cancel func()) {
	ctx, stop := context.WithCancel(context.Background())
	reg := &registration{stop: stop}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		stop()
		return func() {}
	}
	if prev, ok := s.loops[name]; ok {
		prev.stop()
	}
	s.loops[name] = reg
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(ctx, name, interval, visible, task)

	return func() {
		s.mu.Lock()
		if s.loops[name] == reg {
			delete(s.loops, name)
		}
		s.mu.Unlock()
		stop()
	}
}

func (s *Scheduler) run(ctx context.Context, name string, interval time.Duration, visible Gate, task func(ctx context.Context)) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !visible() {
				s.logger.Debug("poll tick skipped, view hidden", zap.String("task", name))
				continue
			}
			s.tick(ctx, name, task)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, name string, task func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("poll task panicked", zap.String("task", name), zap.Any("panic", r))
		}
	}()
	task(ctx)
}

// Close stops every loop and waits for in-flight ticks to finish.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	for name, reg := range s.loops {
		reg.stop()
		delete(s.loops, name)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
