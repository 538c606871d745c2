package cleanup

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper drops entries that are stale at now and reports how many it dropped
type Sweeper interface {
	Sweep(now time.Time) int
}

// Cleaner handles periodic sweeping of in-memory visitor state
type Cleaner struct {
	interval time.Duration
	targets  map[string]Sweeper
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
}

// NewCleaner creates a new cleanup worker
func NewCleaner(interval time.Duration) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Cleaner{
		interval: interval,
		targets:  make(map[string]Sweeper),
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Add registers a sweep target; call before Start
func (c *Cleaner) Add(name string, s Sweeper) {
	c.targets[name] = s
}

// Start begins the cleanup worker in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

// Done is closed once the worker has stopped
func (c *Cleaner) Done() <-chan struct{} {
	return c.done
}

// Run blocks until ctx is cancelled
func (c *Cleaner) Run(ctx context.Context) error {
	c.run(ctx)
	return nil
}

func (c *Cleaner) run(ctx context.Context) {
	defer c.once.Do(func() { close(c.done) })

	slog.Info("cleanup worker started", "interval", c.interval, "targets", len(c.targets))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Sweep runs one cycle over all targets and returns the total removed
func (c *Cleaner) Sweep() int {
	now := c.now()
	total := 0

	for name, s := range c.targets {
		removed := s.Sweep(now)
		if removed > 0 {
			slog.Info("swept stale entries", "target", name, "removed", removed)
		}
		total += removed
	}

	slog.Debug("cleanup cycle finished", "removed", total)
	return total
}
