package timectrl

import (
	"context"
	"sync"
	"time"
)

// Mode describes how the TimeController advances simulation time.
type Mode int

const (
	// RealTime advances according to wall-clock time, one tick per
	// interval.
	RealTime Mode = iota
	// Accelerated advances as quickly as the loop can run while still
	// stepping simulation time by the tick interval.
	Accelerated
)

// TickFunc is invoked once per tick, strictly sequentially. Returning
// an error stops the controller; no tick is ever partially applied.
type TickFunc func(ctx context.Context, tick int, simTime time.Time) error

// TimeController drives the simulation's tick loop. Cancellation is
// honoured between ticks only: an in-progress tick always completes
// before the loop observes the context.
type TimeController struct {
	mu        sync.RWMutex
	startTime time.Time
	tick      time.Duration
	mode      Mode

	currentTime time.Time
	currentTick int
}

// NewTimeController constructs a controller starting simulation time at
// start with the given tick interval.
func NewTimeController(start time.Time, tick time.Duration, mode Mode) *TimeController {
	return &TimeController{
		startTime:   start,
		tick:        tick,
		mode:        mode,
		currentTime: start,
	}
}

// Now returns the current simulation time.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// Tick returns the index of the last completed tick, -1 before the
// first.
func (tc *TimeController) Tick() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTick - 1
}

// Run executes up to maxTicks ticks (0 means unbounded), invoking fn
// once per tick. It returns nil when the tick budget is spent, the
// context's error when cancelled between ticks, or the first error fn
// reports.
func (tc *TimeController) Run(ctx context.Context, maxTicks int, fn TickFunc) error {
	var ticker *time.Ticker
	if tc.mode == RealTime {
		ticker = time.NewTicker(tc.tick)
		defer ticker.Stop()
	}

	simTime := tc.startTime
	for tick := 0; maxTicks == 0 || tick < maxTicks; tick++ {
		if tc.mode == RealTime {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := fn(ctx, tick, simTime); err != nil {
			return err
		}

		simTime = simTime.Add(tc.tick)
		tc.mu.Lock()
		tc.currentTime = simTime
		tc.currentTick = tick + 1
		tc.mu.Unlock()
	}
	return nil
}
