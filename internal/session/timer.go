// internal/session/timer.go
//
// Match Timer: the room's authoritative countdown.
//
// Remaining seconds are derived from the tick timestamp and the start time,
// never from a decrementing counter, and never increase even if a tick
// arrives late or out of order. The timer goroutine takes only the room
// lock; cancel marks the timer stopped under that lock so a tick that was
// already in flight exits without broadcasting.

package session

import (
	"sync"
	"time"
)

// TickerFactory creates the periodic tick source for a match clock.
// stop releases the source; it is called once when the clock exits.
type TickerFactory interface {
	Create(interval time.Duration) (ticks <-chan time.Time, stop func())
}

// SystemTicker is the production TickerFactory.
type SystemTicker struct{}

func (SystemTicker) Create(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// MatchTimer holds clock state. Every field is guarded by the owning
// room's mutex except stop, which is closed at most once.
type MatchTimer struct {
	duration  time.Duration
	start     time.Time
	remaining int
	running   bool
	stopped   bool

	stop chan struct{}
	once sync.Once
}

func newMatchTimer(d time.Duration, start time.Time) *MatchTimer {
	return &MatchTimer{
		duration:  d,
		start:     start,
		remaining: int(d / time.Second),
		running:   true,
		stop:      make(chan struct{}),
	}
}

// compute returns max(0, duration - floor(now - start)) in seconds.
func (t *MatchTimer) compute(now time.Time) int {
	elapsed := int(now.Sub(t.start) / time.Second)
	return max(0, int(t.duration/time.Second)-max(0, elapsed))
}

// observe folds a tick into the published remaining time.
func (t *MatchTimer) observe(now time.Time) int {
	if r := t.compute(now); r < t.remaining {
		t.remaining = r
	}
	return t.remaining
}

// peek reports remaining time at now without publishing it.
func (t *MatchTimer) peek(now time.Time) int {
	if !t.running {
		return t.remaining
	}
	return min(t.remaining, t.compute(now))
}

func (t *MatchTimer) sync() TimerSync {
	return TimerSync{TimeRemaining: t.remaining, IsRunning: t.running && t.remaining > 0}
}

// cancel stops the clock. Idempotent; caller holds the room lock.
func (t *MatchTimer) cancel() {
	t.running = false
	t.stopped = true
	t.once.Do(func() { close(t.stop) })
}
