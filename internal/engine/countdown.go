package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-thoinoi/internal/config"
)

// TimeRemaining is the days/hours/minutes/seconds breakdown until the party.
// It is derived on every tick and never stored.
type TimeRemaining struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`

	// Reached is true exactly when all four fields are zero.
	Reached bool `json:"reached"`
}

// TotalSeconds folds the breakdown back into whole seconds.
func (t TimeRemaining) TotalSeconds() int64 {
	return t.Days*config.SecondsPerDay +
		t.Hours*config.SecondsPerHour +
		t.Minutes*config.SecondsPerMinute +
		t.Seconds
}

// Remaining computes the time left from now until target, truncated to whole
// seconds and clamped to zero once the target has passed.
func Remaining(target, now time.Time) TimeRemaining {
	diff := target.Sub(now)
	if diff <= 0 {
		return TimeRemaining{Reached: true}
	}

	total := int64(diff / time.Second)
	if total == 0 {
		return TimeRemaining{Reached: true}
	}

	return TimeRemaining{
		Days:    total / config.SecondsPerDay,
		Hours:   (total % config.SecondsPerDay) / config.SecondsPerHour,
		Minutes: (total % config.SecondsPerHour) / config.SecondsPerMinute,
		Seconds: total % config.SecondsPerMinute,
	}
}

// Countdown recomputes TimeRemaining on a fixed cadence for one viewer.
type Countdown struct {
	Target   time.Time
	Clock    Clock
	Interval time.Duration // Zero means config.CountdownInterval.
}

// NewCountdown creates a countdown to target ticking once per second.
func NewCountdown(target time.Time, clock Clock) *Countdown {
	if clock == nil {
		clock = RealClock{}
	}
	return &Countdown{
		Target:   target,
		Clock:    clock,
		Interval: config.CountdownInterval,
	}
}

// Snapshot returns the breakdown for the current instant.
func (c *Countdown) Snapshot() TimeRemaining {
	return Remaining(c.Target, c.Clock.Now())
}

// Run emits the current breakdown immediately and then once per interval
// until ctx is cancelled. emit is only ever called from the calling
// goroutine, and never after Run has returned.
func (c *Countdown) Run(ctx context.Context, emit func(TimeRemaining)) {
	interval := c.Interval
	if interval <= 0 {
		interval = config.CountdownInterval
	}

	log := slog.With(
		config.LogKeyComponent, config.CompCountdown,
		config.LogKeyTarget, c.Target.Format(time.RFC3339),
	)

	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		log.Debug(config.MsgCountdownStop)
	}()
	log.Debug(config.MsgCountdownStart)

	reached := c.tick(log, emit, false)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			reached = c.tick(log, emit, reached)
		}
	}
}

func (c *Countdown) tick(log *slog.Logger, emit func(TimeRemaining), wasReached bool) bool {
	left := c.Snapshot()
	if left.Reached && !wasReached {
		log.Info(config.MsgCountdownReached)
	}
	emit(left)
	return left.Reached
}
