// Package ratelimit implements a sliding-window limiter keyed by user and action.
// State is in memory only and is lost on restart.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/metrics"
)

// ErrInvalidArgument is returned for non-positive limits, windows or weights.
var ErrInvalidArgument = errors.New("invalid rate limit argument")

// Decision is the outcome of a check.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Policy is a named limit applied to one action.
type Policy struct {
	Action  string
	MaxUses int
	Window  time.Duration
}

// Policies used by the bot.
var (
	CreateTicket = Policy{Action: "create_ticket", MaxUses: 3, Window: 300 * time.Second}
	Vouch        = Policy{Action: "vouch", MaxUses: 5, Window: 60 * time.Second}
	Command      = Policy{Action: "command", MaxUses: 5, Window: 60 * time.Second}
	HTTPRequest  = Policy{Action: "http", MaxUses: 100, Window: 60 * time.Second}
)

type event struct {
	at     time.Time
	weight int
}

type key struct {
	user   string
	action string
}

// Limiter tracks recent events per (user, action). The zero value is not
// usable; create one with New.
type Limiter struct {
	mu      sync.Mutex
	windows map[key][]event
	now     func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates an empty limiter.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		windows: make(map[key][]event),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckAndRecord counts one use of action by user. Events older than window
// are forgotten; if maxUses remain the call is rejected and RetryAfter says
// when the oldest one expires. Otherwise the use is recorded and allowed.
func (l *Limiter) CheckAndRecord(userID, action string, maxUses int, window time.Duration) (Decision, error) {
	return l.CheckAndRecordN(userID, action, maxUses, window, 1)
}

// CheckAndRecordN is CheckAndRecord for an event that counts weight uses.
func (l *Limiter) CheckAndRecordN(userID, action string, maxUses int, window time.Duration, weight int) (Decision, error) {
	if maxUses <= 0 || window <= 0 || weight <= 0 {
		return Decision{}, fmt.Errorf("%w: max_uses=%d window=%s weight=%d", ErrInvalidArgument, maxUses, window, weight)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	k := key{user: userID, action: action}
	events := prune(l.windows[k], now, window)

	used := 0
	for _, e := range events {
		used += e.weight
	}

	if used+weight > maxUses {
		l.windows[k] = events
		retry := time.Duration(0)
		if len(events) > 0 {
			retry = window - now.Sub(events[0].at)
		} else {
			// A single event heavier than the whole budget can never pass.
			retry = window
		}
		metrics.RateLimitRejections.WithLabelValues(action).Inc()
		logger.Debug(fmt.Sprintf("Límite alcanzado: %s/%s (reintentar en %s)", userID, action, retry.Round(time.Millisecond)), "RateLimit")
		return Decision{Allowed: false, RetryAfter: retry}, nil
	}

	l.windows[k] = append(events, event{at: now, weight: weight})
	return Decision{Allowed: true}, nil
}

// Check applies a named policy.
func (l *Limiter) Check(userID string, p Policy) (Decision, error) {
	return l.CheckAndRecord(userID, p.Action, p.MaxUses, p.Window)
}

// prune drops events at or beyond the window edge. Events are kept in
// insertion order so the oldest survivor is first.
func prune(events []event, now time.Time, window time.Duration) []event {
	i := 0
	for i < len(events) && now.Sub(events[i].at) >= window {
		i++
	}
	if i == 0 {
		return events
	}
	return append(events[:0:0], events[i:]...)
}

// Reset forgets every action of a user.
func (l *Limiter) Reset(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.windows {
		if k.user == userID {
			delete(l.windows, k)
		}
	}
}

// ResetAction forgets one action of a user.
func (l *Limiter) ResetAction(userID, action string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key{user: userID, action: action})
}

// Prune drops events older than maxWindow and removes keys left empty.
// It returns how many keys were removed.
func (l *Limiter) Prune(maxWindow time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for k, events := range l.windows {
		events = prune(events, now, maxWindow)
		if len(events) == 0 {
			delete(l.windows, k)
			removed++
			continue
		}
		l.windows[k] = events
	}
	return removed
}

// Len returns how many (user, action) windows are tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Start prunes the limiter every interval until ctx is done. maxWindow must
// be at least the longest window any caller uses.
func (l *Limiter) Start(ctx context.Context, interval, maxWindow time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := l.Prune(maxWindow); n > 0 {
					logger.Debug(fmt.Sprintf("Se limpiaron %d ventanas inactivas", n), "RateLimit")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
