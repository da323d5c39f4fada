package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RetryAfterSeconds returns the Retry-After value in whole seconds, at
// least 1 for rejected requests.
func (d Decision) RetryAfterSeconds() int {
	secs := int(math.Ceil(d.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

type clientWindow struct {
	count int
	start time.Time
}

// Limiter enforces a fixed-window request budget per client key. The window
// is anchored at the first request a client makes after its previous window
// expired, not at wall-clock boundaries.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow

	limit     int
	window    time.Duration
	retention time.Duration

	now func() time.Time
}

func New(limit int, window, retention time.Duration) *Limiter {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	if retention < window {
		retention = window
	}
	return &Limiter{
		clients:   make(map[string]*clientWindow),
		limit:     limit,
		window:    window,
		retention: retention,
		now:       time.Now,
	}
}

// Admit records one request for key and decides whether it may proceed.
func (l *Limiter) Admit(key string) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) > l.window {
		l.clients[key] = &clientWindow{count: 1, start: now}
		return Decision{Allowed: true, Remaining: l.limit - 1}
	}

	if w.count >= l.limit {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: w.start.Add(l.window).Sub(now),
		}
	}

	w.count++
	return Decision{Allowed: true, Remaining: l.limit - w.count}
}

// ActiveClients reports how many distinct clients are currently tracked.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// StartJanitor sweeps expired entries on a fixed interval until ctx is
// cancelled. The sweep interval is independent of the retention threshold.
func (l *Limiter) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.sweep()
			}
		}
	}()
}

func (l *Limiter) sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, w := range l.clients {
		if now.Sub(w.start) > l.retention {
			delete(l.clients, key)
		}
	}
}
