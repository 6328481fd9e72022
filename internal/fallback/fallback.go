// Package fallback implements the opt-in degraded mode: when the
// database is unreachable and DEMO_FALLBACK is enabled, read endpoints
// serve canned demo payloads marked with a note instead of failing.
// The guard keeps a down flag so repeated failures do not hammer a
// dead database, and probes for recovery after an interval.
package fallback

import (
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Notes returned in the response envelope when a demo payload is
// substituted for real data.
const (
	NoteDemoData    = "Database not connected - showing demo data"
	NoteDemoBooking = "Database not connected - demo booking created"
)

// retryInterval is how long the guard stays down before the next
// request is allowed to probe the database again.
const retryInterval = time.Minute

// Guard tracks database reachability for the degraded mode.  When
// disabled it never admits a fallback and callers surface errors as
// 500s.  The zero value is a disabled guard.
type Guard struct {
	enabled bool
	logger  *zerolog.Logger

	down     atomic.Bool
	mu       sync.Mutex
	lastTrip time.Time
}

// NewGuard returns a Guard.  enabled mirrors the DEMO_FALLBACK config
// flag; logger may not be nil.
func NewGuard(enabled bool, logger *zerolog.Logger) *Guard {
	return &Guard{enabled: enabled, logger: logger}
}

// Enabled reports whether demo fallback was opted into.
func (g *Guard) Enabled() bool { return g != nil && g.enabled }

// Down reports whether the last database contact failed and the retry
// interval has not yet elapsed.
func (g *Guard) Down() bool {
	if g == nil || !g.down.Load() {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if time.Since(g.lastTrip) > retryInterval {
		// Let the next caller probe the database again.
		g.down.Store(false)
		return false
	}
	return true
}

// Trip records a persistence failure and reports whether the caller
// should serve a demo payload.  Domain errors (sql.ErrNoRows) never
// trip the guard; they mean the database answered.
func (g *Guard) Trip(err error) bool {
	if g == nil || err == nil || errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if !g.down.Swap(true) {
		g.logger.Error().Err(err).Msg("database unreachable, entering degraded mode")
	}
	g.mu.Lock()
	g.lastTrip = time.Now()
	g.mu.Unlock()
	return g.enabled
}

// Clear records a successful database round trip.
func (g *Guard) Clear() {
	if g == nil {
		return
	}
	if g.down.Swap(false) {
		g.logger.Info().Msg("database reachable again, leaving degraded mode")
	}
}
