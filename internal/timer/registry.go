package timer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Kind distinguishes the two waiting states an auction can be in.
type Kind string

const (
	KindInactivity Kind = "inactivity"
	KindCountdown  Kind = "countdown"
)

// FireFunc runs on the timer's own goroutine when it fires. Callbacks must
// re-check persisted state before acting: a fire that raced a cancel is
// required to degrade to a no-op.
type FireFunc func(auctionID uuid.UUID, kind Kind)

type handle struct {
	kind   Kind
	timer  clockwork.Timer
	cancel chan struct{}
}

// Registry owns every live auction timer. At most one timer is live per
// auction id at any instant; arming over an existing timer cancels it
// first. The registry is created at service start and torn down with
// Shutdown, never accessed as ambient state.
type Registry struct {
	clock clockwork.Clock

	mu     sync.Mutex
	timers map[uuid.UUID]*handle
}

func NewRegistry(clock clockwork.Clock) *Registry {
	return &Registry{
		clock:  clock,
		timers: make(map[uuid.UUID]*handle),
	}
}

// Arm schedules onFire after duration, replacing any live timer for the
// auction id.
func (r *Registry) Arm(ctx context.Context, auctionID uuid.UUID, kind Kind, duration time.Duration, onFire FireFunc) {
	h := &handle{
		kind:   kind,
		timer:  r.clock.NewTimer(duration),
		cancel: make(chan struct{}),
	}

	r.mu.Lock()
	if old, ok := r.timers[auctionID]; ok {
		stopAndDrainTimer(old.timer)
		close(old.cancel)
		log.Debug().Str("auction_id", auctionID.String()).Str("kind", string(old.kind)).Msg("replaced existing timer")
	}
	r.timers[auctionID] = h
	r.mu.Unlock()

	go func() {
		select {
		case <-h.timer.Chan():
			// Only the current handle may act; a replaced timer that
			// managed to fire before its goroutine observed the cancel
			// must not.
			if !r.remove(auctionID, h) {
				return
			}
			onFire(auctionID, kind)
		case <-h.cancel:
		case <-ctx.Done():
			stopAndDrainTimer(h.timer)
			r.remove(auctionID, h)
		}
	}()
}

// Replace is an atomic cancel+arm. It exists for call-site clarity; Arm
// already guarantees the cancel-first semantics.
func (r *Registry) Replace(ctx context.Context, auctionID uuid.UUID, kind Kind, duration time.Duration, onFire FireFunc) {
	r.Arm(ctx, auctionID, kind, duration, onFire)
}

// Cancel stops and discards the live timer for the auction id. Cancelling
// an id with no live timer is a no-op.
func (r *Registry) Cancel(auctionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.timers[auctionID]; ok {
		stopAndDrainTimer(h.timer)
		close(h.cancel)
		delete(r.timers, auctionID)
		log.Debug().Str("auction_id", auctionID.String()).Str("kind", string(h.kind)).Msg("cancelled timer")
	}
}

// Live reports the kind of the live timer for the auction id, if any.
func (r *Registry) Live(auctionID uuid.UUID) (Kind, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.timers[auctionID]
	if !ok {
		return "", false
	}
	return h.kind, true
}

// Shutdown cancels every live timer.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, h := range r.timers {
		stopAndDrainTimer(h.timer)
		close(h.cancel)
		delete(r.timers, id)
	}
}

// remove deletes the handle if it is still the current one for the id.
// Reports whether h was current.
func (r *Registry) remove(auctionID uuid.UUID, h *handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.timers[auctionID]; ok && current == h {
		delete(r.timers, auctionID)
		return true
	}
	return false
}

// stopAndDrainTimer safely stops a timer and drains its channel to prevent
// goroutine leaks, per the time.Timer.Stop documentation.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
