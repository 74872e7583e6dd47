package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	db "github.com/horizonmart/auction-BE/internal/db/sqlc"
	"github.com/horizonmart/auction-BE/internal/event"
	"github.com/horizonmart/auction-BE/internal/ledger"
	"github.com/horizonmart/auction-BE/internal/timer"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// opTimeout bounds every store call made from a timer callback or the
// periodic sweep, so a stalled database cannot pile up goroutines.
const opTimeout = 10 * time.Second

// Store is the slice of the durable store the engine needs.
type Store interface {
	GetAuctionByID(ctx context.Context, id uuid.UUID) (db.Auction, error)
	ListAuctionsByStatuses(ctx context.Context, statuses []db.AuctionStatus) ([]db.Auction, error)
	BeginEndingTx(ctx context.Context, arg db.BeginEndingTxParams) (db.Auction, error)
	EndAuctionTx(ctx context.Context, arg db.EndAuctionTxParams) (db.EndAuctionTxResult, error)
}

// Notifier receives finalized auctions for out-of-band delivery (emails,
// persisted notifications, external feeds). Calls happen after the ended
// status is durable.
type Notifier interface {
	AuctionFinalized(ctx context.Context, result db.EndAuctionTxResult)
}

// CacheInvalidator drops any cached read model for an auction after a
// status transition.
type CacheInvalidator interface {
	InvalidateAuction(ctx context.Context, auctionID uuid.UUID)
}

type Config struct {
	// InactivityTimeout is how long an active auction may go without a bid
	// before its ending countdown starts.
	InactivityTimeout time.Duration
	// FinalCountdown is the number of countdown ticks before finalization.
	FinalCountdown int
	// CountdownTick is the interval between countdown broadcasts.
	CountdownTick time.Duration
}

// Engine drives the auction lifecycle: active auctions that go quiet for
// InactivityTimeout enter a public final countdown, a bid during the
// countdown resets them to active, and a countdown that reaches zero
// finalizes the auction and picks the winner.
//
// All transitions for one auction serialize through the ledger's
// per-auction lock, the same lock bid acceptance takes, so a tick can
// never interleave with a bid commit.
type Engine struct {
	store    Store
	ledger   *ledger.Ledger
	registry *timer.Registry
	events   event.EventSender
	notifier Notifier         // optional
	cache    CacheInvalidator // optional
	clock    clockwork.Clock
	cfg      Config

	baseCtx context.Context

	mu         sync.Mutex
	countdowns map[uuid.UUID]int
}

func NewEngine(store Store, lgr *ledger.Ledger, registry *timer.Registry, events event.EventSender, clock clockwork.Clock, cfg Config) *Engine {
	if cfg.CountdownTick <= 0 {
		cfg.CountdownTick = time.Second
	}

	return &Engine{
		store:      store,
		ledger:     lgr,
		registry:   registry,
		events:     events,
		clock:      clock,
		cfg:        cfg,
		baseCtx:    context.Background(),
		countdowns: make(map[uuid.UUID]int),
	}
}

// SetNotifier wires an optional finalization sink. Must be called before Start.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifier = n
}

// SetCacheInvalidator wires an optional read cache. Must be called before Start.
func (e *Engine) SetCacheInvalidator(c CacheInvalidator) {
	e.cache = c
}

// Start binds the engine's timers to ctx and re-arms timers for every
// auction that is still active or ending in the store, so a restart resumes
// inactivity tracking and any interrupted countdown.
func (e *Engine) Start(ctx context.Context) error {
	e.baseCtx = ctx

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return e.EvaluateInactivity(opCtx)
}

// TrackAuction arms the inactivity timer for a newly created auction.
func (e *Engine) TrackAuction(auction db.Auction) {
	e.armInactivity(auction)
}

// EvaluateInactivity is the periodic sweep body. It walks every non-ended
// auction and repairs whatever state is stale: active auctions past the
// inactivity deadline begin ending, active auctions with no live timer get
// one re-armed, and ending auctions with no live countdown (a restart mid
// countdown) have their countdown restarted from the top.
//
// A failure on one auction is logged and never blocks the rest.
func (e *Engine) EvaluateInactivity(ctx context.Context) error {
	auctions, err := e.store.ListAuctionsByStatuses(ctx, []db.AuctionStatus{db.AuctionStatusActive, db.AuctionStatusEnding})
	if err != nil {
		return fmt.Errorf("failed to list live auctions: %w", err)
	}

	for _, auction := range auctions {
		switch auction.Status {
		case db.AuctionStatusActive:
			if e.clock.Now().Sub(auction.LastActivity()) >= e.cfg.InactivityTimeout {
				if err := e.BeginEnding(ctx, auction.ID); err != nil {
					log.Err(err).Str("auction_id", auction.ID.String()).Msg("sweep: failed to begin ending")
				}
				continue
			}
			if _, live := e.registry.Live(auction.ID); !live {
				e.armInactivity(auction)
			}
		case db.AuctionStatusEnding:
			if kind, live := e.registry.Live(auction.ID); live && kind == timer.KindCountdown {
				continue
			}
			if err := e.resumeCountdown(ctx, auction.ID); err != nil {
				log.Err(err).Str("auction_id", auction.ID.String()).Msg("sweep: failed to resume countdown")
			}
		}
	}

	return nil
}

func (e *Engine) armInactivity(auction db.Auction) {
	remaining := auction.LastActivity().Add(e.cfg.InactivityTimeout).Sub(e.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	e.registry.Replace(e.baseCtx, auction.ID, timer.KindInactivity, remaining, e.onInactivityFire)
}

// onInactivityFire re-reads the persisted auction before acting: the timer
// that fired may be stale relative to a bid that just landed, in which case
// the deadline is simply re-armed from the fresher last activity.
func (e *Engine) onInactivityFire(auctionID uuid.UUID, _ timer.Kind) {
	ctx, cancel := context.WithTimeout(e.baseCtx, opTimeout)
	defer cancel()

	auction, err := e.store.GetAuctionByID(ctx, auctionID)
	if err != nil {
		// The sweep re-arms on the next pass.
		log.Err(err).Str("auction_id", auctionID.String()).Msg("inactivity fire: failed to load auction")
		return
	}
	if auction.Status != db.AuctionStatusActive {
		return
	}
	if e.clock.Now().Sub(auction.LastActivity()) < e.cfg.InactivityTimeout {
		e.armInactivity(auction)
		return
	}

	if err := e.BeginEnding(ctx, auctionID); err != nil {
		log.Err(err).Str("auction_id", auctionID.String()).Msg("inactivity fire: failed to begin ending")
	}
}

// BeginEnding transitions an active auction into its final countdown and
// broadcasts auctionEnding. Losing the race against a concurrent bid or an
// earlier transition is a silent no-op.
func (e *Engine) BeginEnding(ctx context.Context, auctionID uuid.UUID) error {
	return e.ledger.WithLock(auctionID, func() error {
		auction, err := e.store.BeginEndingTx(ctx, db.BeginEndingTxParams{
			AuctionID:         auctionID,
			Now:               e.clock.Now(),
			InactivityTimeout: e.cfg.InactivityTimeout,
		})
		if errors.Is(err, db.ErrAuctionNotActive) || errors.Is(err, db.ErrAuctionStillActive) || errors.Is(err, db.ErrAuctionEnded) {
			return nil
		}
		if err != nil {
			// Not armed and not counted down; the sweep retries later.
			return fmt.Errorf("failed to begin ending: %w", err)
		}

		e.setCountdown(auctionID, e.cfg.FinalCountdown)
		e.invalidate(ctx, auctionID)

		highest, err := e.ledger.CurrentHighest(ctx, auctionID)
		if err != nil {
			highest = auction.StartingPrice
		}

		e.events.Broadcast(event.Event{
			Topic: event.AuctionTopic(auctionID),
			Type:  event.EventTypeAuctionEnding,
			Data: map[string]interface{}{
				"auction":        auction,
				"status":         db.AuctionStatusEnding,
				"countdown":      e.cfg.FinalCountdown,
				"currentHighest": highest,
				"message": fmt.Sprintf("No bids for %d seconds. Auction ending in %d seconds!",
					int(e.cfg.InactivityTimeout.Seconds()), e.countdownSeconds()),
			},
		})

		log.Info().
			Str("auction_id", auctionID.String()).
			Int("countdown", e.cfg.FinalCountdown).
			Msg("auction entered final countdown")

		e.scheduleTick(auctionID)
		return nil
	})
}

// resumeCountdown restarts the full countdown for an auction persisted in
// ending status with no live timer, as after a process restart. The no-timer
// check repeats under the per-auction lock: a tick in flight has already had
// its timer removed from the registry but re-arms the next one before the
// lock is released, and a healthy countdown must not be restarted. The
// auctionEnding broadcast repeats so connected clients resync.
func (e *Engine) resumeCountdown(ctx context.Context, auctionID uuid.UUID) error {
	return e.ledger.WithLock(auctionID, func() error {
		if kind, live := e.registry.Live(auctionID); live && kind == timer.KindCountdown {
			return nil
		}

		auction, err := e.store.GetAuctionByID(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("failed to load auction: %w", err)
		}
		if auction.Status != db.AuctionStatusEnding {
			return nil
		}

		e.setCountdown(auctionID, e.cfg.FinalCountdown)

		e.events.Broadcast(event.Event{
			Topic: event.AuctionTopic(auctionID),
			Type:  event.EventTypeAuctionEnding,
			Data: map[string]interface{}{
				"auction":   auction,
				"status":    db.AuctionStatusEnding,
				"countdown": e.cfg.FinalCountdown,
				"message":   fmt.Sprintf("Auction ending in %d seconds!", e.countdownSeconds()),
			},
		})

		e.scheduleTick(auctionID)
		return nil
	})
}

func (e *Engine) scheduleTick(auctionID uuid.UUID) {
	e.registry.Replace(e.baseCtx, auctionID, timer.KindCountdown, e.cfg.CountdownTick, e.onCountdownTick)
}

// onCountdownTick decrements one auction's countdown under the per-auction
// lock. The persisted status is re-read every tick: a bid that flipped the
// auction back to active cancels the countdown here if the bid path has not
// already announced it.
func (e *Engine) onCountdownTick(auctionID uuid.UUID, _ timer.Kind) {
	ctx, cancel := context.WithTimeout(e.baseCtx, opTimeout)
	defer cancel()

	err := e.ledger.WithLock(auctionID, func() error {
		auction, err := e.store.GetAuctionByID(ctx, auctionID)
		if err != nil {
			// Countdown timer is gone; the sweep resumes it.
			return fmt.Errorf("failed to load auction: %w", err)
		}

		if auction.Status != db.AuctionStatusEnding {
			if e.clearCountdown(auctionID) && auction.Status == db.AuctionStatusActive {
				e.broadcastCountdownCancelled(auction)
			}
			return nil
		}

		remaining := e.decCountdown(auctionID)
		if remaining > 0 {
			e.events.Broadcast(event.Event{
				Topic: event.AuctionTopic(auctionID),
				Type:  event.EventTypeAuctionCountdown,
				Data: map[string]interface{}{
					"auctionID": auctionID,
					"status":    db.AuctionStatusEnding,
					"countdown": remaining,
					"message":   fmt.Sprintf("Auction ending in %d seconds!", int(float64(remaining)*e.cfg.CountdownTick.Seconds())),
				},
			})
			e.scheduleTick(auctionID)
			return nil
		}

		return e.finalizeLocked(ctx, auctionID)
	})
	if err != nil {
		log.Err(err).Str("auction_id", auctionID.String()).Msg("countdown tick failed")
	}
}

// Finalize ends an ending auction immediately, bypassing any remaining
// countdown. Already-ended auctions are a no-op.
func (e *Engine) Finalize(ctx context.Context, auctionID uuid.UUID) error {
	return e.ledger.WithLock(auctionID, func() error {
		return e.finalizeLocked(ctx, auctionID)
	})
}

// finalizeLocked must run under the auction's ledger lock.
func (e *Engine) finalizeLocked(ctx context.Context, auctionID uuid.UUID) error {
	result, err := e.store.EndAuctionTx(ctx, db.EndAuctionTxParams{
		AuctionID: auctionID,
		EndedAt:   e.clock.Now(),
	})
	if errors.Is(err, db.ErrAuctionEnded) || errors.Is(err, db.ErrAuctionNotEnding) {
		// Lost the finalization race; the winner was already announced.
		e.clearCountdown(auctionID)
		e.registry.Cancel(auctionID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to end auction: %w", err)
	}

	e.clearCountdown(auctionID)
	e.registry.Cancel(auctionID)
	e.ledger.Forget(auctionID)
	e.invalidate(ctx, auctionID)

	message := "Auction has ended with no bids."
	if result.HasWinner {
		message = fmt.Sprintf("Auction has ended! Winner: %s", *result.WinnerID)
	}

	e.events.Broadcast(event.Event{
		Topic: event.AuctionTopic(auctionID),
		Type:  event.EventTypeAuctionEnded,
		Data: map[string]interface{}{
			"auction":   result.Auction,
			"status":    db.AuctionStatusEnded,
			"countdown": nil,
			"winnerID":  result.WinnerID,
			"message":   message,
		},
	})

	log.Info().
		Str("auction_id", auctionID.String()).
		Bool("has_winner", result.HasWinner).
		Int64("final_price", result.FinalPrice).
		Msg("auction ended")

	if e.notifier != nil {
		e.notifier.AuctionFinalized(ctx, result)
	}

	return nil
}

// HandleBidAccepted runs after the ledger has committed a bid. If the bid
// landed during the final countdown it announces the cancellation, then the
// inactivity timer restarts from the new bid.
func (e *Engine) HandleBidAccepted(ctx context.Context, res ledger.AcceptResult) {
	auctionID := res.Auction.ID

	if res.WasEnding {
		if err := e.ledger.WithLock(auctionID, func() error {
			// The countdown tick may have observed the reset first and
			// already announced it; broadcast at most once.
			if e.clearCountdown(auctionID) {
				e.registry.Cancel(auctionID)
				e.broadcastCountdownCancelled(res.Auction)
			}
			return nil
		}); err != nil {
			log.Err(err).Str("auction_id", auctionID.String()).Msg("failed to cancel countdown")
		}
	}

	e.invalidate(ctx, auctionID)
	e.armInactivity(res.Auction)
}

func (e *Engine) broadcastCountdownCancelled(auction db.Auction) {
	e.events.Broadcast(event.Event{
		Topic: event.AuctionTopic(auction.ID),
		Type:  event.EventTypeCountdownCancelled,
		Data: map[string]interface{}{
			"auction":   auction,
			"status":    db.AuctionStatusActive,
			"countdown": nil,
			"message":   "New bid placed! Countdown cancelled.",
		},
	})
}

func (e *Engine) invalidate(ctx context.Context, auctionID uuid.UUID) {
	if e.cache != nil {
		e.cache.InvalidateAuction(ctx, auctionID)
	}
}

func (e *Engine) countdownSeconds() int {
	return int(float64(e.cfg.FinalCountdown) * e.cfg.CountdownTick.Seconds())
}

func (e *Engine) setCountdown(auctionID uuid.UUID, n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.countdowns[auctionID] = n
}

// decCountdown decrements and returns the remaining ticks. An auction with
// no tracked countdown starts from the configured top, which covers a tick
// scheduled right before a restart wiped the in-memory count.
func (e *Engine) decCountdown(auctionID uuid.UUID) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.countdowns[auctionID]
	if !ok {
		n = e.cfg.FinalCountdown
	}
	n--
	if n < 0 {
		n = 0
	}
	e.countdowns[auctionID] = n
	return n
}

// clearCountdown reports whether a countdown was being tracked.
func (e *Engine) clearCountdown(auctionID uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.countdowns[auctionID]
	delete(e.countdowns, auctionID)
	return ok
}
