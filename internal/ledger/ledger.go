package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	db "github.com/horizonmart/auction-BE/internal/db/sqlc"
)

// Store is the slice of the durable store the ledger needs.
type Store interface {
	GetAuctionByID(ctx context.Context, id uuid.UUID) (db.Auction, error)
	GetHighestBid(ctx context.Context, auctionID uuid.UUID) (db.AuctionBid, error)
	PlaceBidTx(ctx context.Context, arg db.PlaceBidTxParams) (db.PlaceBidTxResult, error)
}

// Ledger is the in-memory authoritative view of the current highest bid per
// auction. It owns the per-auction-id critical section: every bid
// acceptance and every lifecycle transition for one auction id serializes
// through WithLock, so two simultaneous bids can never both read the same
// "current highest" and both succeed.
type Ledger struct {
	store Store
	clock clockwork.Clock

	locks   keyedMutex
	highest highestCache
}

func New(store Store, clock clockwork.Clock) *Ledger {
	return &Ledger{
		store:   store,
		clock:   clock,
		highest: newHighestCache(),
	}
}

// AcceptResult describes an accepted bid.
type AcceptResult struct {
	Auction          db.Auction    `json:"auction"`
	Bid              db.AuctionBid `json:"bid"`
	NewHighest       int64         `json:"new_highest"`
	WasEnding        bool          `json:"was_ending"`
	PreviousBidderID *string       `json:"previous_bidder_id,omitempty"`
}

// BidParams carries optional bidder contact fields alongside the required
// acceptance inputs.
type BidParams struct {
	AuctionID   uuid.UUID
	BidderID    string
	BidderEmail *string
	Amount      int64
}

// TryAcceptBid validates and records a bid.
//
// Rejections surface as db sentinels: ErrRecordNotFound for an unknown
// auction, ErrAuctionEnded for a terminal one, and a *db.BidTooLowError
// (wrapping ErrBidTooLow) when the amount does not strictly exceed the
// current highest. The bid timestamp is assigned here, at the acceptance
// instant. If the auction was in its final countdown, the accepted bid
// flips it back to active inside the same store transaction.
func (l *Ledger) TryAcceptBid(ctx context.Context, params BidParams) (AcceptResult, error) {
	unlock := l.locks.lock(params.AuctionID)
	defer unlock()

	// Fast path: reject against the cached highest without touching the
	// store. The cache only ever trails the store downward (it is dropped
	// on finalization), so a rejection here is always correct.
	if cached, ok := l.highest.get(params.AuctionID); ok && params.Amount <= cached {
		return AcceptResult{}, &db.BidTooLowError{CurrentHighest: cached}
	}

	result, err := l.store.PlaceBidTx(ctx, db.PlaceBidTxParams{
		AuctionID:   params.AuctionID,
		BidderID:    params.BidderID,
		BidderEmail: params.BidderEmail,
		Amount:      params.Amount,
		PlacedAt:    l.clock.Now(),
	})
	if err != nil {
		var tooLow *db.BidTooLowError
		if errors.As(err, &tooLow) {
			// Re-sync the cache with what the store actually holds.
			l.highest.set(params.AuctionID, tooLow.CurrentHighest)
		}
		return AcceptResult{}, err
	}

	l.highest.set(params.AuctionID, result.Bid.Amount)

	log.Info().
		Str("auction_id", params.AuctionID.String()).
		Str("bidder_id", params.BidderID).
		Int64("amount", params.Amount).
		Bool("was_ending", result.WasEnding).
		Msg("bid accepted")

	return AcceptResult{
		Auction:          result.Auction,
		Bid:              result.Bid,
		NewHighest:       result.Bid.Amount,
		WasEnding:        result.WasEnding,
		PreviousBidderID: result.PreviousBidderID,
	}, nil
}

// CurrentHighest returns the highest accepted amount on record for the
// auction, or the starting price if no bids exist.
func (l *Ledger) CurrentHighest(ctx context.Context, auctionID uuid.UUID) (int64, error) {
	if cached, ok := l.highest.get(auctionID); ok {
		return cached, nil
	}

	auction, err := l.store.GetAuctionByID(ctx, auctionID)
	if err != nil {
		return 0, fmt.Errorf("failed to get auction: %w", err)
	}

	highest := auction.StartingPrice
	bid, err := l.store.GetHighestBid(ctx, auctionID)
	switch {
	case err == nil:
		highest = bid.Amount
	case errors.Is(err, db.ErrRecordNotFound):
	default:
		return 0, fmt.Errorf("failed to get highest bid: %w", err)
	}

	l.highest.set(auctionID, highest)
	return highest, nil
}

// WithLock runs fn inside the auction's critical section. Lifecycle
// transitions (ending, countdown ticks, finalization) use this so they
// cannot interleave with bid acceptance on the same auction.
func (l *Ledger) WithLock(auctionID uuid.UUID, fn func() error) error {
	unlock := l.locks.lock(auctionID)
	defer unlock()
	return fn()
}

// Forget drops the cached state for an auction. Called after finalization;
// the terminal store state is authoritative from then on.
func (l *Ledger) Forget(auctionID uuid.UUID) {
	l.highest.forget(auctionID)
}
