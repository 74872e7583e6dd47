package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PlaceBidTxParams struct {
	AuctionID   uuid.UUID
	BidderID    string
	BidderEmail *string
	Amount      int64
	PlacedAt    time.Time
}

type PlaceBidTxResult struct {
	Auction          Auction    `json:"auction"`
	Bid              AuctionBid `json:"bid"`
	WasEnding        bool       `json:"was_ending"`
	PreviousBidderID *string    `json:"previous_bidder_id,omitempty"`
	PreviousHighest  int64      `json:"previous_highest"`
}

// PlaceBidTx validates and appends a bid inside one transaction.
//
// The auction row is locked for the duration, so the highest-bid check and
// the insert are atomic even if the in-process serialization is bypassed
// (e.g. a second instance against the same database). If the auction is in
// its ending countdown, the status flips back to active in the same
// transaction, before any countdown tick can observe the old state.
func (store *SQLStore) PlaceBidTx(ctx context.Context, arg PlaceBidTxParams) (PlaceBidTxResult, error) {
	var result PlaceBidTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		auction, err := qTx.GetAuctionByIDForUpdate(ctx, arg.AuctionID)
		if err != nil {
			return fmt.Errorf("failed to get auction for update: %w", err)
		}

		if auction.Status == AuctionStatusEnded {
			return ErrAuctionEnded
		}

		// Current highest is the max bid amount, or the starting price when
		// no bid has been accepted yet.
		currentHighest := auction.StartingPrice
		highestBid, err := qTx.GetHighestBid(ctx, arg.AuctionID)
		switch {
		case err == nil:
			currentHighest = highestBid.Amount
			result.PreviousBidderID = &highestBid.BidderID
		case errors.Is(err, ErrRecordNotFound):
			// first bid
		default:
			return fmt.Errorf("failed to get highest bid: %w", err)
		}
		result.PreviousHighest = currentHighest

		// Strict comparison: an equal bid is rejected so the highest bid is
		// unique at all times.
		if arg.Amount <= currentHighest {
			return &BidTooLowError{CurrentHighest: currentHighest}
		}

		bidID, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate bid ID: %w", err)
		}

		bid, err := qTx.CreateAuctionBid(ctx, CreateAuctionBidParams{
			ID:          bidID,
			AuctionID:   arg.AuctionID,
			BidderID:    arg.BidderID,
			BidderEmail: arg.BidderEmail,
			Amount:      arg.Amount,
			PlacedAt:    arg.PlacedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to create bid: %w", err)
		}
		result.Bid = bid

		// A bid accepted during the final countdown resets the auction to
		// active. The countdown tick re-checks persisted status, so once
		// this transaction commits the countdown can no longer finalize.
		result.WasEnding = auction.Status == AuctionStatusEnding

		updateParams := UpdateAuctionParams{
			ID:          arg.AuctionID,
			LastBidTime: &arg.PlacedAt,
		}
		if result.WasEnding {
			active := AuctionStatusActive
			updateParams.Status = &active
		}

		updated, err := qTx.UpdateAuction(ctx, updateParams)
		if err != nil {
			return fmt.Errorf("failed to update auction: %w", err)
		}
		result.Auction = updated

		return nil
	})

	return result, err
}

type BeginEndingTxParams struct {
	AuctionID         uuid.UUID
	Now               time.Time
	InactivityTimeout time.Duration
}

// BeginEndingTx moves an auction from active to ending. Both the status and
// the last-activity checks run under the row lock, so a bid committed after
// the inactivity evaluation makes the transition fail with
// ErrAuctionNotActive or ErrAuctionStillActive and the caller abandons the
// countdown. A zero InactivityTimeout skips the activity re-check.
func (store *SQLStore) BeginEndingTx(ctx context.Context, arg BeginEndingTxParams) (Auction, error) {
	var result Auction

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		auction, err := qTx.GetAuctionByIDForUpdate(ctx, arg.AuctionID)
		if err != nil {
			return fmt.Errorf("failed to get auction for update: %w", err)
		}

		if auction.Status == AuctionStatusEnded {
			return ErrAuctionEnded
		}
		if auction.Status != AuctionStatusActive {
			return ErrAuctionNotActive
		}
		if arg.InactivityTimeout > 0 && arg.Now.Sub(auction.LastActivity()) < arg.InactivityTimeout {
			return ErrAuctionStillActive
		}

		ending := AuctionStatusEnding
		result, err = qTx.UpdateAuction(ctx, UpdateAuctionParams{
			ID:     arg.AuctionID,
			Status: &ending,
		})
		if err != nil {
			return fmt.Errorf("failed to update auction status: %w", err)
		}

		return nil
	})

	return result, err
}

type EndAuctionTxParams struct {
	AuctionID uuid.UUID
	EndedAt   time.Time
}

type EndAuctionTxResult struct {
	Auction    Auction     `json:"auction"`
	HasWinner  bool        `json:"has_winner"`
	WinnerID   *string     `json:"winner_id,omitempty"`
	WinningBid *AuctionBid `json:"winning_bid,omitempty"`
	FinalPrice int64       `json:"final_price"`
}

// EndAuctionTx finalizes an ending auction: status becomes ended (terminal)
// and the winner is the bidder of the maximum-amount bid, ties broken by
// earliest timestamp, or nil when no bids were ever placed.
//
// The ending status check makes finalization idempotent: whichever of the
// countdown tick and the periodic sweep loses the race observes
// ErrAuctionEnded and stops without a duplicate broadcast.
func (store *SQLStore) EndAuctionTx(ctx context.Context, arg EndAuctionTxParams) (EndAuctionTxResult, error) {
	var result EndAuctionTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		auction, err := qTx.GetAuctionByIDForUpdate(ctx, arg.AuctionID)
		if err != nil {
			return fmt.Errorf("failed to get auction for update: %w", err)
		}

		if auction.Status == AuctionStatusEnded {
			return ErrAuctionEnded
		}
		if auction.Status != AuctionStatusEnding {
			return ErrAuctionNotEnding
		}

		result.FinalPrice = auction.StartingPrice
		highestBid, err := qTx.GetHighestBid(ctx, arg.AuctionID)
		switch {
		case err == nil:
			result.HasWinner = true
			result.WinnerID = &highestBid.BidderID
			result.WinningBid = &highestBid
			result.FinalPrice = highestBid.Amount
		case errors.Is(err, ErrRecordNotFound):
			// no bids: the auction ends without a winner
		default:
			return fmt.Errorf("failed to get highest bid: %w", err)
		}

		ended := AuctionStatusEnded
		result.Auction, err = qTx.UpdateAuction(ctx, UpdateAuctionParams{
			ID:       arg.AuctionID,
			Status:   &ended,
			WinnerID: result.WinnerID,
			EndedAt:  &arg.EndedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to update auction status: %w", err)
		}

		return nil
	})

	if err != nil {
		return EndAuctionTxResult{}, err
	}

	return result, nil
}
