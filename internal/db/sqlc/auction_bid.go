package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const bidColumns = `id, auction_id, bidder_id, bidder_email, amount, placed_at`

func scanBid(row interface{ Scan(dest ...any) error }) (AuctionBid, error) {
	var b AuctionBid
	err := row.Scan(
		&b.ID,
		&b.AuctionID,
		&b.BidderID,
		&b.BidderEmail,
		&b.Amount,
		&b.PlacedAt,
	)
	return b, err
}

type CreateAuctionBidParams struct {
	ID          uuid.UUID
	AuctionID   uuid.UUID
	BidderID    string
	BidderEmail *string
	Amount      int64
	PlacedAt    time.Time
}

const createAuctionBid = `
INSERT INTO auction_bids (id, auction_id, bidder_id, bidder_email, amount, placed_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + bidColumns

func (q *Queries) CreateAuctionBid(ctx context.Context, arg CreateAuctionBidParams) (AuctionBid, error) {
	row := q.db.QueryRow(ctx, createAuctionBid,
		arg.ID,
		arg.AuctionID,
		arg.BidderID,
		arg.BidderEmail,
		arg.Amount,
		arg.PlacedAt,
	)
	return scanBid(row)
}

const listAuctionBids = `
SELECT ` + bidColumns + `
FROM auction_bids
WHERE auction_id = $1
ORDER BY placed_at, id`

// ListAuctionBids returns the bid history in chronological order.
func (q *Queries) ListAuctionBids(ctx context.Context, auctionID uuid.UUID) ([]AuctionBid, error) {
	rows, err := q.db.Query(ctx, listAuctionBids, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []AuctionBid{}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

const getHighestBid = `
SELECT ` + bidColumns + `
FROM auction_bids
WHERE auction_id = $1
ORDER BY amount DESC, placed_at ASC
LIMIT 1`

// GetHighestBid returns the maximum-amount bid, ties broken by earliest
// placement. Returns ErrRecordNotFound when the auction has no bids.
func (q *Queries) GetHighestBid(ctx context.Context, auctionID uuid.UUID) (AuctionBid, error) {
	return scanBid(q.db.QueryRow(ctx, getHighestBid, auctionID))
}
