package db

import (
	"time"

	"github.com/google/uuid"
)

type AuctionStatus string

const (
	AuctionStatusActive AuctionStatus = "active"
	AuctionStatusEnding AuctionStatus = "ending"
	AuctionStatusEnded  AuctionStatus = "ended"
)

// Valid reports whether s is one of the known auction statuses.
func (s AuctionStatus) Valid() bool {
	switch s {
	case AuctionStatusActive, AuctionStatusEnding, AuctionStatusEnded:
		return true
	}
	return false
}

type Auction struct {
	ID            uuid.UUID     `json:"id"`
	ProductName   string        `json:"product_name"`
	Slug          string        `json:"slug"`
	Description   string        `json:"description"`
	ImageURL      string        `json:"image_url"`
	StartingPrice int64         `json:"starting_price"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	SellerID      string        `json:"seller_id"`
	SellerEmail   *string       `json:"seller_email,omitempty"`
	Status        AuctionStatus `json:"status"`
	LastBidTime   *time.Time    `json:"last_bid_time"`
	WinnerID      *string       `json:"winner_id"`
	EndedAt       *time.Time    `json:"ended_at"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// LastActivity returns the reference instant for inactivity detection:
// the time of the latest accepted bid, or the auction start time if no
// bid has ever been accepted.
func (a Auction) LastActivity() time.Time {
	if a.LastBidTime != nil {
		return *a.LastBidTime
	}
	return a.StartTime
}

type AuctionBid struct {
	ID          uuid.UUID `json:"id"`
	AuctionID   uuid.UUID `json:"auction_id"`
	BidderID    string    `json:"bidder_id"`
	BidderEmail *string   `json:"bidder_email,omitempty"`
	Amount      int64     `json:"amount"`
	PlacedAt    time.Time `json:"placed_at"`
}

// AuctionDetails is the full read model returned to clients: the auction
// row plus its chronological bid history.
type AuctionDetails struct {
	Auction
	Bids []AuctionBid `json:"bids"`
}

type Notification struct {
	ID          uuid.UUID `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Type        string    `json:"type"`
	ReferenceID string    `json:"reference_id"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
