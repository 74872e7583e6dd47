package api

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	db "github.com/horizonmart/auction-BE/internal/db/sqlc"
	"github.com/horizonmart/auction-BE/internal/event"
	"github.com/horizonmart/auction-BE/internal/ledger"
	"github.com/horizonmart/auction-BE/internal/lifecycle"
	"github.com/horizonmart/auction-BE/internal/realtime"
	"github.com/horizonmart/auction-BE/internal/timer"
	"github.com/horizonmart/auction-BE/internal/util"
	"github.com/jonboulle/clockwork"
)

// memStore is an in-memory db.Store for handler tests.
type memStore struct {
	mu            sync.Mutex
	auctions      map[uuid.UUID]db.Auction
	bids          map[uuid.UUID][]db.AuctionBid
	notifications []db.Notification
}

func newMemStore() *memStore {
	return &memStore{
		auctions: make(map[uuid.UUID]db.Auction),
		bids:     make(map[uuid.UUID][]db.AuctionBid),
	}
}

func (s *memStore) Ping(context.Context) error { return nil }

func (s *memStore) CreateAuction(_ context.Context, arg db.CreateAuctionParams) (db.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	auction := db.Auction{
		ID:            arg.ID,
		ProductName:   arg.ProductName,
		Slug:          arg.Slug,
		Description:   arg.Description,
		ImageURL:      arg.ImageURL,
		StartingPrice: arg.StartingPrice,
		StartTime:     arg.StartTime,
		EndTime:       arg.EndTime,
		SellerID:      arg.SellerID,
		SellerEmail:   arg.SellerEmail,
		Status:        db.AuctionStatusActive,
		LastBidTime:   &arg.StartTime,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.auctions[auction.ID] = auction
	return auction, nil
}

func (s *memStore) GetAuctionByID(_ context.Context, id uuid.UUID) (db.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[id]
	if !ok {
		return db.Auction{}, db.ErrRecordNotFound
	}
	return auction, nil
}

func (s *memStore) GetAuctionByIDForUpdate(ctx context.Context, id uuid.UUID) (db.Auction, error) {
	return s.GetAuctionByID(ctx, id)
}

func (s *memStore) ListAuctions(_ context.Context, arg db.ListAuctionsParams) ([]db.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.filterLocked(arg.SellerID, arg.Status)
	sort.Slice(matched, func(i, j int) bool {
		if arg.SortDesc {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	start := int(arg.Offset)
	if start > len(matched) {
		return nil, nil
	}
	end := start + int(arg.Limit)
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (s *memStore) CountAuctions(_ context.Context, arg db.CountAuctionsParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.filterLocked(arg.SellerID, arg.Status))), nil
}

func (s *memStore) filterLocked(sellerID *string, status *db.AuctionStatus) []db.Auction {
	var out []db.Auction
	for _, auction := range s.auctions {
		if sellerID != nil && auction.SellerID != *sellerID {
			continue
		}
		if status != nil && auction.Status != *status {
			continue
		}
		out = append(out, auction)
	}
	return out
}

func (s *memStore) ListAuctionsByStatuses(_ context.Context, statuses []db.AuctionStatus) ([]db.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []db.Auction
	for _, auction := range s.auctions {
		for _, status := range statuses {
			if auction.Status == status {
				out = append(out, auction)
				break
			}
		}
	}
	return out, nil
}

func (s *memStore) UpdateAuction(_ context.Context, arg db.UpdateAuctionParams) (db.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[arg.ID]
	if !ok {
		return db.Auction{}, db.ErrRecordNotFound
	}
	if arg.Status != nil {
		auction.Status = *arg.Status
	}
	if arg.LastBidTime != nil {
		auction.LastBidTime = arg.LastBidTime
	}
	if arg.WinnerID != nil {
		auction.WinnerID = arg.WinnerID
	}
	if arg.EndedAt != nil {
		auction.EndedAt = arg.EndedAt
	}
	auction.UpdatedAt = time.Now()
	s.auctions[arg.ID] = auction
	return auction, nil
}

func (s *memStore) CreateAuctionBid(_ context.Context, arg db.CreateAuctionBidParams) (db.AuctionBid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bid := db.AuctionBid{
		ID:          arg.ID,
		AuctionID:   arg.AuctionID,
		BidderID:    arg.BidderID,
		BidderEmail: arg.BidderEmail,
		Amount:      arg.Amount,
		PlacedAt:    arg.PlacedAt,
	}
	s.bids[arg.AuctionID] = append(s.bids[arg.AuctionID], bid)
	return bid, nil
}

func (s *memStore) ListAuctionBids(_ context.Context, auctionID uuid.UUID) ([]db.AuctionBid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bids := append([]db.AuctionBid(nil), s.bids[auctionID]...)
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].PlacedAt.Before(bids[j].PlacedAt) })
	return bids, nil
}

func (s *memStore) GetHighestBid(_ context.Context, auctionID uuid.UUID) (db.AuctionBid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bid, ok := s.winningBidLocked(auctionID)
	if !ok {
		return db.AuctionBid{}, db.ErrRecordNotFound
	}
	return bid, nil
}

func (s *memStore) winningBidLocked(auctionID uuid.UUID) (db.AuctionBid, bool) {
	bids := s.bids[auctionID]
	if len(bids) == 0 {
		return db.AuctionBid{}, false
	}

	winning := bids[0]
	for _, bid := range bids[1:] {
		if bid.Amount > winning.Amount ||
			(bid.Amount == winning.Amount && bid.PlacedAt.Before(winning.PlacedAt)) {
			winning = bid
		}
	}
	return winning, true
}

func (s *memStore) CreateNotification(_ context.Context, arg db.CreateNotificationParams) (db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification := db.Notification{
		ID:          uuid.New(),
		RecipientID: arg.RecipientID,
		Title:       arg.Title,
		Message:     arg.Message,
		Type:        arg.Type,
		ReferenceID: arg.ReferenceID,
		CreatedAt:   time.Now(),
	}
	s.notifications = append(s.notifications, notification)
	return notification, nil
}

func (s *memStore) PlaceBidTx(_ context.Context, arg db.PlaceBidTxParams) (db.PlaceBidTxResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[arg.AuctionID]
	if !ok {
		return db.PlaceBidTxResult{}, db.ErrRecordNotFound
	}
	if auction.Status == db.AuctionStatusEnded {
		return db.PlaceBidTxResult{}, db.ErrAuctionEnded
	}

	var result db.PlaceBidTxResult
	currentHighest := auction.StartingPrice
	if highest, ok := s.winningBidLocked(arg.AuctionID); ok {
		currentHighest = highest.Amount
		result.PreviousBidderID = &highest.BidderID
	}
	if arg.Amount <= currentHighest {
		return db.PlaceBidTxResult{}, &db.BidTooLowError{CurrentHighest: currentHighest}
	}

	bid := db.AuctionBid{
		ID:          uuid.New(),
		AuctionID:   arg.AuctionID,
		BidderID:    arg.BidderID,
		BidderEmail: arg.BidderEmail,
		Amount:      arg.Amount,
		PlacedAt:    arg.PlacedAt,
	}
	s.bids[arg.AuctionID] = append(s.bids[arg.AuctionID], bid)

	result.WasEnding = auction.Status == db.AuctionStatusEnding
	auction.Status = db.AuctionStatusActive
	auction.LastBidTime = &bid.PlacedAt
	s.auctions[arg.AuctionID] = auction

	result.Auction = auction
	result.Bid = bid
	result.PreviousHighest = currentHighest
	return result, nil
}

func (s *memStore) BeginEndingTx(_ context.Context, arg db.BeginEndingTxParams) (db.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[arg.AuctionID]
	if !ok {
		return db.Auction{}, db.ErrRecordNotFound
	}
	if auction.Status == db.AuctionStatusEnded {
		return db.Auction{}, db.ErrAuctionEnded
	}
	if auction.Status != db.AuctionStatusActive {
		return db.Auction{}, db.ErrAuctionNotActive
	}
	if arg.InactivityTimeout > 0 && arg.Now.Sub(auction.LastActivity()) < arg.InactivityTimeout {
		return db.Auction{}, db.ErrAuctionStillActive
	}

	auction.Status = db.AuctionStatusEnding
	s.auctions[arg.AuctionID] = auction
	return auction, nil
}

func (s *memStore) EndAuctionTx(_ context.Context, arg db.EndAuctionTxParams) (db.EndAuctionTxResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[arg.AuctionID]
	if !ok {
		return db.EndAuctionTxResult{}, db.ErrRecordNotFound
	}
	if auction.Status == db.AuctionStatusEnded {
		return db.EndAuctionTxResult{}, db.ErrAuctionEnded
	}
	if auction.Status != db.AuctionStatusEnding {
		return db.EndAuctionTxResult{}, db.ErrAuctionNotEnding
	}

	result := db.EndAuctionTxResult{FinalPrice: auction.StartingPrice}
	if winning, ok := s.winningBidLocked(arg.AuctionID); ok {
		result.HasWinner = true
		result.WinnerID = &winning.BidderID
		result.WinningBid = &winning
		result.FinalPrice = winning.Amount
		auction.WinnerID = &winning.BidderID
	}

	auction.Status = db.AuctionStatusEnded
	auction.EndedAt = &arg.EndedAt
	s.auctions[arg.AuctionID] = auction

	result.Auction = auction
	return result, nil
}

// newTestServer wires a server against the in-memory store. The caller
// drives time through the returned fake clock.
func newTestServer(t *testing.T) (*Server, *memStore, *clockwork.FakeClock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	clock := clockwork.NewFakeClock()
	registry := timer.NewRegistry(clock)
	t.Cleanup(registry.Shutdown)

	eventSender := event.NewSSEServer()
	go eventSender.Run()

	bidLedger := ledger.New(store, clock)
	engine := lifecycle.NewEngine(store, bidLedger, registry, eventSender, clock, lifecycle.Config{
		InactivityTimeout: time.Minute,
		FinalCountdown:    3,
		CountdownTick:     time.Second,
	})
	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("engine.Start() error = %v", err)
	}

	hub := realtime.NewHub(eventSender, realtime.DefaultConfig())

	config := &util.Config{
		AllowedOrigins:    []string{"http://localhost:3000"},
		HTTPServerAddress: "0.0.0.0:8080",
		InactivityTimeout: time.Minute,
		FinalCountdown:    3,
	}

	server := NewServer(store, config, eventSender, bidLedger, engine, hub, nil, nil)
	return server, store, clock
}
