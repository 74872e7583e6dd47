package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	db "github.com/horizonmart/auction-BE/internal/db/sqlc"
	"github.com/horizonmart/auction-BE/internal/ledger"
)

func performRequest(server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.router.ServeHTTP(rr, req)
	return rr
}

func createTestAuction(t *testing.T, server *Server, clockNow time.Time) db.Auction {
	t.Helper()

	rr := performRequest(server, http.MethodPost, "/v1/auctions", reqBody{
		"product_name":   "vintage camera",
		"description":    "1960s rangefinder",
		"image_url":      "https://cdn.example.com/camera.jpg",
		"starting_price": 1000,
		"start_time":     clockNow.Format(time.RFC3339),
		"end_time":       clockNow.Add(24 * time.Hour).Format(time.RFC3339),
		"seller_id":      "seller-1",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create auction status = %d, body %s", rr.Code, rr.Body.String())
	}

	var auction db.Auction
	if err := json.Unmarshal(rr.Body.Bytes(), &auction); err != nil {
		t.Fatalf("failed to decode created auction: %v", err)
	}
	return auction
}

// reqBody is a free-form JSON request body.
type reqBody map[string]interface{}

func TestCreateAuction(t *testing.T) {
	server, store, clock := newTestServer(t)

	auction := createTestAuction(t, server, clock.Now())

	if auction.Status != db.AuctionStatusActive {
		t.Errorf("Status = %s, want active", auction.Status)
	}
	if auction.Slug == "" {
		t.Error("Slug not generated")
	}
	if auction.ID == uuid.Nil {
		t.Error("ID not assigned")
	}

	stored, err := store.GetAuctionByID(context.Background(), auction.ID)
	if err != nil {
		t.Fatalf("created auction not persisted: %v", err)
	}
	if stored.ProductName != "vintage camera" {
		t.Errorf("ProductName = %q", stored.ProductName)
	}
}

func TestCreateAuctionValidation(t *testing.T) {
	server, _, clock := newTestServer(t)
	now := clock.Now()

	tests := []struct {
		name string
		body reqBody
	}{
		{
			name: "zero starting price",
			body: reqBody{
				"product_name":   "camera",
				"image_url":      "https://cdn.example.com/camera.jpg",
				"starting_price": 0,
				"start_time":     now.Format(time.RFC3339),
				"end_time":       now.Add(time.Hour).Format(time.RFC3339),
				"seller_id":      "seller-1",
			},
		},
		{
			name: "end before start",
			body: reqBody{
				"product_name":   "camera",
				"image_url":      "https://cdn.example.com/camera.jpg",
				"starting_price": 1000,
				"start_time":     now.Format(time.RFC3339),
				"end_time":       now.Add(-time.Hour).Format(time.RFC3339),
				"seller_id":      "seller-1",
			},
		},
		{
			name: "bad image url",
			body: reqBody{
				"product_name":   "camera",
				"image_url":      "not-a-url",
				"starting_price": 1000,
				"start_time":     now.Format(time.RFC3339),
				"end_time":       now.Add(time.Hour).Format(time.RFC3339),
				"seller_id":      "seller-1",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := performRequest(server, http.MethodPost, "/v1/auctions", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestListAuctionsPaginationHeaders(t *testing.T) {
	server, _, clock := newTestServer(t)

	for i := 0; i < 12; i++ {
		createTestAuction(t, server, clock.Now())
	}

	rr := performRequest(server, http.MethodGet, "/v1/auctions?page=2&limit=5", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	if got := rr.Header().Get("X-Total-Count"); got != "12" {
		t.Errorf("X-Total-Count = %q, want 12", got)
	}
	if got := rr.Header().Get("X-Total-Pages"); got != "3" {
		t.Errorf("X-Total-Pages = %q, want 3", got)
	}
	if got := rr.Header().Get("X-Current-Page"); got != "2" {
		t.Errorf("X-Current-Page = %q, want 2", got)
	}

	var auctions []db.Auction
	if err := json.Unmarshal(rr.Body.Bytes(), &auctions); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(auctions) != 5 {
		t.Errorf("page size = %d, want 5", len(auctions))
	}
}

func TestListAuctionsHugePage(t *testing.T) {
	server, _, clock := newTestServer(t)
	createTestAuction(t, server, clock.Now())

	// An offset computed from a huge page must clamp instead of wrapping
	// into a negative value.
	rr := performRequest(server, http.MethodGet, "/v1/auctions?page=2147483647&limit=50", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rr.Code, rr.Body.String())
	}

	var auctions []db.Auction
	if err := json.Unmarshal(rr.Body.Bytes(), &auctions); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(auctions) != 0 {
		t.Errorf("len(auctions) = %d, want 0 past the last page", len(auctions))
	}
}

func TestListAuctionsRejectsUnknownStatus(t *testing.T) {
	server, _, _ := newTestServer(t)

	rr := performRequest(server, http.MethodGet, "/v1/auctions?status=archived", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestGetAuctionDetails(t *testing.T) {
	server, _, clock := newTestServer(t)
	auction := createTestAuction(t, server, clock.Now())

	rr := performRequest(server, http.MethodGet, "/v1/auctions/"+auction.ID.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var details db.AuctionDetails
	if err := json.Unmarshal(rr.Body.Bytes(), &details); err != nil {
		t.Fatalf("failed to decode details: %v", err)
	}
	if details.ID != auction.ID {
		t.Errorf("ID = %s, want %s", details.ID, auction.ID)
	}
	if len(details.Bids) != 0 {
		t.Errorf("Bids = %d, want 0", len(details.Bids))
	}
}

func TestGetAuctionDetailsNotFound(t *testing.T) {
	server, _, _ := newTestServer(t)

	rr := performRequest(server, http.MethodGet, "/v1/auctions/"+uuid.New().String(), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestPlaceBid(t *testing.T) {
	server, _, clock := newTestServer(t)
	auction := createTestAuction(t, server, clock.Now())

	rr := performRequest(server, http.MethodPost, "/v1/auctions/"+auction.ID.String()+"/bids", reqBody{
		"amount":    1500,
		"bidder_id": "alice",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var result ledger.AcceptResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if result.NewHighest != 1500 {
		t.Errorf("NewHighest = %d, want 1500", result.NewHighest)
	}
	if result.Bid.BidderID != "alice" {
		t.Errorf("BidderID = %q, want alice", result.Bid.BidderID)
	}
}

func TestPlaceBidTooLow(t *testing.T) {
	server, _, clock := newTestServer(t)
	auction := createTestAuction(t, server, clock.Now())

	path := "/v1/auctions/" + auction.ID.String() + "/bids"
	if rr := performRequest(server, http.MethodPost, path, reqBody{"amount": 2000, "bidder_id": "alice"}); rr.Code != http.StatusOK {
		t.Fatalf("first bid status = %d", rr.Code)
	}

	rr := performRequest(server, http.MethodPost, path, reqBody{"amount": 2000, "bidder_id": "bob"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var resp struct {
		Message           string `json:"message"`
		CurrentHighestBid int64  `json:"currentHighestBid"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CurrentHighestBid != 2000 {
		t.Errorf("currentHighestBid = %d, want 2000", resp.CurrentHighestBid)
	}
}

func TestPlaceBidOnEndedAuction(t *testing.T) {
	server, store, clock := newTestServer(t)
	auction := createTestAuction(t, server, clock.Now())

	ended := db.AuctionStatusEnded
	if _, err := store.UpdateAuction(context.Background(), db.UpdateAuctionParams{ID: auction.ID, Status: &ended}); err != nil {
		t.Fatalf("failed to end auction: %v", err)
	}

	rr := performRequest(server, http.MethodPost, "/v1/auctions/"+auction.ID.String()+"/bids", reqBody{
		"amount":    5000,
		"bidder_id": "alice",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestPlaceBidUnknownAuction(t *testing.T) {
	server, _, _ := newTestServer(t)

	rr := performRequest(server, http.MethodPost, fmt.Sprintf("/v1/auctions/%s/bids", uuid.New()), reqBody{
		"amount":    1000,
		"bidder_id": "alice",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestPlaceBidDuringCountdownReactivates(t *testing.T) {
	server, store, clock := newTestServer(t)
	auction := createTestAuction(t, server, clock.Now())
	ctx := context.Background()

	if _, err := store.BeginEndingTx(ctx, db.BeginEndingTxParams{AuctionID: auction.ID, Now: clock.Now()}); err != nil {
		t.Fatalf("failed to move auction to ending: %v", err)
	}

	rr := performRequest(server, http.MethodPost, "/v1/auctions/"+auction.ID.String()+"/bids", reqBody{
		"amount":    1500,
		"bidder_id": "carol",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var result ledger.AcceptResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if !result.WasEnding {
		t.Error("WasEnding = false, want true")
	}

	stored, err := store.GetAuctionByID(ctx, auction.ID)
	if err != nil {
		t.Fatalf("GetAuctionByID() error = %v", err)
	}
	if stored.Status != db.AuctionStatusActive {
		t.Errorf("Status = %s, want active", stored.Status)
	}
}

func TestListAuctionBids(t *testing.T) {
	server, _, clock := newTestServer(t)
	auction := createTestAuction(t, server, clock.Now())

	path := "/v1/auctions/" + auction.ID.String() + "/bids"
	for i, amount := range []int64{1100, 1200, 1300} {
		rr := performRequest(server, http.MethodPost, path, reqBody{"amount": amount, "bidder_id": fmt.Sprintf("bidder-%d", i)})
		if rr.Code != http.StatusOK {
			t.Fatalf("bid %d status = %d", i, rr.Code)
		}
	}

	rr := performRequest(server, http.MethodGet, path, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var bids []db.AuctionBid
	if err := json.Unmarshal(rr.Body.Bytes(), &bids); err != nil {
		t.Fatalf("failed to decode bids: %v", err)
	}
	if len(bids) != 3 {
		t.Fatalf("len(bids) = %d, want 3", len(bids))
	}
	if bids[2].Amount != 1300 {
		t.Errorf("last bid amount = %d, want 1300", bids[2].Amount)
	}
}

func TestHealthCheck(t *testing.T) {
	server, _, _ := newTestServer(t)

	rr := performRequest(server, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}
