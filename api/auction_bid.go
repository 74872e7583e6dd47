package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	db "github.com/horizonmart/auction-BE/internal/db/sqlc"
	"github.com/horizonmart/auction-BE/internal/event"
	"github.com/horizonmart/auction-BE/internal/ledger"
	"github.com/horizonmart/auction-BE/internal/util"
	"github.com/horizonmart/auction-BE/internal/validator"
)

type placeBidRequest struct {
	Amount      int64   `json:"amount" binding:"required"`
	BidderID    string  `json:"bidder_id" binding:"required"`
	BidderEmail *string `json:"bidder_email"`
}

//	@Summary		Place a bid in an auction
//	@Description	Places a bid. The bid must be strictly higher than the current highest bid (or the starting price when no bids exist). A bid during the final countdown resets the auction to active.
//	@Tags			auctions
//	@Accept			json
//	@Produce		json
//	@Param			auctionID	path		string			true	"Auction ID"
//	@Param			request		body		placeBidRequest	true	"Bid to place"
//	@Success		200			{object}	ledger.AcceptResult
//	@Failure		400			{object}	object	"Auction ended or bid too low"
//	@Failure		404			{object}	object	"Auction not found"
//	@Router			/auctions/{auctionID}/bids [post]
func (server *Server) placeBid(c *gin.Context) {
	auctionID, err := uuid.Parse(c.Param("auctionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid auction ID format")))
		return
	}

	var req placeBidRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid request body: %w", err)))
		return
	}

	if err = validator.ValidateBidAmount(req.Amount); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	if req.BidderEmail != nil {
		if err = validator.ValidateEmail(*req.BidderEmail); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("bidder_email %s", err)))
			return
		}
	}

	result, err := server.bidLedger.TryAcceptBid(c, ledger.BidParams{
		AuctionID:   auctionID,
		BidderID:    req.BidderID,
		BidderEmail: req.BidderEmail,
		Amount:      req.Amount,
	})
	if err != nil {
		var tooLow *db.BidTooLowError
		switch {
		case errors.Is(err, db.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("auction ID %s not found", auctionID)))
		case errors.Is(err, db.ErrAuctionEnded):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Auction has ended"})
		case errors.As(err, &tooLow):
			c.JSON(http.StatusBadRequest, gin.H{
				"message":           "Bid must be higher than current highest bid",
				"currentHighestBid": tooLow.CurrentHighest,
			})
		default:
			c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to place bid: %w", err)))
		}
		return
	}

	server.engine.HandleBidAccepted(c, result)

	server.eventSender.Broadcast(event.Event{
		Topic: event.AuctionTopic(auctionID),
		Type:  event.EventTypeBidPlaced,
		Data: map[string]interface{}{
			"auction": result.Auction,
			"bid":     result.Bid,
			"message": fmt.Sprintf("New bid placed: %s", util.FormatMoney(result.Bid.Amount)),
		},
	})

	if server.notifier != nil {
		server.notifier.BidAccepted(c, result.Auction, result.Bid, result.PreviousBidderID)
	}

	c.JSON(http.StatusOK, result)
}

//	@Summary		List auction bids
//	@Description	Lists every bid on an auction in placement order.
//	@Tags			auctions
//	@Produce		json
//	@Param			auctionID	path	string	true	"Auction ID"
//	@Success		200			{array}	db.AuctionBid
//	@Router			/auctions/{auctionID}/bids [get]
func (server *Server) listAuctionBids(c *gin.Context) {
	auctionID, err := uuid.Parse(c.Param("auctionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid auction ID: %w", err)))
		return
	}

	if _, err = server.dbStore.GetAuctionByID(c, auctionID); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("auction ID %s not found", auctionID)))
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to get auction: %w", err)))
		return
	}

	bids, err := server.dbStore.ListAuctionBids(c, auctionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to list auction bids: %w", err)))
		return
	}

	c.JSON(http.StatusOK, bids)
}
