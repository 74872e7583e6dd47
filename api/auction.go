package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	db "github.com/horizonmart/auction-BE/internal/db/sqlc"
	"github.com/horizonmart/auction-BE/internal/util"
	"github.com/horizonmart/auction-BE/internal/validator"
	"github.com/rs/zerolog/log"
)

type createAuctionRequest struct {
	ProductName   string    `json:"product_name" binding:"required"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"image_url" binding:"required"`
	StartingPrice int64     `json:"starting_price" binding:"required"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	SellerID      string    `json:"seller_id" binding:"required"`
	SellerEmail   *string   `json:"seller_email"`
}

func (req *createAuctionRequest) validate() []*FieldViolation {
	var violations []*FieldViolation

	if err := validator.ValidateString(req.ProductName, 1, 200); err != nil {
		violations = append(violations, fieldViolation("product_name", err))
	}

	if err := validator.ValidateAuctionStartingPrice(req.StartingPrice); err != nil {
		violations = append(violations, fieldViolation("starting_price", err))
	}

	if err := validator.ValidateURL(req.ImageURL); err != nil {
		violations = append(violations, fieldViolation("image_url", err))
	}

	if err := validator.ValidateAuctionTimes(req.StartTime, req.EndTime); err != nil {
		violations = append(violations, fieldViolation("end_time", err))
	}

	if req.SellerEmail != nil {
		if err := validator.ValidateEmail(*req.SellerEmail); err != nil {
			violations = append(violations, fieldViolation("seller_email", err))
		}
	}

	return violations
}

//	@Summary		Create a new auction
//	@Description	Creates an auction in active status and starts its inactivity tracking.
//	@Tags			auctions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		createAuctionRequest	true	"Auction to create"
//	@Success		201		{object}	db.Auction				"Created auction"
//	@Failure		400		{object}	FailedValidationResponse
//	@Router			/auctions [post]
func (server *Server) createAuction(c *gin.Context) {
	var req createAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid request body: %w", err)))
		return
	}

	if violations := req.validate(); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, failedValidationError(violations))
		return
	}

	auctionID, err := uuid.NewV7()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to generate auction ID: %w", err)))
		return
	}

	auction, err := server.dbStore.CreateAuction(c, db.CreateAuctionParams{
		ID:            auctionID,
		ProductName:   req.ProductName,
		Slug:          util.GenerateRandomSlug(req.ProductName),
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		StartingPrice: req.StartingPrice,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		SellerID:      req.SellerID,
		SellerEmail:   req.SellerEmail,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to create auction: %w", err)))
		return
	}

	server.engine.TrackAuction(auction)

	log.Info().
		Str("auction_id", auction.ID.String()).
		Str("seller_id", auction.SellerID).
		Msg("auction created")

	c.JSON(http.StatusCreated, auction)
}

//	@Summary		List auctions
//	@Description	Lists auctions with optional seller and status filters, sorting, and pagination. Totals are returned in X-Total-Count, X-Total-Pages and X-Current-Page headers.
//	@Tags			auctions
//	@Produce		json
//	@Param			seller	query		string	false	"Filter by seller ID"
//	@Param			status	query		string	false	"Filter by status (active, ending, ended)"
//	@Param			sort	query		string	false	"Sort field (start_time, end_time, starting_price, last_bid_time)"
//	@Param			order	query		string	false	"Sort order (asc, desc)"
//	@Param			page	query		int		false	"Page number, starting at 1"
//	@Param			limit	query		int		false	"Page size, 1 to 50"
//	@Success		200		{array}		db.Auction
//	@Router			/auctions [get]
func (server *Server) listAuctions(c *gin.Context) {
	var status *db.AuctionStatus
	if statusParam := db.AuctionStatus(c.Query("status")); statusParam != "" {
		if !statusParam.Valid() {
			err := fmt.Errorf("invalid status: %s, allowed statuses: [active, ending, ended]", statusParam)
			c.JSON(http.StatusBadRequest, errorResponse(err))
			return
		}
		status = &statusParam
	}

	var sellerID *string
	if seller := c.Query("seller"); seller != "" {
		sellerID = &seller
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}

	// A huge page number must clamp, not wrap into a negative OFFSET.
	if page > math.MaxInt32/limit {
		page = math.MaxInt32 / limit
	}
	offset := int64(page-1) * int64(limit)

	arg := db.ListAuctionsParams{
		SellerID:  sellerID,
		Status:    status,
		SortField: c.Query("sort"),
		SortDesc:  c.Query("order") == "desc",
		Limit:     int32(limit),
		Offset:    int32(offset),
	}

	auctions, err := server.dbStore.ListAuctions(c, arg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to list auctions: %w", err)))
		return
	}

	total, err := server.dbStore.CountAuctions(c, db.CountAuctionsParams{
		SellerID: sellerID,
		Status:   status,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to count auctions: %w", err)))
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.Header("X-Total-Pages", strconv.FormatInt(int64(math.Ceil(float64(total)/float64(limit))), 10))
	c.Header("X-Current-Page", strconv.Itoa(page))

	c.JSON(http.StatusOK, auctions)
}

//	@Summary		Get auction details
//	@Description	Retrieves one auction with its full bid history.
//	@Tags			auctions
//	@Produce		json
//	@Param			auctionID	path		string	true	"Auction ID"
//	@Success		200			{object}	db.AuctionDetails
//	@Failure		404			{object}	object	"Auction not found"
//	@Router			/auctions/{auctionID} [get]
func (server *Server) getAuctionDetails(c *gin.Context) {
	auctionID, err := uuid.Parse(c.Param("auctionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid auction ID: %w", err)))
		return
	}

	if server.auctionCache != nil {
		if details, found := server.auctionCache.GetAuctionDetails(c, auctionID); found {
			c.JSON(http.StatusOK, details)
			return
		}
	}

	auction, err := server.dbStore.GetAuctionByID(c, auctionID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("auction ID %s not found", auctionID)))
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to get auction details: %w", err)))
		return
	}

	bids, err := server.dbStore.ListAuctionBids(c, auctionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to list auction bids: %w", err)))
		return
	}

	details := db.AuctionDetails{
		Auction: auction,
		Bids:    bids,
	}

	if server.auctionCache != nil {
		server.auctionCache.SetAuctionDetails(c, details)
	}

	c.JSON(http.StatusOK, details)
}
