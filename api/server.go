package api

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/horizonmart/auction-BE/internal/cache"
	db "github.com/horizonmart/auction-BE/internal/db/sqlc"
	"github.com/horizonmart/auction-BE/internal/event"
	"github.com/horizonmart/auction-BE/internal/ledger"
	"github.com/horizonmart/auction-BE/internal/lifecycle"
	"github.com/horizonmart/auction-BE/internal/notification"
	"github.com/horizonmart/auction-BE/internal/realtime"
	"github.com/horizonmart/auction-BE/internal/util"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Server struct {
	router       *gin.Engine
	dbStore      db.Store
	config       *util.Config
	eventSender  event.EventSender
	bidLedger    *ledger.Ledger
	engine       *lifecycle.Engine
	hub          *realtime.Hub
	auctionCache *cache.AuctionCache // nil disables the read cache
	notifier     *notification.Notifier
	httpServer   *http.Server
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(
	store db.Store,
	config *util.Config,
	eventSender event.EventSender,
	bidLedger *ledger.Ledger,
	engine *lifecycle.Engine,
	hub *realtime.Hub,
	auctionCache *cache.AuctionCache,
	notifier *notification.Notifier,
) *Server {
	server := &Server{
		dbStore:      store,
		config:       config,
		eventSender:  eventSender,
		bidLedger:    bidLedger,
		engine:       engine,
		hub:          hub,
		auctionCache: auctionCache,
		notifier:     notifier,
	}

	server.setupRouter()
	return server
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	gin.ForceConsoleColor()
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Total-Count", "X-Total-Pages", "X-Current-Page"},
		AllowCredentials: true,
	}))

	router.GET("/health", server.healthCheck)

	v1 := router.Group("/v1")

	auctionGroup := v1.Group("/auctions")
	{
		auctionGroup.POST("", server.createAuction)
		auctionGroup.GET("", server.listAuctions)
		auctionGroup.GET(":auctionID", server.getAuctionDetails)
		auctionGroup.GET(":auctionID/bids", server.listAuctionBids)
		auctionGroup.POST(":auctionID/bids", server.placeBid)

		auctionGroup.GET(":auctionID/stream", server.streamAuctionEvents)
		auctionGroup.GET(":auctionID/ws", server.joinAuctionRoom)
		auctionGroup.GET(":auctionID/users", server.listAuctionRoomUsers)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	server.router = router
	return router
}

// Start runs the HTTP server on the configured address.
func (server *Server) Start(address string) error {
	server.httpServer = &http.Server{
		Addr:    address,
		Handler: server.router,
	}
	return server.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server gracefully.
func (server *Server) Shutdown(ctx context.Context) error {
	if server.httpServer == nil {
		return nil
	}
	return server.httpServer.Shutdown(ctx)
}

func (server *Server) healthCheck(c *gin.Context) {
	if err := server.dbStore.Ping(c); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "realtime": server.hub.Stats()})
}
