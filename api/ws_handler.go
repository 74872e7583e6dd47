package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//	@Summary		Join an auction room via WebSocket
//	@Description	Upgrades the connection and streams auction events plus room presence (userJoined, userLeft, auctionRoomUsers).
//	@Tags			auctions
//	@Param			auctionID	path	string	true	"Auction ID"
//	@Param			user_id		query	string	true	"Viewer's user ID"
//	@Router			/auctions/{auctionID}/ws [get]
func (server *Server) joinAuctionRoom(c *gin.Context) {
	auctionID, err := uuid.Parse(c.Param("auctionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid auction ID format")))
		return
	}

	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("user_id query parameter is required")))
		return
	}

	if err = server.hub.Join(c.Writer, c.Request, userID, auctionID); err != nil {
		// The upgrader already wrote an HTTP error to the client.
		return
	}
}

//	@Summary		List auction room users
//	@Description	Returns the user IDs currently watching an auction room.
//	@Tags			auctions
//	@Produce		json
//	@Param			auctionID	path		string	true	"Auction ID"
//	@Success		200			{object}	object
//	@Router			/auctions/{auctionID}/users [get]
func (server *Server) listAuctionRoomUsers(c *gin.Context) {
	auctionID, err := uuid.Parse(c.Param("auctionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid auction ID format")))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auctionID": auctionID,
		"users":     server.hub.RoomUsers(auctionID),
	})
}
