package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/horizonmart/auction-BE/internal/event"
)

//	@Summary		Stream auction events via Server-Sent Events
//	@Description	Establishes an SSE connection to receive real-time updates about an auction
//	@Tags			auctions
//	@Produce		text/event-stream
//	@Param			auctionID	path		string	true	"Auction ID"
//	@Success		200			{string}	string	"Event stream. Data will be sent as SSE events with format: 'event: {eventType}\ndata: {jsonData}'"
//	@Failure		400			{object}	object	"Invalid auction ID format"
//	@Router			/auctions/{auctionID}/stream [get]
func (server *Server) streamAuctionEvents(c *gin.Context) {
	auctionID, err := uuid.Parse(c.Param("auctionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid auction ID format")))
		return
	}

	topic := event.AuctionTopic(auctionID)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	clientChan := make(chan event.Event, 64)
	server.eventSender.Register(topic, clientChan)
	defer server.eventSender.Unregister(topic, clientChan)

	for {
		select {
		case ev, ok := <-clientChan:
			if !ok {
				return
			}
			data, _ := json.Marshal(ev.Data)
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Type, data)
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
