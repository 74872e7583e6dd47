package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/horizonmart/auction-BE/internal/event"
	"github.com/rs/zerolog/log"
)

// wireMessage is the frame written to viewers, mirroring the SSE shape.
type wireMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client is one WebSocket viewer inside an auction room.
type Client struct {
	id        string
	userID    string
	auctionID uuid.UUID
	conn      *websocket.Conn
	events    chan event.Event
	hub       *Hub
	joinedAt  time.Time
}

// writePump forwards auction events to the socket and keeps the connection
// alive with pings. It exits when the event channel closes or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.hub.leave(c)
	}()

	for {
		select {
		case ev, ok := <-c.events:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := json.Marshal(wireMessage{Type: ev.Type, Data: ev.Data})
			if err != nil {
				log.Error().Err(err).Str("connection_id", c.id).Msg("failed to marshal auction event")
				continue
			}
			if err = c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Debug().Err(err).Str("connection_id", c.id).Msg("failed to write to viewer")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the socket so close frames and pongs are processed.
// Viewers are read-only; inbound payloads are ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.ReadTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("connection_id", c.id).Msg("unexpected close from viewer")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.ReadTimeout))
	}
}
