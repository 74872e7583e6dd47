package realtime

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/horizonmart/auction-BE/internal/event"
	"github.com/rs/zerolog/log"
)

// Config holds the WebSocket connection tuning for auction rooms.
type Config struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// Hub manages the WebSocket side of auction rooms. Lifecycle and bid events
// reach clients through the shared event sender; the hub adds presence on
// top: who is in the room, announced as userJoined, userLeft and
// auctionRoomUsers events to every subscriber, SSE viewers included.
type Hub struct {
	events   event.EventSender
	upgrader websocket.Upgrader
	cfg      Config

	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Client]bool
}

func NewHub(events event.EventSender, cfg Config) *Hub {
	return &Hub{
		events: events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		cfg:   cfg,
		rooms: make(map[uuid.UUID]map[*Client]bool),
	}
}

// Join upgrades the request and adds the viewer to the auction's room. The
// client starts receiving every event published on the auction topic.
func (h *Hub) Join(w http.ResponseWriter, r *http.Request, userID string, auctionID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	client := &Client{
		id:        uuid.New().String(),
		userID:    userID,
		auctionID: auctionID,
		conn:      conn,
		events:    make(chan event.Event, 64),
		hub:       h,
		joinedAt:  time.Now(),
	}

	h.mu.Lock()
	if h.rooms[auctionID] == nil {
		h.rooms[auctionID] = make(map[*Client]bool)
	}
	h.rooms[auctionID][client] = true
	h.mu.Unlock()

	h.events.Register(event.AuctionTopic(auctionID), client.events)

	go client.writePump()
	go client.readPump()

	log.Info().
		Str("connection_id", client.id).
		Str("user_id", userID).
		Str("auction_id", auctionID.String()).
		Msg("viewer joined auction room")

	h.announcePresence(auctionID, event.EventTypeUserJoined, userID)
	return nil
}

// leave removes a client from its room. Both pumps call it on teardown; the
// room membership check makes the second call a no-op.
func (h *Hub) leave(client *Client) {
	h.mu.Lock()
	room, exists := h.rooms[client.auctionID]
	if !exists || !room[client] {
		h.mu.Unlock()
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, client.auctionID)
	}
	h.mu.Unlock()

	// Unregister closes the client's event channel, which stops writePump.
	h.events.Unregister(event.AuctionTopic(client.auctionID), client.events)

	log.Info().
		Str("connection_id", client.id).
		Str("user_id", client.userID).
		Str("auction_id", client.auctionID.String()).
		Msg("viewer left auction room")

	h.announcePresence(client.auctionID, event.EventTypeUserLeft, client.userID)
}

// RoomUsers returns the distinct user ids currently in an auction room,
// sorted for stable rosters.
func (h *Hub) RoomUsers(auctionID uuid.UUID) []string {
	h.mu.RLock()
	seen := make(map[string]bool)
	for client := range h.rooms[auctionID] {
		seen[client.userID] = true
	}
	h.mu.RUnlock()

	users := make([]string, 0, len(seen))
	for userID := range seen {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users
}

func (h *Hub) announcePresence(auctionID uuid.UUID, eventType, userID string) {
	users := h.RoomUsers(auctionID)

	h.events.Broadcast(event.Event{
		Topic: event.AuctionTopic(auctionID),
		Type:  eventType,
		Data: map[string]interface{}{
			"auctionID": auctionID,
			"userID":    userID,
			"users":     users,
		},
	})
	h.events.Broadcast(event.Event{
		Topic: event.AuctionTopic(auctionID),
		Type:  event.EventTypeRoomUsers,
		Data: map[string]interface{}{
			"auctionID": auctionID,
			"users":     users,
		},
	})
}

// Stats reports active rooms and connection counts.
func (h *Hub) Stats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	roomCounts := make(map[string]int)
	for auctionID, room := range h.rooms {
		total += len(room)
		roomCounts[auctionID.String()] = len(room)
	}

	return map[string]interface{}{
		"total_connections": total,
		"active_rooms":      len(h.rooms),
		"room_connections":  roomCounts,
	}
}
