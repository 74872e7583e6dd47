package event

import (
	"fmt"

	"github.com/google/uuid"
)

// Event is a single fan-out notification on a topic.
type Event struct {
	Topic string      // e.g. "auction:0195…"
	Type  string      // one of the EventType constants
	Data  interface{} // event payload, marshaled per transport
}

// Auction lifecycle events. For one auction topic, events are delivered to
// a given subscriber in publish order; there is no cross-topic ordering.
const (
	EventTypeBidPlaced          = "bidPlaced"
	EventTypeAuctionEnding      = "auctionEnding"
	EventTypeAuctionCountdown   = "auctionCountdown"
	EventTypeCountdownCancelled = "countdownCancelled"
	EventTypeAuctionEnded       = "auctionEnded"
)

// Presence events for an auction room. These are viewer conveniences and
// carry no lifecycle state.
const (
	EventTypeUserJoined = "userJoined"
	EventTypeUserLeft   = "userLeft"
	EventTypeRoomUsers  = "auctionRoomUsers"
)

// AuctionTopic returns the per-auction channel name.
func AuctionTopic(auctionID uuid.UUID) string {
	return fmt.Sprintf("auction:%s", auctionID)
}

// EventSender fans events out to all current subscribers of a topic.
// Delivery is best-effort: no durable queue, no acknowledgment, no replay
// for late subscribers.
type EventSender interface {
	Register(topic string, client chan Event)
	Unregister(topic string, client chan Event)
	Broadcast(event Event)
	Run()
}
