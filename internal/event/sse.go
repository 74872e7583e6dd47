package event

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const clientSendTimeout = 500 * time.Millisecond

type SSEServer struct {
	clients map[string]map[chan Event]bool
	events  chan Event
	mu      sync.Mutex
}

func NewSSEServer() EventSender {
	return &SSEServer{
		clients: make(map[string]map[chan Event]bool),
		events:  make(chan Event, 256),
	}
}

// Register subscribes a client channel to a topic.
func (s *SSEServer) Register(topic string, client chan Event) {
	s.mu.Lock()
	if _, ok := s.clients[topic]; !ok {
		s.clients[topic] = make(map[chan Event]bool)
	}
	s.clients[topic][client] = true
	total := len(s.clients[topic])
	s.mu.Unlock()
	log.Info().Msgf("New client registered to topic %s. Total clients: %d", topic, total)
}

// Unregister removes a client channel from a topic and closes it.
func (s *SSEServer) Unregister(topic string, client chan Event) {
	s.mu.Lock()
	remaining := 0
	if clients, ok := s.clients[topic]; ok {
		if clients[client] {
			delete(clients, client)
			close(client)
		}
		remaining = len(clients)
		if remaining == 0 {
			delete(s.clients, topic)
		}
	}
	s.mu.Unlock()
	log.Info().Msgf("Client unregistered from topic %s. Remaining clients: %d", topic, remaining)
}

// Broadcast queues an event for delivery to all subscribers of its topic.
// It never blocks the caller for longer than the enqueue.
func (s *SSEServer) Broadcast(event Event) {
	s.events <- event
}

// Run drains the event stream. A single dispatch goroutine keeps events on
// one topic in publish order for every subscriber; a slow subscriber is
// skipped after a short timeout rather than stalling the stream.
func (s *SSEServer) Run() {
	for event := range s.events {
		s.mu.Lock()
		clients := make([]chan Event, 0, len(s.clients[event.Topic]))
		for client := range s.clients[event.Topic] {
			clients = append(clients, client)
		}
		s.mu.Unlock()

		var wg sync.WaitGroup
		for _, client := range clients {
			wg.Add(1)
			go func(c chan Event) {
				defer wg.Done()
				defer func() {
					// The client may have been unregistered (and its
					// channel closed) while this send was in flight.
					if r := recover(); r != nil {
						log.Debug().Msgf("dropped %s event for closed client on topic %s", event.Type, event.Topic)
					}
				}()
				select {
				case c <- event:
				case <-time.After(clientSendTimeout):
					log.Warn().Str("topic", event.Topic).Str("type", event.Type).Msg("slow subscriber, event dropped")
				}
			}(client)
		}
		// Waiting here keeps cross-event order intact per subscriber.
		wg.Wait()
	}
}
