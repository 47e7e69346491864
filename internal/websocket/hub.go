package websocket

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type userMessage struct {
	userID  int64
	message []byte
}

// Hub maintains the set of active clients and fans user events out to them.
// All maps are owned by the Run goroutine.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Messages addressed to the subscribers of one user.
	publish chan userMessage

	// A map of user IDs to the set of clients subscribed to them.
	subscriptions map[int64]map[*Client]bool

	done     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		publish:       make(chan userMessage, 64),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[int64]map[*Client]bool),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				client.closeSend()
			}
			h.clients = make(map[*Client]bool)
			h.subscriptions = make(map[int64]map[*Client]bool)
			log.Info().Msg("WebSocket hub stopped")
			return
		case client := <-h.Register:
			h.clients[client] = true
			h.addSubscription(client)
			log.Info().Int("total_clients", len(h.clients)).Int64("user_id", client.UserID).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case m := <-h.publish:
			for client := range h.subscriptions[m.userID] {
				select {
				case client.Send <- m.message:
				default:
					log.Warn().Str("client_id", client.ID).Msg("Dropping slow websocket client")
					h.drop(client)
				}
			}
		}
	}
}

// Publish queues a message for every client subscribed to userID.
// It never blocks once the hub has been stopped.
func (h *Hub) Publish(userID int64, message []byte) {
	select {
	case h.publish <- userMessage{userID: userID, message: message}:
	case <-h.done:
	}
}

// Leave unregisters a client; a no-op after Stop.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// Join registers a client; returns false when the hub is stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Stop terminates Run and closes every client's send channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	client.closeSend()
	if subs, ok := h.subscriptions[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.UserID)
		}
	}
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.UserID] == nil {
		h.subscriptions[client.UserID] = make(map[*Client]bool)
	}
	h.subscriptions[client.UserID][client] = true
}
