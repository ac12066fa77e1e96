package server

import (
	"encoding/json"
	"sync"

	"stickpad/internal/board"
	"stickpad/pkg/logger"
)

// NoteEvent is one entry on the change feed. Note is set for creates and
// updates; deletes carry only the id.
type NoteEvent struct {
	Type    string      `json:"type"`
	OwnerID string      `json:"-"`
	NoteID  string      `json:"noteId,omitempty"`
	Note    *board.Note `json:"note,omitempty"`
}

// Hub fans note events out to every connected session of the owning user.
// The feed is one-way: clients mutate through the REST API and hear about
// the result here, which keeps a user's open tabs in sync.
type Hub struct {
	Rooms      map[string]map[*Client]bool
	Broadcast  chan NoteEvent
	Register   chan *Client
	Unregister chan *Client

	mu sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Rooms:      make(map[string]map[*Client]bool),
		Broadcast:  make(chan NoteEvent),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Publish hands an event to the hub's event loop.
func (h *Hub) Publish(ev NoteEvent) {
	h.Broadcast <- ev
}

// drop removes a client outside the Register/Unregister channels; the event
// loop calls it for lagging clients and cannot send to itself.
func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.Rooms[client.UserID][client]; ok {
		delete(h.Rooms[client.UserID], client)
		close(client.Send)
		if len(h.Rooms[client.UserID]) == 0 {
			delete(h.Rooms, client.UserID)
		}
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.Rooms[client.UserID] == nil {
				h.Rooms[client.UserID] = make(map[*Client]bool)
			}
			h.Rooms[client.UserID][client] = true
			h.mu.Unlock()
			logger.Sugar.Infof("Feed connected for user %s", client.UserID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Rooms[client.UserID][client]; ok {
				delete(h.Rooms[client.UserID], client)
				close(client.Send)
				if len(h.Rooms[client.UserID]) == 0 {
					delete(h.Rooms, client.UserID)
					logger.Sugar.Infof("Closed empty feed room for user %s", client.UserID)
				}
			}
			h.mu.Unlock()

		case ev := <-h.Broadcast:
			payload, err := json.Marshal(ev)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling feed event: %v", err)
				continue
			}

			h.mu.Lock()
			clientsToSend := make([]*Client, 0, len(h.Rooms[ev.OwnerID]))
			for client := range h.Rooms[ev.OwnerID] {
				clientsToSend = append(clientsToSend, client)
			}
			h.mu.Unlock()

			for _, client := range clientsToSend {
				select {
				case client.Send <- payload:
				default:
					// A full buffer means the client stopped reading; drop it
					// rather than stall the feed.
					logger.Sugar.Warnf("Feed client for user %s is lagging. Unregistering.", client.UserID)
					h.drop(client)
				}
			}
		}
	}
}
