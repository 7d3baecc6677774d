package server

import (
	"encoding/json"
	"net/http"

	"stock-board/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Status message types
const (
	StatusInitial      = "INITIAL"
	StatusDatasetReady = "DATASET_READY"
)

type clientReply struct {
	client   *Client
	statuses []models.MDatasetStatus
}

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// runHub is the main Hub loop
func (s *APIServer) runHub() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			// Send current state on connect
			for _, st := range s.statuses(StatusInitial, nil) {
				client.send <- st
			}

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}

		case r := <-s.replies:
			if _, ok := s.clients[r.client]; !ok {
				continue
			}
			for _, st := range r.statuses {
				select {
				case r.client.send <- st:
				default:
				}
			}

		case message := <-s.broadcast:
			for client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Client too slow, drop it rather than block the hub
					delete(s.clients, client)
					close(client.send)
				}
			}

		case <-s.done:
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues a status change for every connected client
func (s *APIServer) Broadcast(status models.MDatasetStatus) {
	select {
	case s.broadcast <- status:
	case <-s.done:
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		send: make(chan models.MDatasetStatus, 16),
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage answers a subscribe command with the current status of
// the requested markets.
func (s *APIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	// The hub owns client.send, so the reply goes through it
	select {
	case s.replies <- clientReply{client: client, statuses: s.statuses(StatusInitial, cmd.Markets)}:
	case <-s.done:
	}
}
