package notification

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is one open websocket connection for one user.
type Client struct {
	hub    *Hub
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub routes freshly created notifications to the websocket connections of
// the targeted user. Delivery is best-effort; a slow client gets dropped.
type Hub struct {
	clients    map[string]map[*Client]bool // userID -> connections
	publish    chan targetedMessage
	register   chan *Client
	unregister chan *Client
	logger     *zap.Logger
}

type targetedMessage struct {
	userID  string
	payload []byte
}

func NewHub(logger ...*zap.Logger) *Hub {
	l := zap.L().Named("notification.hub")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.hub")
	}
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		publish:    make(chan targetedMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     l,
	}
}

// Run is the dispatch loop; start it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			conns := h.clients[client.userID]
			if conns == nil {
				conns = make(map[*Client]bool)
				h.clients[client.userID] = conns
			}
			conns[client] = true
			h.logger.Debug("websocket client connected", zap.String("user_id", client.userID))

		case client := <-h.unregister:
			if conns, ok := h.clients[client.userID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
					h.logger.Debug("websocket client disconnected", zap.String("user_id", client.userID))
				}
			}

		case msg := <-h.publish:
			for client := range h.clients[msg.userID] {
				select {
				case client.send <- msg.payload:
				default:
					close(client.send)
					delete(h.clients[msg.userID], client)
				}
			}
		}
	}
}

// Push sends a notification to every open connection of its user.
// Safe to call from any goroutine; never blocks the caller.
func (h *Hub) Push(n Notification) {
	payload, err := json.Marshal(mapToResponse(n))
	if err != nil {
		h.logger.Error("marshal notification push failed", zap.Error(err))
		return
	}

	select {
	case h.publish <- targetedMessage{userID: n.UserID.String(), payload: payload}:
	default:
		h.logger.Warn("notification push dropped, hub backlog full",
			zap.String("user_id", n.UserID.String()),
		)
	}
}

// Attach registers the connection and starts its pumps.
func (h *Hub) Attach(userID string, conn *websocket.Conn) {
	client := &Client{
		hub:    h,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 16),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	for {
		// Clients only listen; reads just detect the close.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
