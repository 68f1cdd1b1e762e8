package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/scenecraft-core/internal/export"
	"github.com/nerrad567/scenecraft-core/internal/infrastructure/config"
	"github.com/nerrad567/scenecraft-core/internal/infrastructure/logging"
	"github.com/nerrad567/scenecraft-core/internal/input"
	"github.com/nerrad567/scenecraft-core/internal/interaction"
	"github.com/nerrad567/scenecraft-core/internal/store"
)

// WebSocket message types.
const (
	WSTypeSubscribe    = "subscribe"
	WSTypeUnsubscribe  = "unsubscribe"
	WSTypePing         = "ping"
	WSTypePong         = "pong"
	WSTypeEvent        = "event"
	WSTypeResponse     = "response"
	WSTypeError        = "error"
	WSTypeInputKey     = "input.key"
	WSTypeInputPointer = "input.pointer"

	// wsSendBufferSize is the per-client outbound message buffer size.
	wsSendBufferSize = 256

	wsDefaultPingInterval = 30 * time.Second
	wsDefaultPongWait     = 10 * time.Second
)

// Broadcast channels.
const (
	ChannelSceneChanged = "scene.changed"
	ChannelAction       = "interaction.action"
	ChannelExportDone   = "export.done"
	ChannelSystemError  = "system.error"
)

// WSMessage represents a message sent to/from a WebSocket client.
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	EventType string          `json:"event_type,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// wsOutbound is the server side of WSMessage, with an unencoded payload.
type wsOutbound struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// WSSubscribePayload is the payload for subscribe/unsubscribe messages.
type WSSubscribePayload struct {
	Channels []string `json:"channels"`
}

// SceneChangedEvent is broadcast on ChannelSceneChanged.
type SceneChangedEvent struct {
	Op     string   `json:"op"`
	Slices []string `json:"slices"`
}

// SystemErrorEvent is broadcast on ChannelSystemError.
type SystemErrorEvent struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// InputRouter handles viewport events received over a socket.
type InputRouter interface {
	HandleKey(input.KeyEvent) (input.Outcome, error)
	HandlePointer(input.PointerEvent) (input.Outcome, error)
}

// Hub manages WebSocket connections and broadcasts editor events.
type Hub struct {
	cfg     config.WebSocketConfig
	logger  *logging.Logger
	clients map[*WSClient]struct{}
	input   InputRouter
	mu      sync.RWMutex
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	hub           *Hub
	conn          *websocket.Conn
	send          chan []byte
	subscriptions map[string]struct{}
	mu            sync.RWMutex

	readLimit    int64
	pingInterval time.Duration
	pongWait     time.Duration
}

// upgrader configures the WebSocket upgrader.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by CORS middleware
		return true
	},
}

// NewHub creates a new WebSocket hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[*WSClient]struct{}),
	}
}

// SetInput sets the router for input.key and input.pointer messages.
func (h *Hub) SetInput(r InputRouter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.input = r
}

// Run blocks until the context is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Register adds a client to the hub.
func (h *Hub) Register(client *WSClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", h.ClientCount())
}

// Unregister removes a client from the hub.
// Only the goroutine that removes the client from the map closes the send
// channel.
func (h *Hub) Unregister(client *WSClient) {
	h.mu.Lock()
	_, existed := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if existed {
		close(client.send)
	}
	h.logger.Debug("websocket client disconnected", "clients", h.ClientCount())
}

// Broadcast sends an event to all clients subscribed to the given channel.
// The hub lock is released before per-client subscription checks.
func (h *Hub) Broadcast(channel string, payload any) {
	data, err := json.Marshal(wsOutbound{
		Type:      WSTypeEvent,
		EventType: channel,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*WSClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	sentCount := 0
	for _, client := range clients {
		if client.isSubscribed(channel) {
			client.trySend(data)
			sentCount++
		}
	}
	if sentCount > 0 {
		h.logger.Debug("broadcast sent", "channel", channel, "recipients", sentCount)
	}
}

// OnChange is a store listener relaying every change.
func (h *Hub) OnChange(c store.Change) {
	h.Broadcast(ChannelSceneChanged, SceneChangedEvent{Op: c.Op, Slices: c.Slices.Names()})
}

// RecordAction relays executed interaction actions.
func (h *Hub) RecordAction(rec interaction.ActionRecord) {
	h.Broadcast(ChannelAction, rec)
}

// ExportDone relays a finished export.
func (h *Hub) ExportDone(res export.Result) {
	h.Broadcast(ChannelExportDone, res)
}

// ReportError relays a background failure, such as a failed export or a
// persistence write.
func (h *Hub) ReportError(source string, err error) {
	if err == nil {
		return
	}
	h.Broadcast(ChannelSystemError, SystemErrorEvent{Source: source, Message: err.Error()})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// closeAll disconnects all clients and closes their send channels
// so writePump goroutines can exit cleanly.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
		delete(h.clients, client)
	}
}

func (h *Hub) router() InputRouter {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.input
}

// handleWebSocket upgrades the HTTP connection to a WebSocket connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := newWSClient(s.hub, conn, s.wsCfg)
	s.hub.Register(client)

	go client.writePump()
	go client.readPump()
}

func newWSClient(h *Hub, conn *websocket.Conn, cfg config.WebSocketConfig) *WSClient {
	c := &WSClient{
		hub:           h,
		conn:          conn,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: make(map[string]struct{}),
		readLimit:     int64(cfg.MaxMessageSize),
		pingInterval:  time.Duration(cfg.PingInterval) * time.Second,
		pongWait:      time.Duration(cfg.PongTimeout) * time.Second,
	}
	if c.pingInterval <= 0 {
		c.pingInterval = wsDefaultPingInterval
	}
	if c.pongWait <= 0 {
		c.pongWait = wsDefaultPongWait
	}
	return c
}

// extendRead pushes the read deadline one ping interval plus the pong wait
// into the future.
func (c *WSClient) extendRead() error {
	return c.conn.SetReadDeadline(time.Now().Add(c.pingInterval + c.pongWait))
}

// readPump reads client messages until the connection fails. Any message,
// not only a pong, keeps the connection alive.
func (c *WSClient) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	if c.readLimit > 0 {
		c.conn.SetReadLimit(c.readLimit)
	}
	c.extendRead() //nolint:errcheck // A failed deadline surfaces as a read error
	c.conn.SetPongHandler(func(string) error { return c.extendRead() })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			} else {
				c.hub.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		c.extendRead() //nolint:errcheck // A failed deadline surfaces as a read error
		c.handleMessage(message)
	}
}

// writePump drains the send channel and pings the client every interval.
// A closed send channel means the hub dropped the client.
func (c *WSClient) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	write := func(kind int, data []byte) error {
		c.conn.SetWriteDeadline(time.Now().Add(c.pongWait)) //nolint:errcheck // Write error reported below
		return c.conn.WriteMessage(kind, data)
	}

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				write(websocket.CloseMessage, nil) //nolint:errcheck // Best-effort close frame
				return
			}
			if err := write(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming WebSocket message.
func (c *WSClient) handleMessage(data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("", "invalid JSON message")
		return
	}

	switch msg.Type {
	case WSTypeSubscribe:
		c.handleSubscribe(msg, true)
	case WSTypeUnsubscribe:
		c.handleSubscribe(msg, false)
	case WSTypePing:
		c.sendResponse(msg.ID, WSTypePong, nil)
	case WSTypeInputKey:
		var ev input.KeyEvent
		c.handleInput(msg, &ev, func(r InputRouter) (input.Outcome, error) { return r.HandleKey(ev) })
	case WSTypeInputPointer:
		var ev input.PointerEvent
		c.handleInput(msg, &ev, func(r InputRouter) (input.Outcome, error) { return r.HandlePointer(ev) })
	default:
		c.sendError(msg.ID, "unknown message type: "+msg.Type)
	}
}

// handleSubscribe adds or removes channels from the client's subscriptions.
func (c *WSClient) handleSubscribe(msg WSMessage, subscribe bool) {
	var sub WSSubscribePayload
	if err := json.Unmarshal(msg.Payload, &sub); err != nil {
		c.sendError(msg.ID, "invalid "+msg.Type+" payload")
		return
	}

	c.mu.Lock()
	for _, ch := range sub.Channels {
		if subscribe {
			c.subscriptions[ch] = struct{}{}
		} else {
			delete(c.subscriptions, ch)
		}
	}
	c.mu.Unlock()

	if subscribe {
		c.hub.logger.Debug("websocket client subscribed", "channels", sub.Channels)
		c.sendResponse(msg.ID, WSTypeResponse, map[string]any{"subscribed": sub.Channels})
		return
	}
	c.sendResponse(msg.ID, WSTypeResponse, map[string]any{"unsubscribed": sub.Channels})
}

// handleInput decodes an input event into ev and routes it.
func (c *WSClient) handleInput(msg WSMessage, ev any, route func(InputRouter) (input.Outcome, error)) {
	r := c.hub.router()
	if r == nil {
		c.sendError(msg.ID, "input is not available")
		return
	}
	if err := json.Unmarshal(msg.Payload, ev); err != nil {
		c.sendError(msg.ID, "invalid "+msg.Type+" payload")
		return
	}
	out, err := route(r)
	if err != nil {
		c.sendError(msg.ID, err.Error())
		return
	}
	c.sendResponse(msg.ID, WSTypeResponse, out)
}

// trySend attempts to send data to the client's send channel. Closed
// channels and full buffers are ignored.
func (c *WSClient) trySend(data []byte) {
	defer func() {
		recover() //nolint:errcheck // Absorb send-on-closed-channel panic
	}()

	select {
	case c.send <- data:
	default:
		// Client buffer full, skip
	}
}

// isSubscribed checks if the client is subscribed to a channel.
func (c *WSClient) isSubscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.subscriptions[channel]
	return ok
}

// sendResponse sends a response message to the client.
func (c *WSClient) sendResponse(id, msgType string, payload any) {
	data, err := json.Marshal(wsOutbound{
		Type:      msgType,
		ID:        id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		return
	}
	c.trySend(data)
}

// sendError sends an error message to the client.
func (c *WSClient) sendError(id, message string) {
	c.sendResponse(id, WSTypeError, map[string]string{"message": message})
}
