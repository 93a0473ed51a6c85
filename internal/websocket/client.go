package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeTimeout = 10 * time.Second
	readTimeout  = 60 * time.Second
	// Pings go out before the peer's read deadline lapses
	pingInterval = (readTimeout * 9) / 10
	maxFrameSize = 256
	outboxSize   = 64
)

// ActionSubscribe switches the budget type a connection follows
const ActionSubscribe = "subscribe"

// Command is an inbound frame, e.g. {"action":"subscribe","type":"family"}
type Command struct {
	Action string `json:"action"`
	Type   string `json:"type"`
}

// Client is one browser tab following the documents of a single budget type.
// The followed type can change over the life of the connection.
type Client struct {
	id     string
	conn   *websocket.Conn
	hub    *Hub
	outbox chan []byte

	mu         sync.RWMutex
	budgetType domain.BudgetType
	closed     bool
	closeOnce  sync.Once
}

// NewClient creates a client following budgetType
func NewClient(conn *websocket.Conn, budgetType domain.BudgetType, hub *Hub) *Client {
	return &Client{
		id:         uuid.New().String(),
		conn:       conn,
		hub:        hub,
		outbox:     make(chan []byte, outboxSize),
		budgetType: budgetType,
	}
}

// ID returns the connection id
func (c *Client) ID() string {
	return c.id
}

// BudgetType returns the budget type currently followed
func (c *Client) BudgetType() domain.BudgetType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.budgetType
}

// Send queues a frame; a full outbox means the peer is too slow and the frame is refused
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.outbox <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close shuts the outbox and the connection. It may be called more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.outbox)
		c.mu.Unlock()

		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// IsClosed reports whether Close has run
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Acknowledge tells the peer which budget type it follows
func (c *Client) Acknowledge() {
	c.reply(SubscriptionAck(c.BudgetType()))
}

// ReadPump handles inbound commands until the connection drops, then unregisters the client.
// Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	extendDeadline := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	}
	c.conn.SetReadLimit(maxFrameSize)
	_ = extendDeadline("")
	c.conn.SetPongHandler(extendDeadline)

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Str("budget_type", c.BudgetType().String()).
					Msg("WebSocket unexpected close")
			}
			return
		}
		if messageType == websocket.TextMessage {
			c.handleFrame(data)
		}
	}
}

// WritePump drains the outbox and keeps the connection alive with pings.
// Run it in its own goroutine.
func (c *Client) WritePump() {
	keepAlive := time.NewTicker(pingInterval)
	defer func() {
		keepAlive.Stop()
		c.Close()
	}()

	for {
		select {
		case frame, ok := <-c.outbox:
			if !ok {
				_ = c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, frame); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Str("budget_type", c.BudgetType().String()).
					Msg("WebSocket write error")
				return
			}
		case <-keepAlive.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

func (c *Client) handleFrame(data []byte) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.reply(SubscriptionRejected("frame is not a JSON command"))
		return
	}

	switch cmd.Action {
	case ActionSubscribe:
		next, err := domain.ParseBudgetType(cmd.Type)
		if err != nil {
			c.reply(SubscriptionRejected(err.Error()))
			return
		}
		c.follow(next)
	default:
		c.reply(SubscriptionRejected(fmt.Sprintf("unknown action %q", cmd.Action)))
	}
}

// follow moves the client to another budget type's channel and acknowledges it
func (c *Client) follow(next domain.BudgetType) {
	c.mu.Lock()
	previous := c.budgetType
	c.budgetType = next
	c.mu.Unlock()

	if previous != next {
		c.hub.Move(c, previous)
		log.Debug().
			Str("client_id", c.id).
			Str("from", previous.String()).
			Str("to", next.String()).
			Msg("WebSocket subscription changed")
	}
	c.reply(SubscriptionAck(next))
}

func (c *Client) reply(event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to serialize event")
		return
	}
	if err := c.Send(data); err != nil {
		log.Debug().Err(err).Str("client_id", c.id).Msg("Dropped reply to client")
	}
}
