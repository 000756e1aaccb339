package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame to the server.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the server.
	pongWait = 60 * time.Second

	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024
)

var (
	ErrClosed       = errors.New("chat connection closed")
	ErrEmptyMessage = errors.New("message cannot be empty")
	ErrNoToken      = errors.New("chat requires a signed-in user")
)

// Conn is a client websocket connection to the chat server.
type Conn struct {
	ws       *websocket.Conn
	send     chan Frame
	messages chan domain.ChatMessage
	done     chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	err       error

	// Tuned by tests.
	pingPeriod time.Duration
	pongWait   time.Duration
}

// Dial connects to wsURL. The server reads the bearer token from the
// token query parameter.
func Dial(ctx context.Context, wsURL, token string) (*Conn, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid chat url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	logger.ExternalServiceCall("chat", "dial", "host", u.Host)
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	logger.ExternalServiceResult("chat", "dial", err, "host", u.Host)
	if err != nil {
		return nil, fmt.Errorf("connect to chat: %w", err)
	}

	c := newConn(ws, pingPeriod, pongWait)
	c.start()
	return c, nil
}

func newConn(ws *websocket.Conn, ping, pong time.Duration) *Conn {
	return &Conn{
		ws:         ws,
		send:       make(chan Frame, 16),
		messages:   make(chan domain.ChatMessage, 64),
		done:       make(chan struct{}),
		pingPeriod: ping,
		pongWait:   pong,
	}
}

func (c *Conn) start() {
	go c.writePump()
	go c.readPump()
}

// Messages delivers incoming chat messages. It is closed when the
// connection ends.
func (c *Conn) Messages() <-chan domain.ChatMessage {
	return c.messages
}

// Done is closed when the connection ends.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns why the connection ended, or nil while it is open or after
// a normal close.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Join subscribes to a conversation's messages.
func (c *Conn) Join(conversationID string) error {
	return c.enqueue(Frame{Type: TypeJoin, ConversationID: conversationID})
}

func (c *Conn) Leave(conversationID string) error {
	return c.enqueue(Frame{Type: TypeLeave, ConversationID: conversationID})
}

// Send posts a message to a conversation. Delivery back to this client
// arrives on Messages like any other message.
func (c *Conn) Send(conversationID, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyMessage
	}
	return c.enqueue(Frame{Type: TypeSend, ConversationID: conversationID, Content: content})
}

func (c *Conn) enqueue(f Frame) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.send <- f:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// Close sends a close frame and tears the connection down.
func (c *Conn) Close() error {
	c.shutdown(nil)
	return nil
}

func (c *Conn) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = cause
		c.mu.Unlock()

		close(c.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		c.ws.Close()
	})
}

func (c *Conn) readPump() {
	defer close(c.messages)

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			var cause error
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cause = err
				logger.Warn("Chat connection lost", "error", err)
			}
			c.shutdown(cause)
			return
		}

		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			logger.Debug("Ignoring malformed chat frame", "error", err)
			continue
		}
		switch f.Type {
		case TypeMessage:
			if f.Message == nil {
				continue
			}
			select {
			case c.messages <- *f.Message:
			case <-c.done:
				return
			}
		case TypeError:
			logger.Warn("Chat server error", "conversationID", f.ConversationID, "error", f.Error)
		default:
			logger.Debug("Unhandled chat frame", "type", f.Type)
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case f := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(f); err != nil {
				logger.Warn("Chat write failed", "error", err)
				c.shutdown(err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown(err)
				return
			}
		case <-c.done:
			return
		}
	}
}
