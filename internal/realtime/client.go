package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/memehustle/backend/internal/domain"
	"github.com/memehustle/backend/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Mutator is the slice of the meme service the channel dispatches into.
type Mutator interface {
	Vote(ctx context.Context, memeID, voteType string) (int, error)
	PlaceBid(ctx context.Context, memeID, userID string, credits int) (*domain.Meme, error)
}

// Client is one websocket connection. Inbound frames run the shared mutation
// protocol; outbound frames come from the hub (broadcasts) or from this
// client's own rejections (error events).
type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	mutator Mutator

	mu     sync.Mutex
	closed bool
}

// closeSend closes the send channel exactly once. Only the hub calls this.
// The mutex lets sendError, which runs on the read goroutine, observe the
// close instead of racing it.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ServeWS returns the Gin handler that upgrades requests on the realtime
// endpoint and attaches the resulting connection to the hub.
// Parameters:
//   - hub: hub the new client joins.
//   - mutator: mutation service inbound events dispatch into.
//   - checkOrigin: origin policy, usually backed by the CORS allowlist.
// Returns:
//   - gin.HandlerFunc: upgrade handler.
func ServeWS(hub *Hub, mutator Mutator, checkOrigin func(r *http.Request) bool) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Websocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			id:      uuid.New().String(),
			hub:     hub,
			conn:    conn,
			send:    make(chan []byte, 64),
			mutator: mutator,
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// readPump reads inbound frames and dispatches them until the connection
// drops. One reader per connection, as the websocket package requires.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("Websocket read error: %v", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			c.sendError("Invalid message format")
			continue
		}
		c.dispatch(&env)
	}
}

// dispatch runs one inbound event through the mutation service. Rejections go
// back to this client only; accepted mutations broadcast through the hub from
// inside the service.
func (c *Client) dispatch(env *Envelope) {
	switch env.Event {
	case EventPlaceBid:
		var req BidRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			c.sendError("Invalid bid payload")
			return
		}
		ctx := logger.SetMemeID(context.Background(), req.MemeID)
		ctx = logger.SetUserID(ctx, req.UserID)
		if _, err := c.mutator.PlaceBid(ctx, req.MemeID, req.UserID, req.Credits); err != nil {
			c.sendError(bidErrorMessage(err))
		}
	case EventVote:
		var req VoteRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			c.sendError("Invalid vote payload")
			return
		}
		ctx := logger.SetMemeID(context.Background(), req.MemeID)
		if _, err := c.mutator.Vote(ctx, req.MemeID, req.VoteType); err != nil {
			c.sendError(voteErrorMessage(err))
		}
	default:
		c.sendError("Unknown event: " + env.Event)
	}
}

func bidErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrBidTooLow):
		return "Bid must be higher than the current highest bid."
	case errors.Is(err, domain.ErrMemeNotFound):
		return "Meme not found"
	default:
		logger.Error("Bid failed: %v", err)
		return "Failed to place bid"
	}
}

func voteErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMemeNotFound):
		return "Meme not found"
	case errors.Is(err, domain.ErrInvalidVote):
		return err.Error()
	default:
		logger.Error("Vote failed: %v", err)
		return "Failed to register vote"
	}
}

// sendError delivers an error event to this client only. The hub may have
// already dropped this client and closed its send channel, so the closed flag
// is checked under the same lock closeSend holds.
func (c *Client) sendError(message string) {
	frame, err := encodeEvent(EventError, ErrorPayload{Message: message})
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

// writePump writes queued frames and keeps the connection alive with pings.
// One writer per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
