package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
	"github.com/custodia-labs/mathink/internal/logger"
)

// Verify interface compliance.
var _ driven.Recognizer = (*Client)(nil)

// DefaultHandshakeTimeout bounds the websocket handshake.
const DefaultHandshakeTimeout = 5 * time.Second

// errConnectionLost is delivered to calls pending on a dropped connection.
var errConnectionLost = errors.New("connection lost")

// reply is what a pending call receives: a server message or a transport error.
type reply struct {
	msg ReplyMessage
	err error
}

// Client is a websocket recognizer. It is safe for concurrent use.
type Client struct {
	url     string
	dialer  *ws.Dialer
	limiter *rate.Limiter

	mu      sync.Mutex
	conn    *ws.Conn
	pending map[string]chan reply
	closed  bool

	// writeMu serialises writes; gorilla allows one concurrent writer.
	writeMu sync.Mutex
}

// NewClient creates a client for the configured endpoint.
// No connection is made until the first request.
func NewClient(settings domain.RecognizerSettings) (*Client, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: recognizer url is empty", domain.ErrInvalidInput)
	}

	limit := rate.Limit(settings.Rate)
	if settings.Rate <= 0 {
		limit = rate.Inf
	}
	burst := settings.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		url: settings.URL,
		dialer: &ws.Dialer{
			HandshakeTimeout: DefaultHandshakeTimeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		pending: make(map[string]chan reply),
	}, nil
}

// URL returns the endpoint.
func (c *Client) URL() string {
	return c.url
}

// Recognize sends req and waits for the matching reply.
func (c *Client) Recognize(ctx context.Context, req domain.RecognitionRequest) (domain.RecognitionResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.RecognitionResult{}, fmt.Errorf("rate limit: %w", err)
	}

	conn, err := c.connect(ctx)
	if err != nil {
		return domain.RecognitionResult{}, err
	}

	ch := make(chan reply, 1)
	c.mu.Lock()
	c.pending[req.ID] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
	}()

	if err := c.write(ctx, conn, NewRecognizeMessage(req)); err != nil {
		c.drop(conn, err)
		return domain.RecognitionResult{}, fmt.Errorf("sending request: %w", err)
	}

	select {
	case r := <-ch:
		if r.err != nil {
			return domain.RecognitionResult{}, r.err
		}
		return r.msg.Result()
	case <-ctx.Done():
		return domain.RecognitionResult{}, ctx.Err()
	}
}

// Close closes the connection and fails every pending call.
// The client cannot be used afterwards.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.failPendingLocked(domain.ErrClosed)
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// connect returns the shared connection, dialing it if needed.
// The dial runs without holding mu; when two callers race, the loser's
// connection is closed and the installed one is returned.
func (c *Client) connect(ctx context.Context) (*ws.Conn, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.ErrClosed
	}
	if c.conn != nil {
		conn := c.conn
		c.mu.Unlock()
		return conn, nil
	}
	c.mu.Unlock()

	logger.Debug("recognizer: dialing %s", c.url)
	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dialing recognizer: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed:
		_ = conn.Close()
		return nil, domain.ErrClosed
	case c.conn != nil:
		_ = conn.Close()
		return c.conn, nil
	}
	c.conn = conn
	go c.readLoop(conn)
	return conn, nil
}

func (c *Client) write(ctx context.Context, conn *ws.Conn, msg RecognizeMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	// A zero deadline clears any previous one.
	deadline, _ := ctx.Deadline()
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

// readLoop routes replies until the connection fails.
func (c *Client) readLoop(conn *ws.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.drop(conn, err)
			return
		}

		var msg ReplyMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warn("recognizer: discarding undecodable reply: %v", err)
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[msg.ID]
		delete(c.pending, msg.ID)
		c.mu.Unlock()

		if !ok {
			logger.Debug("recognizer: no caller for reply %s", msg.ID)
			continue
		}
		ch <- reply{msg: msg}
	}
}

// drop discards conn if it is still current so the next call redials.
func (c *Client) drop(conn *ws.Conn, cause error) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		if !c.closed {
			logger.Warn("recognizer: connection dropped: %v", cause)
		}
		c.failPendingLocked(fmt.Errorf("%w: %w", errConnectionLost, cause))
	}
	c.mu.Unlock()

	_ = conn.Close()
}

func (c *Client) failPendingLocked(err error) {
	for id, ch := range c.pending {
		ch <- reply{err: err}
		delete(c.pending, id)
	}
}
