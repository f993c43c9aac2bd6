package ws

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrClientClosed   = errors.New("ws: client closed")
	ErrSendBufferFull = errors.New("ws: send buffer full")
)

// Channel is one live-delivery endpoint. Deliver must not block; a non-nil
// error tells the registry the channel is dead and should be dropped.
type Channel interface {
	UserID() string
	Deliver(evt Event) error
}

// Client buffers outbound events for a single open connection. The transport
// writer drains Send; Deliver fails once the client is closed or the buffer
// is full (a reader that slow is treated as dead rather than blocking the
// broadcast path).
type Client struct {
	userID    string
	send      chan Event
	done      chan struct{}
	closeOnce sync.Once
	Connected time.Time
}

func NewClient(userID string, buffer int) *Client {
	return &Client{
		userID:    userID,
		send:      make(chan Event, buffer),
		done:      make(chan struct{}),
		Connected: time.Now().UTC(),
	}
}

func (c *Client) UserID() string { return c.userID }

// Send exposes the outbound queue to the transport writer.
func (c *Client) Send() <-chan Event { return c.send }

// Done is closed when the client will accept no further deliveries.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) Deliver(evt Event) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}
	select {
	case c.send <- evt:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrSendBufferFull
	}
}

// Close is idempotent and safe to call from any goroutine.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
