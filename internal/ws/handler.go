package ws

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Presence is the best-effort online/offline tracker updated as connections
// come and go. Failures are logged, never surfaced to the connection.
type Presence interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
}

// Handler owns one live-delivery connection end to end: register the client,
// pump its queue to the socket with a keep-alive ping, and guarantee cleanup
// on every exit path (remote close, write error, server shutdown).
type Handler struct {
	registry *Registry
	presence Presence
	log      *zap.SugaredLogger

	pingInterval  time.Duration
	writeDeadline time.Duration
	sendBuffer    int
}

func NewHandler(registry *Registry, presence Presence, log *zap.SugaredLogger, pingInterval, writeDeadline time.Duration, sendBuffer int) *Handler {
	return &Handler{
		registry:      registry,
		presence:      presence,
		log:           log,
		pingInterval:  pingInterval,
		writeDeadline: writeDeadline,
		sendBuffer:    sendBuffer,
	}
}

// Handle runs for the lifetime of one upgraded connection. The authenticated
// user id is placed in locals by the auth middleware before the upgrade.
func (h *Handler) Handle(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	if userID == "" {
		_ = conn.Close()
		return
	}

	client := NewClient(userID, h.sendBuffer)
	h.registry.Register(userID, client)
	if err := h.presence.SetOnline(context.Background(), userID); err != nil {
		h.log.Warnw("presence online update failed", "user_id", userID, "err", err)
	}
	defer h.teardown(userID, client, conn)

	_ = client.Deliver(NewEvent(EventConnected, map[string]string{"user_id": userID}))

	writerDone := make(chan struct{})
	go h.writeLoop(conn, client, writerDone)

	// Reader loop: inbound frames are not commands (writes go through the
	// HTTP surface); reading only detects remote disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	client.Close()
	<-writerDone
}

func (h *Handler) writeLoop(conn *websocket.Conn, client *Client, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case evt := <-client.Send():
			if err := h.write(conn, evt); err != nil {
				h.log.Debugw("ws write failed", "user_id", client.UserID(), "err", err)
				client.Close()
				return
			}
		case <-ticker.C:
			if err := h.write(conn, NewEvent(EventPing, nil)); err != nil {
				h.log.Debugw("ws ping failed", "user_id", client.UserID(), "err", err)
				client.Close()
				return
			}
		case <-client.Done():
			return
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, evt Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(h.writeDeadline))
	return conn.WriteJSON(evt)
}

func (h *Handler) teardown(userID string, client *Client, conn *websocket.Conn) {
	client.Close()
	h.registry.Unregister(userID, client)
	_ = conn.Close()
	if h.registry.ConnectionCount(userID) == 0 {
		if err := h.presence.SetOffline(context.Background(), userID); err != nil {
			h.log.Warnw("presence offline update failed", "user_id", userID, "err", err)
		}
	}
}
