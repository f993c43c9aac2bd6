package ws

import "time"

type EventType string

// Event kinds pushed over the live stream.
const (
	EventConnected           EventType = "connected"
	EventMessageSent         EventType = "message_sent"
	EventMessageEdited       EventType = "message_edited"
	EventMessageDeleted      EventType = "message_deleted"
	EventReactionAdded       EventType = "reaction_added"
	EventReactionRemoved     EventType = "reaction_removed"
	EventConversationRead    EventType = "conversation_read"
	EventConversationCreated EventType = "conversation_created"
	EventConversationDeleted EventType = "conversation_deleted"
	EventNotification        EventType = "notification"
	EventPing                EventType = "ping"
)

// Event is the typed envelope every live-stream frame carries. Data is
// event-specific; ping carries none.
type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(t EventType, data any) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now().UTC()}
}
