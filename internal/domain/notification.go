package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeMessage             = "message_received"
	NotificationTypeReaction            = "reaction_received"
	NotificationTypeConversationDeleted = "conversation_deleted"
)

// Notification is one per-recipient record of a messaging event. It has its
// own lifecycle: created, optionally marked read, never otherwise mutated.
type Notification struct {
	ID        string            `bson:"_id" json:"id"`
	UserID    string            `bson:"user_id" json:"user_id"`
	Type      string            `bson:"type" json:"type"`
	Title     string            `bson:"title" json:"title"`
	Body      string            `bson:"body" json:"body"`
	Data      map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool              `bson:"read" json:"read"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
	ReadAt    *time.Time        `bson:"read_at,omitempty" json:"read_at,omitempty"`
}

func newNotification(userID, typ, title, body string, data map[string]string) *Notification {
	return &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
}

// NewMessageNotification builds the record a participant receives when a
// message lands in one of their conversations. Data carries the ids needed to
// navigate back to the source.
func NewMessageNotification(recipientID string, msg *Message) *Notification {
	return newNotification(recipientID, NotificationTypeMessage, "New message", msg.Preview().Snippet, map[string]string{
		"conversation_id": msg.ConversationID,
		"message_id":      msg.ID,
		"sender_id":       msg.SenderID,
	})
}

func NewReactionNotification(recipientID, reactorID, emoji string, msg *Message) *Notification {
	return newNotification(recipientID, NotificationTypeReaction, "New reaction", "Someone reacted "+emoji+" to your message", map[string]string{
		"conversation_id": msg.ConversationID,
		"message_id":      msg.ID,
		"reactor_id":      reactorID,
		"emoji":           emoji,
	})
}

func NewConversationDeletedNotification(recipientID, deletedBy, conversationID string) *Notification {
	return newNotification(recipientID, NotificationTypeConversationDeleted, "Conversation deleted", "A conversation you were part of was deleted", map[string]string{
		"conversation_id": conversationID,
		"deleted_by":      deletedBy,
	})
}

// MarkRead is idempotent; the first call wins the timestamp.
func (n *Notification) MarkRead(at time.Time) {
	if n.Read {
		return
	}
	n.Read = true
	n.ReadAt = &at
}
