package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessagePreview is the denormalized last-message summary shown in
// conversation lists without loading the message collection.
type MessagePreview struct {
	MessageID      string    `bson:"message_id" json:"message_id"`
	Snippet        string    `bson:"snippet" json:"snippet"`
	SenderID       string    `bson:"sender_id" json:"sender_id"`
	SentAt         time.Time `bson:"sent_at" json:"sent_at"`
	HasAttachments bool      `bson:"has_attachments" json:"has_attachments"`
}

// Conversation holds exactly two participants, fixed at creation. MemberKey
// is the sorted "a|b" pair backing the unique index that deduplicates
// conversations between the same two users.
type Conversation struct {
	ID          string               `bson:"_id" json:"id"`
	Members     []string             `bson:"members" json:"members"`
	MemberKey   string               `bson:"member_key" json:"-"`
	CreatedBy   string               `bson:"created_by" json:"created_by"`
	LastMessage *MessagePreview      `bson:"last_message,omitempty" json:"last_message,omitempty"`
	ReadAt      map[string]time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

// MemberKey builds the canonical identity of a two-user pair.
func MemberKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// NewConversation creates a conversation between the creator and exactly one
// other distinct user.
func NewConversation(createdBy, recipientID string) (*Conversation, error) {
	createdBy = strings.TrimSpace(createdBy)
	recipientID = strings.TrimSpace(recipientID)
	if createdBy == "" || recipientID == "" || createdBy == recipientID {
		return nil, ErrInvalidRecipient
	}
	now := time.Now().UTC()
	members := []string{createdBy, recipientID}
	if members[0] > members[1] {
		members[0], members[1] = members[1], members[0]
	}
	return &Conversation{
		ID:        uuid.New().String(),
		Members:   members,
		MemberKey: MemberKey(createdBy, recipientID),
		CreatedBy: createdBy,
		ReadAt:    map[string]time.Time{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Conversation) IsParticipant(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// OtherParticipants returns every member except userID; used to target
// notifications and broadcasts.
func (c *Conversation) OtherParticipants(userID string) []string {
	others := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		if m != userID {
			others = append(others, m)
		}
	}
	return others
}

// SetLastMessage overwrites the preview. Callers invoke this only after the
// message has persisted, so the list view never shows a message that failed
// to save.
func (c *Conversation) SetLastMessage(p MessagePreview) {
	c.LastMessage = &p
	c.UpdatedAt = p.SentAt
}

// MarkRead records when userID last read the conversation.
func (c *Conversation) MarkRead(userID string, at time.Time) {
	if c.ReadAt == nil {
		c.ReadAt = map[string]time.Time{}
	}
	c.ReadAt[userID] = at
	c.UpdatedAt = at
}
