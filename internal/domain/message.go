package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxContentLength = 4000
	snippetLength    = 100
)

// Message is one conversation message. Reactions are stored as
// emoji -> reacting user ids, which keeps the (user, emoji) uniqueness check a
// single slice scan and serializes naturally to bson/json.
type Message struct {
	ID             string              `bson:"_id" json:"id"`
	ConversationID string              `bson:"conversation_id" json:"conversation_id"`
	SenderID       string              `bson:"sender_id" json:"sender_id"`
	Content        string              `bson:"content,omitempty" json:"content,omitempty"`
	Attachments    []Attachment        `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Reactions      map[string][]string `bson:"reactions,omitempty" json:"reactions,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
	EditedAt       *time.Time          `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	DeletedAt      *time.Time          `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// NewMessage validates content and every attachment atomically: a single
// invalid attachment rejects the whole message and nothing is allocated an id
// that escapes this function.
func NewMessage(conversationID, senderID, content string, attachments []AttachmentInput) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(attachments) == 0 {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return nil, ErrContentTooLong
	}
	validated := make([]Attachment, 0, len(attachments))
	for _, in := range attachments {
		att, err := NewAttachment(in)
		if err != nil {
			return nil, err
		}
		validated = append(validated, att)
	}
	now := time.Now().UTC()
	return &Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Attachments:    validated,
		Reactions:      map[string][]string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (m *Message) HasReaction(userID, emoji string) bool {
	for _, id := range m.Reactions[emoji] {
		if id == userID {
			return true
		}
	}
	return false
}

// AddReaction inserts the (userID, emoji) pair. Adding a pair that already
// exists fails with ErrDuplicateReaction so a double tap surfaces as a
// recoverable conflict instead of silently re-applying.
func (m *Message) AddReaction(userID, emoji string) error {
	if !ValidEmoji(emoji) {
		return ErrInvalidEmoji
	}
	if m.HasReaction(userID, emoji) {
		return ErrDuplicateReaction
	}
	if m.Reactions == nil {
		m.Reactions = map[string][]string{}
	}
	m.Reactions[emoji] = append(m.Reactions[emoji], userID)
	m.touch()
	return nil
}

// RemoveReaction deletes the (userID, emoji) pair, failing with
// ErrReactionNotFound when it is absent.
func (m *Message) RemoveReaction(userID, emoji string) error {
	users := m.Reactions[emoji]
	for i, id := range users {
		if id == userID {
			users = append(users[:i], users[i+1:]...)
			if len(users) == 0 {
				delete(m.Reactions, emoji)
			} else {
				m.Reactions[emoji] = users
			}
			m.touch()
			return nil
		}
	}
	return ErrReactionNotFound
}

// UpdateContent replaces the text and marks the message edited. A message
// cannot be edited into emptiness unless it still carries attachments.
func (m *Message) UpdateContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" && len(m.Attachments) == 0 {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return ErrContentTooLong
	}
	now := time.Now().UTC()
	m.Content = content
	m.EditedAt = &now
	m.UpdatedAt = now
	return nil
}

// SoftDelete marks the message deleted. Content and attachments stay in
// storage; reads filter on DeletedAt.
func (m *Message) SoftDelete() {
	now := time.Now().UTC()
	m.DeletedAt = &now
	m.UpdatedAt = now
}

func (m *Message) Deleted() bool { return m.DeletedAt != nil }

// Preview builds the denormalized summary stored on the conversation.
func (m *Message) Preview() MessagePreview {
	return MessagePreview{
		MessageID:      m.ID,
		Snippet:        m.snippet(),
		SenderID:       m.SenderID,
		SentAt:         m.CreatedAt,
		HasAttachments: len(m.Attachments) > 0,
	}
}

func (m *Message) snippet() string {
	if m.Content == "" {
		return "Sent an attachment"
	}
	runes := []rune(m.Content)
	if len(runes) <= snippetLength {
		return m.Content
	}
	return string(runes[:snippetLength]) + "…"
}

func (m *Message) touch() { m.UpdatedAt = time.Now().UTC() }
