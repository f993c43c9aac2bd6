// Package repository defines the persistence ports the messaging core
// depends on, plus their MongoDB implementations. The store is the system of
// record; conflicting writes are serialized at the storage layer.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/domain"
)

// ErrDuplicateKey reports a unique-index violation, e.g. two racing inserts
// of the same conversation pair.
var ErrDuplicateKey = errors.New("repository: duplicate key")

type ConversationRepository interface {
	// Insert returns ErrDuplicateKey when a conversation with the same
	// member pair already exists.
	Insert(ctx context.Context, c *domain.Conversation) error
	// FindByID returns domain.ErrConversationNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)
	// FindByMemberKey resolves the deduplicated conversation for a user pair.
	FindByMemberKey(ctx context.Context, key string) (*domain.Conversation, error)
	Update(ctx context.Context, c *domain.Conversation) error
	Delete(ctx context.Context, id string) error
	// ListByUser returns conversations the user participates in, most
	// recently updated first. A zero before means "from the top".
	ListByUser(ctx context.Context, userID string, limit int64, before time.Time) ([]*domain.Conversation, error)
	// Participants resolves member ids without loading the full aggregate;
	// used to target broadcasts.
	Participants(ctx context.Context, id string) ([]string, error)
}

type MessageRepository interface {
	Insert(ctx context.Context, m *domain.Message) error
	// FindByID returns domain.ErrMessageNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	Update(ctx context.Context, m *domain.Message) error
	// ListByConversation returns non-deleted messages in chronological
	// order, newest page first when before is set.
	ListByConversation(ctx context.Context, conversationID string, limit int64, before time.Time) ([]*domain.Message, error)
	// DeleteByConversation hard-deletes every message of a conversation.
	DeleteByConversation(ctx context.Context, conversationID string) error
}

type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]*domain.Notification, error)
	// MarkReadByConversation flags every unread notification that points at
	// the conversation as read.
	MarkReadByConversation(ctx context.Context, userID, conversationID string, at time.Time) error
}
