package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/domain"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/events"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/repository"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/ws"
)

// ConversationService orchestrates conversation lifecycle: deduplicated
// creation, listing, read markers and deletion.
type ConversationService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	notifier      *Notifier
	broadcaster   Broadcaster
	publisher     events.Publisher
	log           *zap.SugaredLogger
	tasks         taskRunner
}

func NewConversationService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	notifier *Notifier,
	broadcaster Broadcaster,
	publisher events.Publisher,
	log *zap.SugaredLogger,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		messages:      messages,
		notifier:      notifier,
		broadcaster:   broadcaster,
		publisher:     publisher,
		log:           log,
		tasks:         taskRunner{log: log},
	}
}

// Wait blocks until pending background side effects finish.
func (s *ConversationService) Wait() { s.tasks.Wait() }

// Create returns the conversation between userID and recipientID, creating
// it if needed. isNew is true only when this call created it; only then is
// conversation_created broadcast.
func (s *ConversationService) Create(ctx context.Context, userID, recipientID string) (*domain.Conversation, bool, error) {
	conv, err := domain.NewConversation(userID, recipientID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.conversations.FindByMemberKey(ctx, conv.MemberKey)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrConversationNotFound) {
		return nil, false, err
	}

	if err := s.conversations.Insert(ctx, conv); err != nil {
		// Two creations racing: the unique member_key index arbitrates,
		// the loser adopts the winner's conversation.
		if errors.Is(err, repository.ErrDuplicateKey) {
			existing, ferr := s.conversations.FindByMemberKey(ctx, conv.MemberKey)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	evt := ws.NewEvent(ws.EventConversationCreated, conv)
	s.broadcaster.SendToUsers(conv.Members, evt)
	publish(ctx, s.publisher, s.log, conv.ID, evt)
	return conv, true, nil
}

// List pages the user's conversations, most recently active first.
func (s *ConversationService) List(ctx context.Context, userID string, limit int64, before time.Time) ([]*domain.Conversation, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.conversations.ListByUser(ctx, userID, limit, before)
}

func (s *ConversationService) Get(ctx context.Context, conversationID, userID string) (*domain.Conversation, error) {
	conv, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.IsParticipant(userID) {
		return nil, domain.ErrNotParticipant
	}
	return conv, nil
}

// MarkRead records the user's read timestamp, tells the other participants,
// and best-effort clears the user's related notifications.
func (s *ConversationService) MarkRead(ctx context.Context, conversationID, userID string) (time.Time, error) {
	conv, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return time.Time{}, err
	}
	if !conv.IsParticipant(userID) {
		return time.Time{}, domain.ErrNotParticipant
	}

	readAt := time.Now().UTC()
	conv.MarkRead(userID, readAt)
	if err := s.conversations.Update(ctx, conv); err != nil {
		return time.Time{}, err
	}

	s.tasks.spawn("notifications-read", func(ctx context.Context) error {
		return s.notifier.MarkReadForConversation(ctx, userID, conversationID)
	})

	evt := ws.NewEvent(ws.EventConversationRead, ReadPayload{
		ConversationID: conversationID,
		UserID:         userID,
		ReadAt:         readAt,
	})
	s.broadcaster.SendToUsers(conv.OtherParticipants(userID), evt)
	publish(ctx, s.publisher, s.log, conversationID, evt)
	return readAt, nil
}

// Delete hard-deletes a conversation and its messages. The participant list
// is captured before deletion: afterwards nothing remains to resolve it, and
// the departing participants still need the broadcast. The other participant
// is notified before the rows go away.
func (s *ConversationService) Delete(ctx context.Context, conversationID, userID string) error {
	conv, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.IsParticipant(userID) {
		return domain.ErrNotParticipant
	}

	members := make([]string, len(conv.Members))
	copy(members, conv.Members)

	for _, other := range conv.OtherParticipants(userID) {
		notif := domain.NewConversationDeletedNotification(other, userID, conversationID)
		if err := s.notifier.Notify(ctx, notif); err != nil {
			s.log.Warnw("conversation-deleted notification failed", "conversation_id", conversationID, "recipient", other, "err", err)
		}
	}

	if err := s.messages.DeleteByConversation(ctx, conversationID); err != nil {
		return err
	}
	if err := s.conversations.Delete(ctx, conversationID); err != nil {
		return err
	}

	evt := ws.NewEvent(ws.EventConversationDeleted, ConversationDeletedPayload{
		ConversationID: conversationID,
		DeletedBy:      userID,
	})
	s.broadcaster.SendToUsers(members, evt)
	publish(ctx, s.publisher, s.log, conversationID, evt)
	return nil
}
