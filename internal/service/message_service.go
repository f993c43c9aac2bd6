package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/domain"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/events"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/repository"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/ws"
)

// MessageService orchestrates message writes: send, reaction toggles, edit,
// soft delete, history.
type MessageService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	notifier      *Notifier
	broadcaster   Broadcaster
	publisher     events.Publisher
	log           *zap.SugaredLogger
	tasks         taskRunner
}

func NewMessageService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	notifier *Notifier,
	broadcaster Broadcaster,
	publisher events.Publisher,
	log *zap.SugaredLogger,
) *MessageService {
	return &MessageService{
		conversations: conversations,
		messages:      messages,
		notifier:      notifier,
		broadcaster:   broadcaster,
		publisher:     publisher,
		log:           log,
		tasks:         taskRunner{log: log},
	}
}

// Wait blocks until pending background side effects finish; called on
// shutdown and by tests.
func (s *MessageService) Wait() { s.tasks.Wait() }

// Send validates and persists a new message, updates the conversation
// preview, then fans out: one notification per other participant
// (backgrounded) and a message_sent event to every participant's live
// sessions.
func (s *MessageService) Send(ctx context.Context, conversationID, senderID, content string, attachments []domain.AttachmentInput) (*domain.Message, error) {
	conv, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.IsParticipant(senderID) {
		return nil, domain.ErrNotParticipant
	}

	msg, err := domain.NewMessage(conversationID, senderID, content, attachments)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, err
	}

	// The preview only moves after the message is durable. A preview write
	// failure leaves the primary write intact, so it is logged, not surfaced.
	conv.SetLastMessage(msg.Preview())
	if err := s.conversations.Update(ctx, conv); err != nil {
		s.log.Warnw("last-message preview update failed", "conversation_id", conv.ID, "err", err)
	}

	for _, recipient := range conv.OtherParticipants(senderID) {
		notif := domain.NewMessageNotification(recipient, msg)
		s.tasks.spawn("message-notification", func(ctx context.Context) error {
			return s.notifier.Notify(ctx, notif)
		})
	}

	evt := ws.NewEvent(ws.EventMessageSent, msg)
	s.broadcaster.SendToUsers(conv.Members, evt)
	publish(ctx, s.publisher, s.log, conv.ID, evt)
	return msg, nil
}

// AddReaction inserts (userID, emoji) on the message. The duplicate-pair
// check lives in the aggregate; a second identical tap fails with a conflict
// and triggers no broadcast.
func (s *MessageService) AddReaction(ctx context.Context, messageID, userID, emoji string) (*domain.Message, error) {
	msg, participants, err := s.loadForReaction(ctx, messageID, userID)
	if err != nil {
		return nil, err
	}
	if err := msg.AddReaction(userID, emoji); err != nil {
		return nil, err
	}
	if err := s.messages.Update(ctx, msg); err != nil {
		return nil, err
	}

	if msg.SenderID != userID {
		notif := domain.NewReactionNotification(msg.SenderID, userID, emoji, msg)
		s.tasks.spawn("reaction-notification", func(ctx context.Context) error {
			return s.notifier.Notify(ctx, notif)
		})
	}

	evt := ws.NewEvent(ws.EventReactionAdded, ReactionPayload{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		UserID:         userID,
		Emoji:          emoji,
	})
	s.broadcaster.SendToUsers(participants, evt)
	publish(ctx, s.publisher, s.log, msg.ConversationID, evt)
	return msg, nil
}

// RemoveReaction is the symmetric inverse of AddReaction; removing an absent
// pair fails with a conflict.
func (s *MessageService) RemoveReaction(ctx context.Context, messageID, userID, emoji string) (*domain.Message, error) {
	msg, participants, err := s.loadForReaction(ctx, messageID, userID)
	if err != nil {
		return nil, err
	}
	if err := msg.RemoveReaction(userID, emoji); err != nil {
		return nil, err
	}
	if err := s.messages.Update(ctx, msg); err != nil {
		return nil, err
	}

	evt := ws.NewEvent(ws.EventReactionRemoved, ReactionPayload{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		UserID:         userID,
		Emoji:          emoji,
	})
	s.broadcaster.SendToUsers(participants, evt)
	publish(ctx, s.publisher, s.log, msg.ConversationID, evt)
	return msg, nil
}

// Edit replaces the content of the caller's own message.
func (s *MessageService) Edit(ctx context.Context, messageID, userID, content string) (*domain.Message, error) {
	msg, err := s.visibleMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != userID {
		return nil, domain.ErrNotSender
	}
	if err := msg.UpdateContent(content); err != nil {
		return nil, err
	}
	if err := s.messages.Update(ctx, msg); err != nil {
		return nil, err
	}

	participants, err := s.conversations.Participants(ctx, msg.ConversationID)
	if err != nil {
		s.log.Warnw("participant lookup failed after edit", "message_id", msg.ID, "err", err)
		return msg, nil
	}
	evt := ws.NewEvent(ws.EventMessageEdited, msg)
	s.broadcaster.SendToUsers(participants, evt)
	publish(ctx, s.publisher, s.log, msg.ConversationID, evt)
	return msg, nil
}

// Delete soft-deletes the caller's own message; other participants stop
// seeing it.
func (s *MessageService) Delete(ctx context.Context, messageID, userID string) error {
	msg, err := s.visibleMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID {
		return domain.ErrNotSender
	}
	msg.SoftDelete()
	if err := s.messages.Update(ctx, msg); err != nil {
		return err
	}

	participants, err := s.conversations.Participants(ctx, msg.ConversationID)
	if err != nil {
		s.log.Warnw("participant lookup failed after delete", "message_id", msg.ID, "err", err)
		return nil
	}
	evt := ws.NewEvent(ws.EventMessageDeleted, MessageDeletedPayload{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
	})
	s.broadcaster.SendToUsers(participants, evt)
	publish(ctx, s.publisher, s.log, msg.ConversationID, evt)
	return nil
}

// History returns a chronological page of the conversation's visible
// messages for a participant.
func (s *MessageService) History(ctx context.Context, conversationID, userID string, limit int64, before time.Time) ([]*domain.Message, error) {
	conv, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.IsParticipant(userID) {
		return nil, domain.ErrNotParticipant
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.messages.ListByConversation(ctx, conversationID, limit, before)
}

// visibleMessage hides soft-deleted messages behind not-found.
func (s *MessageService) visibleMessage(ctx context.Context, messageID string) (*domain.Message, error) {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Deleted() {
		return nil, domain.ErrMessageNotFound
	}
	return msg, nil
}

func (s *MessageService) loadForReaction(ctx context.Context, messageID, userID string) (*domain.Message, []string, error) {
	msg, err := s.visibleMessage(ctx, messageID)
	if err != nil {
		return nil, nil, err
	}
	participants, err := s.conversations.Participants(ctx, msg.ConversationID)
	if err != nil {
		return nil, nil, err
	}
	member := false
	for _, p := range participants {
		if p == userID {
			member = true
			break
		}
	}
	if !member {
		return nil, nil, domain.ErrNotParticipant
	}
	return msg, participants, nil
}
