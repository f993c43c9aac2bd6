package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/domain"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/repository"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/ws"
)

// Notifier persists notification records and pushes them to the recipient's
// live sessions. Callers treat every method as best-effort: a failure here
// must never roll back or fail the write that triggered it.
type Notifier struct {
	repo        repository.NotificationRepository
	broadcaster Broadcaster
	log         *zap.SugaredLogger
}

func NewNotifier(repo repository.NotificationRepository, broadcaster Broadcaster, log *zap.SugaredLogger) *Notifier {
	return &Notifier{repo: repo, broadcaster: broadcaster, log: log}
}

// Notify persists the record, then pushes a notification event to the
// recipient. The push only happens once the record is durable.
func (n *Notifier) Notify(ctx context.Context, notif *domain.Notification) error {
	if err := n.repo.Insert(ctx, notif); err != nil {
		return err
	}
	n.broadcaster.SendToUser(notif.UserID, ws.NewEvent(ws.EventNotification, notif))
	return nil
}

func (n *Notifier) List(ctx context.Context, userID string, limit int64) ([]*domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return n.repo.ListByUser(ctx, userID, limit)
}

// MarkReadForConversation flags the user's notifications for a conversation
// as read, typically when the conversation itself is marked read.
func (n *Notifier) MarkReadForConversation(ctx context.Context, userID, conversationID string) error {
	return n.repo.MarkReadByConversation(ctx, userID, conversationID, time.Now().UTC())
}
