package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/domain"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/events"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/repository"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/ws"
)

type fakeConversationRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Conversation
	// missNextFind makes the next FindByMemberKey miss, simulating the
	// find-then-insert race a concurrent creator wins.
	missNextFind bool
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{byID: map[string]*domain.Conversation{}}
}

func (f *fakeConversationRepo) Insert(_ context.Context, c *domain.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.MemberKey == c.MemberKey {
			return repository.ErrDuplicateKey
		}
	}
	f.byID[c.ID] = c
	return nil
}

func (f *fakeConversationRepo) FindByID(_ context.Context, id string) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return c, nil
}

func (f *fakeConversationRepo) FindByMemberKey(_ context.Context, key string) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missNextFind {
		f.missNextFind = false
		return nil, domain.ErrConversationNotFound
	}
	for _, c := range f.byID {
		if c.MemberKey == key {
			return c, nil
		}
	}
	return nil, domain.ErrConversationNotFound
}

func (f *fakeConversationRepo) Update(_ context.Context, c *domain.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[c.ID]; !ok {
		return domain.ErrConversationNotFound
	}
	f.byID[c.ID] = c
	return nil
}

func (f *fakeConversationRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrConversationNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeConversationRepo) ListByUser(_ context.Context, userID string, limit int64, _ time.Time) ([]*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Conversation
	for _, c := range f.byID {
		if c.IsParticipant(userID) && int64(len(out)) < limit {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) Participants(_ context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return append([]string(nil), c.Members...), nil
}

type fakeMessageRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{byID: map[string]*domain.Message{}}
}

func (f *fakeMessageRepo) Insert(_ context.Context, m *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[m.ID] = m
	return nil
}

func (f *fakeMessageRepo) FindByID(_ context.Context, id string) (*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	return m, nil
}

func (f *fakeMessageRepo) Update(_ context.Context, m *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[m.ID]; !ok {
		return domain.ErrMessageNotFound
	}
	f.byID[m.ID] = m
	return nil
}

func (f *fakeMessageRepo) ListByConversation(_ context.Context, conversationID string, limit int64, _ time.Time) ([]*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Message
	for _, m := range f.byID {
		if m.ConversationID == conversationID && !m.Deleted() && int64(len(out)) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) DeleteByConversation(_ context.Context, conversationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, m := range f.byID {
		if m.ConversationID == conversationID {
			delete(f.byID, id)
		}
	}
	return nil
}

func (f *fakeMessageRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type fakeNotificationRepo struct {
	mu         sync.Mutex
	items      []*domain.Notification
	failInsert bool
	readCalls  []string // "userID/conversationID"
}

func newFakeNotificationRepo() *fakeNotificationRepo { return &fakeNotificationRepo{} }

func (f *fakeNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert {
		return errors.New("notification store down")
	}
	f.items = append(f.items, n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string, limit int64) ([]*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Notification
	for _, n := range f.items {
		if n.UserID == userID && int64(len(out)) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkReadByConversation(_ context.Context, userID, conversationID string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls = append(f.readCalls, userID+"/"+conversationID)
	return nil
}

func (f *fakeNotificationRepo) forUser(userID string) []*domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Notification
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// fakeBroadcaster records every event per user; safe for the background
// notifier goroutines.
type fakeBroadcaster struct {
	mu     sync.Mutex
	events map[string][]ws.Event
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{events: map[string][]ws.Event{}}
}

func (f *fakeBroadcaster) SendToUser(userID string, evt ws.Event) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[userID] = append(f.events[userID], evt)
	return 1
}

func (f *fakeBroadcaster) SendToUsers(userIDs []string, evt ws.Event) {
	for _, id := range userIDs {
		f.SendToUser(id, evt)
	}
}

func (f *fakeBroadcaster) received(userID string, typ ws.EventType) []ws.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ws.Event
	for _, e := range f.events[userID] {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type env struct {
	conversations *fakeConversationRepo
	messages      *fakeMessageRepo
	notifications *fakeNotificationRepo
	broadcaster   *fakeBroadcaster
	messageSvc    *MessageService
	convSvc       *ConversationService
}

func newEnv() *env {
	log := zap.NewNop().Sugar()
	conversations := newFakeConversationRepo()
	messages := newFakeMessageRepo()
	notifications := newFakeNotificationRepo()
	broadcaster := newFakeBroadcaster()
	notifier := NewNotifier(notifications, broadcaster, log)
	pub := events.NopPublisher{}
	return &env{
		conversations: conversations,
		messages:      messages,
		notifications: notifications,
		broadcaster:   broadcaster,
		messageSvc:    NewMessageService(conversations, messages, notifier, broadcaster, pub, log),
		convSvc:       NewConversationService(conversations, messages, notifier, broadcaster, pub, log),
	}
}

func timeZero() time.Time { return time.Time{} }

// seedConversation creates and stores a conversation between a and b.
func (e *env) seedConversation(a, b string) *domain.Conversation {
	conv, err := domain.NewConversation(a, b)
	if err != nil {
		panic(err)
	}
	if err := e.conversations.Insert(context.Background(), conv); err != nil {
		panic(err)
	}
	return conv
}
