// Package service holds the messaging use cases. Each use case runs the
// write path synchronously (load, validate, mutate, persist) and isolates its
// side effects: notification creation is backgrounded, live broadcast and
// Kafka publication are best-effort, and none of them can fail the primary
// write.
package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/events"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/ws"
)

// Broadcaster is the slice of the ws registry the use cases need. Satisfied
// by *ws.Registry; faked in tests.
type Broadcaster interface {
	SendToUser(userID string, evt ws.Event) int
	SendToUsers(userIDs []string, evt ws.Event)
}

const backgroundTimeout = 10 * time.Second

// taskRunner tracks fire-and-forget work so shutdown (and tests) can wait
// for it instead of losing it. Failures are logged and dropped, never
// surfaced to the caller whose primary write already succeeded.
type taskRunner struct {
	wg  sync.WaitGroup
	log *zap.SugaredLogger
}

func (t *taskRunner) spawn(name string, fn func(ctx context.Context) error) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			t.log.Warnw("background task failed", "task", name, "err", err)
		}
	}()
}

// Wait blocks until every scheduled background task has finished.
func (t *taskRunner) Wait() { t.wg.Wait() }

// publish forwards a broadcast event to the event bus, best-effort.
func publish(ctx context.Context, pub events.Publisher, log *zap.SugaredLogger, key string, evt ws.Event) {
	if err := pub.Publish(ctx, key, evt); err != nil {
		log.Warnw("event publish failed", "event", evt.Type, "key", key, "err", err)
	}
}
