package ws

import "sync"

// Registry maps user id -> the set of live channels currently open for that
// user (a user may hold several sessions at once). It is purely in-process
// state, never a source of truth: a user with no channels simply receives
// nothing live. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]map[Channel]struct{}
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]map[Channel]struct{})}
}

func (r *Registry) Register(userID string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.clients[userID]
	if !ok {
		set = make(map[Channel]struct{})
		r.clients[userID] = set
	}
	set[ch] = struct{}{}
}

// Unregister is idempotent: removing an absent channel is a no-op.
func (r *Registry) Unregister(userID string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.clients[userID]
	if !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(r.clients, userID)
	}
}

// SendToUser delivers evt to every channel registered for userID, best-effort
// at-most-once. A channel whose delivery fails is unregistered as a side
// effect instead of propagating the error. Returns the number of successful
// deliveries.
func (r *Registry) SendToUser(userID string, evt Event) int {
	r.mu.RLock()
	set := r.clients[userID]
	channels := make([]Channel, 0, len(set))
	for ch := range set {
		channels = append(channels, ch)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, ch := range channels {
		if err := ch.Deliver(evt); err != nil {
			r.Unregister(userID, ch)
			continue
		}
		delivered++
	}
	return delivered
}

// SendToUsers fans evt out to each user independently: one user's dead
// channel never blocks or fails delivery to another. Cross-user delivery
// order is unspecified.
func (r *Registry) SendToUsers(userIDs []string, evt Event) {
	for _, id := range userIDs {
		r.SendToUser(id, evt)
	}
}

func (r *Registry) ConnectionCount(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients[userID])
}
