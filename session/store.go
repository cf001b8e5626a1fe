package session

import (
	"sort"
	"sync"
)

// Handler receives session transitions. The second argument is false when the
// process is unauthenticated (no current session).
type Handler func(Session, bool)

// Store defines a public type used by authgate APIs.
//
// A Store is process-wide shared state with a single writer path (identity
// notifications plus explicit session installation) and any number of
// readers and subscribers. The zero value is not usable; construct with
// [NewStore].
type Store struct {
	// order serializes state changes and subscriber delivery so that every
	// subscriber observes transitions in notification order (FIFO).
	order sync.Mutex

	mu       sync.RWMutex
	current  Session
	present  bool
	hydrated bool
	closed   bool
	nextID   uint64
	subs     map[uint64]Handler
}

// Subscription represents one active registration created by
// [Store.Subscribe]. Unsubscribe is idempotent.
type Subscription struct {
	store *Store
	id    uint64
	once  sync.Once
}

// NewStore describes the newstore operation and its observable behavior.
//
// NewStore does not mutate shared global state and the returned Store is safe
// for concurrent use by multiple goroutines.
func NewStore() *Store {
	return &Store{
		subs: make(map[uint64]Handler),
	}
}

// Current returns the latest known session. The second return is false while
// the store has no session, including during initial load before the first
// identity notification arrives.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.present
}

// Hydrated reports whether at least one identity-service notification has
// been applied. Consumers use it to distinguish "signed out" from "still
// loading".
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Replace installs sess as the current session and delivers it to every
// subscriber. Replace returns after all subscribers have observed the
// transition.
func (s *Store) Replace(sess Session) {
	s.apply(sess, true)
}

// Clear removes the current session (sign-out or session expiry) and
// notifies subscribers with an absent session.
func (s *Store) Clear() {
	s.apply(Session{}, false)
}

func (s *Store) apply(sess Session, present bool) {
	s.order.Lock()
	defer s.order.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.current = sess
	s.present = present
	s.hydrated = true

	handlers := make([]Handler, 0, len(s.subs))
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	// Map iteration order is random; deliver in registration order so a
	// subscriber pair always observes the same relative sequence.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		handlers = append(handlers, s.subs[id])
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(sess, present)
	}
}

// Subscribe registers handler and immediately replays the current state to
// it before any future transition is delivered. The returned Subscription
// must be released with Unsubscribe when the consumer is torn down,
// otherwise stale-session updates keep flowing to it.
func (s *Store) Subscribe(handler Handler) *Subscription {
	if handler == nil {
		return &Subscription{}
	}

	s.order.Lock()
	defer s.order.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return &Subscription{}
	}
	s.nextID++
	id := s.nextID
	s.subs[id] = handler
	current, present := s.current, s.present
	s.mu.Unlock()

	handler(current, present)

	return &Subscription{store: s, id: id}
}

// Unsubscribe stops delivery to the handler registered with this
// subscription. Safe to call more than once and on the zero value.
func (sub *Subscription) Unsubscribe() {
	if sub == nil || sub.store == nil {
		return
	}
	sub.once.Do(func() {
		sub.store.mu.Lock()
		delete(sub.store.subs, sub.id)
		sub.store.mu.Unlock()
	})
}

// Close tears down the store: all subscriptions are dropped and further
// Replace/Clear calls become no-ops. Close is idempotent.
func (s *Store) Close() {
	s.order.Lock()
	defer s.order.Unlock()

	s.mu.Lock()
	s.closed = true
	s.subs = make(map[uint64]Handler)
	s.mu.Unlock()
}
