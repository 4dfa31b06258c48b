package core

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	store *Store
	id    uint64
}

// ID identifies the subscription within its store.
func (s Subscription) ID() uint64 {
	return s.id
}

// Unsubscribe removes the observer. Idempotent.
func (s Subscription) Unsubscribe() bool {
	if s.store == nil {
		return false
	}
	return s.store.Unsubscribe(s)
}

// Subscribe registers an observer. Observers run in registration order once
// per accepted dispatch; one registered during a notification round is first
// called on the next accepted dispatch.
func (s *Store) Subscribe(fn Observer) Subscription {
	if fn == nil {
		return Subscription{}
	}

	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	s.nextSub++
	sub := &subscription{id: s.nextSub, fn: fn}
	sub.active.Store(true)
	s.observers = append(s.observers, sub)
	return Subscription{store: s, id: sub.id}
}

// Unsubscribe removes an observer. It reports whether the observer was
// registered; removing an already removed observer is a no-op. Observers
// removed during a notification round are skipped if not yet called.
func (s *Store) Unsubscribe(handle Subscription) bool {
	if handle.store != s {
		return false
	}

	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	for i, sub := range s.observers {
		if sub.id == handle.id {
			sub.active.Store(false)
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return true
		}
	}
	return false
}

// Observers returns the number of registered observers.
func (s *Store) Observers() int {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	return len(s.observers)
}
