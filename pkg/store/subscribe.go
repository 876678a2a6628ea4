package store

import (
	"github.com/aretw0/recipe-decider/pkg/domain"
)

// OnChange registers a callback invoked synchronously after every commit, on the
// goroutine that performed the mutation. Callbacks may read the store but must
// not block for long. The returned function unregisters the callback.
func (s *Store) OnChange(fn func(domain.Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.callbacks[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.callbacks, id)
	}
}

// Subscribe returns a channel receiving a snapshot after every commit.
// Notifications are dropped for a subscriber whose buffer is full; snapshots carry
// their Version so a consumer can always re-read the store to catch up.
func (s *Store) Subscribe() (<-chan domain.Snapshot, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan domain.Snapshot, DefaultSubscriberBuffer)
	s.channels[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.channels[id]; ok {
			delete(s.channels, id)
			close(c)
		}
	}
}

func (s *Store) notify(snap domain.Snapshot) {
	s.subMu.RLock()
	callbacks := make([]func(domain.Snapshot), 0, len(s.callbacks))
	for _, fn := range s.callbacks {
		callbacks = append(callbacks, fn)
	}
	for _, ch := range s.channels {
		select {
		case ch <- snap:
		default:
			// Drop notification if channel is full (slow consumer)
			s.logger.Warn("store: subscriber buffer full, dropping snapshot", "version", snap.Version)
		}
	}
	s.subMu.RUnlock()

	for _, fn := range callbacks {
		fn(snap)
	}
}
