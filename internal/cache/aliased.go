package cache

import "sync"

// AliasedStore is a content-addressable, process-lifetime store where several
// keys legitimately denote one entry: a single store of entries plus an
// alias-to-entry-ID index. Lookups through any alias return the same shared
// pointer, so callers must treat entries as immutable.
//
// Video metadata uses this: one fetch is stored once and aliased under the
// BV code, the decimal numeric ID, and the "av"-prefixed form.
//
// It cannot be built on the []byte provider caches because round-tripping
// through serialization would break the shared-entry guarantee.
type AliasedStore[T any] struct {
	mu      sync.RWMutex
	nextID  uint64
	entries map[uint64]*T
	aliases map[string]uint64
	group   string
}

// NewAliasedStore creates an empty store. A non-empty group label enables
// hit/miss accounting under the shared cache metrics and registers an
// entries collector reporting the distinct entry count.
func NewAliasedStore[T any](group string) *AliasedStore[T] {
	s := &AliasedStore[T]{
		entries: make(map[uint64]*T),
		aliases: make(map[string]uint64),
		group:   group,
	}
	if group != "" {
		registerEntriesCollector(group, s.Len)
	}
	return s
}

// Close unregisters the entries collector. The store itself holds no
// external resources.
func (s *AliasedStore[T]) Close() error {
	if s.group != "" {
		unregisterEntriesCollector(s.group)
	}
	return nil
}

// Get returns the entry reachable under alias.
func (s *AliasedStore[T]) Get(alias string) (*T, bool) {
	s.mu.RLock()
	id, ok := s.aliases[alias]
	var entry *T
	if ok {
		entry = s.entries[id]
	}
	s.mu.RUnlock()

	if s.group != "" {
		if ok {
			HitsTotal.WithLabelValues(s.group).Inc()
		} else {
			MissesTotal.WithLabelValues(s.group).Inc()
		}
	}
	return entry, ok
}

// Put stores entry once and indexes it under every given alias. Duplicate
// in-flight fetches of the same content may both call Put; the aliases are
// re-pointed in one critical section, so all of them always resolve to a
// single complete entry.
func (s *AliasedStore[T]) Put(entry *T, aliases ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.entries[id] = entry
	for _, alias := range aliases {
		if old, ok := s.aliases[alias]; ok && old != id {
			// An alias moving between entries can strand the old entry;
			// drop it when nothing else points there.
			s.aliases[alias] = id
			if !s.referenced(old) {
				delete(s.entries, old)
			}
			continue
		}
		s.aliases[alias] = id
	}
}

// referenced reports whether any alias still points at the entry ID.
// Caller must hold mu.
func (s *AliasedStore[T]) referenced(id uint64) bool {
	for _, v := range s.aliases {
		if v == id {
			return true
		}
	}
	return false
}

// Len returns the number of distinct entries (not aliases).
func (s *AliasedStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
