package cache

import "testing"

type record struct {
	Title string
}

func TestAliasedStore_SharedEntry(t *testing.T) {
	s := NewAliasedStore[record]("")

	entry := &record{Title: "first"}
	s.Put(entry, "BV1xx411c7mD", "170001", "av170001")

	for _, alias := range []string{"BV1xx411c7mD", "170001", "av170001"} {
		got, ok := s.Get(alias)
		if !ok {
			t.Fatalf("Expected hit for alias %s", alias)
		}
		if got != entry {
			t.Fatalf("Expected alias %s to return the shared entry pointer", alias)
		}
	}

	if s.Len() != 1 {
		t.Fatalf("Expected 1 distinct entry, got %d", s.Len())
	}
}

func TestAliasedStore_Miss(t *testing.T) {
	s := NewAliasedStore[record]("")

	if got, ok := s.Get("absent"); ok || got != nil {
		t.Fatalf("Expected miss, got %v ok=%v", got, ok)
	}
}

func TestAliasedStore_RepointDropsStranded(t *testing.T) {
	s := NewAliasedStore[record]("")

	old := &record{Title: "old"}
	s.Put(old, "a", "b")

	// A later fetch of the same content re-points every alias; the stranded
	// entry must be dropped.
	fresh := &record{Title: "fresh"}
	s.Put(fresh, "a", "b")

	for _, alias := range []string{"a", "b"} {
		got, ok := s.Get(alias)
		if !ok || got != fresh {
			t.Fatalf("Expected alias %s to point at the fresh entry", alias)
		}
	}
	if s.Len() != 1 {
		t.Fatalf("Expected stranded entry to be dropped, Len = %d", s.Len())
	}
}

func TestAliasedStore_PartialRepointKeepsReferenced(t *testing.T) {
	s := NewAliasedStore[record]("")

	old := &record{Title: "old"}
	s.Put(old, "a", "b")

	fresh := &record{Title: "fresh"}
	s.Put(fresh, "a")

	if got, _ := s.Get("a"); got != fresh {
		t.Fatal("Expected alias a to point at the fresh entry")
	}
	if got, _ := s.Get("b"); got != old {
		t.Fatal("Expected alias b to still point at the old entry")
	}
	if s.Len() != 2 {
		t.Fatalf("Expected both entries to remain, Len = %d", s.Len())
	}
}

func TestAliasedStore_EntriesCollector(t *testing.T) {
	reg := newTestRegistry(t)

	s := NewAliasedStore[record]("aliased_entries")
	s.Put(&record{Title: "x"}, "BV1", "170001", "av170001")
	s.Put(&record{Title: "y"}, "BV2")

	// The gauge reports distinct entries, not aliases.
	entries, ok := gaugeValue(t, reg, "cache_entries", "aliased_entries")
	if !ok {
		t.Fatal("Expected cache_entries metric for group aliased_entries")
	}
	if entries != 2 {
		t.Fatalf("Expected 2 entries, got %v", entries)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := gaugeValue(t, reg, "cache_entries", "aliased_entries"); ok {
		t.Fatal("Expected collector to be unregistered after Close")
	}
}

func TestAliasedStore_Metrics(t *testing.T) {
	newTestRegistry(t)
	s := NewAliasedStore[record]("aliased_test")
	defer s.Close()

	s.Get("absent")
	s.Put(&record{Title: "x"}, "k")
	s.Get("k")

	if got := counterValue(t, HitsTotal, "aliased_test"); got != 1 {
		t.Fatalf("Expected 1 hit, got %v", got)
	}
	if got := counterValue(t, MissesTotal, "aliased_test"); got != 1 {
		t.Fatalf("Expected 1 miss, got %v", got)
	}
}
