package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New memory cache: %v", err)
	}
	defer c.Close()

	// Miss
	val, ok := c.Get("key1")
	if ok {
		t.Fatal("Expected miss for key1")
	}
	if val != nil {
		t.Fatalf("Expected nil value on miss, got %v", val)
	}

	// Set + hit
	c.Set("key1", []byte("value1"))
	val, ok = c.Get("key1")
	if !ok {
		t.Fatal("Expected hit for key1")
	}
	if string(val) != "value1" {
		t.Fatalf("Expected value1, got %s", string(val))
	}
}

func TestMemoryCache_IdempotentOverwrite(t *testing.T) {
	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	// Duplicate in-flight fetches of one key may both complete and write.
	c.Set("dup", []byte("same"))
	c.Set("dup", []byte("same"))

	val, ok := c.Get("dup")
	if !ok || string(val) != "same" {
		t.Fatalf("Expected same, got %q ok=%v", val, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("Expected Len 1, got %d", c.Len())
	}
}

func TestMemoryCache_Contains(t *testing.T) {
	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if c.Contains("absent") {
		t.Fatal("Expected absent key to not be contained")
	}

	c.Set("present", []byte("data"))
	if !c.Contains("present") {
		t.Fatal("Expected present key to be contained")
	}
}

func TestMemoryCache_Eviction(t *testing.T) {
	evictedKeys := make([]string, 0)
	onEvict := func(key string, _ []byte) {
		evictedKeys = append(evictedKeys, key)
	}

	c, err := New("memory", ProviderConfig{Size: 2, TTL: time.Hour, OnEvict: onEvict})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3"))

	if len(evictedKeys) != 1 || evictedKeys[0] != "a" {
		t.Fatalf("Expected a evicted, got %v", evictedKeys)
	}
}
