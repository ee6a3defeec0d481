package cache

import "sync"

// Partitioned is a two-level cache: an opaque partition key selects an inner
// key-value cache created on demand from a registered provider. Partitions
// never share entries. The empty partition key is valid and denotes the
// anonymous partition — "no credentials" is a real cache partition, not a
// reason to skip caching.
//
// The play-source cache uses this with the session key as partition and the
// content ID as inner key, because stream entitlement depends on login state.
type Partitioned struct {
	mu       sync.Mutex
	provider string
	cfg      ProviderConfig
	parts    map[string]Cache
	group    string
}

// NewPartitioned creates an empty partitioned cache. Inner partitions are
// built lazily via the named provider with cfg; cfg.Group is ignored for the
// inner caches — the Partitioned wrapper does its own metric accounting under
// group so all partitions share one label value.
func NewPartitioned(provider string, cfg ProviderConfig, group string) *Partitioned {
	cfg.Group = ""
	p := &Partitioned{
		provider: provider,
		cfg:      cfg,
		parts:    make(map[string]Cache),
		group:    group,
	}
	if group != "" {
		registerEntriesCollector(group, p.Len)
	}
	return p
}

func (p *Partitioned) partition(key string) Cache {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.parts[key]; ok {
		return c
	}
	c, err := New(p.provider, p.cfg)
	if err != nil {
		if p.cfg.Logger != nil {
			p.cfg.Logger.Error("partitioned cache: building partition failed", err)
		}
		return nil
	}
	p.parts[key] = c
	return c
}

// Get retrieves the value stored under key within the given partition.
func (p *Partitioned) Get(partition, key string) ([]byte, bool) {
	c := p.partition(partition)
	if c == nil {
		return nil, false
	}
	val, ok := c.Get(key)
	if p.group != "" {
		if ok {
			HitsTotal.WithLabelValues(p.group).Inc()
		} else {
			MissesTotal.WithLabelValues(p.group).Inc()
		}
	}
	return val, ok
}

// Set stores value under key within the given partition.
func (p *Partitioned) Set(partition, key string, value []byte) {
	if c := p.partition(partition); c != nil {
		c.Set(key, value)
	}
}

// Len returns the total entry count across all partitions.
func (p *Partitioned) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := 0
	for _, c := range p.parts {
		total += c.Len()
	}
	return total
}

// Partitions returns the number of partitions created so far.
func (p *Partitioned) Partitions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.parts)
}

// Close closes every partition and unregisters the entries collector.
func (p *Partitioned) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.group != "" {
		unregisterEntriesCollector(p.group)
	}
	var firstErr error
	for key, c := range p.parts {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.parts, key)
	}
	return firstErr
}
