package peoplecache

import (
	"sync"

	"github.com/quipper/poc/housejobs/pkg/repositories/people"
)

// Cache mirrors the people store in memory so renders skip a store round-trip.
// It is never authoritative: Replace rebuilds it wholesale, Patch applies a
// write that already succeeded against the store.
type Cache interface {
	Replace(records []*people.Person)
	Get(personID string) (*people.Person, bool)
	All() []*people.Person
	Patch(personID string, u people.JobUpdate) bool
	Put(p *people.Person)
	Len() int
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]*people.Person
}

// New creates an empty in-memory cache.
func New() Cache {
	return &memoryCache{entries: make(map[string]*people.Person)}
}

func (c *memoryCache) Replace(records []*people.Person) {
	next := make(map[string]*people.Person, len(records))
	for _, r := range records {
		if r == nil || r.PersonID == "" {
			continue
		}
		next[r.PersonID] = r.Clone()
	}
	c.mu.Lock()
	c.entries = next
	c.mu.Unlock()
}

// Get returns a copy; callers may mutate it freely.
func (c *memoryCache) Get(personID string) (*people.Person, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[personID]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

func (c *memoryCache) All() []*people.Person {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*people.Person, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Clone())
	}
	return out
}

// Patch reports false when the person is not cached.
func (c *memoryCache) Patch(personID string, u people.JobUpdate) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[personID]
	if !ok {
		return false
	}
	e.Enabled = u.Enabled
	e.JobName = u.JobName
	e.JobDays = people.CanonicalizeDays(u.JobDays)
	e.JobTasks = append([]string{}, u.JobTasks...)
	return true
}

// Put inserts or replaces a single record.
func (c *memoryCache) Put(p *people.Person) {
	if p == nil || p.PersonID == "" {
		return
	}
	c.mu.Lock()
	c.entries[p.PersonID] = p.Clone()
	c.mu.Unlock()
}

func (c *memoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
