// Package roster keeps the people store and its in-memory mirror consistent.
package roster

import (
	"context"
	"fmt"
	"sync"

	"github.com/quipper/poc/housejobs/pkg/common/logger"
	"github.com/quipper/poc/housejobs/pkg/common/peoplecache"
	"github.com/quipper/poc/housejobs/pkg/platform/chat"
	"github.com/quipper/poc/housejobs/pkg/repositories/people"
)

// Service owns the record store and the cache. Construct it once at startup
// and hand it to the handlers.
type Service struct {
	// mu is held across every store read or write and the cache change that
	// follows it.
	mu    sync.Mutex
	repo  people.Repository
	cache peoplecache.Cache
}

func NewService(repo people.Repository, cache peoplecache.Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Load fills the cache from the store.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.repo.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("load people: %w", err)
	}
	s.cache.Replace(all)
	logger.Info("roster: loaded %d people", len(all))
	return nil
}

// Sync creates records for members not stored yet and returns one record per
// member, with the display name taken from the platform listing. The merged
// records replace the cache.
func (s *Service) Sync(ctx context.Context, members []chat.Member) ([]*people.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range members {
		if err := s.repo.UpsertMissing(ctx, m.ID, m.DisplayName); err != nil {
			return nil, fmt.Errorf("upsert %s: %w", m.ID, err)
		}
	}
	stored, err := s.repo.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch people: %w", err)
	}
	byID := make(map[string]*people.Person, len(stored))
	for _, p := range stored {
		byID[p.PersonID] = p
	}

	merged := make([]*people.Person, 0, len(members))
	for _, m := range members {
		p, ok := byID[m.ID]
		if !ok {
			return nil, fmt.Errorf("sync %s: %w", m.ID, people.ErrNotFound)
		}
		p = p.Clone()
		p.DisplayName = m.DisplayName
		merged = append(merged, p)
	}
	s.cache.Replace(merged)
	logger.Debug("roster: synced %d members (%d stored)", len(merged), len(stored))
	return merged, nil
}

// UpdateJob writes the store first and patches the cache only on success.
func (s *Service) UpdateJob(ctx context.Context, personID string, u people.JobUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.UpdateJob(ctx, personID, u); err != nil {
		return err
	}
	if !s.cache.Patch(personID, u) {
		// The cache may have been rebuilt without this person; reload the record.
		p, err := s.repo.FetchOne(ctx, personID)
		if err != nil {
			return fmt.Errorf("reload %s: %w", personID, err)
		}
		s.cache.Put(p)
	}
	return nil
}

// Get reads one record from the cache, falling back to the store on a miss.
func (s *Service) Get(ctx context.Context, personID string) (*people.Person, error) {
	if p, ok := s.cache.Get(personID); ok {
		return p, nil
	}
	p, err := s.repo.FetchOne(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", personID, err)
	}
	if p == nil {
		return nil, fmt.Errorf("fetch %s: %w", personID, people.ErrNotFound)
	}
	return p, nil
}

// Health reports whether the backing store is reachable.
func (s *Service) Health(ctx context.Context) error {
	return s.repo.Health(ctx)
}

// All returns a snapshot of every cached record.
func (s *Service) All() []*people.Person {
	return s.cache.All()
}
