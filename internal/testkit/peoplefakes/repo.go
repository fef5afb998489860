package peoplefakes

import (
	"context"
	"sync"
	"time"

	"github.com/quipper/poc/housejobs/pkg/repositories/people"
)

// Repo is an in-memory people.Repository fake that counts reads and writes.
type Repo struct {
	mu      sync.Mutex
	Records map[string]*people.Person
	Reads   int
	Writes  int
	// UpdateErr, when set, is returned by UpdateJob without writing.
	UpdateErr error
}

var _ people.Repository = (*Repo)(nil)

// NewRepo constructs a Repo seeded with records.
func NewRepo(records ...*people.Person) *Repo {
	r := &Repo{Records: make(map[string]*people.Person)}
	for _, p := range records {
		r.Records[p.PersonID] = p.Clone()
	}
	return r
}

func (r *Repo) FetchAll(_ context.Context) ([]*people.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads++
	out := make([]*people.Person, 0, len(r.Records))
	for _, p := range r.Records {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (r *Repo) FetchOne(_ context.Context, personID string) (*people.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads++
	return r.Records[personID].Clone(), nil
}

func (r *Repo) UpsertMissing(_ context.Context, personID, displayName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Writes++
	if _, ok := r.Records[personID]; ok {
		return nil
	}
	now := time.Now().UTC()
	r.Records[personID] = &people.Person{
		PersonID:    personID,
		DisplayName: displayName,
		JobDays:     []string{},
		JobTasks:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return nil
}

func (r *Repo) UpdateJob(_ context.Context, personID string, u people.JobUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	r.Writes++
	p, ok := r.Records[personID]
	if !ok {
		return people.ErrNotFound
	}
	p.Enabled = u.Enabled
	p.JobName = u.JobName
	p.JobDays = people.CanonicalizeDays(u.JobDays)
	p.JobTasks = append([]string{}, u.JobTasks...)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *Repo) Health(_ context.Context) error { return nil }

func (r *Repo) Disconnect() {}

// Calls returns the number of reads and writes seen so far.
func (r *Repo) Calls() (reads, writes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Reads, r.Writes
}

// Record returns a copy of the stored record, or nil.
func (r *Repo) Record(personID string) *people.Person {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Records[personID].Clone()
}
