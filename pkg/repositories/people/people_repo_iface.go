package people

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by UpdateJob when no record exists for the person.
var ErrNotFound = errors.New("people: record not found")

// Person is the stored chore configuration of one workspace member.
// JobDays are kept in weekday order; an empty JobName means unassigned.
type Person struct {
	PersonID    string    `json:"person_id" yaml:"person_id"`
	DisplayName string    `json:"display_name" yaml:"display_name"`
	Enabled     bool      `json:"enabled" yaml:"enabled"`
	JobName     string    `json:"job_name" yaml:"job_name"`
	JobDays     []string  `json:"job_days" yaml:"job_days"`
	JobTasks    []string  `json:"job_tasks" yaml:"job_tasks"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Clone returns a deep copy so callers can hand records out without sharing slices.
func (p *Person) Clone() *Person {
	if p == nil {
		return nil
	}
	c := *p
	c.JobDays = append([]string{}, p.JobDays...)
	c.JobTasks = append([]string{}, p.JobTasks...)
	return &c
}

// JobUpdate carries the mutable fields replaced by an edit submission.
type JobUpdate struct {
	Enabled  bool
	JobName  string
	JobDays  []string
	JobTasks []string
}

// Repository is the record store: one document per person keyed by PersonID.
type Repository interface {
	// FetchAll returns every stored record in no particular order.
	FetchAll(ctx context.Context) ([]*Person, error)
	// FetchOne returns nil, nil when the person has no record.
	FetchOne(ctx context.Context, personID string) (*Person, error)
	// UpsertMissing inserts a default record unless one already exists.
	UpsertMissing(ctx context.Context, personID, displayName string) error
	// UpdateJob replaces the mutable fields; ErrNotFound if the record is absent.
	UpdateJob(ctx context.Context, personID string, u JobUpdate) error
	Health(ctx context.Context) error
	Disconnect()
}
