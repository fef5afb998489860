package roster

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/quipper/poc/housejobs/internal/testkit/peoplefakes"
	"github.com/quipper/poc/housejobs/pkg/common/peoplecache"
	"github.com/quipper/poc/housejobs/pkg/platform/chat"
	"github.com/quipper/poc/housejobs/pkg/repositories/people"
)

func TestSyncPopulatesEmptyStore(t *testing.T) {
	repo := peoplefakes.NewRepo()
	svc := NewService(repo, peoplecache.New())

	members := []chat.Member{{ID: "U1", DisplayName: "Alice"}, {ID: "U2", DisplayName: "Bob"}}
	got, err := svc.Sync(context.Background(), members)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(got) != 2 || len(repo.Records) != 2 {
		t.Fatalf("expected 2 records, got %d merged / %d stored", len(got), len(repo.Records))
	}
	for _, p := range got {
		if p.Enabled || p.JobName != "" || len(p.JobDays) != 0 || len(p.JobTasks) != 0 {
			t.Errorf("record %s not defaulted: %+v", p.PersonID, p)
		}
	}
	if n := len(svc.All()); n != 2 {
		t.Errorf("cache holds %d records, want 2", n)
	}
}

func TestSyncRefreshesDisplayNameKeepsJob(t *testing.T) {
	repo := peoplefakes.NewRepo(&people.Person{
		PersonID:    "U1",
		DisplayName: "Old Name",
		Enabled:     true,
		JobName:     "Kitchen",
		JobDays:     []string{"Monday"},
		JobTasks:    []string{"dishes"},
	})
	svc := NewService(repo, peoplecache.New())

	got, err := svc.Sync(context.Background(), []chat.Member{{ID: "U1", DisplayName: "New Name"}})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	p := got[0]
	if p.DisplayName != "New Name" || !p.Enabled || p.JobName != "Kitchen" {
		t.Errorf("unexpected merged record: %+v", p)
	}
	if repo.Record("U1").JobName != "Kitchen" {
		t.Error("sync must not overwrite stored job")
	}
}

func TestSyncDropsUnlistedFromCacheButNotStore(t *testing.T) {
	repo := peoplefakes.NewRepo(&people.Person{PersonID: "U9", DisplayName: "Former"})
	svc := NewService(repo, peoplecache.New())

	if _, err := svc.Sync(context.Background(), []chat.Member{{ID: "U1", DisplayName: "Alice"}}); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if repo.Record("U9") == nil {
		t.Error("sync must never delete stored records")
	}
	if len(svc.All()) != 1 {
		t.Errorf("cache should mirror the current member list, got %d", len(svc.All()))
	}
}

func TestUpdateJobPatchesCache(t *testing.T) {
	repo := peoplefakes.NewRepo(&people.Person{PersonID: "U1", DisplayName: "Alice"})
	svc := NewService(repo, peoplecache.New())
	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	u := people.JobUpdate{Enabled: true, JobName: "Bins", JobDays: []string{"Friday", "Monday"}, JobTasks: []string{"wash dishes", "mow lawn"}}
	if err := svc.UpdateJob(ctx, "U1", u); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	reads, _ := repo.Calls()

	got, err := svc.Get(ctx, "U1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Enabled || got.JobName != "Bins" || !reflect.DeepEqual(got.JobDays, []string{"Monday", "Friday"}) {
		t.Errorf("cache not patched: %+v", got)
	}
	if after, _ := repo.Calls(); after != reads {
		t.Error("Get on a cached record should not hit the store")
	}
}

func TestUpdateJobFailureLeavesCache(t *testing.T) {
	repo := peoplefakes.NewRepo(&people.Person{PersonID: "U1", JobName: "Before"})
	svc := NewService(repo, peoplecache.New())
	ctx := context.Background()
	_ = svc.Load(ctx)

	repo.UpdateErr = errors.New("disk full")
	if err := svc.UpdateJob(ctx, "U1", people.JobUpdate{JobName: "After"}); err == nil {
		t.Fatal("expected error")
	}
	got, _ := svc.Get(ctx, "U1")
	if got.JobName != "Before" {
		t.Errorf("cache changed after failed write: %+v", got)
	}
}

func TestUpdateJobCacheMissReloads(t *testing.T) {
	repo := peoplefakes.NewRepo(&people.Person{PersonID: "U1"})
	svc := NewService(repo, peoplecache.New())
	ctx := context.Background()

	if err := svc.UpdateJob(ctx, "U1", people.JobUpdate{JobName: "Laundry", JobTasks: []string{"fold"}}); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	got, err := svc.Get(ctx, "U1")
	if err != nil || got.JobName != "Laundry" {
		t.Errorf("Get after reload = %+v, %v", got, err)
	}
}

func TestGetMissing(t *testing.T) {
	svc := NewService(peoplefakes.NewRepo(), peoplecache.New())
	if _, err := svc.Get(context.Background(), "nobody"); !errors.Is(err, people.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// stallingRepo holds the first FetchAll after its snapshot is taken until
// resume is closed.
type stallingRepo struct {
	*peoplefakes.Repo
	once    sync.Once
	fetched chan struct{}
	resume  chan struct{}
}

func (r *stallingRepo) FetchAll(ctx context.Context) ([]*people.Person, error) {
	all, err := r.Repo.FetchAll(ctx)
	r.once.Do(func() {
		close(r.fetched)
		<-r.resume
	})
	return all, err
}

func TestUpdateJobDuringSyncKeepsCacheInStep(t *testing.T) {
	repo := &stallingRepo{
		Repo:    peoplefakes.NewRepo(&people.Person{PersonID: "U1", DisplayName: "Alice"}),
		fetched: make(chan struct{}),
		resume:  make(chan struct{}),
	}
	svc := NewService(repo, peoplecache.New())
	ctx := context.Background()

	syncDone := make(chan error, 1)
	go func() {
		_, err := svc.Sync(ctx, []chat.Member{{ID: "U1", DisplayName: "Alice"}})
		syncDone <- err
	}()
	<-repo.fetched

	updateDone := make(chan error, 1)
	go func() {
		updateDone <- svc.UpdateJob(ctx, "U1", people.JobUpdate{Enabled: true, JobName: "Kitchen", JobTasks: []string{"dishes"}})
	}()
	// Give the update every chance to land inside the stalled sync.
	select {
	case err := <-updateDone:
		updateDone <- err
	case <-time.After(50 * time.Millisecond):
	}
	close(repo.resume)

	if err := <-syncDone; err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := <-updateDone; err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}

	stored := repo.Record("U1")
	cached, err := svc.Get(ctx, "U1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !stored.Enabled || stored.JobName != "Kitchen" {
		t.Fatalf("store = %+v, want the update", stored)
	}
	if cached.Enabled != stored.Enabled || cached.JobName != stored.JobName {
		t.Errorf("cache enabled=%t job=%q, store enabled=%t job=%q", cached.Enabled, cached.JobName, stored.Enabled, stored.JobName)
	}
}
