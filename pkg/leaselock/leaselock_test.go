package leaselock

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type row struct {
	val string
	err error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.val
	return nil
}

// fakeDB models the leases table as a single holder per name, ignoring
// expiry.
type fakeDB struct {
	mu       sync.Mutex
	holders  map[string]string
	renewErr error
	renewals int
	releases int
}

func newFakeDB() *fakeDB {
	return &fakeDB{holders: map[string]string{}}
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, holder := args[0].(string), args[1].(string)

	switch {
	case strings.Contains(sql, "INSERT INTO leases"):
		if cur, ok := f.holders[name]; ok && cur != holder {
			return row{err: pgx.ErrNoRows}
		}
		f.holders[name] = holder
		return row{val: name}
	case strings.Contains(sql, "UPDATE leases"):
		f.renewals++
		if f.renewErr != nil {
			return row{err: f.renewErr}
		}
		if f.holders[name] != holder {
			return row{err: pgx.ErrNoRows}
		}
		return row{val: name}
	}
	return row{err: errors.New("unexpected query")}
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, holder := args[0].(string), args[1].(string)
	if strings.Contains(sql, "DELETE FROM leases") && f.holders[name] == holder {
		delete(f.holders, name)
		f.releases++
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.NewCommandTag("DELETE 0"), nil
}

func (f *fakeDB) holder(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.holders[name]
}

func TestRunHoldsAndReleases(t *testing.T) {
	db := newFakeDB()
	c := New(db, nil)

	var held string
	err := c.Run(context.Background(), "index", Options{}, func(ctx context.Context) error {
		held = db.holder("index")
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if held == "" {
		t.Fatal("expected the lease to be held during fn")
	}
	if got := db.holder("index"); got != "" {
		t.Fatalf("lease still held by %q after Run", got)
	}
	if db.releases != 1 {
		t.Fatalf("releases = %d, want 1", db.releases)
	}
}

func TestAcquireBusy(t *testing.T) {
	db := newFakeDB()
	c := New(db, nil)

	first, err := c.Acquire(context.Background(), "index", Options{})
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer first.Release(context.Background())

	if _, err := c.Acquire(context.Background(), "index", Options{}); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Acquire err = %v, want ErrBusy", err)
	}
}

func TestAcquireWaitsForRelease(t *testing.T) {
	db := newFakeDB()
	c := New(db, nil)

	first, err := c.Acquire(context.Background(), "index", Options{})
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	go func() {
		time.Sleep(30 * time.Millisecond)
		first.Release(context.Background())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	second, err := c.Acquire(ctx, "index", Options{Wait: true, WaitInterval: 5 * time.Millisecond})
	if err != nil {
		t.Fatalf("waiting Acquire: %v", err)
	}
	defer second.Release(context.Background())
	if second.Holder == first.Holder {
		t.Fatal("expected a fresh holder token")
	}
}

func TestAcquireWaitRespectsContext(t *testing.T) {
	db := newFakeDB()
	c := New(db, nil)

	first, err := c.Acquire(context.Background(), "index", Options{})
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer first.Release(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Acquire(ctx, "index", Options{Wait: true, WaitInterval: 5 * time.Millisecond})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestLostRenewalCancelsWork(t *testing.T) {
	db := newFakeDB()
	c := New(db, nil)

	err := c.Run(context.Background(), "index", Options{TTL: 40 * time.Millisecond, RenewEvery: 10 * time.Millisecond}, func(ctx context.Context) error {
		db.mu.Lock()
		db.holders["index"] = "someone-else"
		db.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
			return errors.New("lease context was not cancelled")
		}
	})
	if !errors.Is(err, ErrLost) {
		t.Fatalf("err = %v, want ErrLost", err)
	}
	if got := db.holder("index"); got != "someone-else" {
		t.Fatalf("release removed another holder's lease: %q", got)
	}
}

func TestRenewRetriesTransientErrors(t *testing.T) {
	db := newFakeDB()
	db.renewErr = errors.New("connection reset")
	c := New(db, nil)

	err := c.Run(context.Background(), "index", Options{TTL: 40 * time.Millisecond, RenewEvery: 10 * time.Millisecond}, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err == nil {
		t.Fatal("expected an error after renewal kept failing")
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.renewals != 3 {
		t.Fatalf("renewals = %d, want 3 attempts", db.renewals)
	}
}

func TestEmptyName(t *testing.T) {
	if _, err := New(newFakeDB(), nil).Acquire(context.Background(), "", Options{}); err == nil {
		t.Fatal("expected error for empty name")
	}
}
