// Package leaselock provides expiring named leases stored in Postgres. A
// lease keeps renewing itself while held, so a crashed holder frees the
// name after one TTL.
package leaselock

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/util"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrBusy = errors.New("lease is held by another process")
	ErrLost = errors.New("lease was lost")
)

type dbConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Options tune a lease. Zero values get defaults: a five minute TTL,
// renewal at half the TTL and a 250ms wait interval.
type Options struct {
	TTL        time.Duration
	RenewEvery time.Duration

	// Wait polls until the lease is free instead of failing with ErrBusy.
	Wait         bool
	WaitInterval time.Duration
	WaitJitter   time.Duration
}

func (o Options) normalized() Options {
	if o.TTL <= 0 {
		o.TTL = 5 * time.Minute
	}
	if o.RenewEvery <= 0 || o.RenewEvery >= o.TTL {
		o.RenewEvery = max(o.TTL/2, time.Second)
	}
	if o.WaitInterval <= 0 {
		o.WaitInterval = 250 * time.Millisecond
	}
	if o.WaitJitter < 0 {
		o.WaitJitter = 0
	}
	return o
}

type Client struct {
	db  dbConn
	log *logger.Logger
}

// New creates a Client on a pgx connection or pool.
func New(db dbConn, log *logger.Logger) *Client {
	return &Client{db: db, log: log}
}

// Lease is a held name. Context is cancelled when the lease is released or
// lost; work done under the lease should use it.
type Lease struct {
	Name   string
	Holder string

	Context context.Context

	client *Client
	cancel context.CancelCauseFunc

	stopOnce sync.Once
	stopCh   chan struct{}
}

// Run holds name for the duration of fn.
func (c *Client) Run(ctx context.Context, name string, opts Options, fn func(ctx context.Context) error) error {
	lease, err := c.Acquire(ctx, name, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := lease.Release(context.Background()); err != nil {
			c.log.Warn("Failed to release lease", "name", name, "err", err)
		}
	}()

	if err := fn(lease.Context); err != nil {
		if cause := context.Cause(lease.Context); errors.Is(cause, ErrLost) {
			return errors.Join(err, cause)
		}
		return err
	}
	return nil
}

// Acquire takes name, or fails with ErrBusy when someone else holds it and
// opts.Wait is false.
func (c *Client) Acquire(ctx context.Context, name string, opts Options) (*Lease, error) {
	if name == "" {
		return nil, errors.New("lease name is empty")
	}
	opts = opts.normalized()

	holder, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	ttlMs := opts.TTL.Milliseconds()

	for {
		var got string
		err := c.db.QueryRow(ctx, acquireSQL, name, holder, ttlMs).Scan(&got)
		if err == nil && got != "" {
			break
		}
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if !opts.Wait {
			return nil, ErrBusy
		}
		c.log.Debug("Waiting for lease", "name", name)
		if err := sleep(ctx, opts.WaitInterval, opts.WaitJitter); err != nil {
			return nil, err
		}
	}

	leaseCtx, cancel := context.WithCancelCause(ctx)
	l := &Lease{
		Name:    name,
		Holder:  holder,
		Context: leaseCtx,
		client:  c,
		cancel:  cancel,
		stopCh:  make(chan struct{}),
	}
	c.log.Debug("Acquired lease", "name", name, "holder", holder, "ttl", opts.TTL)

	go l.keepAlive(opts.RenewEvery, ttlMs)
	return l, nil
}

// Release stops renewal and frees the name. It is safe to call more than
// once.
func (l *Lease) Release(ctx context.Context) error {
	l.stopOnce.Do(func() {
		close(l.stopCh)
		l.cancel(context.Canceled)
	})
	_, err := l.client.db.Exec(ctx, releaseSQL, l.Name, l.Holder)
	return err
}

func (l *Lease) keepAlive(every time.Duration, ttlMs int64) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-l.Context.Done():
			return
		case <-t.C:
			if err := l.renew(ttlMs); err != nil {
				l.client.log.Warn("Lease lost", "name", l.Name, "err", err)
				l.cancel(ErrLost)
				return
			}
		}
	}
}

func (l *Lease) renew(ttlMs int64) error {
	_, err := util.RetryWithContext(l.Context, 3, func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		var got string
		err := l.client.db.QueryRow(ctx, renewSQL, l.Name, l.Holder, ttlMs).Scan(&got)
		return got, err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrLost
	}
	return err
}

func sleep(ctx context.Context, base, jitter time.Duration) error {
	d := base
	if jitter > 0 {
		d += time.Duration(rand.Int64N(int64(jitter) + 1))
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

const acquireSQL = `
INSERT INTO leases (name, holder, expires_at)
VALUES ($1, $2, now() + ($3::bigint * interval '1 millisecond'))
ON CONFLICT (name) DO UPDATE
SET holder     = EXCLUDED.holder,
    expires_at = EXCLUDED.expires_at
WHERE leases.expires_at < now()
   OR leases.holder = EXCLUDED.holder
RETURNING name;
`

const renewSQL = `
UPDATE leases
SET expires_at = now() + ($3::bigint * interval '1 millisecond')
WHERE name = $1 AND holder = $2
RETURNING name;
`

const releaseSQL = `
DELETE FROM leases
WHERE name = $1 AND holder = $2;
`
