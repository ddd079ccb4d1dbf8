// Package memory provides an in-process storage driver. It keeps the same
// transactional guarantees as the SQL drivers: movements on one part are
// serialized by a per-part lock held from the locking read until commit or
// rollback, and writes staged in a transaction become visible only on commit.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/usecase"
)

// ErrInvalidTransaction is returned when a repository receives a transaction from another driver.
var ErrInvalidTransaction = errors.New("memory: transaction was not started by this driver")

// DB is the shared in-memory state.
type DB struct {
	mu        sync.RWMutex
	parts     map[string]*domain.Part
	movements []*domain.Movement
	users     map[string]*domain.User

	locksMu sync.Mutex
	locks   map[string]*partLock
}

type partLock struct {
	ch   chan struct{}
	refs int
}

// NewDB creates an empty DB.
func NewDB() *DB {
	return &DB{
		parts: make(map[string]*domain.Part),
		users: make(map[string]*domain.User),
		locks: make(map[string]*partLock),
	}
}

// Ping always succeeds.
func (db *DB) Ping(context.Context) error {
	return nil
}

// acquirePart returns the lock for name and registers the caller as a user of it.
// Entries are dropped once no transaction holds or waits on them.
func (db *DB) acquirePart(name string) *partLock {
	db.locksMu.Lock()
	defer db.locksMu.Unlock()

	l, ok := db.locks[name]
	if !ok {
		l = &partLock{ch: make(chan struct{}, 1)}
		db.locks[name] = l
	}
	l.refs++
	return l
}

// releasePart must be called with db.locksMu held.
func (db *DB) releasePart(name string, l *partLock) {
	l.refs--
	if l.refs == 0 {
		delete(db.locks, name)
	}
}

func (db *DB) lockPart(ctx context.Context, name string) error {
	l := db.acquirePart(name)
	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		db.locksMu.Lock()
		db.releasePart(name, l)
		db.locksMu.Unlock()
		return ctx.Err()
	}
}

func (db *DB) unlockPart(name string) {
	db.locksMu.Lock()
	defer db.locksMu.Unlock()

	l := db.locks[name]
	<-l.ch
	db.releasePart(name, l)
}

func (db *DB) countMovements(partName string) int64 {
	var n int64
	for _, m := range db.movements {
		if m.PartName == partName {
			n++
		}
	}
	return n
}

func copyPart(p *domain.Part) *domain.Part {
	c := *p
	return &c
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	db *DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *DB) *TxManager {
	return &TxManager{db: db}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{db: m.db, held: make(map[string]bool)}, nil
}

type stagedOp struct {
	check func() error
	apply func()
}

// Tx stages writes and holds part locks until it ends.
type Tx struct {
	db   *DB
	mu   sync.Mutex
	held map[string]bool
	ops  []stagedOp
	done bool
}

func (t *Tx) lock(ctx context.Context, name string) error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return errTxDone
	}
	if t.held[name] {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	if err := t.db.lockPart(ctx, name); err != nil {
		return err
	}

	t.mu.Lock()
	t.held[name] = true
	t.mu.Unlock()
	return nil
}

func (t *Tx) stage(op stagedOp) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return errTxDone
	}
	t.ops = append(t.ops, op)
	return nil
}

var errTxDone = errors.New("memory: transaction already committed or rolled back")

// Commit applies staged writes atomically. If any write fails its check, none is applied.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return errTxDone
	}
	defer t.release()

	if err := ctx.Err(); err != nil {
		return err
	}

	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	for _, op := range t.ops {
		if op.check == nil {
			continue
		}
		if err := op.check(); err != nil {
			return err
		}
	}
	for _, op := range t.ops {
		op.apply()
	}
	return nil
}

// Rollback discards staged writes. Calling it after Commit is a no-op.
func (t *Tx) Rollback(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.release()
	return nil
}

// release must be called with t.mu held.
func (t *Tx) release() {
	t.done = true
	t.ops = nil
	names := make([]string, 0, len(t.held))
	for name := range t.held {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t.db.unlockPart(name)
	}
	t.held = nil
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	mtx, ok := tx.(*Tx)
	if !ok {
		return nil, ErrInvalidTransaction
	}
	return mtx, nil
}
