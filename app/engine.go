package app

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/store"
	"github.com/lockbox-labs/lockbox/x/sigs"
	"github.com/lockbox-labs/lockbox/x/utils"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/tendermint/tendermint/libs/log"
)

// Keyed is implemented by messages that declare the store keys they
// write. Messages with keys run in parallel with messages that touch
// other keys. Messages without keys run alone.
type Keyed interface {
	Keys(db lockbox.ReadOnlyKVStore) ([][]byte, error)
}

// ReadKeyed is implemented by messages that read records they never
// write. Those keys are locked in shared mode.
type ReadKeyed interface {
	ReadKeys(db lockbox.ReadOnlyKVStore) ([][]byte, error)
}

// maxLockAttempts bounds how many times the key set of a message is
// recomputed when it changed while waiting for the locks.
const maxLockAttempts = 4

// Engine executes transactions against a shared store. Each transaction
// runs the handler behind a savepoint while holding locks on all the
// keys its message declares. A failed transaction leaves no trace.
type Engine struct {
	db      store.SyncStore
	handler lockbox.Handler
	clock   lockbox.Clock
	chainID string
	logger  log.Logger

	// global is held in shared mode by keyed messages and in exclusive
	// mode by everything else.
	global *sync.RWMutex
	locks  *xsync.MapOf[string, *sync.RWMutex]
	seq    uint64
}

// NewEngine returns an engine running handler on db. db must not be
// written directly afterwards.
func NewEngine(db lockbox.KVStore, handler lockbox.Handler, clock lockbox.Clock, chainID string) *Engine {
	return &Engine{
		db:      store.NewSyncStore(db),
		handler: ChainDecorators(utils.NewSavepoint().OnDeliver()).WithHandler(handler),
		clock:   clock,
		chainID: chainID,
		logger:  log.NewNopLogger(),
		global:  &sync.RWMutex{},
		locks:   xsync.NewMapOf[string, *sync.RWMutex](),
	}
}

// WithLogger sets the logger passed to the handlers.
func (e *Engine) WithLogger(logger log.Logger) *Engine {
	e.logger = logger
	return e
}

// Store returns the state. It is safe to read concurrently with running
// transactions and observes only fully written ones.
func (e *Engine) Store() lockbox.ReadOnlyKVStore {
	return e.db
}

// ChainID returns the chain the engine signs and verifies for.
func (e *Engine) ChainID() string {
	return e.chainID
}

// Check runs the handler without keeping any changes.
func (e *Engine) Check(ctx lockbox.Context, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	ctx, unlock, err := e.begin(ctx, tx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cache := e.db.CacheWrap()
	defer cache.Discard()
	return e.handler.Check(ctx, cache, tx)
}

// Deliver runs the handler and writes its changes if it succeeds.
func (e *Engine) Deliver(ctx lockbox.Context, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	ctx, unlock, err := e.begin(ctx, tx)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return e.handler.Deliver(ctx, e.db, tx)
}

// Commit persists the state while no transaction is running.
func (e *Engine) Commit(c interface{ Commit() (lockbox.CommitID, error) }) (lockbox.CommitID, error) {
	e.global.Lock()
	defer e.global.Unlock()
	var id lockbox.CommitID
	err := e.db.Exclusive(func(lockbox.KVStore) error {
		var err error
		id, err = c.Commit()
		return err
	})
	return id, err
}

// begin takes the locks of the transaction and prepares its context.
// The block time is read after the locks are held, so that transactions
// on the same record observe non decreasing times.
func (e *Engine) begin(ctx lockbox.Context, tx lockbox.Tx) (lockbox.Context, func(), error) {
	unlock, err := e.lock(tx)
	if err != nil {
		return nil, nil, err
	}
	seq := atomic.AddUint64(&e.seq, 1)
	ctx = lockbox.WithBlockTime(ctx, e.clock.Now())
	ctx = lockbox.WithChainID(ctx, e.chainID)
	ctx = lockbox.WithSequence(ctx, seq)
	ctx = lockbox.WithLogger(ctx, e.logger.With("path", lockbox.GetPath(tx)))
	return ctx, unlock, nil
}

// lock acquires the locks of all keys declared by the message in key
// order. Keys may depend on the state, for example on a counter, so
// once locked they are computed again. If they changed, all locks are
// released and the union of both sets is locked.
func (e *Engine) lock(tx lockbox.Tx) (func(), error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	if _, ok := msg.(Keyed); !ok {
		e.global.Lock()
		return e.global.Unlock, nil
	}

	want, err := e.keySet(msg, tx)
	if err != nil {
		return nil, err
	}
	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		e.global.RLock()
		release := e.acquire(want)
		got, err := e.keySet(msg, tx)
		if err != nil {
			release()
			e.global.RUnlock()
			return nil, err
		}
		if want.covers(got) {
			return func() {
				release()
				e.global.RUnlock()
			}, nil
		}
		release()
		e.global.RUnlock()
		want = want.union(got)
	}
	return nil, errors.Wrapf(errors.ErrState, "keys of %s keep changing", msg.Path())
}

func (e *Engine) keySet(msg lockbox.Msg, tx lockbox.Tx) (keySet, error) {
	set := make(keySet)
	keys, err := msg.(Keyed).Keys(e.db)
	if err != nil {
		return nil, errors.Wrap(err, "message keys")
	}
	if st, ok := tx.(sigs.SignedTx); ok {
		keys = append(keys, sigs.SignerKeys(st)...)
	}
	for _, k := range keys {
		set[string(k)] = true
	}
	if rk, ok := msg.(ReadKeyed); ok {
		keys, err := rk.ReadKeys(e.db)
		if err != nil {
			return nil, errors.Wrap(err, "message read keys")
		}
		for _, k := range keys {
			if _, ok := set[string(k)]; !ok {
				set[string(k)] = false
			}
		}
	}
	return set, nil
}

// acquire locks all keys in lexicographic order and returns a function
// releasing them.
func (e *Engine) acquire(set keySet) func() {
	keys := set.sorted()
	held := make([]func(), 0, len(keys))
	for _, k := range keys {
		mu, _ := e.locks.LoadOrCompute(k, func() *sync.RWMutex { return &sync.RWMutex{} })
		if set[k] {
			mu.Lock()
			held = append(held, mu.Unlock)
		} else {
			mu.RLock()
			held = append(held, mu.RUnlock)
		}
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}
}

// keySet maps a key to true if it is written and to false if it is only
// read.
type keySet map[string]bool

func (s keySet) sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// covers returns true if every key of other is held with at least the
// mode other requires.
func (s keySet) covers(other keySet) bool {
	for k, write := range other {
		held, ok := s[k]
		if !ok || (write && !held) {
			return false
		}
	}
	return true
}

func (s keySet) union(other keySet) keySet {
	res := make(keySet, len(s)+len(other))
	for k, w := range s {
		res[k] = w
	}
	for k, w := range other {
		res[k] = res[k] || w
	}
	return res
}
