// Package memory implements the repository contracts in process memory.
//
// Transactions are serialised by a single mutex and run against a copy of the
// committed state, which replaces the committed state only when the
// transaction function returns nil. Calls made outside InTx are individually
// atomic. Code running inside InTx must use the transaction-bound store it
// receives; calling the root store from inside a transaction deadlocks.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/Freeeeeet/slotswap/internal/repository"
)

type state struct {
	slots      map[int64]*model.Slot
	swaps      map[int64]*model.SwapRequest
	nextSlotID int64
	nextSwapID int64
}

func newState() *state {
	return &state{
		slots: make(map[int64]*model.Slot),
		swaps: make(map[int64]*model.SwapRequest),
	}
}

func (s *state) clone() *state {
	c := &state{
		slots:      make(map[int64]*model.Slot, len(s.slots)),
		swaps:      make(map[int64]*model.SwapRequest, len(s.swaps)),
		nextSlotID: s.nextSlotID,
		nextSwapID: s.nextSwapID,
	}
	for id, slot := range s.slots {
		c.slots[id] = slot.Clone()
	}
	for id, req := range s.swaps {
		c.swaps[id] = req.Clone()
	}
	return c
}

// Store is the root in-memory store.
type Store struct {
	mu   sync.Mutex
	data *state
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		data: newState(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Slots() repository.SlotStore {
	return &slotRepo{session: &session{store: s}}
}

func (s *Store) Swaps() repository.SwapStore {
	return &swapRepo{session: &session{store: s}}
}

func (s *Store) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(&txStore{session: &session{store: s, tx: work}}); err != nil {
		return err
	}
	s.data = work
	return nil
}

// session binds repository calls either to a transaction's working copy or,
// outside a transaction, to the committed state under the store mutex.
type session struct {
	store *Store
	tx    *state
}

func (s *session) acquire() (*state, func()) {
	if s.tx != nil {
		return s.tx, func() {}
	}
	s.store.mu.Lock()
	return s.store.data, s.store.mu.Unlock
}

type txStore struct {
	session *session
}

func (t *txStore) Slots() repository.SlotStore {
	return &slotRepo{session: t.session}
}

func (t *txStore) Swaps() repository.SwapStore {
	return &swapRepo{session: t.session}
}

func (t *txStore) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t)
}

var (
	_ repository.Store = (*Store)(nil)
	_ repository.Store = (*txStore)(nil)
)
