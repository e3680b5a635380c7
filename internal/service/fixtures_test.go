package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/Freeeeeet/slotswap/internal/repository/memory"
	"go.uber.org/zap"
)

const (
	alice int64 = 1
	bob   int64 = 2
	carol int64 = 3
)

var users = []int64{alice, bob, carol}

var day = time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	slots *SlotService
	swaps *SwapService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	logger := zap.NewNop()
	return &fixture{
		store: store,
		slots: NewSlotService(store, logger),
		swaps: NewSwapService(store, logger),
	}
}

// slot создаёт слот на hour-й час дня
func (f *fixture) slot(t *testing.T, owner int64, hour int, status model.SlotStatus) *model.Slot {
	t.Helper()

	start := day.Add(time.Duration(hour) * time.Hour)
	s, err := f.slots.CreateSlot(context.Background(), CreateSlotParams{
		OwnerID:   owner,
		Title:     "slot",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
	})
	if err != nil {
		t.Fatalf("create slot: %v", err)
	}
	return s
}

func (f *fixture) get(t *testing.T, id int64) *model.Slot {
	t.Helper()

	s, err := f.store.Slots().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get slot %d: %v", id, err)
	}
	if s == nil {
		t.Fatalf("slot %d not found", id)
	}
	return s
}

func (f *fixture) expectSlot(t *testing.T, id, owner int64, status model.SlotStatus) {
	t.Helper()

	s := f.get(t, id)
	if s.OwnerID != owner || s.Status != status {
		t.Fatalf("slot %d: expected owner=%d status=%s, got owner=%d status=%s",
			id, owner, status, s.OwnerID, s.Status)
	}
}

// checkLocks проверяет: слот в SWAP_PENDING тогда и только тогда, когда на него
// ссылается ровно одна заявка в PENDING
func (f *fixture) checkLocks(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	pendingRefs := make(map[int64]int)
	seen := make(map[int64]bool)
	for _, u := range users {
		reqs, err := f.store.Swaps().ListByProposer(ctx, u)
		if err != nil {
			t.Fatalf("list requests: %v", err)
		}
		for _, r := range reqs {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			if r.IsPending() {
				pendingRefs[r.OfferedSlotID]++
				pendingRefs[r.RequestedSlotID]++
			}
		}
	}

	for _, u := range users {
		slots, err := f.store.Slots().ListByOwner(ctx, u)
		if err != nil {
			t.Fatalf("list slots: %v", err)
		}
		for _, s := range slots {
			locked := s.Status == model.SlotStatusSwapPending
			if locked && pendingRefs[s.ID] != 1 {
				t.Fatalf("slot %d is SWAP_PENDING with %d pending requests", s.ID, pendingRefs[s.ID])
			}
			if !locked && pendingRefs[s.ID] != 0 {
				t.Fatalf("slot %d is %s but referenced by %d pending requests", s.ID, s.Status, pendingRefs[s.ID])
			}
		}
	}
}
