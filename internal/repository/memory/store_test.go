package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/Freeeeeet/slotswap/internal/repository"
)

func newSlot(owner int64, status model.SlotStatus) *model.Slot {
	start := time.Date(2025, 11, 5, 8, 0, 0, 0, time.UTC)
	return &model.Slot{
		OwnerID:   owner,
		Title:     "slot",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
	}
}

func TestInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	slot := newSlot(1, model.SlotStatusSwappable)
	if err := store.Slots().Create(ctx, slot); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx repository.Store) error {
		if ok, err := tx.Slots().SetStatus(ctx, slot.ID, model.SlotStatusSwappable, model.SlotStatusSwapPending); err != nil || !ok {
			t.Fatalf("set status: %v %v", ok, err)
		}
		if err := tx.Swaps().Create(ctx, &model.SwapRequest{OfferedSlotID: slot.ID, Status: model.SwapStatusPending}); err != nil {
			t.Fatalf("create request: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := store.Slots().GetByID(ctx, slot.ID)
	if got.Status != model.SlotStatusSwappable {
		t.Fatalf("status leaked from rolled back tx: %s", got.Status)
	}
	if reqs, _ := store.Swaps().ListByProposer(ctx, 0); len(reqs) != 0 {
		t.Fatalf("request leaked from rolled back tx: %d", len(reqs))
	}
}

func TestInTx_NestedUsesOuterTransaction(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	slot := newSlot(1, model.SlotStatusBusy)
	if err := store.Slots().Create(ctx, slot); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.InTx(ctx, func(inner repository.Store) error {
			_, err := inner.Slots().SetStatus(ctx, slot.ID, model.SlotStatusBusy, model.SlotStatusSwappable)
			return err
		}); err != nil {
			return err
		}

		got, _ := tx.Slots().GetByID(ctx, slot.ID)
		if got.Status != model.SlotStatusSwappable {
			t.Fatalf("inner write not visible in outer tx: %s", got.Status)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := store.Slots().GetByID(ctx, slot.ID)
	if got.Status != model.SlotStatusBusy {
		t.Fatalf("nested write survived outer rollback: %s", got.Status)
	}
}

func TestInTx_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewStore().InTx(ctx, func(tx repository.Store) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Fatalf("fn must not run on canceled context")
	}
}

func TestSlots_ReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	slot := newSlot(1, model.SlotStatusBusy)
	if err := store.Slots().Create(ctx, slot); err != nil {
		t.Fatalf("create: %v", err)
	}
	slot.Title = "mutated by caller"

	got, _ := store.Slots().GetByID(ctx, slot.ID)
	if got.Title != "slot" {
		t.Fatalf("store shares memory with caller: %q", got.Title)
	}
	got.OwnerID = 99

	again, _ := store.Slots().GetByID(ctx, slot.ID)
	if again.OwnerID != 1 {
		t.Fatalf("store shares memory with reader")
	}
}

func TestSlots_ConditionalWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	slots := store.Slots()

	slot := newSlot(1, model.SlotStatusSwapPending)
	if err := slots.Create(ctx, slot); err != nil {
		t.Fatalf("create: %v", err)
	}

	if ok, _ := slots.SetStatus(ctx, slot.ID, model.SlotStatusSwappable, model.SlotStatusBusy); ok {
		t.Fatalf("set status must fail on stale from")
	}
	if ok, _ := slots.Transfer(ctx, slot.ID, 2, 3, model.SlotStatusSwapPending, model.SlotStatusBusy); ok {
		t.Fatalf("transfer must fail on wrong owner")
	}
	if ok, _ := slots.Delete(ctx, slot.ID); ok {
		t.Fatalf("delete must refuse pending slot")
	}
	if ok, _ := slots.Transfer(ctx, slot.ID, 1, 3, model.SlotStatusSwapPending, model.SlotStatusBusy); !ok {
		t.Fatalf("transfer must succeed when owner and status match")
	}

	got, _ := slots.GetByID(ctx, slot.ID)
	if got.OwnerID != 3 || got.Status != model.SlotStatusBusy {
		t.Fatalf("unexpected slot after transfer: %+v", got)
	}
	if ok, _ := slots.Delete(ctx, slot.ID); !ok {
		t.Fatalf("delete must succeed on busy slot")
	}
	if got, _ := slots.GetByID(ctx, slot.ID); got != nil {
		t.Fatalf("slot still present after delete")
	}
}

func TestSwaps_ListKeepsDeletedSlotsAsNil(t *testing.T) {
	ctx := context.Background()
	tick := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}))

	a := newSlot(1, model.SlotStatusBusy)
	b := newSlot(2, model.SlotStatusBusy)
	for _, s := range []*model.Slot{a, b} {
		if err := store.Slots().Create(ctx, s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	first := &model.SwapRequest{OfferedSlotID: a.ID, RequestedSlotID: b.ID, ProposerID: 1, ResponderID: 2, Status: model.SwapStatusRejected}
	second := &model.SwapRequest{OfferedSlotID: a.ID, RequestedSlotID: b.ID, ProposerID: 1, ResponderID: 2, Status: model.SwapStatusPending}
	for _, r := range []*model.SwapRequest{first, second} {
		if err := store.Swaps().Create(ctx, r); err != nil {
			t.Fatalf("create request: %v", err)
		}
	}

	if ok, _ := store.Slots().Delete(ctx, b.ID); !ok {
		t.Fatalf("delete failed")
	}

	reqs, err := store.Swaps().ListByProposer(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	if reqs[0].ID != second.ID {
		t.Fatalf("expected newest first, got %d", reqs[0].ID)
	}
	if reqs[0].OfferedSlot == nil || reqs[0].RequestedSlot != nil {
		t.Fatalf("unexpected snapshots: %+v %+v", reqs[0].OfferedSlot, reqs[0].RequestedSlot)
	}

	if ok, _ := store.Swaps().Resolve(ctx, first.ID, model.SwapStatusAccepted, tick); ok {
		t.Fatalf("resolve must refuse terminal request")
	}
}
