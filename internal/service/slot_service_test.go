package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/slotswap/internal/model"
)

func TestCreateSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := day.Add(9 * time.Hour)

	cases := []struct {
		name    string
		params  CreateSlotParams
		want    model.SlotStatus
		wantErr error
	}{
		{"default busy", CreateSlotParams{OwnerID: alice, Title: "Standup", StartTime: start, EndTime: start.Add(time.Hour)}, model.SlotStatusBusy, nil},
		{"swappable", CreateSlotParams{OwnerID: alice, Title: "Standup", StartTime: start, EndTime: start.Add(time.Hour), Status: model.SlotStatusSwappable}, model.SlotStatusSwappable, nil},
		{"pending not allowed", CreateSlotParams{OwnerID: alice, Title: "Standup", StartTime: start, EndTime: start.Add(time.Hour), Status: model.SlotStatusSwapPending}, "", model.ErrValidation},
		{"blank title", CreateSlotParams{OwnerID: alice, Title: "  ", StartTime: start, EndTime: start.Add(time.Hour)}, "", model.ErrValidation},
		{"empty interval", CreateSlotParams{OwnerID: alice, Title: "Standup", StartTime: start, EndTime: start}, "", model.ErrValidation},
		{"reversed interval", CreateSlotParams{OwnerID: alice, Title: "Standup", StartTime: start, EndTime: start.Add(-time.Hour)}, "", model.ErrValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slot, err := f.slots.CreateSlot(ctx, tc.params)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if slot.ID == 0 || slot.Status != tc.want || slot.OwnerID != alice {
				t.Fatalf("unexpected slot: %+v", slot)
			}
		})
	}
}

func TestUpdateSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.slot(t, alice, 9, model.SlotStatusBusy)

	got, err := f.slots.UpdateSlot(ctx, alice, s.ID, model.SlotPatch{
		Title:  model.Some("Planning"),
		Status: model.Some(model.SlotStatusSwappable),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "Planning" || got.Status != model.SlotStatusSwappable || !got.StartTime.Equal(s.StartTime) {
		t.Fatalf("unexpected slot: %+v", got)
	}

	stored := f.get(t, s.ID)
	if stored.Title != "Planning" || stored.Status != model.SlotStatusSwappable {
		t.Fatalf("update not persisted: %+v", stored)
	}

	if _, err := f.slots.UpdateSlot(ctx, bob, s.ID, model.SlotPatch{Title: model.Some("x")}); !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.slots.UpdateSlot(ctx, alice, 999, model.SlotPatch{Title: model.Some("x")}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.slots.UpdateSlot(ctx, alice, s.ID, model.SlotPatch{EndTime: model.Some(s.StartTime)}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := f.slots.UpdateSlot(ctx, alice, s.ID, model.SlotPatch{Status: model.Some(model.SlotStatusSwapPending)}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("owner must not set SWAP_PENDING, got %v", err)
	}

	if after := f.get(t, s.ID); after.Title != "Planning" || !after.EndTime.Equal(s.EndTime) {
		t.Fatalf("failed updates changed the slot: %+v", after)
	}
}

func TestLockedSlotRejectsOwnerChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.slot(t, alice, 9, model.SlotStatusSwappable)
	b := f.slot(t, bob, 10, model.SlotStatusSwappable)
	if _, err := f.swaps.ProposeSwap(ctx, alice, a.ID, b.ID); err != nil {
		t.Fatalf("propose: %v", err)
	}

	for _, desired := range []model.SlotStatus{model.SlotStatusBusy, model.SlotStatusSwappable} {
		if _, err := f.slots.SetSlotAvailability(ctx, alice, a.ID, desired); !errors.Is(err, model.ErrSlotLocked) {
			t.Fatalf("set %s: expected ErrSlotLocked, got %v", desired, err)
		}
	}
	if _, err := f.slots.UpdateSlot(ctx, bob, b.ID, model.SlotPatch{Title: model.Some("mine")}); !errors.Is(err, model.ErrSlotLocked) {
		t.Fatalf("edit: expected ErrSlotLocked, got %v", err)
	}
	if err := f.slots.DeleteSlot(ctx, bob, b.ID); !errors.Is(err, model.ErrSlotLocked) {
		t.Fatalf("delete: expected ErrSlotLocked, got %v", err)
	}

	f.expectSlot(t, a.ID, alice, model.SlotStatusSwapPending)
	f.expectSlot(t, b.ID, bob, model.SlotStatusSwapPending)
	f.checkLocks(t)
}

func TestSetSlotAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.slot(t, alice, 9, model.SlotStatusBusy)

	if _, err := f.slots.SetSlotAvailability(ctx, alice, s.ID, model.SlotStatusSwapPending); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	got, err := f.slots.SetSlotAvailability(ctx, alice, s.ID, model.SlotStatusSwappable)
	if err != nil || got.Status != model.SlotStatusSwappable {
		t.Fatalf("make swappable: %+v %v", got, err)
	}
	got, err = f.slots.SetSlotAvailability(ctx, alice, s.ID, model.SlotStatusBusy)
	if err != nil || got.Status != model.SlotStatusBusy {
		t.Fatalf("make busy: %+v %v", got, err)
	}
}

func TestDeleteSlot_KeepsLedgerHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.slot(t, alice, 9, model.SlotStatusSwappable)
	b := f.slot(t, bob, 10, model.SlotStatusSwappable)
	req, err := f.swaps.ProposeSwap(ctx, alice, a.ID, b.ID)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if _, err := f.swaps.RespondSwap(ctx, bob, req.ID, false); err != nil {
		t.Fatalf("respond: %v", err)
	}

	if err := f.slots.DeleteSlot(ctx, bob, a.ID); !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.slots.DeleteSlot(ctx, alice, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.slots.DeleteSlot(ctx, alice, a.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	reqs, err := f.swaps.ListRequests(ctx, alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reqs.Outgoing) != 1 || reqs.Outgoing[0].OfferedSlot != nil {
		t.Fatalf("ledger row must survive with a missing snapshot: %+v", reqs.Outgoing)
	}
}

func TestMarketplace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.slot(t, alice, 9, model.SlotStatusSwappable)
	f.slot(t, bob, 8, model.SlotStatusBusy)
	late := f.slot(t, bob, 15, model.SlotStatusSwappable)
	early := f.slot(t, carol, 7, model.SlotStatusSwappable)

	market, err := f.slots.ListMarketplace(ctx, alice)
	if err != nil {
		t.Fatalf("marketplace: %v", err)
	}
	if len(market) != 2 || market[0].ID != early.ID || market[1].ID != late.ID {
		t.Fatalf("expected other users' swappable slots by start time, got %+v", market)
	}

	mine, err := f.slots.ListMySlots(ctx, carol)
	if err != nil {
		t.Fatalf("my slots: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != early.ID {
		t.Fatalf("unexpected slots: %+v", mine)
	}

	none, err := f.slots.ListMySlots(ctx, 42)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil list, got %v %v", none, err)
	}
}

func TestGetSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.slot(t, alice, 9, model.SlotStatusBusy)

	if got, err := f.slots.GetSlot(ctx, alice, s.ID); err != nil || got.ID != s.ID {
		t.Fatalf("get: %+v %v", got, err)
	}
	if _, err := f.slots.GetSlot(ctx, bob, s.ID); !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.slots.GetSlot(ctx, alice, 999); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
