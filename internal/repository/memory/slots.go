package memory

import (
	"context"
	"slices"

	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/Freeeeeet/slotswap/internal/repository"
)

type slotRepo struct {
	session *session
}

var _ repository.SlotStore = (*slotRepo)(nil)

func (r *slotRepo) Create(ctx context.Context, slot *model.Slot) error {
	st, release := r.session.acquire()
	defer release()

	st.nextSlotID++
	now := r.session.store.now()
	slot.ID = st.nextSlotID
	slot.CreatedAt = now
	slot.UpdatedAt = now
	st.slots[slot.ID] = slot.Clone()
	return nil
}

func (r *slotRepo) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	st, release := r.session.acquire()
	defer release()

	return st.slots[id].Clone(), nil
}

// GetByIDForUpdate is GetByID: transactions are already serialised.
func (r *slotRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.Slot, error) {
	return r.GetByID(ctx, id)
}

func (r *slotRepo) LockByIDs(ctx context.Context, ids ...int64) (map[int64]*model.Slot, error) {
	st, release := r.session.acquire()
	defer release()

	byID := make(map[int64]*model.Slot, len(ids))
	for _, id := range ids {
		if slot, ok := st.slots[id]; ok {
			byID[id] = slot.Clone()
		}
	}
	return byID, nil
}

func (r *slotRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Slot, error) {
	return r.list(func(s *model.Slot) bool {
		return s.OwnerID == ownerID
	}), nil
}

func (r *slotRepo) ListSwappable(ctx context.Context, excludeOwnerID int64) ([]*model.Slot, error) {
	return r.list(func(s *model.Slot) bool {
		return s.Status == model.SlotStatusSwappable && s.OwnerID != excludeOwnerID
	}), nil
}

func (r *slotRepo) list(match func(*model.Slot) bool) []*model.Slot {
	st, release := r.session.acquire()
	defer release()

	var slots []*model.Slot
	for _, slot := range st.slots {
		if match(slot) {
			slots = append(slots, slot.Clone())
		}
	}
	slices.SortFunc(slots, func(a, b *model.Slot) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return compareID(a.ID, b.ID)
	})
	return slots
}

func (r *slotRepo) Update(ctx context.Context, slot *model.Slot, expected model.SlotStatus) (bool, error) {
	st, release := r.session.acquire()
	defer release()

	cur, ok := st.slots[slot.ID]
	if !ok || cur.Status != expected {
		return false, nil
	}
	cur.Title = slot.Title
	cur.StartTime = slot.StartTime
	cur.EndTime = slot.EndTime
	cur.Status = slot.Status
	cur.UpdatedAt = r.session.store.now()
	slot.UpdatedAt = cur.UpdatedAt
	return true, nil
}

func (r *slotRepo) SetStatus(ctx context.Context, id int64, from, to model.SlotStatus) (bool, error) {
	st, release := r.session.acquire()
	defer release()

	cur, ok := st.slots[id]
	if !ok || cur.Status != from {
		return false, nil
	}
	cur.Status = to
	cur.UpdatedAt = r.session.store.now()
	return true, nil
}

func (r *slotRepo) Transfer(ctx context.Context, id, fromOwner, toOwner int64, from, to model.SlotStatus) (bool, error) {
	st, release := r.session.acquire()
	defer release()

	cur, ok := st.slots[id]
	if !ok || cur.OwnerID != fromOwner || cur.Status != from {
		return false, nil
	}
	cur.OwnerID = toOwner
	cur.Status = to
	cur.UpdatedAt = r.session.store.now()
	return true, nil
}

func (r *slotRepo) Delete(ctx context.Context, id int64) (bool, error) {
	st, release := r.session.acquire()
	defer release()

	cur, ok := st.slots[id]
	if !ok || cur.Status == model.SlotStatusSwapPending {
		return false, nil
	}
	delete(st.slots, id)
	return true, nil
}

func compareID(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
