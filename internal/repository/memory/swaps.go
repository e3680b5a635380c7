package memory

import (
	"context"
	"slices"
	"time"

	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/Freeeeeet/slotswap/internal/repository"
)

type swapRepo struct {
	session *session
}

var _ repository.SwapStore = (*swapRepo)(nil)

func (r *swapRepo) Create(ctx context.Context, req *model.SwapRequest) error {
	st, release := r.session.acquire()
	defer release()

	st.nextSwapID++
	req.ID = st.nextSwapID
	req.CreatedAt = r.session.store.now()

	stored := req.Clone()
	stored.OfferedSlot = nil
	stored.RequestedSlot = nil
	st.swaps[req.ID] = stored
	return nil
}

func (r *swapRepo) GetByID(ctx context.Context, id int64) (*model.SwapRequest, error) {
	st, release := r.session.acquire()
	defer release()

	return st.swaps[id].Clone(), nil
}

func (r *swapRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.SwapRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *swapRepo) Resolve(ctx context.Context, id int64, to model.SwapStatus, at time.Time) (bool, error) {
	st, release := r.session.acquire()
	defer release()

	cur, ok := st.swaps[id]
	if !ok || cur.Status != model.SwapStatusPending {
		return false, nil
	}
	cur.Status = to
	cur.ResolvedAt = &at
	return true, nil
}

func (r *swapRepo) ListByProposer(ctx context.Context, userID int64) ([]*model.SwapRequest, error) {
	return r.list(func(req *model.SwapRequest) bool {
		return req.ProposerID == userID
	}), nil
}

func (r *swapRepo) ListByResponder(ctx context.Context, userID int64) ([]*model.SwapRequest, error) {
	return r.list(func(req *model.SwapRequest) bool {
		return req.ResponderID == userID
	}), nil
}

func (r *swapRepo) list(match func(*model.SwapRequest) bool) []*model.SwapRequest {
	st, release := r.session.acquire()
	defer release()

	var requests []*model.SwapRequest
	for _, req := range st.swaps {
		if !match(req) {
			continue
		}
		c := req.Clone()
		c.OfferedSlot = st.slots[req.OfferedSlotID].Clone()
		c.RequestedSlot = st.slots[req.RequestedSlotID].Clone()
		requests = append(requests, c)
	}
	slices.SortFunc(requests, func(a, b *model.SwapRequest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareID(b.ID, a.ID)
	})
	return requests
}
