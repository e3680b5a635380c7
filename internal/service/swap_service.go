package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/Freeeeeet/slotswap/internal/repository"
	"go.uber.org/zap"
)

// SwapService координирует обмен слотами: предложение и ответ.
// Каждый шаг выполняется в одной транзакции хранилища; статус SWAP_PENDING
// у слота служит блокировкой на время переговоров.
type SwapService struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewSwapService(store repository.Store, logger *zap.Logger) *SwapService {
	return &SwapService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// ProposeSwap предлагает обменять свой слот offeredSlotID на чужой requestedSlotID
func (s *SwapService) ProposeSwap(ctx context.Context, proposerID, offeredSlotID, requestedSlotID int64) (*model.SwapRequest, error) {
	if offeredSlotID <= 0 || requestedSlotID <= 0 {
		return nil, fmt.Errorf("%w: both slot ids are required", model.ErrValidation)
	}

	var created *model.SwapRequest

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		slots, err := tx.Slots().LockByIDs(ctx, offeredSlotID, requestedSlotID)
		if err != nil {
			return err
		}

		offered, ok := slots[offeredSlotID]
		if !ok {
			return fmt.Errorf("%w: offered slot %d", model.ErrNotFound, offeredSlotID)
		}
		requested, ok := slots[requestedSlotID]
		if !ok {
			return fmt.Errorf("%w: requested slot %d", model.ErrNotFound, requestedSlotID)
		}

		if !offered.IsOwnedBy(proposerID) {
			return fmt.Errorf("%w: offered slot %d belongs to another user", model.ErrForbidden, offeredSlotID)
		}
		if requested.IsOwnedBy(proposerID) {
			return fmt.Errorf("%w: requested slot %d is already yours", model.ErrSelfSwap, requestedSlotID)
		}

		offeredNext, err := model.LockForSwap(offered.Status)
		if err != nil {
			return fmt.Errorf("offered slot %d: %w", offeredSlotID, err)
		}
		requestedNext, err := model.LockForSwap(requested.Status)
		if err != nil {
			return fmt.Errorf("requested slot %d: %w", requestedSlotID, err)
		}

		for _, slot := range []*model.Slot{offered, requested} {
			if err := setStatus(ctx, tx, slot, model.SlotStatusSwapPending); err != nil {
				return err
			}
		}
		offered.Status = offeredNext
		requested.Status = requestedNext

		req := &model.SwapRequest{
			OfferedSlotID:   offeredSlotID,
			RequestedSlotID: requestedSlotID,
			ProposerID:      proposerID,
			ResponderID:     requested.OwnerID,
			Status:          model.SwapStatusPending,
		}
		if err := tx.Swaps().Create(ctx, req); err != nil {
			return err
		}

		req.OfferedSlot = offered
		req.RequestedSlot = requested
		created = req
		return nil
	})
	if err != nil {
		logFailure(s.logger, "Failed to propose swap", err,
			zap.Int64("proposer_id", proposerID),
			zap.Int64("offered_slot_id", offeredSlotID),
			zap.Int64("requested_slot_id", requestedSlotID),
		)
		return nil, err
	}

	s.logger.Info("Swap proposed",
		zap.Int64("request_id", created.ID),
		zap.Int64("proposer_id", created.ProposerID),
		zap.Int64("responder_id", created.ResponderID),
		zap.Int64("offered_slot_id", offeredSlotID),
		zap.Int64("requested_slot_id", requestedSlotID),
	)

	return created, nil
}

// RespondSwap принимает или отклоняет заявку. Ответить может только получатель.
func (s *SwapService) RespondSwap(ctx context.Context, responderID, requestID int64, accept bool) (*model.SwapRequest, error) {
	var resolved *model.SwapRequest

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		req, err := tx.Swaps().GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return fmt.Errorf("%w: swap request %d", model.ErrNotFound, requestID)
		}
		if req.ResponderID != responderID {
			return fmt.Errorf("%w: swap request %d is addressed to another user", model.ErrForbidden, requestID)
		}

		next, err := model.Resolve(req.Status, accept)
		if err != nil {
			return fmt.Errorf("swap request %d: %w", requestID, err)
		}

		// Повторно читаем оба слота под блокировкой: они обязаны оставаться в SWAP_PENDING
		slots, err := tx.Slots().LockByIDs(ctx, req.OfferedSlotID, req.RequestedSlotID)
		if err != nil {
			return err
		}
		offered, requested := slots[req.OfferedSlotID], slots[req.RequestedSlotID]
		if offered == nil || requested == nil {
			return fmt.Errorf("%w: slots of swap request %d disappeared", model.ErrInconsistentState, requestID)
		}
		if offered.OwnerID != req.ProposerID || requested.OwnerID != req.ResponderID {
			return fmt.Errorf("%w: slot owners of swap request %d changed", model.ErrInconsistentState, requestID)
		}

		if accept {
			err = s.finalize(ctx, tx, req, offered, requested)
		} else {
			err = s.unlock(ctx, tx, offered, requested)
		}
		if err != nil {
			return err
		}

		now := s.now()
		ok, err := tx.Swaps().Resolve(ctx, req.ID, next, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: swap request %d changed while locked", model.ErrInconsistentState, requestID)
		}

		req.Status = next
		req.ResolvedAt = &now
		req.OfferedSlot = offered
		req.RequestedSlot = requested
		resolved = req
		return nil
	})
	if err != nil {
		logFailure(s.logger, "Failed to respond to swap", err,
			zap.Int64("request_id", requestID),
			zap.Int64("responder_id", responderID),
			zap.Bool("accept", accept),
		)
		return nil, err
	}

	s.logger.Info("Swap resolved",
		zap.Int64("request_id", resolved.ID),
		zap.Int64("proposer_id", resolved.ProposerID),
		zap.Int64("responder_id", resolved.ResponderID),
		zap.String("status", string(resolved.Status)),
	)

	return resolved, nil
}

// finalize меняет владельцев слотов местами и переводит оба в BUSY
func (s *SwapService) finalize(ctx context.Context, tx repository.Store, req *model.SwapRequest, offered, requested *model.Slot) error {
	for _, slot := range []*model.Slot{offered, requested} {
		if _, err := model.Finalize(slot.Status); err != nil {
			return fmt.Errorf("slot %d: %w", slot.ID, err)
		}
	}

	transfers := []struct {
		slot     *model.Slot
		newOwner int64
	}{
		{offered, req.ResponderID},
		{requested, req.ProposerID},
	}

	for _, t := range transfers {
		ok, err := tx.Slots().Transfer(ctx, t.slot.ID, t.slot.OwnerID, t.newOwner, model.SlotStatusSwapPending, model.SlotStatusBusy)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: slot %d changed while locked", model.ErrInconsistentState, t.slot.ID)
		}
		t.slot.OwnerID = t.newOwner
		t.slot.Status = model.SlotStatusBusy
	}

	return nil
}

// unlock возвращает оба слота на рынок, владельцы не меняются
func (s *SwapService) unlock(ctx context.Context, tx repository.Store, slots ...*model.Slot) error {
	for _, slot := range slots {
		next, err := model.Unlock(slot.Status)
		if err != nil {
			return fmt.Errorf("slot %d: %w", slot.ID, err)
		}
		if err := setStatus(ctx, tx, slot, next); err != nil {
			return err
		}
		slot.Status = next
	}
	return nil
}

// ListRequests получает входящие и исходящие заявки пользователя
func (s *SwapService) ListRequests(ctx context.Context, userID int64) (*model.SwapRequests, error) {
	incoming, err := s.store.Swaps().ListByResponder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}

	outgoing, err := s.store.Swaps().ListByProposer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list outgoing requests: %w", err)
	}

	return &model.SwapRequests{
		Incoming: nonNil(incoming),
		Outgoing: nonNil(outgoing),
	}, nil
}

// setStatus выполняет условное обновление статуса от текущего значения слота
func setStatus(ctx context.Context, tx repository.Store, slot *model.Slot, to model.SlotStatus) error {
	ok, err := tx.Slots().SetStatus(ctx, slot.ID, slot.Status, to)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: slot %d changed while locked", model.ErrInconsistentState, slot.ID)
	}
	return nil
}
