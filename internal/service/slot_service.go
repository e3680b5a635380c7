package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/Freeeeeet/slotswap/internal/repository"
	"go.uber.org/zap"
)

type SlotService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewSlotService(store repository.Store, logger *zap.Logger) *SlotService {
	return &SlotService{
		store:  store,
		logger: logger,
	}
}

// CreateSlotParams параметры создания слота. Пустой Status означает BUSY.
type CreateSlotParams struct {
	OwnerID   int64
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Status    model.SlotStatus
}

// CreateSlot создаёт слот владельца
func (s *SlotService) CreateSlot(ctx context.Context, params CreateSlotParams) (*model.Slot, error) {
	title, err := model.NormalizeTitle(params.Title)
	if err != nil {
		return nil, err
	}

	if err := model.ValidateInterval(params.StartTime, params.EndTime); err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = model.SlotStatusBusy
	}
	if status != model.SlotStatusBusy && status != model.SlotStatusSwappable {
		return nil, fmt.Errorf("%w: initial status must be %s or %s",
			model.ErrValidation, model.SlotStatusBusy, model.SlotStatusSwappable)
	}

	slot := &model.Slot{
		OwnerID:   params.OwnerID,
		Title:     title,
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
		Status:    status,
	}

	if err := s.store.Slots().Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.logger.Info("Slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("owner_id", slot.OwnerID),
		zap.String("status", string(slot.Status)),
	)

	return slot, nil
}

// UpdateSlot применяет патч владельца. Незаданные поля не меняются.
func (s *SlotService) UpdateSlot(ctx context.Context, ownerID, slotID int64, patch model.SlotPatch) (*model.Slot, error) {
	var updated *model.Slot

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		slot, err := lockOwnedSlot(ctx, tx, ownerID, slotID)
		if err != nil {
			return err
		}

		next, err := patch.Apply(slot)
		if err != nil {
			return err
		}

		if patch.IsEmpty() {
			updated = next
			return nil
		}

		ok, err := tx.Slots().Update(ctx, next, slot.Status)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: slot %d changed while locked", model.ErrInconsistentState, slotID)
		}

		updated = next
		return nil
	})
	if err != nil {
		s.logFailure("Failed to update slot", err, zap.Int64("slot_id", slotID), zap.Int64("owner_id", ownerID))
		return nil, err
	}

	s.logger.Info("Slot updated",
		zap.Int64("slot_id", updated.ID),
		zap.Int64("owner_id", ownerID),
		zap.String("status", string(updated.Status)),
	)

	return updated, nil
}

// SetSlotAvailability переключает слот между BUSY и SWAPPABLE
func (s *SlotService) SetSlotAvailability(ctx context.Context, ownerID, slotID int64, desired model.SlotStatus) (*model.Slot, error) {
	if desired != model.SlotStatusBusy && desired != model.SlotStatusSwappable {
		return nil, fmt.Errorf("%w: availability must be %s or %s",
			model.ErrValidation, model.SlotStatusBusy, model.SlotStatusSwappable)
	}

	return s.UpdateSlot(ctx, ownerID, slotID, model.SlotPatch{Status: model.Some(desired)})
}

// DeleteSlot удаляет слот, если он не участвует в активной заявке
func (s *SlotService) DeleteSlot(ctx context.Context, ownerID, slotID int64) error {
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		slot, err := lockOwnedSlot(ctx, tx, ownerID, slotID)
		if err != nil {
			return err
		}

		if slot.Status == model.SlotStatusSwapPending {
			return fmt.Errorf("%w: slot %d", model.ErrSlotLocked, slotID)
		}

		ok, err := tx.Slots().Delete(ctx, slotID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: slot %d changed while locked", model.ErrInconsistentState, slotID)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to delete slot", err, zap.Int64("slot_id", slotID), zap.Int64("owner_id", ownerID))
		return err
	}

	s.logger.Info("Slot deleted",
		zap.Int64("slot_id", slotID),
		zap.Int64("owner_id", ownerID),
	)

	return nil
}

// GetSlot возвращает слот владельца
func (s *SlotService) GetSlot(ctx context.Context, ownerID, slotID int64) (*model.Slot, error) {
	slot, err := s.store.Slots().GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("%w: slot %d", model.ErrNotFound, slotID)
	}
	if !slot.IsOwnedBy(ownerID) {
		return nil, fmt.Errorf("%w: slot %d belongs to another user", model.ErrForbidden, slotID)
	}
	return slot, nil
}

// ListMySlots получает все слоты пользователя
func (s *SlotService) ListMySlots(ctx context.Context, ownerID int64) ([]*model.Slot, error) {
	slots, err := s.store.Slots().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return nonNil(slots), nil
}

// ListMarketplace получает чужие слоты, выставленные на обмен
func (s *SlotService) ListMarketplace(ctx context.Context, callerID int64) ([]*model.Slot, error) {
	slots, err := s.store.Slots().ListSwappable(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list marketplace: %w", err)
	}
	return nonNil(slots), nil
}

// lockOwnedSlot читает слот с блокировкой и проверяет владельца
func lockOwnedSlot(ctx context.Context, tx repository.Store, ownerID, slotID int64) (*model.Slot, error) {
	slot, err := tx.Slots().GetByIDForUpdate(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, fmt.Errorf("%w: slot %d", model.ErrNotFound, slotID)
	}
	if !slot.IsOwnedBy(ownerID) {
		return nil, fmt.Errorf("%w: slot %d belongs to another user", model.ErrForbidden, slotID)
	}
	return slot, nil
}

func (s *SlotService) logFailure(msg string, err error, fields ...zap.Field) {
	logFailure(s.logger, msg, err, fields...)
}

// logFailure пишет нарушения инвариантов как ошибки, отказы по предусловиям в debug
func logFailure(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	switch {
	case errors.Is(err, model.ErrInconsistentState):
		logger.Error(msg, fields...)
	case errors.Is(err, model.ErrConflict):
		logger.Warn(msg, fields...)
	case isDomainError(err):
		logger.Debug(msg, fields...)
	default:
		logger.Error(msg, fields...)
	}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		model.ErrValidation,
		model.ErrNotFound,
		model.ErrForbidden,
		model.ErrSelfSwap,
		model.ErrSlotNotSwappable,
		model.ErrSlotLocked,
		model.ErrAlreadyResolved,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
