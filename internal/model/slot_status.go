package model

import "fmt"

type SlotStatus string

const (
	SlotStatusBusy        SlotStatus = "BUSY"         // не предлагается к обмену
	SlotStatusSwappable   SlotStatus = "SWAPPABLE"    // выставлен на обмен
	SlotStatusSwapPending SlotStatus = "SWAP_PENDING" // заблокирован активной заявкой
)

// Valid проверяет что статус входит в домен
func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusBusy, SlotStatusSwappable, SlotStatusSwapPending:
		return true
	}
	return false
}

// ParseSlotStatus разбирает статус из внешнего ввода
func ParseSlotStatus(raw string) (SlotStatus, error) {
	s := SlotStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown slot status %q", ErrValidation, raw)
	}
	return s, nil
}

// OwnerTransition проверяет переключение доступности владельцем.
// Владелец может выбирать только BUSY или SWAPPABLE и только пока слот
// не заблокирован заявкой.
func OwnerTransition(from, to SlotStatus) (SlotStatus, error) {
	if to != SlotStatusBusy && to != SlotStatusSwappable {
		return "", fmt.Errorf("%w: owner may set only %s or %s, got %q",
			ErrValidation, SlotStatusBusy, SlotStatusSwappable, to)
	}
	if from == SlotStatusSwapPending {
		return "", ErrSlotLocked
	}
	return to, nil
}

// LockForSwap блокирует слот под новую заявку: SWAPPABLE → SWAP_PENDING
func LockForSwap(from SlotStatus) (SlotStatus, error) {
	if from != SlotStatusSwappable {
		return "", fmt.Errorf("%w: status is %s", ErrSlotNotSwappable, from)
	}
	return SlotStatusSwapPending, nil
}

// Unlock возвращает слот на рынок после отклонения: SWAP_PENDING → SWAPPABLE
func Unlock(from SlotStatus) (SlotStatus, error) {
	if from != SlotStatusSwapPending {
		return "", fmt.Errorf("%w: expected %s to unlock, got %s", ErrInconsistentState, SlotStatusSwapPending, from)
	}
	return SlotStatusSwappable, nil
}

// Finalize завершает обмен: SWAP_PENDING → BUSY (владелец меняется отдельно)
func Finalize(from SlotStatus) (SlotStatus, error) {
	if from != SlotStatusSwapPending {
		return "", fmt.Errorf("%w: expected %s to finalize, got %s", ErrInconsistentState, SlotStatusSwapPending, from)
	}
	return SlotStatusBusy, nil
}
