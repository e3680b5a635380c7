package model

import "errors"

// Ошибки движка обмена слотами. Вызывающий код различает их через errors.Is,
// подробности добавляются обёрткой fmt.Errorf("%w: ...").
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrSelfSwap          = errors.New("self swap rejected")
	ErrSlotNotSwappable  = errors.New("slot not swappable")
	ErrSlotLocked        = errors.New("slot locked by pending swap")
	ErrAlreadyResolved   = errors.New("swap request already resolved")
	ErrInconsistentState = errors.New("inconsistent state")

	// ErrConflict is a transient store conflict (serialization failure,
	// deadlock, lock timeout). The engine never retries on its own.
	ErrConflict = errors.New("concurrent update conflict")
)
