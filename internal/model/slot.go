package model

import (
	"fmt"
	"strings"
	"time"
)

// SlotTitleMaxLength ограничивает длину названия слота
const SlotTitleMaxLength = 200

// Slot интервал времени, принадлежащий ровно одному пользователю
type Slot struct {
	ID        int64      `json:"id"`
	OwnerID   int64      `json:"ownerId"`
	Title     string     `json:"title"`
	StartTime time.Time  `json:"startTime"`
	EndTime   time.Time  `json:"endTime"`
	Status    SlotStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// IsOwnedBy проверяет владельца слота
func (s *Slot) IsOwnedBy(userID int64) bool {
	return s.OwnerID == userID
}

// Clone возвращает независимую копию слота
func (s *Slot) Clone() *Slot {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// NormalizeTitle обрезает пробелы и проверяет длину названия
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len([]rune(title)) > SlotTitleMaxLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", ErrValidation, SlotTitleMaxLength)
	}
	return title, nil
}

// ValidateInterval проверяет что конец строго позже начала
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrValidation)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", ErrValidation)
	}
	return nil
}

// Field значение с флагом присутствия. Незаданное поле в патче не меняется.
type Field[T any] struct {
	Set   bool
	Value T
}

// Some возвращает заданное поле
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Or возвращает значение поля или fallback, если поле не задано
func (f Field[T]) Or(fallback T) T {
	if f.Set {
		return f.Value
	}
	return fallback
}

// SlotPatch описывает изменение слота владельцем
type SlotPatch struct {
	Title     Field[string]
	StartTime Field[time.Time]
	EndTime   Field[time.Time]
	Status    Field[SlotStatus]
}

// IsEmpty сообщает, что патч ничего не меняет
func (p SlotPatch) IsEmpty() bool {
	return !p.Title.Set && !p.StartTime.Set && !p.EndTime.Set && !p.Status.Set
}

// Apply проверяет патч против текущего состояния слота и возвращает новый слот.
// Исходный слот не изменяется. Границы интервала перепроверяются, если патч
// затрагивает начало или конец.
func (p SlotPatch) Apply(current *Slot) (*Slot, error) {
	if current.Status == SlotStatusSwapPending {
		return nil, fmt.Errorf("%w: slot %d", ErrSlotLocked, current.ID)
	}

	next := current.Clone()

	if p.Title.Set {
		title, err := NormalizeTitle(p.Title.Value)
		if err != nil {
			return nil, err
		}
		next.Title = title
	}

	if p.StartTime.Set || p.EndTime.Set {
		next.StartTime = p.StartTime.Or(current.StartTime)
		next.EndTime = p.EndTime.Or(current.EndTime)
		if err := ValidateInterval(next.StartTime, next.EndTime); err != nil {
			return nil, err
		}
	}

	if p.Status.Set {
		status, err := OwnerTransition(current.Status, p.Status.Value)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", current.ID, err)
		}
		next.Status = status
	}

	return next, nil
}
