package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/Freeeeeet/slotswap/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const slotColumns = `id, owner_id, title, start_time, end_time, status, created_at, updated_at`

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(db base.DBTX) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(db)}
}

func scanSlot(row pgx.Row) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.OwnerID,
		&slot.Title,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Status,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func collectSlots(rows pgx.Rows) ([]*model.Slot, error) {
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}
	return slots, nil
}

// Create создаёт новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO slots (owner_id, title, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.OwnerID,
		slot.Title,
		slot.StartTime,
		slot.EndTime,
		slot.Status,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	return r.get(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = $1`, id)
}

// GetByIDForUpdate получает слот по ID и блокирует строку
func (r *SlotRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Slot, error) {
	return r.get(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = $1 FOR UPDATE`, id)
}

func (r *SlotRepository) get(ctx context.Context, query string, id int64) (*model.Slot, error) {
	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}
	return slot, nil
}

// LockByIDs блокирует слоты в порядке возрастания id
func (r *SlotRepository) LockByIDs(ctx context.Context, ids ...int64) (map[int64]*model.Slot, error) {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := r.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock slots: %w", err)
	}

	slots, err := collectSlots(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.Slot, len(slots))
	for _, slot := range slots {
		byID[slot.ID] = slot
	}
	return byID, nil
}

// ListByOwner получает все слоты пользователя
func (r *SlotRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE owner_id = $1
		ORDER BY start_time, id
	`

	rows, err := r.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get slots by owner: %w", err)
	}
	return collectSlots(rows)
}

// ListSwappable получает слоты, выставленные на обмен другими пользователями
func (r *SlotRepository) ListSwappable(ctx context.Context, excludeOwnerID int64) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE status = $1
		  AND owner_id <> $2
		ORDER BY start_time, id
	`

	rows, err := r.Query(ctx, query, model.SlotStatusSwappable, excludeOwnerID)
	if err != nil {
		return nil, fmt.Errorf("get swappable slots: %w", err)
	}
	return collectSlots(rows)
}

// Update обновляет изменяемые владельцем поля слота
func (r *SlotRepository) Update(ctx context.Context, slot *model.Slot, expected model.SlotStatus) (bool, error) {
	query := `
		UPDATE slots
		SET title = $1, start_time = $2, end_time = $3, status = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.Title,
		slot.StartTime,
		slot.EndTime,
		slot.Status,
		slot.ID,
		expected,
	).Scan(&slot.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("update slot: %w", err)
	}

	return true, nil
}

// SetStatus обновляет статус слота при совпадении текущего статуса
func (r *SlotRepository) SetStatus(ctx context.Context, id int64, from, to model.SlotStatus) (bool, error) {
	query := `
		UPDATE slots
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	affected, err := r.ExecAffected(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("update slot status: %w", err)
	}

	return affected == 1, nil
}

// Transfer передаёт слот другому владельцу
func (r *SlotRepository) Transfer(ctx context.Context, id, fromOwner, toOwner int64, from, to model.SlotStatus) (bool, error) {
	query := `
		UPDATE slots
		SET owner_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND owner_id = $4 AND status = $5
	`

	affected, err := r.ExecAffected(ctx, query, toOwner, to, id, fromOwner, from)
	if err != nil {
		return false, fmt.Errorf("transfer slot: %w", err)
	}

	return affected == 1, nil
}

// Delete удаляет слот, если он не участвует в активной заявке
func (r *SlotRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM slots WHERE id = $1 AND status <> $2`

	affected, err := r.ExecAffected(ctx, query, id, model.SlotStatusSwapPending)
	if err != nil {
		return false, fmt.Errorf("delete slot: %w", err)
	}

	return affected == 1, nil
}
