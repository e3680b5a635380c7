package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/Freeeeeet/slotswap/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const swapColumns = `id, offered_slot_id, requested_slot_id, proposer_id, responder_id, status, created_at, resolved_at`

type SwapRequestRepository struct {
	*base.Repository
}

func NewSwapRequestRepository(db base.DBTX) *SwapRequestRepository {
	return &SwapRequestRepository{Repository: base.NewRepository(db)}
}

// Create создаёт новую заявку на обмен
func (r *SwapRequestRepository) Create(ctx context.Context, req *model.SwapRequest) error {
	query := `
		INSERT INTO swap_requests (offered_slot_id, requested_slot_id, proposer_id, responder_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		req.OfferedSlotID,
		req.RequestedSlotID,
		req.ProposerID,
		req.ResponderID,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt)

	if err != nil {
		return fmt.Errorf("create swap request: %w", err)
	}

	return nil
}

// GetByID получает заявку по ID
func (r *SwapRequestRepository) GetByID(ctx context.Context, id int64) (*model.SwapRequest, error) {
	return r.get(ctx, `SELECT `+swapColumns+` FROM swap_requests WHERE id = $1`, id)
}

// GetByIDForUpdate получает заявку по ID и блокирует строку
func (r *SwapRequestRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.SwapRequest, error) {
	return r.get(ctx, `SELECT `+swapColumns+` FROM swap_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *SwapRequestRepository) get(ctx context.Context, query string, id int64) (*model.SwapRequest, error) {
	var req model.SwapRequest
	err := r.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.OfferedSlotID,
		&req.RequestedSlotID,
		&req.ProposerID,
		&req.ResponderID,
		&req.Status,
		&req.CreatedAt,
		&req.ResolvedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get swap request by id: %w", err)
	}

	return &req, nil
}

// Resolve завершает ожидающую заявку
func (r *SwapRequestRepository) Resolve(ctx context.Context, id int64, to model.SwapStatus, at time.Time) (bool, error) {
	query := `
		UPDATE swap_requests
		SET status = $1, resolved_at = $2
		WHERE id = $3 AND status = $4
	`

	affected, err := r.ExecAffected(ctx, query, to, at, id, model.SwapStatusPending)
	if err != nil {
		return false, fmt.Errorf("resolve swap request: %w", err)
	}

	return affected == 1, nil
}

// ListByProposer получает исходящие заявки пользователя
func (r *SwapRequestRepository) ListByProposer(ctx context.Context, userID int64) ([]*model.SwapRequest, error) {
	return r.listWithSlots(ctx, "sr.proposer_id", userID)
}

// ListByResponder получает входящие заявки пользователя
func (r *SwapRequestRepository) ListByResponder(ctx context.Context, userID int64) ([]*model.SwapRequest, error) {
	return r.listWithSlots(ctx, "sr.responder_id", userID)
}

// nullableSlot собирает снимок слота из LEFT JOIN; слот мог быть удалён
type nullableSlot struct {
	ID        *int64
	OwnerID   *int64
	Title     *string
	StartTime *time.Time
	EndTime   *time.Time
	Status    *model.SlotStatus
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

func (n *nullableSlot) dest() []any {
	return []any{&n.ID, &n.OwnerID, &n.Title, &n.StartTime, &n.EndTime, &n.Status, &n.CreatedAt, &n.UpdatedAt}
}

func (n *nullableSlot) slot() *model.Slot {
	if n.ID == nil {
		return nil
	}
	return &model.Slot{
		ID:        *n.ID,
		OwnerID:   *n.OwnerID,
		Title:     *n.Title,
		StartTime: *n.StartTime,
		EndTime:   *n.EndTime,
		Status:    *n.Status,
		CreatedAt: *n.CreatedAt,
		UpdatedAt: *n.UpdatedAt,
	}
}

func (r *SwapRequestRepository) listWithSlots(ctx context.Context, column string, userID int64) ([]*model.SwapRequest, error) {
	query := `
		SELECT sr.id, sr.offered_slot_id, sr.requested_slot_id, sr.proposer_id, sr.responder_id,
		       sr.status, sr.created_at, sr.resolved_at,
		       o.id, o.owner_id, o.title, o.start_time, o.end_time, o.status, o.created_at, o.updated_at,
		       t.id, t.owner_id, t.title, t.start_time, t.end_time, t.status, t.created_at, t.updated_at
		FROM swap_requests sr
		LEFT JOIN slots o ON o.id = sr.offered_slot_id
		LEFT JOIN slots t ON t.id = sr.requested_slot_id
		WHERE ` + column + ` = $1
		ORDER BY sr.created_at DESC, sr.id DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	defer rows.Close()

	var requests []*model.SwapRequest
	for rows.Next() {
		req, err := scanSwapWithSlots(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swap request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap requests: %w", err)
	}

	return requests, nil
}

func scanSwapWithSlots(rows pgx.Rows) (*model.SwapRequest, error) {
	var (
		req       model.SwapRequest
		offered   nullableSlot
		requested nullableSlot
	)

	dest := []any{
		&req.ID,
		&req.OfferedSlotID,
		&req.RequestedSlotID,
		&req.ProposerID,
		&req.ResponderID,
		&req.Status,
		&req.CreatedAt,
		&req.ResolvedAt,
	}
	dest = append(dest, offered.dest()...)
	dest = append(dest, requested.dest()...)

	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	req.OfferedSlot = offered.slot()
	req.RequestedSlot = requested.slot()
	return &req, nil
}
