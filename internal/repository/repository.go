package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/slotswap/internal/model"
)

// SlotStore хранилище слотов.
// Точечные чтения возвращают (nil, nil), если слот не найден.
type SlotStore interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	// GetByIDForUpdate читает слот с блокировкой строки до конца транзакции
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Slot, error)
	// LockByIDs блокирует слоты в порядке возрастания id; отсутствующие не попадают в результат
	LockByIDs(ctx context.Context, ids ...int64) (map[int64]*model.Slot, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*model.Slot, error)
	ListSwappable(ctx context.Context, excludeOwnerID int64) ([]*model.Slot, error)

	// Update записывает title/start/end/status, если текущий статус равен expected
	Update(ctx context.Context, slot *model.Slot, expected model.SlotStatus) (bool, error)
	// SetStatus меняет статус, если текущий статус равен from
	SetStatus(ctx context.Context, id int64, from, to model.SlotStatus) (bool, error)
	// Transfer меняет владельца и статус, если текущие владелец и статус совпадают
	Transfer(ctx context.Context, id, fromOwner, toOwner int64, from, to model.SlotStatus) (bool, error)
	// Delete удаляет слот, если он не заблокирован заявкой
	Delete(ctx context.Context, id int64) (bool, error)
}

// SwapStore журнал заявок на обмен. Записи никогда не удаляются.
type SwapStore interface {
	Create(ctx context.Context, req *model.SwapRequest) error
	GetByID(ctx context.Context, id int64) (*model.SwapRequest, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.SwapRequest, error)
	// Resolve переводит заявку из PENDING в терминальный статус
	Resolve(ctx context.Context, id int64, to model.SwapStatus, at time.Time) (bool, error)
	// ListByProposer и ListByResponder возвращают заявки со снимками слотов, новые первыми
	ListByProposer(ctx context.Context, userID int64) ([]*model.SwapRequest, error)
	ListByResponder(ctx context.Context, userID int64) ([]*model.SwapRequest, error)
}

// Store единица работы над слотами и журналом.
type Store interface {
	Slots() SlotStore
	Swaps() SwapStore
	// InTx выполняет fn в одной атомарной транзакции. Ошибка fn откатывает
	// все изменения. Вложенный вызов использует внешнюю транзакцию.
	InTx(ctx context.Context, fn func(tx Store) error) error
}
