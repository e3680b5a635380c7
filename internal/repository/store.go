package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/slotswap/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore реализует Store поверх pgxpool
type PostgresStore struct {
	pool        *pgxpool.Pool
	db          base.DBTX
	inTx        bool
	lockTimeout time.Duration
}

// NewPostgresStore создаёт хранилище. lockTimeout ограничивает ожидание
// блокировок строк внутри транзакции (0 без ограничения).
func NewPostgresStore(pool *pgxpool.Pool, lockTimeout time.Duration) *PostgresStore {
	return &PostgresStore{
		pool:        pool,
		db:          pool,
		lockTimeout: lockTimeout,
	}
}

func (s *PostgresStore) Slots() SlotStore {
	return NewSlotRepository(s.db)
}

func (s *PostgresStore) Swaps() SwapStore {
	return NewSwapRequestRepository(s.db)
}

// InTx выполняет fn в транзакции READ COMMITTED
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	// Начинаем транзакцию
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return base.Classify(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	if s.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", s.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, timeout); err != nil {
			return fmt.Errorf("set lock timeout: %w", err)
		}
	}

	txStore := &PostgresStore{
		pool:        s.pool,
		db:          tx,
		inTx:        true,
		lockTimeout: s.lockTimeout,
	}

	if err := fn(txStore); err != nil {
		return base.Classify(err)
	}

	// Коммитим транзакцию
	if err := tx.Commit(ctx); err != nil {
		return base.Classify(fmt.Errorf("commit transaction: %w", err))
	}

	return nil
}

var (
	_ Store     = (*PostgresStore)(nil)
	_ SlotStore = (*SlotRepository)(nil)
	_ SwapStore = (*SwapRequestRepository)(nil)
)
