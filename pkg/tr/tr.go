package tr

import (
	"context"

	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type ctxKey string

// TxKey — ключ контекста, под которым usecase кладёт открытую транзакцию.
const TxKey ctxKey = "tx"

// Querier — минимальный интерфейс запросов, общий для pgxpool.Pool и pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста.
// Используется write-методами репозиториев: запись вне транзакции — ошибка.
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	txAny := ctx.Value(TxKey)
	tx, ok := txAny.(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}

// QuerierFromCtx возвращает транзакцию из контекста, если она открыта,
// иначе переданный fallback (обычно пул). Для read-методов репозиториев,
// которые должны видеть незакоммиченные изменения внутри write-сценария.
func QuerierFromCtx(ctx context.Context, fallback Querier) Querier {
	if tx, ok := ctx.Value(TxKey).(pgx.Tx); ok {
		return tx
	}
	return fallback
}
