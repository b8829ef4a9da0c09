package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/marketplace-backend/internal/usecase"
	"github.com/DRSN-tech/marketplace-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Beginner расширяет Querier возможностью открыть транзакцию.
// Ему удовлетворяют pgxpool.Pool и pgxmock.
type Beginner interface {
	tr.Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// postgresDuplicate сообщает, нарушено ли уникальное ограничение (SQLSTATE 23505).
func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// buildProductFilter собирает WHERE-условия списка товаров.
// Базовое условие is_active = true всегда первое; остальные добавляются
// по заполненным полям фильтра. Возвращает строку условий и позиционные аргументы.
func buildProductFilter(filter *usecase.ProductFilter) (string, []any) {
	clauses := []string{"is_active = true"}
	args := make([]any, 0, 7)

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.CategoryID != nil {
		add("category_id = $%d", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		add("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("price <= $%d", *filter.MaxPrice)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			clauses = append(clauses, "stock > 0")
		} else {
			clauses = append(clauses, "stock = 0")
		}
	}
	if filter.SellerID != nil {
		add("seller_id = $%d", *filter.SellerID)
	}
	if filter.CreatedAt != nil {
		// Сравнивается календарная дата, время отбрасывается
		add("created_at::date = $%d::date", *filter.CreatedAt)
	}
	if filter.UpdatedAt != nil {
		add("updated_at::date = $%d::date", *filter.UpdatedAt)
	}

	return strings.Join(clauses, " AND "), args
}
