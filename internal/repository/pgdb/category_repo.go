package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/marketplace-backend/internal/domain"
	"github.com/DRSN-tech/marketplace-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/DRSN-tech/marketplace-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool tr.Querier
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool tr.Querier, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{
		pool: pool,
		conv: conv,
	}
}

// GetActiveByID возвращает категорию, только если она активна.
// Неактивная категория неотличима от несуществующей.
func (c *CategoryRepo) GetActiveByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
		SELECT id, name, is_active
		FROM categories
		WHERE id = $1 AND is_active = true
	`

	var model converter.CategoryModel
	err := tr.QuerierFromCtx(ctx, c.pool).QueryRow(ctx, query, id).
		Scan(&model.ID, &model.Name, &model.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}
