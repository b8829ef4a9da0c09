package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/marketplace-backend/internal/domain"
	"github.com/DRSN-tech/marketplace-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/marketplace-backend/internal/usecase"
	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/DRSN-tech/marketplace-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

const productColumns = "id, name, description, price, stock, image_url, category_id, seller_id, created_at, updated_at, is_active"

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool tr.Querier
	conv converter.ProductConverter
}

func NewProductRepo(pool tr.Querier, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// List возвращает страницу активных товаров по фильтрам, упорядоченную по id.
func (p *ProductRepo) List(ctx context.Context, filter *usecase.ProductFilter, limit, offset int) ([]domain.Product, error) {
	where, args := buildProductFilter(filter)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, productColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := tr.QuerierFromCtx(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return p.scanProducts(rows)
}

// Count считает активные товары по тем же фильтрам, что и List, без границ страницы.
func (p *ProductRepo) Count(ctx context.Context, filter *usecase.ProductFilter) (int64, error) {
	where, args := buildProductFilter(filter)

	query := fmt.Sprintf("SELECT COUNT(*) FROM products WHERE %s", where)

	var total int64
	if err := tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return total, nil
}

// GetByID возвращает товар по идентификатору независимо от is_active.
func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	return p.getOne(ctx, query, id)
}

// GetActiveByID возвращает товар по идентификатору, только если он активен.
func (p *ProductRepo) GetActiveByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1 AND is_active = true", productColumns)
	return p.getOne(ctx, query, id)
}

// ListByCategory возвращает все товары категории, включая деактивированные.
func (p *ProductRepo) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE category_id = $1
		ORDER BY id
	`, productColumns)

	rows, err := tr.QuerierFromCtx(ctx, p.pool).Query(ctx, query, categoryID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return p.scanProducts(rows)
}

// Create вставляет новый товар. Вызывается только внутри транзакции.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := p.conv.ToModel(product)
	query := fmt.Sprintf(`
		INSERT INTO products (name, description, price, stock, image_url, category_id, seller_id, created_at, updated_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`, productColumns)

	row := tx.QueryRow(ctx, query,
		model.Name, model.Description, model.Price, model.Stock, model.ImageURL,
		model.CategoryID, model.SellerID, model.CreatedAt, model.UpdatedAt, model.IsActive,
	)

	return p.scanProduct(row)
}

// Update полностью заменяет изменяемые поля товара.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := p.conv.ToModel(product)
	query := fmt.Sprintf(`
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, image_url = $6, category_id = $7, updated_at = $8
		WHERE id = $1
		RETURNING %s
	`, productColumns)

	row := tx.QueryRow(ctx, query,
		model.ID, model.Name, model.Description, model.Price, model.Stock,
		model.ImageURL, model.CategoryID, model.UpdatedAt,
	)

	return p.scanProduct(row)
}

// SetImageURL сохраняет ключ объекта изображения и обновляет updated_at.
func (p *ProductRepo) SetImageURL(ctx context.Context, id int64, imageURL string) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := fmt.Sprintf(`
		UPDATE products
		SET image_url = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, productColumns)

	return p.scanProduct(tx.QueryRow(ctx, query, id, imageURL))
}

// Deactivate помечает товар неактивным (soft delete).
func (p *ProductRepo) Deactivate(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET is_active = false, updated_at = NOW()
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

func (p *ProductRepo) getOne(ctx context.Context, query string, id int64) (*domain.Product, error) {
	row := tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query, id)

	product, err := p.scanProduct(row)
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (p *ProductRepo) scanProduct(row pgx.Row) (*domain.Product, error) {
	var model converter.ProductModel
	err := row.Scan(
		&model.ID, &model.Name, &model.Description, &model.Price, &model.Stock,
		&model.ImageURL, &model.CategoryID, &model.SellerID,
		&model.CreatedAt, &model.UpdatedAt, &model.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

func (p *ProductRepo) scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	models := make([]*converter.ProductModel, 0)
	for rows.Next() {
		var model converter.ProductModel
		err := rows.Scan(
			&model.ID, &model.Name, &model.Description, &model.Price, &model.Stock,
			&model.ImageURL, &model.CategoryID, &model.SellerID,
			&model.CreatedAt, &model.UpdatedAt, &model.IsActive,
		)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}
