package pgdb

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/marketplace-backend/internal/domain"
	"github.com/DRSN-tech/marketplace-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/marketplace-backend/internal/usecase"
	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/DRSN-tech/marketplace-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{
	"id", "name", "description", "price", "stock",
	"image_url", "category_id", "seller_id", "created_at", "updated_at", "is_active",
}

func newTestProduct(id int64) *domain.Product {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Product{
		ID:          id,
		Name:        "Чайник",
		Description: "Электрический чайник",
		Price:       59999,
		Stock:       5,
		CategoryID:  3,
		SellerID:    7,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsActive:    true,
	}
}

func productRow(p *domain.Product) *pgxmock.Rows {
	return pgxmock.NewRows(productCols).AddRow(
		p.ID, p.Name, p.Description, p.Price, p.Stock,
		p.ImageURL, p.CategoryID, p.SellerID, p.CreatedAt, p.UpdatedAt, p.IsActive,
	)
}

// txCtx открывает мок-транзакцию и кладёт её в контекст, как это делает usecase.
func txCtx(t *testing.T, mock pgxmock.PgxPoolIface) context.Context {
	t.Helper()

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	return context.WithValue(context.Background(), tr.TxKey, tx)
}

func TestProductRepo_List(t *testing.T) {
	t.Run("applies filters and pagination", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewProductRepo(mock, converter.NewProductConverter())
		product := newTestProduct(1)

		categoryID := int64(3)
		minPrice := int64(10000)

		mock.ExpectQuery(`SELECT .* FROM products WHERE is_active = true AND category_id = \$1 AND price >= \$2 ORDER BY id LIMIT \$3 OFFSET \$4`).
			WithArgs(categoryID, minPrice, 20, 40).
			WillReturnRows(productRow(product))

		got, err := repo.List(context.Background(), &usecase.ProductFilter{
			CategoryID: &categoryID,
			MinPrice:   &minPrice,
		}, 20, 40)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, *product, got[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice for page past the end", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewProductRepo(mock, converter.NewProductConverter())

		mock.ExpectQuery(`SELECT .* FROM products WHERE is_active = true ORDER BY id LIMIT \$1 OFFSET \$2`).
			WithArgs(20, 1000).
			WillReturnRows(pgxmock.NewRows(productCols))

		got, err := repo.List(context.Background(), &usecase.ProductFilter{}, 20, 1000)

		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepo_Count(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepo(mock, converter.NewProductConverter())

	inStock := true
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products WHERE is_active = true AND stock > 0`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	total, err := repo.Count(context.Background(), &usecase.ProductFilter{InStock: &inStock})

	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_GetActiveByID(t *testing.T) {
	t.Run("returns active product", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewProductRepo(mock, converter.NewProductConverter())
		product := newTestProduct(5)

		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1 AND is_active = true`).
			WithArgs(int64(5)).
			WillReturnRows(productRow(product))

		got, err := repo.GetActiveByID(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, product, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to ErrProductNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewProductRepo(mock, converter.NewProductConverter())

		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1 AND is_active = true`).
			WithArgs(int64(404)).
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.GetActiveByID(context.Background(), 404)

		assert.ErrorIs(t, err, e.ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepo_Create(t *testing.T) {
	t.Run("fails without transaction in context", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewProductRepo(mock, converter.NewProductConverter())

		_, err = repo.Create(context.Background(), newTestProduct(0))

		assert.ErrorIs(t, err, e.ErrTransactionNotFound)
	})

	t.Run("inserts within transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewProductRepo(mock, converter.NewProductConverter())
		product := newTestProduct(0)
		created := newTestProduct(11)

		ctx := txCtx(t, mock)

		mock.ExpectQuery(`INSERT INTO products`).
			WithArgs(
				product.Name, product.Description, product.Price, product.Stock, product.ImageURL,
				product.CategoryID, product.SellerID, product.CreatedAt, product.UpdatedAt, product.IsActive,
			).
			WillReturnRows(productRow(created))

		got, err := repo.Create(ctx, product)

		require.NoError(t, err)
		assert.Equal(t, int64(11), got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepo_Deactivate(t *testing.T) {
	t.Run("marks product inactive", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewProductRepo(mock, converter.NewProductConverter())
		ctx := txCtx(t, mock)

		mock.ExpectExec(`UPDATE products`).
			WithArgs(int64(9)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.Deactivate(ctx, 9))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps zero affected rows to ErrProductNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewProductRepo(mock, converter.NewProductConverter())
		ctx := txCtx(t, mock)

		mock.ExpectExec(`UPDATE products`).
			WithArgs(int64(404)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.Deactivate(ctx, 404), e.ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
