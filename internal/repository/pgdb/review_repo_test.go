package pgdb

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/marketplace-backend/internal/domain"
	"github.com/DRSN-tech/marketplace-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewCols = []string{"id", "user_id", "product_id", "comment", "comment_date", "grade", "is_active"}

func newTestReview(id int64) *domain.Review {
	comment := "Отличный товар"
	return &domain.Review{
		ID:          id,
		UserID:      2,
		ProductID:   10,
		Comment:     &comment,
		CommentDate: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Grade:       5,
		IsActive:    true,
	}
}

func reviewRow(r *domain.Review) *pgxmock.Rows {
	return pgxmock.NewRows(reviewCols).AddRow(
		r.ID, r.UserID, r.ProductID, r.Comment, r.CommentDate, r.Grade, r.IsActive,
	)
}

func TestReviewRepo_HasActiveByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReviewRepo(mock, converter.NewReviewConverter())

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.HasActiveByUser(context.Background(), 2)

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepo_Create(t *testing.T) {
	t.Run("inserts review within transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewReviewRepo(mock, converter.NewReviewConverter())
		review := newTestReview(0)
		created := newTestReview(21)

		ctx := txCtx(t, mock)

		mock.ExpectQuery(`INSERT INTO reviews`).
			WithArgs(review.UserID, review.ProductID, review.Comment, review.CommentDate, review.Grade, review.IsActive).
			WillReturnRows(reviewRow(created))

		got, err := repo.Create(ctx, review)

		require.NoError(t, err)
		assert.Equal(t, int64(21), got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps unique violation to ErrReviewExists", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewReviewRepo(mock, converter.NewReviewConverter())
		review := newTestReview(0)

		ctx := txCtx(t, mock)

		mock.ExpectQuery(`INSERT INTO reviews`).
			WithArgs(review.UserID, review.ProductID, review.Comment, review.CommentDate, review.Grade, review.IsActive).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_reviews_active_user"})

		_, err = repo.Create(ctx, review)

		assert.ErrorIs(t, err, e.ErrReviewExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReviewRepo_GetActiveByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReviewRepo(mock, converter.NewReviewConverter())

	mock.ExpectQuery(`SELECT .* FROM reviews WHERE id = \$1 AND is_active = true`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetActiveByID(context.Background(), 404)

	assert.ErrorIs(t, err, e.ErrReviewNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepo_Delete(t *testing.T) {
	t.Run("deletes review", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewReviewRepo(mock, converter.NewReviewConverter())
		ctx := txCtx(t, mock)

		mock.ExpectExec(`DELETE FROM reviews WHERE id = \$1`).
			WithArgs(int64(21)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(ctx, 21))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps zero affected rows to ErrReviewNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewReviewRepo(mock, converter.NewReviewConverter())
		ctx := txCtx(t, mock)

		mock.ExpectExec(`DELETE FROM reviews WHERE id = \$1`).
			WithArgs(int64(404)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(ctx, 404), e.ErrReviewNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
