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

// ReviewRepo реализует репозиторий отзывов поверх PostgreSQL.
type ReviewRepo struct {
	pool tr.Querier
	conv converter.ReviewConverter
}

func NewReviewRepo(pool tr.Querier, conv converter.ReviewConverter) *ReviewRepo {
	return &ReviewRepo{
		pool: pool,
		conv: conv,
	}
}

// ListActive возвращает все активные отзывы, упорядоченные по id.
func (r *ReviewRepo) ListActive(ctx context.Context) ([]domain.Review, error) {
	query := `
		SELECT id, user_id, product_id, comment, comment_date, grade, is_active
		FROM reviews
		WHERE is_active = true
		ORDER BY id
	`

	rows, err := tr.QuerierFromCtx(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return r.scanReviews(rows)
}

// ListActiveByProduct возвращает активные отзывы товара, упорядоченные по id.
func (r *ReviewRepo) ListActiveByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	query := `
		SELECT id, user_id, product_id, comment, comment_date, grade, is_active
		FROM reviews
		WHERE product_id = $1 AND is_active = true
		ORDER BY id
	`

	rows, err := tr.QuerierFromCtx(ctx, r.pool).Query(ctx, query, productID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return r.scanReviews(rows)
}

// GetActiveByID возвращает активный отзыв по идентификатору.
func (r *ReviewRepo) GetActiveByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := `
		SELECT id, user_id, product_id, comment, comment_date, grade, is_active
		FROM reviews
		WHERE id = $1 AND is_active = true
	`

	var model converter.ReviewModel
	err := tr.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&model.ID, &model.UserID, &model.ProductID,
		&model.Comment, &model.CommentDate, &model.Grade, &model.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrReviewNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(&model), nil
}

// HasActiveByUser сообщает, есть ли у пользователя активный отзыв на любой товар.
func (r *ReviewRepo) HasActiveByUser(ctx context.Context, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE user_id = $1 AND is_active = true
		)
	`

	var exists bool
	if err := tr.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return exists, nil
}

// Create вставляет новый отзыв. Частичный уникальный индекс по user_id закрывает
// гонку двух конкурентных вставок: нарушение отображается в ErrReviewExists.
func (r *ReviewRepo) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := r.conv.ToModel(review)
	query := `
		INSERT INTO reviews (user_id, product_id, comment, comment_date, grade, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, product_id, comment, comment_date, grade, is_active
	`

	err = tx.QueryRow(ctx, query,
		model.UserID, model.ProductID, model.Comment, model.CommentDate, model.Grade, model.IsActive,
	).Scan(
		&model.ID, &model.UserID, &model.ProductID,
		&model.Comment, &model.CommentDate, &model.Grade, &model.IsActive,
	)
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrReviewExists)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(model), nil
}

// Delete физически удаляет отзыв.
func (r *ReviewRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrReviewNotFound)
	}

	return nil
}

func (r *ReviewRepo) scanReviews(rows pgx.Rows) ([]domain.Review, error) {
	models := make([]*converter.ReviewModel, 0)
	for rows.Next() {
		var model converter.ReviewModel
		err := rows.Scan(
			&model.ID, &model.UserID, &model.ProductID,
			&model.Comment, &model.CommentDate, &model.Grade, &model.IsActive,
		)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToArrEntity(models), nil
}
