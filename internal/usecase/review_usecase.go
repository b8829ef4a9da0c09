package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/marketplace-backend/internal/domain"
	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/DRSN-tech/marketplace-backend/pkg/logger"
	"github.com/DRSN-tech/marketplace-backend/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// ReviewUseCase реализует бизнес-логику отзывов.
type ReviewUseCase struct {
	reviewRepo  ReviewRepository
	productRepo ProductRepository
	dbPool      transaction.Transactional
	logger      logger.Logger
}

func NewReviewUC(
	reviewRepo ReviewRepository,
	productRepo ProductRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		dbPool:      dbPool,
		logger:      logger,
	}
}

// ListReviews возвращает все активные отзывы.
func (r *ReviewUseCase) ListReviews(ctx context.Context) ([]domain.Review, error) {
	const op = "ReviewUseCase.ListReviews"

	reviews, err := r.reviewRepo.ListActive(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return reviews, nil
}

// ListProductReviews возвращает активные отзывы товара.
// Сам товар может быть деактивирован, его отзывы остаются читаемыми.
func (r *ReviewUseCase) ListProductReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	const op = "ReviewUseCase.ListProductReviews"

	if _, err := r.productRepo.GetByID(ctx, productID); err != nil {
		return nil, e.Wrap(op, err)
	}

	reviews, err := r.reviewRepo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return reviews, nil
}

// CreateReview создаёт отзыв покупателя.
// У пользователя может быть не больше одного активного отзыва: предварительная
// проверка даёт понятную ошибку, частичный уникальный индекс закрывает гонку
// двух конкурентных вставок.
func (r *ReviewUseCase) CreateReview(ctx context.Context, caller *domain.User, req *CreateReviewReq) (*domain.Review, error) {
	const op = "ReviewUseCase.CreateReview"

	if caller.Role != domain.RoleBuyer {
		return nil, e.Wrap(op, e.ErrNotEnoughPermissions)
	}

	if req.Grade < 1 || req.Grade > 5 {
		return nil, e.Wrap(op, e.ErrInvalidGrade)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, r.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, tr.TxKey, tx.Transaction())

	if _, err = r.productRepo.GetActiveByID(ctx, req.ProductID); err != nil {
		return nil, e.Wrap(op, err)
	}

	exists, err := r.reviewRepo.HasActiveByUser(ctx, caller.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if exists {
		err = e.ErrReviewExists
		return nil, e.Wrap(op, err)
	}

	review := domain.NewReview(caller.ID, req.ProductID, req.Comment, req.Grade)
	review.CommentDate = time.Now().UTC()

	review, err = r.reviewRepo.Create(ctx, review)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	return review, nil
}

// DeleteReview физически удаляет активный отзыв его автора.
func (r *ReviewUseCase) DeleteReview(ctx context.Context, caller *domain.User, id int64) error {
	const op = "ReviewUseCase.DeleteReview"

	if caller.Role != domain.RoleBuyer {
		return e.Wrap(op, e.ErrNotEnoughPermissions)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, r.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, tr.TxKey, tx.Transaction())

	review, err := r.reviewRepo.GetActiveByID(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	if review.UserID != caller.ID {
		err = e.ErrNotEnoughPermissions
		return e.Wrap(op, err)
	}

	if err = r.reviewRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
