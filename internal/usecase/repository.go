package usecase

import (
	"context"

	"github.com/DRSN-tech/marketplace-backend/internal/domain"
)

type ProductRepository interface {
	List(ctx context.Context, filter *ProductFilter, limit, offset int) ([]domain.Product, error)
	Count(ctx context.Context, filter *ProductFilter) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetActiveByID(ctx context.Context, id int64) (*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	SetImageURL(ctx context.Context, id int64, imageURL string) (*domain.Product, error)
	Deactivate(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	GetActiveByID(ctx context.Context, id int64) (*domain.Category, error)
}

type ReviewRepository interface {
	ListActive(ctx context.Context) ([]domain.Review, error)
	ListActiveByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
	GetActiveByID(ctx context.Context, id int64) (*domain.Review, error)
	HasActiveByUser(ctx context.Context, userID int64) (bool, error)
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
