package usecase

import (
	"context"

	"github.com/DRSN-tech/marketplace-backend/internal/domain"
)

type CatalogUC interface {
	ListProducts(ctx context.Context, req *ListProductsReq) (*ListProductsRes, error)
	CreateProduct(ctx context.Context, caller *domain.User, req *CreateProductReq) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) (*domain.Product, error)
	DeactivateProduct(ctx context.Context, id int64) error
	AttachProductImage(ctx context.Context, caller *domain.User, req *AttachImageReq) (*domain.Product, error)
}

type ReviewUC interface {
	ListReviews(ctx context.Context) ([]domain.Review, error)
	ListProductReviews(ctx context.Context, productID int64) ([]domain.Review, error)
	CreateReview(ctx context.Context, caller *domain.User, req *CreateReviewReq) (*domain.Review, error)
	DeleteReview(ctx context.Context, caller *domain.User, reviewID int64) error
}
