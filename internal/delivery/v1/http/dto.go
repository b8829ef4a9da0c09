package http

import (
	"time"

	"github.com/DRSN-tech/marketplace-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest — тело запроса на создание или полную замену товара.
// Цена передаётся десятичной строкой ("599.99"), внутри хранится в копейках.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       string  `json:"price" validate:"required"`
	Stock       int32   `json:"stock" validate:"gte=0"`
	ImageURL    *string `json:"image_url,omitempty"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
}

// CreateReviewRequest — тело запроса на создание отзыва.
type CreateReviewRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Comment   *string `json:"comment,omitempty"`
	Grade     int32   `json:"grade" validate:"required,gte=1,lte=5"`
}

// ProductResponse — представление товара в API.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Stock       int32     `json:"stock"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CategoryID  int64     `json:"category_id"`
	SellerID    int64     `json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsActive    bool      `json:"is_active"`
}

// ListProductsResponse — страница товаров с общим количеством по фильтрам.
type ListProductsResponse struct {
	Items    []ProductResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ReviewResponse — представление отзыва в API.
type ReviewResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ProductID   int64     `json:"product_id"`
	Comment     *string   `json:"comment,omitempty"`
	CommentDate time.Time `json:"comment_date"`
	Grade       int32     `json:"grade"`
	IsActive    bool      `json:"is_active"`
}

// StatusResponse — ответ операций без содержательного тела.
type StatusResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       renderPrice(p.Price),
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		SellerID:    p.SellerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		IsActive:    p.IsActive,
	}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return items
}

func toReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		ProductID:   r.ProductID,
		Comment:     r.Comment,
		CommentDate: r.CommentDate,
		Grade:       r.Grade,
		IsActive:    r.IsActive,
	}
}

func toReviewResponses(reviews []domain.Review) []ReviewResponse {
	items := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, toReviewResponse(&reviews[i]))
	}
	return items
}

// renderPrice переводит копейки в десятичную строку ("59999" -> "599.99").
func renderPrice(cents int64) string {
	return decimal.New(cents, -2).String()
}
