package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       int64 // Цена хранится в копейках
	Stock       int32
	ImageURL    *string
	CategoryID  int64
	SellerID    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	IsActive    bool
}

func NewProduct(name, description string, price int64, stock int32, imageURL *string, categoryID, sellerID int64) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		ImageURL:    imageURL,
		CategoryID:  categoryID,
		SellerID:    sellerID,
		IsActive:    true,
	}
}
