package domain

import "time"

// Review описывает отзыв покупателя на товар
type Review struct {
	ID          int64
	UserID      int64
	ProductID   int64
	Comment     *string
	CommentDate time.Time
	Grade       int32 // Оценка в диапазоне (0, 5]
	IsActive    bool
}

func NewReview(userID, productID int64, comment *string, grade int32) *Review {
	return &Review{
		UserID:    userID,
		ProductID: productID,
		Comment:   comment,
		Grade:     grade,
		IsActive:  true,
	}
}
