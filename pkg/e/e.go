package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// 400 Bad Request
	ErrValidation           = fmt.Errorf("validation failed")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidPriceRange    = fmt.Errorf("min_price cannot be greater than max_price")
	ErrInvalidPagination    = fmt.Errorf("invalid pagination parameters")
	ErrInvalidGrade         = fmt.Errorf("grade must be in range (0, 5]")
	ErrCategoryNotFound     = fmt.Errorf("category not found or inactive")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrNoImage              = fmt.Errorf("no image provided")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")

	// 401 Unauthorized
	ErrUnauthorized = fmt.Errorf("missing or invalid access token")

	// 403 Forbidden
	ErrNotEnoughPermissions = fmt.Errorf("not enough permissions")
	ErrReviewExists         = fmt.Errorf("already have review")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrReviewNotFound  = fmt.Errorf("review not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
