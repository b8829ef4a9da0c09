package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/marketplace-backend/internal/usecase"
	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse отображает доменную ошибку в HTTP-статус и сообщение.
// Неопознанные ошибки не раскрываются клиенту и превращаются в 500.
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrValidation),
		errors.Is(err, e.ErrInvalidPrice),
		errors.Is(err, e.ErrPricePrecision),
		errors.Is(err, e.ErrInvalidPriceRange),
		errors.Is(err, e.ErrInvalidPagination),
		errors.Is(err, e.ErrInvalidGrade),
		errors.Is(err, e.ErrCategoryNotFound),
		errors.Is(err, e.ErrUnsupportedMediaType),
		errors.Is(err, e.ErrFileTooLarge),
		errors.Is(err, e.ErrNoImage),
		errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, unwrapMessage(err)
	case errors.Is(err, e.ErrUnauthorized):
		return http.StatusUnauthorized, e.ErrUnauthorized.Error()
	case errors.Is(err, e.ErrNotEnoughPermissions):
		return http.StatusForbidden, e.ErrNotEnoughPermissions.Error()
	case errors.Is(err, e.ErrReviewExists):
		return http.StatusForbidden, e.ErrReviewExists.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrReviewNotFound):
		return http.StatusNotFound, e.ErrReviewNotFound.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

// unwrapMessage достаёт текст исходной sentinel-ошибки без цепочки обёрток.
func unwrapMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON разбирает тело запроса, отклоняя неизвестные поля.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.ErrValidation)
	}
	return nil
}

// pathID извлекает целочисленный параметр пути chi.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(whereami.WhereAmI(), e.ErrValidation)
	}
	return id, nil
}

// parsePriceToCents переводит десятичную строку ("599.99", "600") в копейки.
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, e.ErrInvalidPrice
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	// Потолок в 1 миллиард рублей защищает от переполнения int64
	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// parseListQuery разбирает параметры пагинации и фильтров списка товаров.
func parseListQuery(r *http.Request) (*usecase.ListProductsReq, error) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
	)

	q := r.URL.Query()

	page, err := intQuery(q.Get("page"), defaultPage)
	if err != nil {
		return nil, e.ErrInvalidPagination
	}
	pageSize, err := intQuery(q.Get("page_size"), defaultPageSize)
	if err != nil {
		return nil, e.ErrInvalidPagination
	}

	var filter usecase.ProductFilter

	if filter.CategoryID, err = int64Query(q.Get("category_id")); err != nil {
		return nil, e.ErrValidation
	}
	if filter.SellerID, err = int64Query(q.Get("seller_id")); err != nil {
		return nil, e.ErrValidation
	}
	if filter.MinPrice, err = priceQuery(q.Get("min_price")); err != nil {
		return nil, err
	}
	if filter.MaxPrice, err = priceQuery(q.Get("max_price")); err != nil {
		return nil, err
	}
	if filter.InStock, err = boolQuery(q.Get("in_stock")); err != nil {
		return nil, e.ErrValidation
	}
	if filter.CreatedAt, err = dateQuery(q.Get("created_at")); err != nil {
		return nil, e.ErrValidation
	}
	if filter.UpdatedAt, err = dateQuery(q.Get("updated_at")); err != nil {
		return nil, e.ErrValidation
	}

	return usecase.NewListProductsReq(page, pageSize, filter), nil
}

func intQuery(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func int64Query(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func priceQuery(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	cents, err := parsePriceToCents(raw)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}

func boolQuery(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func dateQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

// parseImage читает одно изображение из multipart-формы.
func parseImage(fh *multipart.FileHeader, maxSize int64) (*usecase.ImageUpload, error) {
	if fh == nil {
		return nil, e.ErrNoImage
	}

	src, err := fh.Open()
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	if len(data) == 0 {
		return nil, e.ErrNoImage
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return usecase.NewImageUpload(data, mimeType, int64(len(data)), fh.Filename), nil
}
