package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DRSN-tech/marketplace-backend/internal/domain"
	"github.com/DRSN-tech/marketplace-backend/internal/usecase"
	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/DRSN-tech/marketplace-backend/pkg/tokens"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type fakeCatalogUC struct {
	ListProductsFn          func(ctx context.Context, req *usecase.ListProductsReq) (*usecase.ListProductsRes, error)
	CreateProductFn         func(ctx context.Context, caller *domain.User, req *usecase.CreateProductReq) (*domain.Product, error)
	GetProductFn            func(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByCategoryFn func(ctx context.Context, categoryID int64) ([]domain.Product, error)
	UpdateProductFn         func(ctx context.Context, id int64, req *usecase.UpdateProductReq) (*domain.Product, error)
	DeactivateProductFn     func(ctx context.Context, id int64) error
	AttachProductImageFn    func(ctx context.Context, caller *domain.User, req *usecase.AttachImageReq) (*domain.Product, error)
}

func (f *fakeCatalogUC) ListProducts(ctx context.Context, req *usecase.ListProductsReq) (*usecase.ListProductsRes, error) {
	return f.ListProductsFn(ctx, req)
}
func (f *fakeCatalogUC) CreateProduct(ctx context.Context, caller *domain.User, req *usecase.CreateProductReq) (*domain.Product, error) {
	return f.CreateProductFn(ctx, caller, req)
}
func (f *fakeCatalogUC) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return f.GetProductFn(ctx, id)
}
func (f *fakeCatalogUC) GetProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	return f.GetProductsByCategoryFn(ctx, categoryID)
}
func (f *fakeCatalogUC) UpdateProduct(ctx context.Context, id int64, req *usecase.UpdateProductReq) (*domain.Product, error) {
	return f.UpdateProductFn(ctx, id, req)
}
func (f *fakeCatalogUC) DeactivateProduct(ctx context.Context, id int64) error {
	return f.DeactivateProductFn(ctx, id)
}
func (f *fakeCatalogUC) AttachProductImage(ctx context.Context, caller *domain.User, req *usecase.AttachImageReq) (*domain.Product, error) {
	return f.AttachProductImageFn(ctx, caller, req)
}

type fakeReviewUC struct {
	ListReviewsFn        func(ctx context.Context) ([]domain.Review, error)
	ListProductReviewsFn func(ctx context.Context, productID int64) ([]domain.Review, error)
	CreateReviewFn       func(ctx context.Context, caller *domain.User, req *usecase.CreateReviewReq) (*domain.Review, error)
	DeleteReviewFn       func(ctx context.Context, caller *domain.User, reviewID int64) error
}

func (f *fakeReviewUC) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return f.ListReviewsFn(ctx)
}
func (f *fakeReviewUC) ListProductReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	return f.ListProductReviewsFn(ctx, productID)
}
func (f *fakeReviewUC) CreateReview(ctx context.Context, caller *domain.User, req *usecase.CreateReviewReq) (*domain.Review, error) {
	return f.CreateReviewFn(ctx, caller, req)
}
func (f *fakeReviewUC) DeleteReview(ctx context.Context, caller *domain.User, reviewID int64) error {
	return f.DeleteReviewFn(ctx, caller, reviewID)
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...any)            {}
func (noopLogger) Infof(format string, args ...any)             {}
func (noopLogger) Warnf(format string, args ...any)             {}
func (noopLogger) Errorf(err error, format string, args ...any) {}

func newTestRouter(t *testing.T, catalogUC usecase.CatalogUC, reviewUC usecase.ReviewUC) *chi.Mux {
	t.Helper()

	r := chi.NewRouter()
	auth := NewAuthMiddleware(testSecret, noopLogger{})
	NewRouter(r, auth, noopLogger{}).Init(catalogUC, reviewUC)
	return r
}

func bearerToken(t *testing.T, userID int64, role domain.Role) string {
	t.Helper()

	token, err := tokens.NewAccessToken(userID, string(role), testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func testProduct() *domain.Product {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Product{
		ID:          9,
		Name:        "Чайник",
		Description: "Электрический чайник",
		Price:       59999,
		Stock:       5,
		CategoryID:  3,
		SellerID:    7,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsActive:    true,
	}
}

func TestListProductsHandler(t *testing.T) {
	catalogUC := &fakeCatalogUC{
		ListProductsFn: func(ctx context.Context, req *usecase.ListProductsReq) (*usecase.ListProductsRes, error) {
			return usecase.NewListProductsRes([]domain.Product{*testProduct()}, 1, req.Page, req.PageSize), nil
		},
	}
	router := newTestRouter(t, catalogUC, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2&page_size=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var res ListProductsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 5, res.PageSize)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "599.99", res.Items[0].Price)
}

func TestCreateProductHandler(t *testing.T) {
	body := `{"name":"Чайник","description":"Электрический","price":"599.99","stock":5,"category_id":3}`

	t.Run("requires token", func(t *testing.T) {
		router := newTestRouter(t, &fakeCatalogUC{}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("passes caller and cents to usecase", func(t *testing.T) {
		var gotCaller *domain.User
		var gotReq *usecase.CreateProductReq
		catalogUC := &fakeCatalogUC{
			CreateProductFn: func(ctx context.Context, caller *domain.User, req *usecase.CreateProductReq) (*domain.Product, error) {
				gotCaller, gotReq = caller, req
				return testProduct(), nil
			},
		}
		router := newTestRouter(t, catalogUC, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(body))
		req.Header.Set("Authorization", bearerToken(t, 7, domain.RoleSeller))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(7), gotCaller.ID)
		assert.Equal(t, domain.RoleSeller, gotCaller.Role)
		assert.Equal(t, int64(59999), gotReq.Price)
	})

	t.Run("maps buyer to 403", func(t *testing.T) {
		catalogUC := &fakeCatalogUC{
			CreateProductFn: func(ctx context.Context, caller *domain.User, req *usecase.CreateProductReq) (*domain.Product, error) {
				return nil, e.ErrNotEnoughPermissions
			},
		}
		router := newTestRouter(t, catalogUC, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(body))
		req.Header.Set("Authorization", bearerToken(t, 2, domain.RoleBuyer))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rejects malformed price", func(t *testing.T) {
		router := newTestRouter(t, &fakeCatalogUC{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/products",
			bytes.NewBufferString(`{"name":"Чайник","price":"9.999","stock":1,"category_id":3}`))
		req.Header.Set("Authorization", bearerToken(t, 7, domain.RoleSeller))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var res ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, e.ErrPricePrecision.Error(), res.Message)
	})
}

func TestGetProductHandler(t *testing.T) {
	t.Run("renders product", func(t *testing.T) {
		catalogUC := &fakeCatalogUC{
			GetProductFn: func(ctx context.Context, id int64) (*domain.Product, error) {
				return testProduct(), nil
			},
		}
		router := newTestRouter(t, catalogUC, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/9", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var res ProductResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, int64(9), res.ID)
		assert.Equal(t, "599.99", res.Price)
	})

	t.Run("maps missing product to 404", func(t *testing.T) {
		catalogUC := &fakeCatalogUC{
			GetProductFn: func(ctx context.Context, id int64) (*domain.Product, error) {
				return nil, e.ErrProductNotFound
			},
		}
		router := newTestRouter(t, catalogUC, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/404", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("maps inactive category to 400", func(t *testing.T) {
		catalogUC := &fakeCatalogUC{
			GetProductFn: func(ctx context.Context, id int64) (*domain.Product, error) {
				return nil, e.ErrCategoryNotFound
			},
		}
		router := newTestRouter(t, catalogUC, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/9", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteProductHandler(t *testing.T) {
	catalogUC := &fakeCatalogUC{
		DeactivateProductFn: func(ctx context.Context, id int64) error { return nil },
	}
	router := newTestRouter(t, catalogUC, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/products/9", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var res StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "product marked as inactive", res.Message)
}

func TestCreateReviewHandler(t *testing.T) {
	body := `{"product_id":10,"comment":"Отличный товар","grade":5}`

	t.Run("maps duplicate review to 403", func(t *testing.T) {
		reviewUC := &fakeReviewUC{
			CreateReviewFn: func(ctx context.Context, caller *domain.User, req *usecase.CreateReviewReq) (*domain.Review, error) {
				return nil, e.ErrReviewExists
			},
		}
		router := newTestRouter(t, nil, reviewUC)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewBufferString(body))
		req.Header.Set("Authorization", bearerToken(t, 2, domain.RoleBuyer))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)

		var res ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "already have review", res.Message)
	})

	t.Run("rejects grade outside range before usecase", func(t *testing.T) {
		router := newTestRouter(t, nil, &fakeReviewUC{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews",
			bytes.NewBufferString(`{"product_id":10,"grade":6}`))
		req.Header.Set("Authorization", bearerToken(t, 2, domain.RoleBuyer))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns created review", func(t *testing.T) {
		reviewUC := &fakeReviewUC{
			CreateReviewFn: func(ctx context.Context, caller *domain.User, req *usecase.CreateReviewReq) (*domain.Review, error) {
				return &domain.Review{ID: 21, UserID: caller.ID, ProductID: req.ProductID, Comment: req.Comment, Grade: req.Grade, IsActive: true}, nil
			},
		}
		router := newTestRouter(t, nil, reviewUC)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewBufferString(body))
		req.Header.Set("Authorization", bearerToken(t, 2, domain.RoleBuyer))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var res ReviewResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, int64(21), res.ID)
		assert.Equal(t, int64(2), res.UserID)
	})
}

func TestDeleteReviewHandler(t *testing.T) {
	t.Run("requires token", func(t *testing.T) {
		router := newTestRouter(t, nil, &fakeReviewUC{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/21", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("returns deletion message", func(t *testing.T) {
		reviewUC := &fakeReviewUC{
			DeleteReviewFn: func(ctx context.Context, caller *domain.User, reviewID int64) error { return nil },
		}
		router := newTestRouter(t, nil, reviewUC)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/21", nil)
		req.Header.Set("Authorization", bearerToken(t, 2, domain.RoleBuyer))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var res StatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "review 21 deleted", res.Message)
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("rejects malformed header", func(t *testing.T) {
		router := newTestRouter(t, nil, &fakeReviewUC{})

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/21", nil)
		req.Header.Set("Authorization", "Token abc")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		router := newTestRouter(t, nil, &fakeReviewUC{})

		token, err := tokens.NewAccessToken(2, string(domain.RoleBuyer), []byte("other-secret"), time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/21", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
