package http

import (
	_ "github.com/DRSN-tech/marketplace-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/marketplace-backend/internal/usecase"
	"github.com/DRSN-tech/marketplace-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	auth   *AuthMiddleware
	logger logger.Logger
}

func NewRouter(router *chi.Mux, auth *AuthMiddleware, logger logger.Logger) *Router {
	return &Router{router: router, auth: auth, logger: logger}
}

func (r *Router) Init(catalogUC usecase.CatalogUC, reviewUC usecase.ReviewUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	validate := validator.New()

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerProductRoutes(v1, NewProductHandler(catalogUC, validate, r.logger), r.auth)
		registerReviewRoutes(v1, NewReviewHandler(reviewUC, validate, r.logger), r.auth)
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler, auth *AuthMiddleware) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Get("/{id}", h.getProduct)
		pr.Get("/category/{category_id}", h.getProductsByCategory)
		pr.Put("/{id}", h.updateProduct)
		pr.Delete("/{id}", h.deleteProduct)

		pr.Group(func(protected chi.Router) {
			protected.Use(auth.Handle)
			protected.Post("/", h.createProduct)
			protected.Post("/{id}/image", h.attachProductImage)
		})
	})
}

func registerReviewRoutes(router chi.Router, h *ReviewHandler, auth *AuthMiddleware) {
	router.Route("/reviews", func(rv chi.Router) {
		rv.Get("/", h.listReviews)
		rv.Get("/{product_id}", h.listProductReviews)

		rv.Group(func(protected chi.Router) {
			protected.Use(auth.Handle)
			protected.Post("/", h.createReview)
			protected.Delete("/{id}", h.deleteReview)
		})
	})
}
