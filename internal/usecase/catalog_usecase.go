package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/DRSN-tech/marketplace-backend/internal/domain"
	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/DRSN-tech/marketplace-backend/pkg/logger"
	"github.com/DRSN-tech/marketplace-backend/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogUseCase реализует бизнес-логику каталога товаров.
type CatalogUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	dbPool       transaction.Transactional
	imagesInfra  ImagesInfra
	cacheRepo    CacheRepository
	logger       logger.Logger
}

func NewCatalogUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	imagesInfra ImagesInfra,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		dbPool:       dbPool,
		imagesInfra:  imagesInfra,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// ListProducts возвращает страницу активных товаров с учётом фильтров.
// Total считается по фильтрам независимо от границ страницы; страница за пределами
// результата возвращает пустой срез с настоящим total.
func (c *CatalogUseCase) ListProducts(ctx context.Context, req *ListProductsReq) (*ListProductsRes, error) {
	const op = "CatalogUseCase.ListProducts"

	if err := validateListReq(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	total, err := c.productRepo.Count(ctx, &req.Filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	offset := (req.Page - 1) * req.PageSize
	items, err := c.productRepo.List(ctx, &req.Filter, req.PageSize, offset)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewListProductsRes(items, total, req.Page, req.PageSize), nil
}

// CreateProduct создаёт товар от имени продавца.
// Категория проверяется внутри той же транзакции, что и вставка,
// чтобы деактивация категории между проверкой и записью не прошла незамеченной.
func (c *CatalogUseCase) CreateProduct(ctx context.Context, caller *domain.User, req *CreateProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.CreateProduct"

	if caller.Role != domain.RoleSeller {
		return nil, e.Wrap(op, e.ErrNotEnoughPermissions)
	}

	if err := validateProductPayload(req.Name, req.Price, req.Stock); err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, tr.TxKey, tx.Transaction())

	if _, err = c.categoryRepo.GetActiveByID(ctx, req.CategoryID); err != nil {
		return nil, e.Wrap(op, err)
	}

	now := time.Now().UTC()
	product := domain.NewProduct(req.Name, req.Description, req.Price, req.Stock, req.ImageURL, req.CategoryID, caller.ID)
	product.CreatedAt = now
	product.UpdatedAt = now

	product, err = c.productRepo.Create(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = c.writeProductEvent(ctx, ProductCreated, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// GetProduct возвращает активный товар, повторно проверяя активность его категории.
// Попадание в кэш пропускает повторную проверку категории: запись живёт не дольше TTL
// и инвалидируется при любой мутации товара.
func (c *CatalogUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	if cached, err := c.cacheRepo.GetProduct(ctx, id); err != nil {
		c.logger.Warnf("product cache lookup failed: %v", e.Wrap(op, err))
	} else if cached != nil {
		return cached, nil
	}

	product, err := c.productRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err := c.categoryRepo.GetActiveByID(ctx, product.CategoryID); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := c.cacheRepo.SetProduct(bgCtx, product); err != nil {
			c.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// GetProductsByCategory возвращает все товары категории независимо от их собственного
// флага is_active; активной должна быть только сама категория.
func (c *CatalogUseCase) GetProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	const op = "CatalogUseCase.GetProductsByCategory"

	if _, err := c.categoryRepo.GetActiveByID(ctx, categoryID); err != nil {
		return nil, e.Wrap(op, err)
	}

	products, err := c.productRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// UpdateProduct полностью заменяет изменяемые поля товара.
// Товар ищется без учёта is_active: обновлять можно и деактивированную запись.
func (c *CatalogUseCase) UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.UpdateProduct"

	if err := validateProductPayload(req.Name, req.Price, req.Stock); err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, tr.TxKey, tx.Transaction())

	current, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err = c.categoryRepo.GetActiveByID(ctx, req.CategoryID); err != nil {
		return nil, e.Wrap(op, err)
	}

	replacement := domain.NewProduct(req.Name, req.Description, req.Price, req.Stock, req.ImageURL, req.CategoryID, current.SellerID)
	replacement.ID = current.ID
	replacement.CreatedAt = current.CreatedAt
	replacement.IsActive = current.IsActive
	replacement.UpdatedAt = time.Now().UTC()

	product, err := c.productRepo.Update(ctx, replacement)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = c.writeProductEvent(ctx, ProductUpdated, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateProductCache(ctx, id)

	return product, nil
}

// DeactivateProduct помечает товар неактивным, не удаляя строку.
func (c *CatalogUseCase) DeactivateProduct(ctx context.Context, id int64) error {
	const op = "CatalogUseCase.DeactivateProduct"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, tr.TxKey, tx.Transaction())

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err = c.productRepo.Deactivate(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err = c.writeProductEvent(ctx, ProductDeactivated, product); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	c.invalidateProductCache(ctx, id)

	return nil
}

// AttachProductImage загружает изображение товара в MinIO и сохраняет ключ объекта
// в image_url. При ошибке транзакции загруженный объект удаляется компенсирующей очисткой.
func (c *CatalogUseCase) AttachProductImage(ctx context.Context, caller *domain.User, req *AttachImageReq) (*domain.Product, error) {
	const op = "CatalogUseCase.AttachProductImage"

	if caller.Role != domain.RoleSeller {
		return nil, e.Wrap(op, e.ErrNotEnoughPermissions)
	}

	var (
		objectKey string
		uploaded  bool
	)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции и очистка загруженного изображения
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded {
				c.logger.Warnf(
					"Cleaning up orphaned image after transaction failure. product_id: %d, error: %v",
					req.ProductID,
					e.Wrap(op, err),
				)

				c.imagesInfra.CleanupImages([]string{objectKey})
			}
		}
	}()
	ctx = context.WithValue(ctx, tr.TxKey, tx.Transaction())

	current, err := c.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if current.SellerID != caller.ID {
		err = e.ErrNotEnoughPermissions
		return nil, e.Wrap(op, err)
	}

	objectKey, err = c.imagesInfra.UploadImage(ctx, &UploadImageReq{ProductID: req.ProductID, Image: req.Image})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	uploaded = true

	product, err := c.productRepo.SetImageURL(ctx, req.ProductID, objectKey)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = c.writeProductEvent(ctx, ProductUpdated, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateProductCache(ctx, req.ProductID)

	return product, nil
}

// writeProductEvent кладёт событие изменения товара в outbox в рамках текущей транзакции.
func (c *CatalogUseCase) writeProductEvent(ctx context.Context, eventType OutboxEventType, product *domain.Product) error {
	eventID := uuid.NewString()
	payload, err := json.Marshal(ProductEventPayload{
		EventID:    eventID,
		EventType:  string(eventType),
		ProductID:  product.ID,
		SellerID:   product.SellerID,
		CategoryID: product.CategoryID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	_, err = c.outboxRepo.Create(ctx, NewOutboxEvent(eventID, eventType, product.ID, payload))
	return err
}

// invalidateProductCache удаляет товар из кэша, логируя сбой вместо возврата ошибки.
func (c *CatalogUseCase) invalidateProductCache(ctx context.Context, id int64) {
	if err := c.cacheRepo.DeleteProduct(ctx, id); err != nil {
		c.logger.Warnf("Failed to invalidate product cache, id: %d: %v", id, err)
	}
}

// validateListReq проверяет параметры пагинации и согласованность ценового диапазона.
func validateListReq(req *ListProductsReq) error {
	const maxPageSize = 100

	if req.Page < 1 || req.PageSize < 1 || req.PageSize > maxPageSize {
		return e.ErrInvalidPagination
	}

	if req.Filter.MinPrice != nil && *req.Filter.MinPrice < 0 {
		return e.ErrInvalidPrice
	}
	if req.Filter.MaxPrice != nil && *req.Filter.MaxPrice < 0 {
		return e.ErrInvalidPrice
	}

	if req.Filter.MinPrice != nil && req.Filter.MaxPrice != nil && *req.Filter.MinPrice > *req.Filter.MaxPrice {
		return e.ErrInvalidPriceRange
	}

	return nil
}

// validateProductPayload проверяет корректность полей товара.
func validateProductPayload(name string, price int64, stock int32) error {
	if strings.TrimSpace(name) == "" {
		return e.ErrValidation
	}

	if price < 0 {
		return e.ErrInvalidPrice
	}

	if stock < 0 {
		return e.ErrValidation
	}

	return nil
}
