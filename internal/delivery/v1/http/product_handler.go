package http

import (
	"net/http"

	"github.com/DRSN-tech/marketplace-backend/internal/usecase"
	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/DRSN-tech/marketplace-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	catalogUC usecase.CatalogUC
	validate  *validator.Validate
	logger    logger.Logger
}

func NewProductHandler(catalogUC usecase.CatalogUC, validate *validator.Validate, logger logger.Logger) *ProductHandler {
	return &ProductHandler{catalogUC: catalogUC, validate: validate, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает страницу активных товаров с фильтрами по категории, цене, наличию, продавцу и датам
//	@Tags			products
//	@Produce		json
//	@Param			page		query		int		false	"Номер страницы (с 1)"
//	@Param			page_size	query		int		false	"Размер страницы (1..100)"
//	@Param			category_id	query		int		false	"Фильтр по категории"
//	@Param			min_price	query		string	false	"Минимальная цена"
//	@Param			max_price	query		string	false	"Максимальная цена"
//	@Param			in_stock	query		bool	false	"Только в наличии / только без остатка"
//	@Param			seller_id	query		int		false	"Фильтр по продавцу"
//	@Param			created_at	query		string	false	"Дата создания (YYYY-MM-DD)"
//	@Param			updated_at	query		string	false	"Дата обновления (YYYY-MM-DD)"
//	@Success		200			{object}	ListProductsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req, err := parseListQuery(r)
	if err != nil {
		p.logger.Warnf("listProducts: bad query: %v", err)
		WriteError(w, err)
		return
	}

	res, err := p.catalogUC.ListProducts(r.Context(), req)
	if err != nil {
		p.logger.Warnf("listProducts: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, ListProductsResponse{
		Items:    toProductResponses(res.Items),
		Total:    res.Total,
		Page:     res.Page,
		PageSize: res.PageSize,
	})
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создает товар от имени продавца; категория должна быть активной
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateProductRequest	true	"Товар"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	caller, err := userFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	var dto CreateProductRequest
	if err := decodeJSON(r, &dto); err != nil {
		WriteError(w, err)
		return
	}

	req, err := p.toCreateReq(&dto)
	if err != nil {
		p.logger.Warnf("createProduct: %v", err)
		WriteError(w, err)
		return
	}

	product, err := p.catalogUC.CreateProduct(r.Context(), caller, req)
	if err != nil {
		p.logger.Warnf("createProduct: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// getProduct
//
//	@Summary		Товар по идентификатору
//	@Description	Возвращает активный товар, если активна и его категория
//	@Tags			products
//	@Produce		json
//	@Param			id	path		int	true	"ID товара"
//	@Success		200	{object}	ProductResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.catalogUC.GetProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("getProduct: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// getProductsByCategory
//
//	@Summary		Товары категории
//	@Description	Возвращает все товары активной категории, включая деактивированные
//	@Tags			products
//	@Produce		json
//	@Param			category_id	path		int	true	"ID категории"
//	@Success		200			{array}		ProductResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/products/category/{category_id} [get]
func (p *ProductHandler) getProductsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "category_id")
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := p.catalogUC.GetProductsByCategory(r.Context(), categoryID)
	if err != nil {
		p.logger.Warnf("getProductsByCategory: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

// updateProduct
//
//	@Summary		Полная замена товара
//	@Description	Заменяет изменяемые поля товара; продавец и дата создания сохраняются
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"ID товара"
//	@Param			request	body		CreateProductRequest	true	"Новые поля товара"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var dto CreateProductRequest
	if err := decodeJSON(r, &dto); err != nil {
		WriteError(w, err)
		return
	}

	req, err := p.toCreateReq(&dto)
	if err != nil {
		p.logger.Warnf("updateProduct: %v", err)
		WriteError(w, err)
		return
	}

	product, err := p.catalogUC.UpdateProduct(r.Context(), id, &usecase.UpdateProductReq{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		p.logger.Warnf("updateProduct: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteProduct
//
//	@Summary		Деактивация товара
//	@Description	Помечает товар неактивным, строка сохраняется
//	@Tags			products
//	@Produce		json
//	@Param			id	path		int	true	"ID товара"
//	@Success		200	{object}	StatusResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.catalogUC.DeactivateProduct(r.Context(), id); err != nil {
		p.logger.Warnf("deleteProduct: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "product marked as inactive",
	})
}

// attachProductImage
//
//	@Summary		Загрузка изображения товара
//	@Description	Принимает multipart/form-data с полем image и сохраняет изображение в хранилище
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		int		true	"ID товара"
//	@Param			image	formData	file	true	"Изображение"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/products/{id}/image [post]
func (p *ProductHandler) attachProductImage(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 8 << 20
		maxFileSize         = 15 << 20
	)

	caller, err := userFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("attachProductImage: %s: %v", r.Header.Get("Content-Type"), err)
		WriteError(w, e.ErrExpectedMultipart)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		WriteError(w, e.ErrNoImage)
		return
	}

	image, err := parseImage(files[0], maxFileSize)
	if err != nil {
		p.logger.Warnf("attachProductImage: %v", err)
		WriteError(w, err)
		return
	}

	product, err := p.catalogUC.AttachProductImage(r.Context(), caller, &usecase.AttachImageReq{
		ProductID: id,
		Image:     *image,
	})
	if err != nil {
		p.logger.Warnf("attachProductImage: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// toCreateReq валидирует DTO и переводит цену в копейки.
func (p *ProductHandler) toCreateReq(dto *CreateProductRequest) (*usecase.CreateProductReq, error) {
	if err := p.validate.Struct(dto); err != nil {
		return nil, e.Wrap(err.Error(), e.ErrValidation)
	}

	priceCents, err := parsePriceToCents(dto.Price)
	if err != nil {
		return nil, err
	}

	return &usecase.CreateProductReq{
		Name:        dto.Name,
		Description: dto.Description,
		Price:       priceCents,
		Stock:       dto.Stock,
		ImageURL:    dto.ImageURL,
		CategoryID:  dto.CategoryID,
	}, nil
}
