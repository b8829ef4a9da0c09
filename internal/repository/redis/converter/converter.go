package converter

import "github.com/DRSN-tech/marketplace-backend/internal/domain"

// ProductConverter преобразует товары между domain и JSON-моделью кэша.
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
}

type productConverter struct{}

func NewProductConverter() ProductConverter { return &productConverter{} }

func (productConverter) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	if entity == nil {
		return nil
	}
	return &ProductRedisModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price,
		Stock:       entity.Stock,
		ImageURL:    entity.ImageURL,
		CategoryID:  entity.CategoryID,
		SellerID:    entity.SellerID,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
		IsActive:    entity.IsActive,
	}
}

func (productConverter) ToEntity(model *ProductRedisModel) *domain.Product {
	if model == nil {
		return nil
	}
	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       model.Price,
		Stock:       model.Stock,
		ImageURL:    model.ImageURL,
		CategoryID:  model.CategoryID,
		SellerID:    model.SellerID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		IsActive:    model.IsActive,
	}
}
