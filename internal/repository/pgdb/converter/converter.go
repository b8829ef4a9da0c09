package converter

import (
	"github.com/DRSN-tech/marketplace-backend/internal/domain"
	"github.com/DRSN-tech/marketplace-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []*ProductModel) []domain.Product
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToEntity(model *CategoryModel) *domain.Category
}

// ReviewConverter преобразует сущности Review между domain и моделью PostgreSQL.
type ReviewConverter interface {
	ToModel(entity *domain.Review) *ReviewModel
	ToEntity(model *ReviewModel) *domain.Review
	ToArrEntity(models []*ReviewModel) []domain.Review
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type productConverter struct{}

func NewProductConverter() ProductConverter { return &productConverter{} }

func (productConverter) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}
	return &ProductModel{
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

func (productConverter) ToEntity(model *ProductModel) *domain.Product {
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

func (c productConverter) ToArrEntity(models []*ProductModel) []domain.Product {
	entities := make([]domain.Product, 0, len(models))
	for _, model := range models {
		entities = append(entities, *c.ToEntity(model))
	}
	return entities
}

type categoryConverter struct{}

func NewCategoryConverter() CategoryConverter { return &categoryConverter{} }

func (categoryConverter) ToEntity(model *CategoryModel) *domain.Category {
	if model == nil {
		return nil
	}
	return &domain.Category{
		ID:       model.ID,
		Name:     model.Name,
		IsActive: model.IsActive,
	}
}

type reviewConverter struct{}

func NewReviewConverter() ReviewConverter { return &reviewConverter{} }

func (reviewConverter) ToModel(entity *domain.Review) *ReviewModel {
	if entity == nil {
		return nil
	}
	return &ReviewModel{
		ID:          entity.ID,
		UserID:      entity.UserID,
		ProductID:   entity.ProductID,
		Comment:     entity.Comment,
		CommentDate: entity.CommentDate,
		Grade:       entity.Grade,
		IsActive:    entity.IsActive,
	}
}

func (reviewConverter) ToEntity(model *ReviewModel) *domain.Review {
	if model == nil {
		return nil
	}
	return &domain.Review{
		ID:          model.ID,
		UserID:      model.UserID,
		ProductID:   model.ProductID,
		Comment:     model.Comment,
		CommentDate: model.CommentDate,
		Grade:       model.Grade,
		IsActive:    model.IsActive,
	}
}

func (c reviewConverter) ToArrEntity(models []*ReviewModel) []domain.Review {
	entities := make([]domain.Review, 0, len(models))
	for _, model := range models {
		entities = append(entities, *c.ToEntity(model))
	}
	return entities
}

type outboxEventConverter struct{}

func NewOutboxEventConverter() OutboxEventConverter { return &outboxEventConverter{} }

func (outboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		ProductID:   entity.ProductID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (outboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		ProductID:   model.ProductID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c outboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	entities := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		entities = append(entities, c.ToEntity(model))
	}
	return entities
}
