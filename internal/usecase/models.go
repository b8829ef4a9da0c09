package usecase

import (
	"time"

	"github.com/DRSN-tech/marketplace-backend/internal/domain"
)

// CATALOG USECASE

// ProductFilter — опциональные предикаты выборки товаров.
// Заданный предикат добавляется к запросу через AND; nil-поле игнорируется.
type ProductFilter struct {
	CategoryID *int64
	MinPrice   *int64 // копейки
	MaxPrice   *int64 // копейки
	InStock    *bool
	SellerID   *int64
	CreatedAt  *time.Time // сравнивается только дата, без времени
	UpdatedAt  *time.Time
}

// ListProductsReq — запрос постраничного списка активных товаров.
type ListProductsReq struct {
	Page     int
	PageSize int
	Filter   ProductFilter
}

// ListProductsRes — страница товаров и общее количество с учётом фильтров.
type ListProductsRes struct {
	Items    []domain.Product
	Total    int64
	Page     int
	PageSize int
}

// CreateProductReq — запрос на создание товара.
// SellerID не принимается: продавцом всегда становится вызывающий.
type CreateProductReq struct {
	Name        string
	Description string
	Price       int64 // копейки
	Stock       int32
	ImageURL    *string
	CategoryID  int64
}

// UpdateProductReq — полная замена изменяемых полей товара, без частичного PATCH.
type UpdateProductReq struct {
	Name        string
	Description string
	Price       int64 // копейки
	Stock       int32
	ImageURL    *string
	CategoryID  int64
}

// ImageUpload представляет изображение, загруженное через multipart/form-data.
type ImageUpload struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// AttachImageReq — запрос на загрузку изображения товара.
type AttachImageReq struct {
	ProductID int64
	Image     ImageUpload
}

// REVIEW USECASE

// CreateReviewReq — запрос на создание отзыва.
type CreateReviewReq struct {
	ProductID int64
	Comment   *string
	Grade     int32
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductCreated     OutboxEventType = "product_created"
	ProductUpdated     OutboxEventType = "product_updated"
	ProductDeactivated OutboxEventType = "product_deactivated"
)

// OutboxEvent — запись transactional outbox, публикуемая в Kafka воркером.
type OutboxEvent struct {
	ID          int64
	EventID     string // uuid
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte // JSON-представление ProductEventPayload
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ProductEventPayload — схема JSON-сообщения о изменении товара.
type ProductEventPayload struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	ProductID  int64     `json:"product_id"`
	SellerID   int64     `json:"seller_id"`
	CategoryID int64     `json:"category_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	ProductID int64
	Payload   []byte
}

type UploadImageReq struct {
	ProductID int64
	Image     ImageUpload
}

// MAPPERS

func NewListProductsReq(page, pageSize int, filter ProductFilter) *ListProductsReq {
	return &ListProductsReq{
		Page:     page,
		PageSize: pageSize,
		Filter:   filter,
	}
}

func NewListProductsRes(items []domain.Product, total int64, page, pageSize int) *ListProductsRes {
	return &ListProductsRes{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, productID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		ProductID: productID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}
}

func NewWriteRawMessageReq(productID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		Payload:   payload,
	}
}

func NewImageUpload(data []byte, mimeType string, size int64, name string) *ImageUpload {
	return &ImageUpload{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewCreateReviewReq(productID int64, comment *string, grade int32) *CreateReviewReq {
	return &CreateReviewReq{
		ProductID: productID,
		Comment:   comment,
		Grade:     grade,
	}
}
