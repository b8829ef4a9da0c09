package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       int64     `db:"price"`
	Stock       int32     `db:"stock"`
	ImageURL    *string   `db:"image_url"`
	CategoryID  int64     `db:"category_id"`
	SellerID    int64     `db:"seller_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	IsActive    bool      `db:"is_active"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
}

// ReviewModel представляет запись таблицы reviews в PostgreSQL.
type ReviewModel struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	ProductID   int64     `db:"product_id"`
	Comment     *string   `db:"comment"`
	CommentDate time.Time `db:"comment_date"`
	Grade       int32     `db:"grade"`
	IsActive    bool      `db:"is_active"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ProductID   int64      `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
