package domain

// Category описывает категорию товара
type Category struct {
	ID       int64
	Name     string
	IsActive bool
}

func NewCategory(name string) *Category {
	return &Category{
		Name:     name,
		IsActive: true,
	}
}
