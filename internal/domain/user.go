package domain

// Role — классификация пользователя, определяющая доступные операции.
type Role string

const (
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// User описывает аутентифицированного пользователя запроса.
// Пользователи управляются внешним сервисом; здесь нужны только идентификатор и роль.
type User struct {
	ID   int64
	Role Role
}

func NewUser(id int64, role Role) *User {
	return &User{
		ID:   id,
		Role: role,
	}
}
