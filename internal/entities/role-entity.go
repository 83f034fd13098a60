package entities

// Role — неизменяемый справочник ролей. Набор фиксирован:
// Менеджер, Оператор, Специалист, Заказчик.
type Role struct {
	ID   uint64 `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

const (
	RoleManager    = "Менеджер"
	RoleOperator   = "Оператор"
	RoleSpecialist = "Специалист"
	RoleClient     = "Заказчик"
)
