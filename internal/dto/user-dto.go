package dto

// CreateUserDTO: пользователей создаёт только Менеджер,
// самостоятельной регистрации нет.
type CreateUserDTO struct {
	Fio      string `json:"fio" validate:"required,min=3"`
	Phone    string `json:"phone" validate:"required,phone_number"`
	Login    string `json:"login" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   uint64 `json:"role_id" validate:"required"`
}

type UpdateUserDTO struct {
	Fio      *string `json:"fio,omitempty" validate:"omitempty,min=3"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,phone_number"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	RoleID   *uint64 `json:"role_id,omitempty"`
}

type UserDTO struct {
	ID       uint64 `json:"id"`
	Fio      string `json:"fio"`
	Phone    string `json:"phone"`
	Login    string `json:"login"`
	RoleID   uint64 `json:"role_id"`
	RoleName string `json:"role_name"`
}

type ShortUserDTO struct {
	ID  uint64 `json:"id"`
	Fio string `json:"fio"`
}
