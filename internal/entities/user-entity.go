package entities

import (
	"github.com/AnimeshnikLeon/climate-app/pkg/types"
)

type User struct {
	ID    uint64 `json:"id" db:"id"`
	Fio   string `json:"fio" db:"fio"`
	Phone string `json:"phone" db:"phone"`
	Login string `json:"login" db:"login"`

	Password string `json:"-" db:"password_hash"`

	RoleID   uint64 `json:"role_id" db:"role_id"`
	RoleName string `json:"role_name" db:"role_name"`

	types.BaseEntity
}

func (u *User) IsManager() bool    { return u.RoleName == RoleManager }
func (u *User) IsOperator() bool   { return u.RoleName == RoleOperator }
func (u *User) IsSpecialist() bool { return u.RoleName == RoleSpecialist }
func (u *User) IsClient() bool     { return u.RoleName == RoleClient }
