package dto

import (
	"github.com/aarondl/null/v8"
)

// CreateRequestDTO: для Заказчика client_id подставляется из контекста,
// модель оборудования задаётся названием и создаётся при отсутствии.
type CreateRequestDTO struct {
	StartDate          string      `json:"start_date" validate:"required,datetime=2006-01-02"`
	EquipmentTypeID    uint64      `json:"equipment_type_id" validate:"required"`
	EquipmentModelName string      `json:"equipment_model_name" validate:"required,min=1"`
	IssueTypeID        null.Uint64 `json:"issue_type_id,omitempty"`
	ProblemDescription string      `json:"problem_description" validate:"required,min=1"`
	StatusID           null.Uint64 `json:"status_id,omitempty"`
	CompletionDate     null.String `json:"completion_date,omitempty" validate:"omitempty"`
	RepairParts        null.String `json:"repair_parts,omitempty"`
	MasterID           null.Uint64 `json:"master_id,omitempty"`
	ClientID           null.Uint64 `json:"client_id,omitempty"`
}

// UpdateRequestDTO: присланные поля меняются, остальные не трогаются.
type UpdateRequestDTO struct {
	StartDate          *string     `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EquipmentTypeID    *uint64     `json:"equipment_type_id,omitempty"`
	EquipmentModelName *string     `json:"equipment_model_name,omitempty" validate:"omitempty,min=1"`
	IssueTypeID        *uint64     `json:"issue_type_id,omitempty"`
	ProblemDescription *string     `json:"problem_description,omitempty" validate:"omitempty,min=1"`
	StatusID           *uint64     `json:"status_id,omitempty"`
	CompletionDate     null.String `json:"completion_date,omitempty" validate:"omitempty"`
	RepairParts        null.String `json:"repair_parts,omitempty"`
	MasterID           null.Uint64 `json:"master_id,omitempty"`
}

type RequestDTO struct {
	ID                 uint64            `json:"id"`
	StartDate          string            `json:"start_date"`
	EquipmentType      EquipmentTypeDTO  `json:"equipment_type"`
	EquipmentModel     EquipmentModelDTO `json:"equipment_model"`
	IssueType          IssueTypeDTO      `json:"issue_type"`
	ProblemDescription string            `json:"problem_description"`
	Status             StatusDTO         `json:"status"`
	CompletionDate     null.String       `json:"completion_date"`
	RepairParts        null.String       `json:"repair_parts"`
	Master             *ShortUserDTO     `json:"master,omitempty"`
	Client             ShortUserDTO      `json:"client"`
	CreatedAt          string            `json:"created_at"`
	UpdatedAt          string            `json:"updated_at"`
}

// RequestFilter — условия выборки списка заявок.
// Search: числом — точный id, иначе поиск по описанию проблемы.
type RequestFilter struct {
	Search          string
	StatusID        uint64
	EquipmentTypeID uint64
	IssueTypeID     uint64
	Limit           uint64
	Offset          uint64
}
