package entities

import (
	"time"

	"github.com/AnimeshnikLeon/climate-app/pkg/types"
)

// RepairRequest — корневой агрегат: заявка на ремонт климатического
// оборудования. Комментарии принадлежат заявке и удаляются вместе с ней.
type RepairRequest struct {
	ID        uint64    `json:"id" db:"id"`
	StartDate time.Time `json:"start_date" db:"start_date"`

	EquipmentModelID uint64 `json:"equipment_model_id" db:"equipment_model_id"`
	IssueTypeID      uint64 `json:"issue_type_id" db:"issue_type_id"`

	ProblemDescription string `json:"problem_description" db:"problem_description"`

	StatusID       uint64     `json:"status_id" db:"status_id"`
	CompletionDate *time.Time `json:"completion_date" db:"completion_date"`

	RepairParts *string `json:"repair_parts" db:"repair_parts"`

	MasterID *uint64 `json:"master_id" db:"master_id"`
	ClientID uint64  `json:"client_id" db:"client_id"`

	types.BaseEntity
}

type RequestComment struct {
	ID        uint64    `json:"id" db:"id"`
	RequestID uint64    `json:"request_id" db:"request_id"`
	MasterID  uint64    `json:"master_id" db:"master_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
