package dto

type StatusDTO struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	IsFinal bool   `json:"is_final"`
}

type EquipmentTypeDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type EquipmentModelDTO struct {
	ID              uint64 `json:"id"`
	EquipmentTypeID uint64 `json:"equipment_type_id"`
	Name            string `json:"name"`
}

type IssueTypeDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ReferenceLookupsDTO — набор справочников для фильтров и форм заявок.
type ReferenceLookupsDTO struct {
	Statuses       []StatusDTO        `json:"statuses"`
	EquipmentTypes []EquipmentTypeDTO `json:"equipment_types"`
	IssueTypes     []IssueTypeDTO     `json:"issue_types"`
}
