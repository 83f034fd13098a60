package entities

type EquipmentType struct {
	ID   uint64 `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// EquipmentModel уникальна в паре (тип оборудования, название).
type EquipmentModel struct {
	ID              uint64 `json:"id" db:"id"`
	EquipmentTypeID uint64 `json:"equipment_type_id" db:"equipment_type_id"`
	Name            string `json:"name" db:"name"`
}

type IssueType struct {
	ID   uint64 `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
