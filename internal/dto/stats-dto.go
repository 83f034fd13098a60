package dto

import "github.com/aarondl/null/v8"

// GroupCountDTO — строка распределения «название → количество».
type GroupCountDTO struct {
	Name  string `json:"name"`
	Count uint64 `json:"count"`
}

type SpecialistLoadDTO struct {
	MasterID       uint64 `json:"master_id"`
	MasterFio      string `json:"master_fio"`
	ActiveRequests uint64 `json:"active_requests"`
}

// StatisticsDTO пересчитывается на каждый запрос, без кеширования.
// AverageRepairTimeDays == null означает «нет данных», а не ноль.
type StatisticsDTO struct {
	TotalRequests         uint64              `json:"total_requests"`
	CompletedRequests     uint64              `json:"completed_requests"`
	AverageRepairTimeDays null.Float64        `json:"average_repair_time_days"`
	ByEquipmentType       []GroupCountDTO     `json:"by_equipment_type"`
	ByIssueType           []GroupCountDTO     `json:"by_issue_type"`
	SpecialistLoad        []SpecialistLoadDTO `json:"specialist_load"`
}
