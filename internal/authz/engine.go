package authz

import (
	"github.com/AnimeshnikLeon/climate-app/internal/entities"
)

// Действия над заявками и связанными сущностями.
type Action string

const (
	RequestCreate  Action = "requests:create"
	RequestView    Action = "requests:view"
	RequestEdit    Action = "requests:edit"
	RequestDelete  Action = "requests:delete"
	CommentAdd     Action = "comments:add"
	MasterAssign   Action = "requests:assign_master"
	StatusChange   Action = "requests:change_status"
	UsersManage    Action = "users:manage"
	StatisticsView Action = "statistics:view"
)

// RequestState — срез состояния целевой заявки на момент проверки.
// Движок не читает хранилище и ничего не мутирует: все факты
// передаются вызывающей стороной.
type RequestState struct {
	ClientID      uint64
	MasterID      *uint64
	StatusIsFinal bool
}

func (s RequestState) isMaster(userID uint64) bool {
	return s.MasterID != nil && *s.MasterID == userID
}

// CanCreateRequest: Менеджер, Оператор и Заказчик создают заявки.
// Специалист — только по распоряжению оператора или менеджера.
func CanCreateRequest(actor *entities.User) bool {
	switch actor.RoleName {
	case entities.RoleManager, entities.RoleOperator, entities.RoleClient:
		return true
	}
	return false
}

// CanViewRequest: Менеджер и Оператор видят все заявки,
// Специалист — только назначенные на него, Заказчик — только свои.
func CanViewRequest(actor *entities.User, state RequestState) bool {
	switch actor.RoleName {
	case entities.RoleManager, entities.RoleOperator:
		return true
	case entities.RoleSpecialist:
		return state.isMaster(actor.ID)
	case entities.RoleClient:
		return state.ClientID == actor.ID
	}
	return false
}

// CanEditRequest: Менеджер и Оператор правят любые заявки.
// Специалист — свои и только пока статус не финальный,
// Заказчик — свою и только пока статус не финальный.
func CanEditRequest(actor *entities.User, state RequestState) bool {
	switch actor.RoleName {
	case entities.RoleManager, entities.RoleOperator:
		return true
	case entities.RoleSpecialist:
		return state.isMaster(actor.ID) && !state.StatusIsFinal
	case entities.RoleClient:
		return state.ClientID == actor.ID && !state.StatusIsFinal
	}
	return false
}

// CanDeleteRequest: только Менеджер.
func CanDeleteRequest(actor *entities.User) bool {
	return actor.RoleName == entities.RoleManager
}

// CanAddComment: комментирует только специалист, назначенный
// исполнителем заявки.
func CanAddComment(actor *entities.User, state RequestState) bool {
	return actor.RoleName == entities.RoleSpecialist && state.isMaster(actor.ID)
}

// CanAssignMaster: назначение и смена исполнителя — Менеджер и Оператор.
func CanAssignMaster(actor *entities.User) bool {
	switch actor.RoleName {
	case entities.RoleManager, entities.RoleOperator:
		return true
	}
	return false
}

// CanChangeStatus решает, допустим ли переход между статусами.
// Правило про повторное открытие — правило направления перехода,
// а не запрет роли целиком: оно зависит от пары (from.is_final, to.is_final).
func CanChangeStatus(actor *entities.User, fromFinal, toFinal bool) bool {
	switch actor.RoleName {
	case entities.RoleManager, entities.RoleOperator:
		return true
	case entities.RoleSpecialist:
		if fromFinal && !toFinal {
			return false
		}
		return true
	}
	return false
}

// CanManageUsers: справочник пользователей ведёт только Менеджер.
func CanManageUsers(actor *entities.User) bool {
	return actor.RoleName == entities.RoleManager
}

// CanViewStatistics: статистика отдела доступна только Менеджеру.
func CanViewStatistics(actor *entities.User) bool {
	return actor.RoleName == entities.RoleManager
}

// Can — единая точка входа для проверок; state обязателен для действий
// над конкретной заявкой и игнорируется для остальных.
func Can(actor *entities.User, action Action, state *RequestState) bool {
	if actor == nil {
		return false
	}

	switch action {
	case RequestCreate:
		return CanCreateRequest(actor)
	case RequestView:
		return state != nil && CanViewRequest(actor, *state)
	case RequestEdit:
		return state != nil && CanEditRequest(actor, *state)
	case RequestDelete:
		return CanDeleteRequest(actor)
	case CommentAdd:
		return state != nil && CanAddComment(actor, *state)
	case MasterAssign:
		return CanAssignMaster(actor)
	case UsersManage:
		return CanManageUsers(actor)
	case StatisticsView:
		return CanViewStatistics(actor)
	}

	return false
}
