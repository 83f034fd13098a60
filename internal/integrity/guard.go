// Пакет integrity — прикладная половина слоя целостности.
// Те же правила повторены в триггерах БД (migrations), чтобы прямые
// записи в хранилище мимо приложения давали те же гарантии.
package integrity

import (
	"context"
	"time"

	"github.com/AnimeshnikLeon/climate-app/internal/entities"
	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
)

// Resolver отдаёт факты о ссылках заявки из той же транзакции,
// в которой выполняется запись.
type Resolver interface {
	RoleNameByUserID(ctx context.Context, userID uint64) (string, error)
	StatusIsFinal(ctx context.Context, statusID uint64) (bool, error)
}

type Guard struct {
	resolver Resolver
}

func NewGuard(resolver Resolver) *Guard {
	return &Guard{resolver: resolver}
}

// CheckRequest проверяет и нормализует заявку перед каждой записью:
// роль заказчика, роль исполнителя, автозаполнение даты завершения при
// финальном статусе, порядок дат, обновление updated_at. Вызывается
// внутри мутирующей транзакции; состояние между вызовами не хранится.
func (g *Guard) CheckRequest(ctx context.Context, req *entities.RepairRequest, now time.Time) error {
	clientRole, err := g.resolver.RoleNameByUserID(ctx, req.ClientID)
	if err != nil {
		return apperrors.NewIntegrityViolationError("заказчик id=%d не найден", req.ClientID)
	}
	if clientRole != entities.RoleClient {
		return apperrors.NewIntegrityViolationError(
			"client_id=%d ссылается на пользователя с ролью «%s», ожидается «%s»",
			req.ClientID, clientRole, entities.RoleClient)
	}

	if req.MasterID != nil {
		masterRole, err := g.resolver.RoleNameByUserID(ctx, *req.MasterID)
		if err != nil {
			return apperrors.NewIntegrityViolationError("исполнитель id=%d не найден", *req.MasterID)
		}
		if masterRole != entities.RoleSpecialist {
			return apperrors.NewIntegrityViolationError(
				"master_id=%d ссылается на пользователя с ролью «%s», ожидается «%s»",
				*req.MasterID, masterRole, entities.RoleSpecialist)
		}
	}

	isFinal, err := g.resolver.StatusIsFinal(ctx, req.StatusID)
	if err != nil {
		return apperrors.NewIntegrityViolationError("статус id=%d не найден", req.StatusID)
	}
	if isFinal && req.CompletionDate == nil {
		// день берём в зоне now, как CURRENT_DATE в триггере
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		req.CompletionDate = &today
	}

	if req.CompletionDate != nil && req.CompletionDate.Before(req.StartDate) {
		return apperrors.NewIntegrityViolationError(
			"дата завершения %s раньше даты начала %s",
			req.CompletionDate.Format("2006-01-02"), req.StartDate.Format("2006-01-02"))
	}

	req.UpdatedAt = &now
	return nil
}

// CheckComment: автор комментария обязан иметь роль «Специалист».
func (g *Guard) CheckComment(ctx context.Context, comment *entities.RequestComment, now time.Time) error {
	role, err := g.resolver.RoleNameByUserID(ctx, comment.MasterID)
	if err != nil {
		return apperrors.NewIntegrityViolationError("автор комментария id=%d не найден", comment.MasterID)
	}
	if role != entities.RoleSpecialist {
		return apperrors.NewIntegrityViolationError(
			"комментарий от пользователя с ролью «%s», ожидается «%s»",
			role, entities.RoleSpecialist)
	}

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	return nil
}
