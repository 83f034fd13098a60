package services

import (
	"context"

	"github.com/AnimeshnikLeon/climate-app/internal/entities"
	"github.com/AnimeshnikLeon/climate-app/internal/repositories"
	"github.com/AnimeshnikLeon/climate-app/pkg/utils"
)

// currentActor достаёт пользователя, от имени которого пришёл запрос.
// Роль актора нужна каждому сервису: все проверки прав завязаны на неё.
func currentActor(ctx context.Context, userRepo repositories.UserRepositoryInterface) (*entities.User, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return userRepo.FindUser(ctx, userID)
}
