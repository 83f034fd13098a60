package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/AnimeshnikLeon/climate-app/internal/authz"
	"github.com/AnimeshnikLeon/climate-app/internal/dto"
	"github.com/AnimeshnikLeon/climate-app/internal/entities"
	"github.com/AnimeshnikLeon/climate-app/internal/repositories"
	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
	"github.com/AnimeshnikLeon/climate-app/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, limit, offset uint64) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error)
	GetRoles(ctx context.Context) ([]entities.Role, error)
	GetSpecialists(ctx context.Context) ([]dto.ShortUserDTO, error)
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	roleRepo repositories.RoleRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	roleRepo repositories.RoleRepositoryInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// requireManager: справочник пользователей ведёт только Менеджер.
func (s *UserService) requireManager(ctx context.Context) (*entities.User, error) {
	actor, err := currentActor(ctx, s.userRepo)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageUsers(actor) {
		return nil, apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.UsersManage))
	}
	return actor, nil
}

func (s *UserService) GetUsers(ctx context.Context, limit, offset uint64) ([]dto.UserDTO, uint64, error) {
	if _, err := s.requireManager(ctx); err != nil {
		return nil, 0, err
	}
	return s.userRepo.GetUsers(ctx, limit, offset)
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	if _, err := s.requireManager(ctx); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.UserDTO{
		ID: user.ID, Fio: user.Fio, Phone: user.Phone, Login: user.Login,
		RoleID: user.RoleID, RoleName: user.RoleName,
	}, nil
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	if _, err := s.requireManager(ctx); err != nil {
		return nil, err
	}

	if _, err := s.roleRepo.FindRole(ctx, payload.RoleID); err != nil {
		return nil, apperrors.NewValidationError("роль id=%d не найдена", payload.RoleID)
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.userRepo.CreateUser(ctx, payload, hash)
	if err != nil {
		return nil, err
	}
	s.logger.Info("создан пользователь",
		zap.Uint64("id", created.ID), zap.String("role", created.RoleName))
	return created, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error) {
	if _, err := s.requireManager(ctx); err != nil {
		return nil, err
	}

	if payload.RoleID != nil {
		if _, err := s.roleRepo.FindRole(ctx, *payload.RoleID); err != nil {
			return nil, apperrors.NewValidationError("роль id=%d не найдена", *payload.RoleID)
		}
	}

	var hash *string
	if payload.Password != nil {
		h, err := utils.HashPassword(*payload.Password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}

	return s.userRepo.UpdateUser(ctx, id, payload, hash)
}

func (s *UserService) GetRoles(ctx context.Context) ([]entities.Role, error) {
	if _, err := s.requireManager(ctx); err != nil {
		return nil, err
	}
	return s.roleRepo.GetRoles(ctx)
}

// GetSpecialists — список возможных исполнителей для назначения на заявку.
// Доступен Менеджеру и Оператору.
func (s *UserService) GetSpecialists(ctx context.Context) ([]dto.ShortUserDTO, error) {
	actor, err := currentActor(ctx, s.userRepo)
	if err != nil {
		return nil, err
	}
	if !authz.CanAssignMaster(actor) {
		return nil, apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.MasterAssign))
	}
	return s.userRepo.GetUsersByRole(ctx, entities.RoleSpecialist)
}
